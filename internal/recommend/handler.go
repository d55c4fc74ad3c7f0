package recommend

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"filmhub/internal/auth"
)

type Handler struct {
	Service *Service
	Tokens  auth.TokenService
	Users   *auth.Repo
}

func NewHandler(service *Service, tokens auth.TokenService, users *auth.Repo) *Handler {
	return &Handler{Service: service, Tokens: tokens, Users: users}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", auth.AuthMiddleware(h.Tokens, h.Users), h.forUser)
}

func (h *Handler) forUser(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	items, personalized, err := h.Service.ForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "recommendations failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"personalized": personalized,
		"items":        items,
	})
}
