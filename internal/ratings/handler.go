package ratings

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"filmhub/internal/auth"
)

type Handler struct {
	Repo   *Repo
	Tokens auth.TokenService
	Users  *auth.Repo
}

func NewHandler(repo *Repo, tokens auth.TokenService, users *auth.Repo) *Handler {
	return &Handler{Repo: repo, Tokens: tokens, Users: users}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	protected := rg.Group("", auth.AuthMiddleware(h.Tokens, h.Users))
	protected.PUT("/:id/rating", h.set)
	protected.GET("/:id/rating", h.get)
	protected.DELETE("/:id/rating", h.remove)
	rg.GET("/:id/rating/average", h.average)
}

type setReq struct {
	Rating int `json:"rating"`
}

func (h *Handler) set(c *gin.Context) {
	filmID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad id"})
		return
	}

	var req setReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Rating < 0 || req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be 0-5"})
		return
	}

	claims := auth.MustGetClaims(c)
	if err := h.Repo.Set(c.Request.Context(), claims.UserID, filmID, req.Rating); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "set rating failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rated"})
}

func (h *Handler) get(c *gin.Context) {
	filmID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad id"})
		return
	}

	claims := auth.MustGetClaims(c)
	rating, err := h.Repo.Get(c.Request.Context(), claims.UserID, filmID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get rating failed"})
		return
	}
	if rating == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not rated"})
		return
	}
	c.JSON(http.StatusOK, rating)
}

func (h *Handler) remove(c *gin.Context) {
	filmID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad id"})
		return
	}

	claims := auth.MustGetClaims(c)
	if err := h.Repo.Delete(c.Request.Context(), claims.UserID, filmID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete rating failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) average(c *gin.Context) {
	filmID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad id"})
		return
	}

	avg, count, err := h.Repo.Average(c.Request.Context(), filmID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "average failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"avg_rating": avg, "vote_count": count})
}
