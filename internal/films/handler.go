package films

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"filmhub/internal/searchlog"
)

type Handler struct {
	Repo  *Repo
	Queue *searchlog.Repo
}

func NewHandler(repo *Repo, queue *searchlog.Repo) *Handler {
	return &Handler{Repo: repo, Queue: queue}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)            // GET /films
	rg.GET("/top", h.top)         // GET /films/top
	rg.GET("/filters", h.filters) // GET /films/filters
	rg.GET("/:id", h.getByID)     // GET /films/:id
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Q:            c.Query("q"),
		Genres:       multiValue(c, "genres"),
		GenreID:      int64(parseInt(c.Query("genre_id"), 0)),
		PlatformID:   int64(parseInt(c.Query("platform_id"), 0)),
		Countries:    multiValue(c, "countries"),
		YearFrom:     parseInt(c.Query("year_from"), 0),
		YearTo:       parseInt(c.Query("year_to"), 0),
		DurationFrom: parseInt(c.Query("duration_from"), 0),
		DurationTo:   parseInt(c.Query("duration_to"), 0),
		Access:       multiValue(c, "access"),
	}
	if s := c.Query("imdb_min"); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			q.MinIMDB = v
		}
	}

	items, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	// A keyword that found nothing feeds the acquisition queue. Queueing
	// is best effort; the empty result still goes out.
	if len(items) == 0 && searchlog.Valid(q.Q) {
		if err := h.Queue.Log(c.Request.Context(), q.Q); err != nil {
			log.Printf("[films] queue %q: %v", q.Q, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total": len(items),
		"items": items,
	})
}

func (h *Handler) top(c *gin.Context) {
	items, err := h.Repo.Top(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "top failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) filters(c *gin.Context) {
	meta, err := h.Repo.FilterMetadata(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "filters failed"})
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (h *Handler) getByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad id"})
		return
	}
	details, err := h.Repo.GetDetails(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if details == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, details)
}

// multiValue accepts both repeated params and one comma-joined param.
func multiValue(c *gin.Context, key string) []string {
	values := c.QueryArray(key)
	if len(values) == 0 {
		if s := c.Query(key); s != "" {
			values = strings.Split(s, ",")
		}
	}
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
