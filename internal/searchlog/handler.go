package searchlog

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Suggestion is one film name match for the search box.
type Suggestion struct {
	FilmID    int64  `json:"film_id"`
	Name      string `json:"name"`
	PosterURL string `json:"poster_url,omitempty"`
}

type Handler struct {
	DB    *sql.DB
	Queue *Repo
}

func NewHandler(db *sql.DB, queue *Repo) *Handler {
	return &Handler{DB: db, Queue: queue}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.suggest) // GET /search?q=
}

// suggest returns film-name matches for a partial query. A query that
// matches nothing gets queued for the daily parser, so searching is also
// how new titles enter the catalog.
func (h *Handler) suggest(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusOK, gin.H{"items": []Suggestion{}})
		return
	}

	items, err := h.matches(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	if len(items) == 0 && Valid(q) {
		if err := h.Queue.Log(c.Request.Context(), q); err != nil {
			log.Printf("[search] queue %q: %v", q, err)
		}
	}

	if items == nil {
		items = []Suggestion{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) matches(ctx context.Context, q string) ([]Suggestion, error) {
	rows, err := h.DB.QueryContext(ctx, `
		SELECT id, name, COALESCE(poster_url, '')
		FROM films
		WHERE LOWER(name) LIKE ? OR normalized_name LIKE ?
		ORDER BY name
		LIMIT 10
	`, "%"+strings.ToLower(q)+"%", "%"+strings.ToLower(q)+"%")
	if err != nil {
		return nil, fmt.Errorf("suggestions: %w", err)
	}
	defer rows.Close()

	var items []Suggestion
	for rows.Next() {
		var s Suggestion
		if err := rows.Scan(&s.FilmID, &s.Name, &s.PosterURL); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("suggestion rows: %w", err)
	}
	return items, nil
}
