package recommend

import (
	"context"
	"database/sql"
	"fmt"
)

// Item is one recommended film with the overlap score that ranked it.
type Item struct {
	FilmID     int64   `json:"film_id"`
	Name       string  `json:"name"`
	PosterURL  string  `json:"poster_url"`
	IMDBRating string  `json:"imdb_rating"`
	Score      int64   `json:"score"`
	AvgRating  float64 `json:"avg_rating"`
}

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// ForUser runs user-to-user collaborative filtering: find users who rated
// the same films highly (4+) as the target, then count how often those
// users highly rated films the target has not seen. More overlapping fans
// means a higher score.
func (r *Repo) ForUser(ctx context.Context, userID string, limit int) ([]Item, error) {
	rows, err := r.DB.QueryContext(ctx, `
		WITH target_high_ratings AS (
			SELECT film_id FROM ratings
			WHERE user_id = ? AND rating >= 4
		),
		similar_users AS (
			SELECT DISTINCT r.user_id FROM ratings r
			JOIN target_high_ratings t ON t.film_id = r.film_id
			WHERE r.user_id != ? AND r.rating >= 4
		),
		candidates AS (
			SELECT r.film_id, COUNT(*) AS score
			FROM ratings r
			JOIN similar_users su ON su.user_id = r.user_id
			WHERE r.rating >= 4
			  AND r.film_id NOT IN (SELECT film_id FROM ratings WHERE user_id = ?)
			GROUP BY r.film_id
		)
		SELECT f.id, f.name, COALESCE(f.poster_url, ''), COALESCE(f.imdb_rating, ''),
		       c.score, COALESCE(AVG(allr.rating), 0) AS avg_rating
		FROM candidates c
		JOIN films f ON f.id = c.film_id
		LEFT JOIN ratings allr ON allr.film_id = f.id
		GROUP BY f.id
		ORDER BY c.score DESC, avg_rating DESC
		LIMIT ?
	`, userID, userID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recommendations: %w", err)
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.FilmID, &item.Name, &item.PosterURL, &item.IMDBRating, &item.Score, &item.AvgRating); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recommendation rows: %w", err)
	}
	return out, nil
}

// TopByIMDB is the cold-start fallback when collaborative filtering has
// nothing to say about a user yet.
func (r *Repo) TopByIMDB(ctx context.Context, limit int) ([]Item, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT f.id, f.name, COALESCE(f.poster_url, ''), COALESCE(f.imdb_rating, ''),
		       0 AS score, COALESCE(AVG(r.rating), 0) AS avg_rating
		FROM films f
		LEFT JOIN ratings r ON r.film_id = f.id
		WHERE f.imdb_rating IS NOT NULL AND f.imdb_rating != ''
		GROUP BY f.id
		ORDER BY CAST(f.imdb_rating AS REAL) DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("top fallback: %w", err)
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.FilmID, &item.Name, &item.PosterURL, &item.IMDBRating, &item.Score, &item.AvgRating); err != nil {
			return nil, fmt.Errorf("scan fallback: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fallback rows: %w", err)
	}
	return out, nil
}
