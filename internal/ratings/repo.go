package ratings

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type Rating struct {
	UserID  string    `json:"user_id"`
	FilmID  int64     `json:"film_id"`
	Rating  int       `json:"rating"`
	RatedAt time.Time `json:"rated_at"`
}

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Set stores or replaces the user's rating for a film.
func (r *Repo) Set(ctx context.Context, userID string, filmID int64, rating int) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO ratings (user_id, film_id, rating, rated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, film_id) DO UPDATE SET
			rating = excluded.rating,
			rated_at = CURRENT_TIMESTAMP
	`, userID, filmID, rating)
	if err != nil {
		return fmt.Errorf("set rating: %w", err)
	}
	return nil
}

// Get returns the user's rating for a film, or nil when they have none.
func (r *Repo) Get(ctx context.Context, userID string, filmID int64) (*Rating, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT user_id, film_id, rating, rated_at
		FROM ratings
		WHERE user_id = ? AND film_id = ?
	`, userID, filmID)

	var rt Rating
	if err := row.Scan(&rt.UserID, &rt.FilmID, &rt.Rating, &rt.RatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return &rt, nil
}

func (r *Repo) Delete(ctx context.Context, userID string, filmID int64) error {
	_, err := r.DB.ExecContext(ctx, `
		DELETE FROM ratings WHERE user_id = ? AND film_id = ?
	`, userID, filmID)
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	return nil
}

// Average returns the mean rating and vote count for a film. A film nobody
// rated yet averages zero over zero votes.
func (r *Repo) Average(ctx context.Context, filmID int64) (float64, int64, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM ratings
		WHERE film_id = ?
	`, filmID)

	var avg float64
	var count int64
	if err := row.Scan(&avg, &count); err != nil {
		return 0, 0, fmt.Errorf("average rating: %w", err)
	}
	return avg, count, nil
}
