package searchlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Entry is one queued query waiting for catalog resolution.
type Entry struct {
	LogID       int64     `json:"log_id"`
	QueryText   string    `json:"query_text"`
	SearchCount int64     `json:"search_count"`
	IsProcessed bool      `json:"is_processed"`
	LastSearch  time.Time `json:"last_search"`
}

// Repo persists the search queue that feeds the catalog refresh runs.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Log records a user query. Repeats bump the counter and reopen the entry
// so the next run picks it up again. Queries shorter than three runes are
// dropped without error.
func (r *Repo) Log(ctx context.Context, query string) error {
	q := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(q)) < 3 {
		return nil
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO search_log (query_text, search_count, is_processed, last_searched_at)
		VALUES (?, 1, 0, CURRENT_TIMESTAMP)
		ON CONFLICT(query_text) DO UPDATE SET
			search_count = search_count + 1,
			is_processed = 0,
			last_searched_at = CURRENT_TIMESTAMP
	`, q)
	if err != nil {
		return fmt.Errorf("log search %q: %w", q, err)
	}
	return nil
}

// Unprocessed returns the oldest open entries, most searched first.
func (r *Repo) Unprocessed(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT log_id, query_text, search_count, is_processed, last_searched_at
		FROM search_log
		WHERE is_processed = 0
		ORDER BY search_count DESC, last_searched_at ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("unprocessed queries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.LogID, &e.QueryText, &e.SearchCount, &e.IsProcessed, &e.LastSearch); err != nil {
			return nil, fmt.Errorf("scan search entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search entries: %w", err)
	}
	return entries, nil
}

func (r *Repo) MarkProcessed(ctx context.Context, logID int64) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE search_log SET is_processed = 1 WHERE log_id = ?
	`, logID)
	if err != nil {
		return fmt.Errorf("mark query %d processed: %w", logID, err)
	}
	return nil
}
