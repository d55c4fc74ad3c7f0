package scraper

import (
	"context"
	"database/sql"
	"fmt"

	"filmhub/pkg/models"
)

// dbStore implements Store on one film's transaction.
type dbStore struct {
	tx *sql.Tx
}

// NewStore wraps a per-film transaction in the Store contract the
// coordinator expects.
func NewStore(tx *sql.Tx) Store {
	return &dbStore{tx: tx}
}

func (s *dbStore) FilmIDByNormalizedName(ctx context.Context, key string) (int64, bool, error) {
	var id int64
	err := s.tx.QueryRowContext(ctx, `
		SELECT id FROM films WHERE normalized_name = ?
	`, key).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("film by normalized name: %w", err)
	}
	return id, true, nil
}

func (s *dbStore) CreateFilm(ctx context.Context, name, normalizedName string) (int64, error) {
	res, err := s.tx.ExecContext(ctx, `
		INSERT INTO films (name, normalized_name) VALUES (?, ?)
	`, name, normalizedName)
	if err != nil {
		return 0, fmt.Errorf("insert film: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("film insert id: %w", err)
	}
	return id, nil
}

func (s *dbStore) UpdateFilm(ctx context.Context, filmID int64, d *models.SourceDetail, posterURL *string) error {
	_, err := s.tx.ExecContext(ctx, `
		UPDATE films
		SET url = ?, poster_url = ?, age_limit = ?, imdb_rating = ?,
		    description = ?, duration = ?, release_year = ?, country = ?
		WHERE id = ?
	`, d.URL, posterURL, d.AgeLimit, d.IMDBRating,
		d.Description, d.Duration, d.ReleaseYear, d.Country, filmID)
	if err != nil {
		return fmt.Errorf("update film %d: %w", filmID, err)
	}
	return nil
}

func (s *dbStore) SetSweetTVURL(ctx context.Context, filmID int64, url *string) error {
	_, err := s.tx.ExecContext(ctx, `
		UPDATE films SET url_sweet_tv = ? WHERE id = ?
	`, url, filmID)
	if err != nil {
		return fmt.Errorf("update sweet.tv url for film %d: %w", filmID, err)
	}
	return nil
}

// GetOrCreateGenre looks the genre up by exact name and inserts it when
// missing. A failed insert is retried as a lookup: a uniqueness conflict
// just means a concurrent writer got there first.
func (s *dbStore) GetOrCreateGenre(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.tx.QueryRowContext(ctx, `
		SELECT genre_id FROM genre WHERE name = ?
	`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("select genre %q: %w", name, err)
	}

	res, insertErr := s.tx.ExecContext(ctx, `
		INSERT INTO genre (name) VALUES (?)
	`, name)
	if insertErr == nil {
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("genre insert id: %w", err)
		}
		return id, nil
	}

	// Re-read before giving up; the row may exist now.
	err = s.tx.QueryRowContext(ctx, `
		SELECT genre_id FROM genre WHERE name = ?
	`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert genre %q: %w", name, insertErr)
	}
	return id, nil
}

func (s *dbStore) ReplaceGenres(ctx context.Context, filmID int64, genreIDs []int64) error {
	if _, err := s.tx.ExecContext(ctx, `
		DELETE FROM film_genre WHERE film_id = ?
	`, filmID); err != nil {
		return fmt.Errorf("clear genres for film %d: %w", filmID, err)
	}

	for _, genreID := range genreIDs {
		if _, err := s.tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO film_genre (film_id, genre_id) VALUES (?, ?)
		`, filmID, genreID); err != nil {
			return fmt.Errorf("link film %d genre %d: %w", filmID, genreID, err)
		}
	}
	return nil
}

func (s *dbStore) ReplaceOptions(ctx context.Context, filmID, platformID int64, rows []models.AccessOption) error {
	if _, err := s.tx.ExecContext(ctx, `
		DELETE FROM film_platform WHERE film_id = ? AND platform_id = ?
	`, filmID, platformID); err != nil {
		return fmt.Errorf("clear options for film %d platform %d: %w", filmID, platformID, err)
	}

	for _, row := range rows {
		if _, err := s.tx.ExecContext(ctx, `
			INSERT INTO film_platform (film_id, platform_id, access_type, price)
			VALUES (?, ?, ?, ?)
		`, row.FilmID, row.PlatformID, row.AccessType, row.Price); err != nil {
			return fmt.Errorf("insert option for film %d platform %d: %w", filmID, platformID, err)
		}
	}
	return nil
}

// LoadCaches reads the full platform and genre tables into the per-run
// name→id maps. Platforms are an external precondition: an empty platform
// table is an error, an empty genre table is not.
func LoadCaches(ctx context.Context, db *sql.DB) (*Caches, error) {
	caches := &Caches{
		Genres:    make(map[string]int64),
		Platforms: make(map[string]int64),
	}

	rows, err := db.QueryContext(ctx, `SELECT platform_id, name FROM platform`)
	if err != nil {
		return nil, fmt.Errorf("load platforms: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan platform: %w", err)
		}
		caches.Platforms[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("platform rows: %w", err)
	}
	if len(caches.Platforms) == 0 {
		return nil, fmt.Errorf("platform table is empty; run migrations first")
	}

	genreRows, err := db.QueryContext(ctx, `SELECT genre_id, name FROM genre`)
	if err != nil {
		return nil, fmt.Errorf("load genres: %w", err)
	}
	defer genreRows.Close()
	for genreRows.Next() {
		var id int64
		var name string
		if err := genreRows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		caches.Genres[name] = id
	}
	if err := genreRows.Err(); err != nil {
		return nil, fmt.Errorf("genre rows: %w", err)
	}

	return caches, nil
}
