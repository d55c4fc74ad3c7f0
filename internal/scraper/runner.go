package scraper

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"filmhub/internal/searchlog"
	"filmhub/pkg/models"
)

// MegogoSource is the primary catalog source. Its metadata wins whenever
// a title resolves there.
type MegogoSource interface {
	Search(query string) ([]models.Candidate, error)
	Detail(pageURL string) (*models.SourceDetail, error)
	BaseURL() string
}

// SweetTVSource is the secondary source. Full metadata is only pulled
// when the primary source missed the title.
type SweetTVSource interface {
	Search(query string, wantPoster bool) ([]models.Candidate, error)
	Detail(pageURL string, full bool) (*models.SourceDetail, error)
	BaseURL() string
}

// EventPublisher is notified after each committed film so listeners can
// react to catalog changes. Publish failures must not stop a run.
type EventPublisher interface {
	FilmCommitted(filmID int64, name string)
}

const defaultQueryLimit = 50

// Runner drives the two-source resolution pipeline over the search queue
// or the whole stored catalog.
type Runner struct {
	DB         *sql.DB
	Megogo     MegogoSource
	SweetTV    SweetTVSource
	Queue      *searchlog.Repo
	Events     EventPublisher
	QueryLimit int
}

// fetched bundles everything both sources returned for one query.
type fetched struct {
	megogo        *models.SourceDetail
	sweettv       *models.SourceDetail
	megogoPoster  *string
	sweettvPoster *string
}

// fetch resolves a query against both sources. The sweet.tv poster is only
// requested when megogo produced none, and sweet.tv metadata is only
// pulled in full when megogo missed the title entirely.
func (r *Runner) fetch(query string) *fetched {
	out := &fetched{}

	megogoCards, err := r.Megogo.Search(query)
	if err != nil {
		log.Printf("[runner] megogo search %q: %v", query, err)
	} else if match := ResolveIdentity(query, megogoCards, r.Megogo.BaseURL()); match != nil {
		out.megogoPoster = strPtr(match.PosterURL)
		detail, err := r.Megogo.Detail(match.URL)
		if err != nil {
			log.Printf("[runner] megogo detail %q: %v", query, err)
		} else {
			out.megogo = detail
		}
	}

	full := out.megogo == nil
	needPoster := out.megogoPoster == nil && (out.megogo == nil || out.megogo.PosterURL == nil)

	sweettvCards, err := r.SweetTV.Search(query, needPoster)
	if err != nil {
		log.Printf("[runner] sweet.tv search %q: %v", query, err)
	} else if match := ResolveIdentity(query, sweettvCards, r.SweetTV.BaseURL()); match != nil {
		detail, err := r.SweetTV.Detail(match.URL, full)
		if err != nil {
			log.Printf("[runner] sweet.tv detail %q: %v", query, err)
		} else if detail != nil {
			// The card poster only counts once the page itself parsed.
			out.sweettv = detail
			out.sweettvPoster = strPtr(match.PosterURL)
		}
	}

	if out.megogo == nil && out.sweettv == nil {
		return nil
	}
	return out
}

// commit runs the merge inside one transaction. filmID < 1 means look the
// film up by normalized name and create it when absent.
func (r *Runner) commit(ctx context.Context, caches *Caches, filmID int64, data *fetched) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	store := NewStore(tx)

	if filmID < 1 {
		primary := data.megogo
		if primary == nil {
			primary = data.sweettv
		}
		id, found, err := store.FilmIDByNormalizedName(ctx, primary.NormalizedName)
		if err != nil {
			tx.Rollback()
			return 0, err
		}
		if found {
			filmID = id
		} else {
			filmID, err = store.CreateFilm(ctx, primary.Name, primary.NormalizedName)
			if err != nil {
				tx.Rollback()
				return 0, err
			}
		}
	}

	coord := NewCoordinator(caches)
	if err := coord.Reconcile(ctx, store, filmID, data.megogo, data.sweettv, data.megogoPoster, data.sweettvPoster); err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit film %d: %w", filmID, err)
	}
	return filmID, nil
}

func (r *Runner) publish(filmID int64, data *fetched) {
	if r.Events == nil {
		return
	}
	name := ""
	if data.megogo != nil {
		name = data.megogo.Name
	} else if data.sweettv != nil {
		name = data.sweettv.Name
	}
	r.Events.FilmCommitted(filmID, name)
}

// RunDaily drains the unprocessed search queue. Queries that resolve on
// neither source are still marked processed so they stop recycling;
// queries whose merge failed stay open for the next run.
func (r *Runner) RunDaily(ctx context.Context) error {
	caches, err := LoadCaches(ctx, r.DB)
	if err != nil {
		return err
	}

	limit := r.QueryLimit
	if limit < 1 {
		limit = defaultQueryLimit
	}
	entries, err := r.Queue.Unprocessed(ctx, limit)
	if err != nil {
		return err
	}
	log.Printf("[runner] daily run: %d queued queries", len(entries))

	for _, entry := range entries {
		data := r.fetch(entry.QueryText)
		if data == nil {
			log.Printf("[runner] %q not found on any source", entry.QueryText)
			if err := r.Queue.MarkProcessed(ctx, entry.LogID); err != nil {
				log.Printf("[runner] mark processed %d: %v", entry.LogID, err)
			}
			continue
		}

		filmID, err := r.commit(ctx, caches, 0, data)
		if err != nil {
			log.Printf("[runner] save %q: %v", entry.QueryText, err)
			continue
		}
		if err := r.Queue.MarkProcessed(ctx, entry.LogID); err != nil {
			log.Printf("[runner] mark processed %d: %v", entry.LogID, err)
		}
		r.publish(filmID, data)
	}
	return nil
}

// RunRefresh re-resolves every stored film by its saved name, refreshing
// metadata, pricing and availability in place.
func (r *Runner) RunRefresh(ctx context.Context) error {
	caches, err := LoadCaches(ctx, r.DB)
	if err != nil {
		return err
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT id, name FROM films ORDER BY id`)
	if err != nil {
		return fmt.Errorf("list films: %w", err)
	}
	defer rows.Close()

	type filmRow struct {
		id   int64
		name string
	}
	var films []filmRow
	for rows.Next() {
		var f filmRow
		if err := rows.Scan(&f.id, &f.name); err != nil {
			return fmt.Errorf("scan film: %w", err)
		}
		films = append(films, f)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("film rows: %w", err)
	}
	log.Printf("[runner] refresh run: %d films", len(films))

	for _, film := range films {
		data := r.fetch(film.name)
		if data == nil {
			log.Printf("[runner] %q no longer found on any source", film.name)
			continue
		}

		if _, err := r.commit(ctx, caches, film.id, data); err != nil {
			log.Printf("[runner] refresh film %d: %v", film.id, err)
			continue
		}
		r.publish(film.id, data)
	}
	return nil
}
