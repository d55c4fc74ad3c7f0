package scraper

import (
	"context"
	"fmt"
	"log"
	"strings"

	"filmhub/pkg/models"
)

// The two known platforms. They are seeded by the schema migration; the
// parser never creates platforms.
const (
	PlatformMegogo  = "Megogo"
	PlatformSweetTV = "Sweet.tv"
)

// Store is the persistence surface the coordinator drives. Implementations
// are expected to be scoped to one film's transaction: the coordinator never
// commits or rolls back itself, it only reports failure so the caller can
// decide.
type Store interface {
	FilmIDByNormalizedName(ctx context.Context, key string) (int64, bool, error)
	CreateFilm(ctx context.Context, name, normalizedName string) (int64, error)
	UpdateFilm(ctx context.Context, filmID int64, d *models.SourceDetail, posterURL *string) error
	SetSweetTVURL(ctx context.Context, filmID int64, url *string) error
	GetOrCreateGenre(ctx context.Context, name string) (int64, error)
	ReplaceGenres(ctx context.Context, filmID int64, genreIDs []int64) error
	ReplaceOptions(ctx context.Context, filmID, platformID int64, rows []models.AccessOption) error
}

// Caches hold the per-run name→id lookups. Both maps are built once at run
// start and extended in place only by the single processing goroutine, so
// they need no locking.
type Caches struct {
	Genres    map[string]int64
	Platforms map[string]int64
}

// Coordinator combines up to two per-source detail extracts into one
// canonical film state and drives its persistence.
type Coordinator struct {
	Caches *Caches
}

func NewCoordinator(caches *Caches) *Coordinator {
	return &Coordinator{Caches: caches}
}

// Reconcile rewrites the canonical projection of one film from whichever of
// the two source extracts are present (at least one must be). Megogo is
// authoritative for scalar metadata; Sweet.tv contributes pricing, the
// secondary URL, and metadata only when Megogo matched nothing. The poster
// falls back through: primary extract, Megogo search card, Sweet.tv search
// card. Genre links and per-platform option rows are replaced wholesale,
// never diffed.
//
// Any failure is logged with the film id and returned unwrapped in meaning:
// the enclosing per-film transaction decides whether to roll back.
func (c *Coordinator) Reconcile(ctx context.Context, store Store, filmID int64, megogo, sweettv *models.SourceDetail, megogoPoster, sweettvPoster *string) error {
	if err := c.reconcile(ctx, store, filmID, megogo, sweettv, megogoPoster, sweettvPoster); err != nil {
		log.Printf("[reconcile] film %d: %v", filmID, err)
		return err
	}
	return nil
}

func (c *Coordinator) reconcile(ctx context.Context, store Store, filmID int64, megogo, sweettv *models.SourceDetail, megogoPoster, sweettvPoster *string) error {
	full := megogo
	if full == nil {
		full = sweettv
	}

	if full != nil {
		poster := full.PosterURL
		if poster == nil {
			poster = megogoPoster
		}
		if poster == nil {
			poster = sweettvPoster
		}

		if err := store.UpdateFilm(ctx, filmID, full, poster); err != nil {
			return fmt.Errorf("update film: %w", err)
		}

		genreIDs, err := c.resolveGenres(ctx, store, full.Genres)
		if err != nil {
			return err
		}
		if err := store.ReplaceGenres(ctx, filmID, genreIDs); err != nil {
			return fmt.Errorf("replace genres: %w", err)
		}
	}

	megogoID, ok := c.Caches.Platforms[PlatformMegogo]
	if !ok {
		return fmt.Errorf("platform %q not in cache", PlatformMegogo)
	}
	if err := c.replacePlatformOptions(ctx, store, filmID, megogoID, megogo, MegogoOptions); err != nil {
		return fmt.Errorf("megogo options: %w", err)
	}

	sweettvID, ok := c.Caches.Platforms[PlatformSweetTV]
	if !ok {
		return fmt.Errorf("platform %q not in cache", PlatformSweetTV)
	}
	if sweettv != nil && sweettv.RawOptions != nil {
		if err := store.SetSweetTVURL(ctx, filmID, sweettv.URL); err != nil {
			return fmt.Errorf("set sweet.tv url: %w", err)
		}
	}
	if err := c.replacePlatformOptions(ctx, store, filmID, sweettvID, sweettv, SweetTVOptions); err != nil {
		return fmt.Errorf("sweet.tv options: %w", err)
	}

	return nil
}

// resolveGenres splits the comma-joined genre list and resolves every name
// through the cache, creating missing genres as it goes.
func (c *Coordinator) resolveGenres(ctx context.Context, store Store, joined *string) ([]int64, error) {
	if joined == nil {
		return nil, nil
	}

	var ids []int64
	for _, raw := range strings.Split(*joined, ",") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if id, ok := c.Caches.Genres[name]; ok {
			ids = append(ids, id)
			continue
		}
		id, err := store.GetOrCreateGenre(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("resolve genre %q: %w", name, err)
		}
		log.Printf("[reconcile] genre %q -> id %d", name, id)
		c.Caches.Genres[name] = id
		ids = append(ids, id)
	}
	return ids, nil
}

// replacePlatformOptions clears the platform's option rows and repopulates
// them when the source contributed a pricing blob this run. A source that
// contributed nothing leaves the platform cleared: the film is no longer
// verifiable there.
func (c *Coordinator) replacePlatformOptions(ctx context.Context, store Store, filmID, platformID int64, d *models.SourceDetail, normalize func(int64, int64, string) []models.AccessOption) error {
	var rows []models.AccessOption
	if d != nil && d.RawOptions != nil {
		rows = normalize(filmID, platformID, *d.RawOptions)
	}
	return store.ReplaceOptions(ctx, filmID, platformID, rows)
}
