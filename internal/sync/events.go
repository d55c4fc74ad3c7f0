package sync

import "time"

// CatalogEvent announces a catalog change to connected clients. The parser
// binaries publish one per committed film; the api-server fans them out.
type CatalogEvent struct {
	Type   string    `json:"type"` // "film.committed"
	FilmID int64     `json:"film_id"`
	Name   string    `json:"name,omitempty"`
	At     time.Time `json:"at"`
}

const EventFilmCommitted = "film.committed"
