package models

// Candidate is one search result from a source, in source-relevance order,
// before identity resolution has decided anything.
type Candidate struct {
	Title     string
	URL       string
	PosterURL string
}

// SourceDetail carries whatever one source's detail page yielded for a
// matched film. Every field may be absent; merge logic branches on explicit
// presence, never on sentinel strings. A pricing-only extract (Sweet.tv when
// Megogo already supplied the metadata) has an empty Name and only URL plus
// RawOptions set.
type SourceDetail struct {
	Name           string
	NormalizedName string
	URL            *string
	PosterURL      *string
	AgeLimit       *string
	IMDBRating     *string
	Description    *string
	Duration       *string
	ReleaseYear    *string
	Country        *string
	Genres         *string // comma-joined, as extracted
	RawOptions     *string // source-specific pricing blob (JSON)
}
