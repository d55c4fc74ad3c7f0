package models

// Film is the canonical catalog entity persisted after reconciling both
// streaming sources. NormalizedName is derived from Name and is the sole
// cross-run de-duplication key: no two films may share it.
type Film struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	NormalizedName string `json:"normalized_name"`
	URL            string `json:"url,omitempty"`
	SweetTVURL     string `json:"url_sweet_tv,omitempty"`
	PosterURL      string `json:"poster_url,omitempty"`
	AgeLimit       string `json:"age_limit,omitempty"`
	IMDBRating     string `json:"imdb_rating,omitempty"`
	Description    string `json:"description,omitempty"`
	Duration       string `json:"duration,omitempty"`
	ReleaseYear    string `json:"release_year,omitempty"`
	Country        string `json:"country,omitempty"`
}

// AccessOption is one normalized purchase/rental/subscription tier for a
// film on a platform. Price is nil when the source exposed no usable price
// for the tier.
type AccessOption struct {
	FilmID     int64    `json:"film_id"`
	PlatformID int64    `json:"platform_id"`
	AccessType string   `json:"access_type"`
	Price      *float64 `json:"price"`
}

// FilmPrice is an AccessOption joined with its platform name, as served by
// the film details endpoint.
type FilmPrice struct {
	Platform   string   `json:"platform"`
	AccessType string   `json:"access_type"`
	Price      *float64 `json:"price"`
}
