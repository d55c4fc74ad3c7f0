package films

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"filmhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// ListQuery carries the catalog filter form. Zero values mean "no filter".
type ListQuery struct {
	Q            string
	Genres       []string
	GenreID      int64
	PlatformID   int64
	Countries    []string
	YearFrom     int
	YearTo       int
	DurationFrom int
	DurationTo   int
	MinIMDB      float64
	Access       []string // free, subscription, purchase, rent
}

// ListItem is one row of the filtered catalog, film fields plus the
// community rating aggregate.
type ListItem struct {
	models.Film
	AvgRating float64 `json:"avg_rating"`
	VoteCount int64   `json:"vote_count"`
}

// Details is the full film card: the film row, its genres, per-platform
// pricing, and the rating aggregate.
type Details struct {
	models.Film
	Genres    []string           `json:"genres"`
	Prices    []models.FilmPrice `json:"prices"`
	AvgRating float64            `json:"avg_rating"`
	VoteCount int64              `json:"vote_count"`
}

const listSelect = `
	SELECT f.id, f.name, f.normalized_name, f.url, f.url_sweet_tv, f.poster_url,
	       f.age_limit, f.imdb_rating, f.description, f.duration, f.release_year, f.country,
	       COALESCE(AVG(r.rating), 0) AS avg_rating,
	       COUNT(r.rating) AS vote_count
	FROM films f
	LEFT JOIN ratings r ON r.film_id = f.id
`

// List runs the filtered catalog query. Duration and IMDb rating are stored
// as display text, so comparisons go through CAST; rows where the cast
// yields zero are excluded by those filters only when the filter is active.
func (r *Repo) List(ctx context.Context, q ListQuery) ([]ListItem, error) {
	var where []string
	var args []any

	if kw := strings.TrimSpace(q.Q); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		where = append(where, "(LOWER(f.name) LIKE ? OR f.normalized_name LIKE ?)")
		args = append(args, like, like)
	}
	if len(q.Genres) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(q.Genres)), ",")
		where = append(where, fmt.Sprintf(`f.id IN (
			SELECT fg.film_id FROM film_genre fg
			JOIN genre g ON g.genre_id = fg.genre_id
			WHERE g.name IN (%s))`, placeholders))
		for _, g := range q.Genres {
			args = append(args, g)
		}
	}
	if q.GenreID > 0 {
		where = append(where, "f.id IN (SELECT film_id FROM film_genre WHERE genre_id = ?)")
		args = append(args, q.GenreID)
	}
	if q.PlatformID > 0 {
		where = append(where, "f.id IN (SELECT film_id FROM film_platform WHERE platform_id = ?)")
		args = append(args, q.PlatformID)
	}
	if len(q.Countries) > 0 {
		var ors []string
		for _, country := range q.Countries {
			ors = append(ors, "f.country LIKE ?")
			args = append(args, "%"+country+"%")
		}
		where = append(where, "("+strings.Join(ors, " OR ")+")")
	}
	if q.YearFrom > 0 {
		where = append(where, "CAST(f.release_year AS INTEGER) >= ?")
		args = append(args, q.YearFrom)
	}
	if q.YearTo > 0 {
		where = append(where, "CAST(f.release_year AS INTEGER) <= ?")
		args = append(args, q.YearTo)
	}
	if q.DurationFrom > 0 {
		where = append(where, "CAST(f.duration AS INTEGER) >= ?")
		args = append(args, q.DurationFrom)
	}
	if q.DurationTo > 0 {
		where = append(where, "CAST(f.duration AS INTEGER) <= ?")
		args = append(args, q.DurationTo)
	}
	if q.MinIMDB > 0 {
		where = append(where, "CAST(f.imdb_rating AS REAL) >= ?")
		args = append(args, q.MinIMDB)
	}
	if cond, condArgs := accessCondition(q.Access); cond != "" {
		where = append(where, cond)
		args = append(args, condArgs...)
	}

	sqlStr := listSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}
	sqlStr += `
	GROUP BY f.id
	ORDER BY avg_rating DESC, vote_count DESC, CAST(f.release_year AS INTEGER) DESC
	LIMIT 1000`

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list films: %w", err)
	}
	defer rows.Close()

	var out []ListItem
	for rows.Next() {
		item, err := scanListItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("film rows: %w", err)
	}
	return out, nil
}

// accessCondition maps the access filter names onto the stored access_type
// labels. Canonical labels cover free and subscription; purchases and
// rentals keep their source wording, so those match on the known prefixes.
func accessCondition(access []string) (string, []any) {
	var ors []string
	var args []any
	for _, a := range access {
		switch strings.ToLower(strings.TrimSpace(a)) {
		case "free":
			ors = append(ors, "fp.access_type = ?")
			args = append(args, "Free")
		case "subscription":
			ors = append(ors, "fp.access_type LIKE ?")
			args = append(args, "Subscription%")
		case "purchase":
			ors = append(ors, "(fp.access_type LIKE ? OR fp.access_type LIKE ?)")
			args = append(args, "Покупка%", "Купівля%")
		case "rent":
			ors = append(ors, "(fp.access_type LIKE ? OR fp.access_type LIKE ?)")
			args = append(args, "Оренда%", "Прокат%")
		}
	}
	if len(ors) == 0 {
		return "", nil
	}
	cond := fmt.Sprintf(`f.id IN (
		SELECT fp.film_id FROM film_platform fp
		WHERE %s)`, strings.Join(ors, " OR "))
	return cond, args
}

func scanListItem(rows *sql.Rows) (*ListItem, error) {
	var (
		item       ListItem
		url        sql.NullString
		sweetURL   sql.NullString
		posterURL  sql.NullString
		ageLimit   sql.NullString
		imdbRating sql.NullString
		desc       sql.NullString
		duration   sql.NullString
		year       sql.NullString
		country    sql.NullString
	)
	if err := rows.Scan(
		&item.ID, &item.Name, &item.NormalizedName, &url, &sweetURL, &posterURL,
		&ageLimit, &imdbRating, &desc, &duration, &year, &country,
		&item.AvgRating, &item.VoteCount,
	); err != nil {
		return nil, fmt.Errorf("scan film: %w", err)
	}
	item.URL = url.String
	item.SweetTVURL = sweetURL.String
	item.PosterURL = posterURL.String
	item.AgeLimit = ageLimit.String
	item.IMDBRating = imdbRating.String
	item.Description = desc.String
	item.Duration = duration.String
	item.ReleaseYear = year.String
	item.Country = country.String
	return &item, nil
}

// GetDetails loads one film with genres, pricing and the rating aggregate.
// A missing id returns (nil, nil).
func (r *Repo) GetDetails(ctx context.Context, id int64) (*Details, error) {
	rows, err := r.DB.QueryContext(ctx, listSelect+" WHERE f.id = ? GROUP BY f.id", id)
	if err != nil {
		return nil, fmt.Errorf("film details: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("film details: %w", err)
		}
		return nil, nil
	}
	item, err := scanListItem(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()

	details := &Details{
		Film:      item.Film,
		AvgRating: item.AvgRating,
		VoteCount: item.VoteCount,
	}

	genreRows, err := r.DB.QueryContext(ctx, `
		SELECT g.name FROM genre g
		JOIN film_genre fg ON fg.genre_id = g.genre_id
		WHERE fg.film_id = ?
		ORDER BY g.name
	`, id)
	if err != nil {
		return nil, fmt.Errorf("film genres: %w", err)
	}
	defer genreRows.Close()
	for genreRows.Next() {
		var name string
		if err := genreRows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		details.Genres = append(details.Genres, name)
	}
	if err := genreRows.Err(); err != nil {
		return nil, fmt.Errorf("genre rows: %w", err)
	}

	priceRows, err := r.DB.QueryContext(ctx, `
		SELECT p.name, fp.access_type, fp.price
		FROM film_platform fp
		JOIN platform p ON p.platform_id = fp.platform_id
		WHERE fp.film_id = ?
		ORDER BY p.platform_id, fp.access_type
	`, id)
	if err != nil {
		return nil, fmt.Errorf("film prices: %w", err)
	}
	defer priceRows.Close()
	for priceRows.Next() {
		var price models.FilmPrice
		var value sql.NullFloat64
		if err := priceRows.Scan(&price.Platform, &price.AccessType, &value); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		if value.Valid {
			price.Price = &value.Float64
		}
		details.Prices = append(details.Prices, price)
	}
	if err := priceRows.Err(); err != nil {
		return nil, fmt.Errorf("price rows: %w", err)
	}

	return details, nil
}

// Top returns the ten best films by IMDb rating.
func (r *Repo) Top(ctx context.Context) ([]ListItem, error) {
	rows, err := r.DB.QueryContext(ctx, listSelect+`
		WHERE f.imdb_rating IS NOT NULL AND f.imdb_rating != ''
		GROUP BY f.id
		ORDER BY CAST(f.imdb_rating AS REAL) DESC
		LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("top films: %w", err)
	}
	defer rows.Close()

	var out []ListItem
	for rows.Next() {
		item, err := scanListItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top rows: %w", err)
	}
	return out, nil
}

// FilterMeta is what the catalog filter form needs to render itself.
type FilterMeta struct {
	Genres    []string      `json:"genres"`
	Platforms []string      `json:"platforms"`
	Countries []string      `json:"countries"`
	Years     []int         `json:"years"`
	Duration  DurationLimit `json:"duration"`
}

// FilterMetadata collects the distinct genres, countries, year span and
// duration span currently present in the catalog.
func (r *Repo) FilterMetadata(ctx context.Context) (*FilterMeta, error) {
	meta := &FilterMeta{}

	genreRows, err := r.DB.QueryContext(ctx, `SELECT name FROM genre ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("filter genres: %w", err)
	}
	defer genreRows.Close()
	for genreRows.Next() {
		var name string
		if err := genreRows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		meta.Genres = append(meta.Genres, name)
	}
	if err := genreRows.Err(); err != nil {
		return nil, fmt.Errorf("genre rows: %w", err)
	}

	countryRows, err := r.DB.QueryContext(ctx, `
		SELECT DISTINCT country FROM films
		WHERE country IS NOT NULL AND country != ''
	`)
	if err != nil {
		return nil, fmt.Errorf("filter countries: %w", err)
	}
	defer countryRows.Close()
	var stored []string
	for countryRows.Next() {
		var joined string
		if err := countryRows.Scan(&joined); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		stored = append(stored, joined)
	}
	if err := countryRows.Err(); err != nil {
		return nil, fmt.Errorf("country rows: %w", err)
	}
	meta.Countries = SplitCountries(stored)

	platformRows, err := r.DB.QueryContext(ctx, `SELECT name FROM platform ORDER BY platform_id`)
	if err != nil {
		return nil, fmt.Errorf("filter platforms: %w", err)
	}
	defer platformRows.Close()
	for platformRows.Next() {
		var name string
		if err := platformRows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan platform: %w", err)
		}
		meta.Platforms = append(meta.Platforms, name)
	}
	if err := platformRows.Err(); err != nil {
		return nil, fmt.Errorf("platform rows: %w", err)
	}

	yearRows, err := r.DB.QueryContext(ctx, `
		SELECT DISTINCT CAST(release_year AS INTEGER) AS y FROM films
		WHERE release_year IS NOT NULL AND release_year != ''
		ORDER BY y DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("filter years: %w", err)
	}
	defer yearRows.Close()
	for yearRows.Next() {
		var y int
		if err := yearRows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scan year: %w", err)
		}
		if y > 0 {
			meta.Years = append(meta.Years, y)
		}
	}
	if err := yearRows.Err(); err != nil {
		return nil, fmt.Errorf("year rows: %w", err)
	}

	var durMin, durMax sql.NullInt64
	if err := r.DB.QueryRowContext(ctx, `
		SELECT MIN(CAST(duration AS INTEGER)), MAX(CAST(duration AS INTEGER))
		FROM films
		WHERE duration IS NOT NULL AND duration != ''
	`).Scan(&durMin, &durMax); err != nil {
		return nil, fmt.Errorf("filter durations: %w", err)
	}
	meta.Duration = DurationLimits(int(durMin.Int64), int(durMax.Int64))

	return meta, nil
}
