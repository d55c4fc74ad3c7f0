package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"filmhub/pkg/database"
)

func main() {
	var (
		filmsOut  = flag.String("films", "data/films.csv", "output CSV path for films")
		pricesOut = flag.String("prices", "data/film_prices.csv", "output CSV path for per-platform access options")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportFilms(ctx, db, *filmsOut); err != nil {
		log.Fatalf("export films failed: %v", err)
	}
	if err := exportPrices(ctx, db, *pricesOut); err != nil {
		log.Fatalf("export prices failed: %v", err)
	}

	log.Printf("exported films to %s and prices to %s", *filmsOut, *pricesOut)
}

func exportFilms(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "name", "url", "url_sweet_tv", "poster_url", "age_limit", "imdb_rating", "duration", "release_year", "country", "genres"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT f.id, f.name, f.url, f.url_sweet_tv, f.poster_url, f.age_limit,
		       f.imdb_rating, f.duration, f.release_year, f.country,
		       COALESCE(GROUP_CONCAT(g.name, ', '), '')
		FROM films f
		LEFT JOIN film_genre fg ON fg.film_id = f.id
		LEFT JOIN genre g ON g.genre_id = fg.genre_id
		GROUP BY f.id
		ORDER BY f.name
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                                             int64
			name, genres                                   string
			url, sweetURL, posterURL, ageLimit, imdbRating sql.NullString
			duration, releaseYear, country                 sql.NullString
		)

		if err := rows.Scan(&id, &name, &url, &sweetURL, &posterURL, &ageLimit,
			&imdbRating, &duration, &releaseYear, &country, &genres); err != nil {
			return err
		}

		if err := w.Write([]string{
			strconv.FormatInt(id, 10),
			name,
			url.String,
			sweetURL.String,
			posterURL.String,
			ageLimit.String,
			imdbRating.String,
			duration.String,
			releaseYear.String,
			country.String,
			genres,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportPrices(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"film_id", "film_name", "platform", "access_type", "price"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT fp.film_id, f.name, p.name, fp.access_type, fp.price
		FROM film_platform fp
		JOIN films f ON f.id = fp.film_id
		JOIN platform p ON p.platform_id = fp.platform_id
		ORDER BY f.name, p.platform_id, fp.access_type
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			filmID                         int64
			filmName, platform, accessType string
			price                          sql.NullFloat64
		)

		if err := rows.Scan(&filmID, &filmName, &platform, &accessType, &price); err != nil {
			return err
		}

		priceStr := ""
		if price.Valid {
			priceStr = strconv.FormatFloat(price.Float64, 'f', 2, 64)
		}

		if err := w.Write([]string{
			strconv.FormatInt(filmID, 10),
			filmName,
			platform,
			accessType,
			priceStr,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
