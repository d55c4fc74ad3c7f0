package scraper

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"filmhub/internal/searchlog"
	"filmhub/pkg/models"
)

const testSchema = `
CREATE TABLE films (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  normalized_name TEXT NOT NULL UNIQUE,
  url TEXT, url_sweet_tv TEXT, poster_url TEXT,
  age_limit TEXT, imdb_rating TEXT, description TEXT,
  duration TEXT, release_year TEXT, country TEXT
);
CREATE TABLE genre (genre_id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL UNIQUE);
CREATE TABLE film_genre (
  film_id INTEGER NOT NULL, genre_id INTEGER NOT NULL,
  PRIMARY KEY (film_id, genre_id)
);
CREATE TABLE platform (platform_id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL UNIQUE);
CREATE TABLE film_platform (
  film_id INTEGER NOT NULL, platform_id INTEGER NOT NULL,
  access_type TEXT NOT NULL, price REAL
);
CREATE TABLE search_log (
  log_id INTEGER PRIMARY KEY AUTOINCREMENT,
  query_text TEXT NOT NULL UNIQUE,
  search_count INTEGER NOT NULL DEFAULT 1,
  is_processed INTEGER NOT NULL DEFAULT 0,
  last_searched_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
INSERT INTO platform (name) VALUES ('Megogo'), ('Sweet.tv');
`

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

type fakeMegogo struct {
	cards  []models.Candidate
	detail *models.SourceDetail
}

func (f *fakeMegogo) Search(query string) ([]models.Candidate, error) { return f.cards, nil }
func (f *fakeMegogo) Detail(pageURL string) (*models.SourceDetail, error) {
	return f.detail, nil
}
func (f *fakeMegogo) BaseURL() string { return "https://megogo.net" }

type fakeSweetTV struct {
	cards     []models.Candidate
	detail    *models.SourceDetail
	detailErr error
	gotPoster bool
	gotFull   bool
}

func (f *fakeSweetTV) Search(query string, wantPoster bool) ([]models.Candidate, error) {
	f.gotPoster = wantPoster
	return f.cards, nil
}
func (f *fakeSweetTV) Detail(pageURL string, full bool) (*models.SourceDetail, error) {
	f.gotFull = full
	return f.detail, f.detailErr
}
func (f *fakeSweetTV) BaseURL() string { return "https://sweet.tv" }

func TestRunDailyBothSources(t *testing.T) {
	db := newTestDB(t)
	queue := searchlog.NewRepo(db)
	ctx := context.Background()

	if err := queue.Log(ctx, "дюна"); err != nil {
		t.Fatalf("queue: %v", err)
	}

	megogo := &fakeMegogo{
		cards: []models.Candidate{{Title: "Дюна", URL: "/ua/view/dune", PosterURL: "https://img/card.jpg"}},
		detail: &models.SourceDetail{
			Name:           "Дюна",
			NormalizedName: "дюна",
			URL:            sp("https://megogo.net/ua/view/dune"),
			Genres:         sp("Фантастика, Драма"),
			RawOptions:     sp(`[]`),
		},
	}
	sweettv := &fakeSweetTV{
		cards: []models.Candidate{{Title: "Дюна", URL: "https://sweet.tv/movie/dune"}},
		detail: &models.SourceDetail{
			URL:        sp("https://sweet.tv/movie/dune"),
			RawOptions: sp(`{"M":"0 грн"}`),
		},
	}

	runner := &Runner{DB: db, Megogo: megogo, SweetTV: sweettv, Queue: queue}
	if err := runner.RunDaily(ctx); err != nil {
		t.Fatalf("daily run: %v", err)
	}

	if sweettv.gotFull {
		t.Error("sweet.tv asked for full metadata although megogo matched")
	}

	var name, sweetURL string
	err := db.QueryRow(`SELECT name, url_sweet_tv FROM films WHERE normalized_name = 'дюна'`).Scan(&name, &sweetURL)
	if err != nil {
		t.Fatalf("film row: %v", err)
	}
	if name != "Дюна" || sweetURL != "https://sweet.tv/movie/dune" {
		t.Errorf("film = %q / %q", name, sweetURL)
	}

	var optionCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM film_platform`).Scan(&optionCount); err != nil {
		t.Fatalf("options: %v", err)
	}
	if optionCount != 2 {
		t.Errorf("option rows = %d, want 2 (one per platform)", optionCount)
	}

	var genreCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM film_genre`).Scan(&genreCount); err != nil {
		t.Fatalf("genres: %v", err)
	}
	if genreCount != 2 {
		t.Errorf("genre links = %d, want 2", genreCount)
	}

	var processed int
	if err := db.QueryRow(`SELECT is_processed FROM search_log WHERE query_text = 'дюна'`).Scan(&processed); err != nil {
		t.Fatalf("search_log: %v", err)
	}
	if processed != 1 {
		t.Error("query not marked processed after a successful merge")
	}
}

func TestRunDailySecondaryOnly(t *testing.T) {
	db := newTestDB(t)
	queue := searchlog.NewRepo(db)
	ctx := context.Background()

	if err := queue.Log(ctx, "матриця"); err != nil {
		t.Fatalf("queue: %v", err)
	}

	megogo := &fakeMegogo{}
	sweettv := &fakeSweetTV{
		cards: []models.Candidate{{Title: "Матриця", URL: "https://sweet.tv/movie/matrix", PosterURL: "https://img/m.jpg"}},
		detail: &models.SourceDetail{
			Name:           "Матриця",
			NormalizedName: "матриця",
			URL:            sp("https://sweet.tv/movie/matrix"),
			RawOptions:     sp(`{"L":"150 грн"}`),
		},
	}

	runner := &Runner{DB: db, Megogo: megogo, SweetTV: sweettv, Queue: queue}
	if err := runner.RunDaily(ctx); err != nil {
		t.Fatalf("daily run: %v", err)
	}

	if !sweettv.gotFull {
		t.Error("sweet.tv should supply full metadata when megogo misses")
	}
	if !sweettv.gotPoster {
		t.Error("sweet.tv should be asked for a poster when megogo has none")
	}

	var name, poster string
	err := db.QueryRow(`SELECT name, COALESCE(poster_url, '') FROM films WHERE normalized_name = 'матриця'`).Scan(&name, &poster)
	if err != nil {
		t.Fatalf("film row: %v", err)
	}
	if poster != "https://img/m.jpg" {
		t.Errorf("poster = %q, want the sweet.tv card fallback", poster)
	}
}

func TestRunDailySweetTVDetailFailureDropsCardPoster(t *testing.T) {
	db := newTestDB(t)
	queue := searchlog.NewRepo(db)
	ctx := context.Background()

	if err := queue.Log(ctx, "дюна"); err != nil {
		t.Fatalf("queue: %v", err)
	}

	megogo := &fakeMegogo{
		cards: []models.Candidate{{Title: "Дюна", URL: "/ua/view/dune"}},
		detail: &models.SourceDetail{
			Name:           "Дюна",
			NormalizedName: "дюна",
			URL:            sp("https://megogo.net/ua/view/dune"),
			RawOptions:     sp(`[]`),
		},
	}
	sweettv := &fakeSweetTV{
		cards:     []models.Candidate{{Title: "Дюна", URL: "https://sweet.tv/movie/dune", PosterURL: "https://img/s.jpg"}},
		detailErr: errors.New("render timeout"),
	}

	runner := &Runner{DB: db, Megogo: megogo, SweetTV: sweettv, Queue: queue}
	if err := runner.RunDaily(ctx); err != nil {
		t.Fatalf("daily run: %v", err)
	}

	var poster, sweetURL string
	err := db.QueryRow(`SELECT COALESCE(poster_url, ''), COALESCE(url_sweet_tv, '') FROM films WHERE normalized_name = 'дюна'`).Scan(&poster, &sweetURL)
	if err != nil {
		t.Fatalf("film row: %v", err)
	}
	if poster != "" {
		t.Errorf("poster = %q, want none when the sweet.tv page failed to parse", poster)
	}
	if sweetURL != "" {
		t.Errorf("url_sweet_tv = %q, want none", sweetURL)
	}
}

func TestRunDailyNoMatchMarksProcessed(t *testing.T) {
	db := newTestDB(t)
	queue := searchlog.NewRepo(db)
	ctx := context.Background()

	if err := queue.Log(ctx, "неіснуючий фільм"); err != nil {
		t.Fatalf("queue: %v", err)
	}

	runner := &Runner{DB: db, Megogo: &fakeMegogo{}, SweetTV: &fakeSweetTV{}, Queue: queue}
	if err := runner.RunDaily(ctx); err != nil {
		t.Fatalf("daily run: %v", err)
	}

	var filmCount, processed int
	if err := db.QueryRow(`SELECT COUNT(*) FROM films`).Scan(&filmCount); err != nil {
		t.Fatalf("films: %v", err)
	}
	if filmCount != 0 {
		t.Errorf("films created = %d, want 0", filmCount)
	}
	if err := db.QueryRow(`SELECT is_processed FROM search_log`).Scan(&processed); err != nil {
		t.Fatalf("search_log: %v", err)
	}
	if processed != 1 {
		t.Error("unresolvable query should still be marked processed")
	}
}

func TestRunRefreshUpdatesExisting(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	res, err := db.Exec(`INSERT INTO films (name, normalized_name, imdb_rating) VALUES ('Дюна', 'дюна', '7.9')`)
	if err != nil {
		t.Fatalf("seed film: %v", err)
	}
	filmID, _ := res.LastInsertId()

	megogo := &fakeMegogo{
		cards: []models.Candidate{{Title: "Дюна", URL: "/ua/view/dune"}},
		detail: &models.SourceDetail{
			Name:           "Дюна",
			NormalizedName: "дюна",
			URL:            sp("https://megogo.net/ua/view/dune"),
			IMDBRating:     sp("8.1"),
			RawOptions:     sp(`[{"type":"Покупка","price":"99","quality":"HD","description":""}]`),
		},
	}

	runner := &Runner{DB: db, Megogo: megogo, SweetTV: &fakeSweetTV{}, Queue: searchlog.NewRepo(db)}
	if err := runner.RunRefresh(ctx); err != nil {
		t.Fatalf("refresh run: %v", err)
	}

	var imdb string
	if err := db.QueryRow(`SELECT imdb_rating FROM films WHERE id = ?`, filmID).Scan(&imdb); err != nil {
		t.Fatalf("film row: %v", err)
	}
	if imdb != "8.1" {
		t.Errorf("imdb = %q, want refreshed 8.1", imdb)
	}

	var accessType string
	var price float64
	if err := db.QueryRow(`SELECT access_type, price FROM film_platform WHERE film_id = ?`, filmID).Scan(&accessType, &price); err != nil {
		t.Fatalf("option row: %v", err)
	}
	if accessType != "Покупка (HD)" || price != 99 {
		t.Errorf("option = %q / %v", accessType, price)
	}
}
