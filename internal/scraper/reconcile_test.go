package scraper

import (
	"context"
	"reflect"
	"testing"

	"filmhub/pkg/models"
)

// fakeStore records every persistence call for assertion.
type fakeStore struct {
	updatedDetail *models.SourceDetail
	updatedPoster *string
	sweetURLSet   bool
	sweetURL      *string
	genres        map[string]int64
	nextGenreID   int64
	replacedIDs   []int64
	options       map[int64][]models.AccessOption
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		genres:      make(map[string]int64),
		nextGenreID: 100,
		options:     make(map[int64][]models.AccessOption),
	}
}

func (f *fakeStore) FilmIDByNormalizedName(ctx context.Context, key string) (int64, bool, error) {
	return 0, false, nil
}

func (f *fakeStore) CreateFilm(ctx context.Context, name, normalizedName string) (int64, error) {
	return 1, nil
}

func (f *fakeStore) UpdateFilm(ctx context.Context, filmID int64, d *models.SourceDetail, posterURL *string) error {
	f.updatedDetail = d
	f.updatedPoster = posterURL
	return nil
}

func (f *fakeStore) SetSweetTVURL(ctx context.Context, filmID int64, url *string) error {
	f.sweetURLSet = true
	f.sweetURL = url
	return nil
}

func (f *fakeStore) GetOrCreateGenre(ctx context.Context, name string) (int64, error) {
	if id, ok := f.genres[name]; ok {
		return id, nil
	}
	f.nextGenreID++
	f.genres[name] = f.nextGenreID
	return f.nextGenreID, nil
}

func (f *fakeStore) ReplaceGenres(ctx context.Context, filmID int64, genreIDs []int64) error {
	f.replacedIDs = genreIDs
	return nil
}

func (f *fakeStore) ReplaceOptions(ctx context.Context, filmID, platformID int64, rows []models.AccessOption) error {
	f.options[platformID] = rows
	return nil
}

func testCaches() *Caches {
	return &Caches{
		Genres:    make(map[string]int64),
		Platforms: map[string]int64{PlatformMegogo: 1, PlatformSweetTV: 2},
	}
}

func sp(s string) *string { return &s }

func TestReconcileMegogoOnly(t *testing.T) {
	store := newFakeStore()
	coord := NewCoordinator(testCaches())

	megogo := &models.SourceDetail{
		Name:           "Дюна",
		NormalizedName: "дюна",
		URL:            sp("https://megogo.net/ua/view/dune"),
		Genres:         sp("Фантастика, Драма"),
		RawOptions:     sp(`[]`),
	}

	err := coord.Reconcile(context.Background(), store, 7, megogo, nil, sp("https://img/poster.jpg"), nil)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if store.updatedDetail != megogo {
		t.Error("film scalars not taken from the megogo extract")
	}
	if store.updatedPoster == nil || *store.updatedPoster != "https://img/poster.jpg" {
		t.Errorf("poster = %v, want search-card fallback", store.updatedPoster)
	}
	if len(store.replacedIDs) != 2 {
		t.Errorf("linked %d genres, want 2", len(store.replacedIDs))
	}
	if got := store.options[1]; len(got) != 1 || got[0].AccessType != "Free" {
		t.Errorf("megogo options = %+v, want single Free row", got)
	}
	// The other platform is still cleared even with nothing to write.
	if rows, ok := store.options[2]; !ok || rows != nil {
		t.Errorf("sweet.tv platform not cleared: %+v (present=%v)", rows, ok)
	}
	if store.sweetURLSet {
		t.Error("sweet.tv url written without a sweet.tv extract")
	}
}

func TestReconcileSweetTVOnly(t *testing.T) {
	store := newFakeStore()
	coord := NewCoordinator(testCaches())

	sweettv := &models.SourceDetail{
		Name:           "Дюна",
		NormalizedName: "дюна",
		URL:            sp("https://sweet.tv/movie/dune"),
		RawOptions:     sp(`{"M":"0 грн"}`),
	}

	err := coord.Reconcile(context.Background(), store, 7, nil, sweettv, nil, sp("https://img/alt.jpg"))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if store.updatedDetail != sweettv {
		t.Error("film scalars not taken from the sweet.tv extract")
	}
	if store.updatedPoster == nil || *store.updatedPoster != "https://img/alt.jpg" {
		t.Errorf("poster = %v", store.updatedPoster)
	}
	if !store.sweetURLSet || store.sweetURL == nil || *store.sweetURL != "https://sweet.tv/movie/dune" {
		t.Errorf("sweet.tv url = %v, set=%v", store.sweetURL, store.sweetURLSet)
	}
	if rows, ok := store.options[1]; !ok || rows != nil {
		t.Errorf("megogo platform not cleared: %+v (present=%v)", rows, ok)
	}
	if got := store.options[2]; len(got) != 1 || got[0].AccessType != "Subscription (M)" {
		t.Errorf("sweet.tv options = %+v", got)
	}
}

func TestReconcilePosterPrecedence(t *testing.T) {
	store := newFakeStore()
	coord := NewCoordinator(testCaches())

	megogo := &models.SourceDetail{
		Name:           "Дюна",
		NormalizedName: "дюна",
		PosterURL:      sp("https://img/page.jpg"),
		RawOptions:     sp(`[]`),
	}

	err := coord.Reconcile(context.Background(), store, 7, megogo, nil, sp("https://img/card.jpg"), sp("https://img/sweet.jpg"))
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if store.updatedPoster == nil || *store.updatedPoster != "https://img/page.jpg" {
		t.Errorf("poster = %v, want the page poster over both cards", store.updatedPoster)
	}
}

func TestReconcileRepeatIsStable(t *testing.T) {
	store := newFakeStore()
	coord := NewCoordinator(testCaches())

	megogo := &models.SourceDetail{
		Name:           "Дюна",
		NormalizedName: "дюна",
		URL:            sp("https://megogo.net/ua/view/dune"),
		Genres:         sp("Фантастика, Драма"),
		RawOptions:     sp(`[{"type":"Покупка","price":"100","quality":"HD","description":""}]`),
	}
	sweettv := &models.SourceDetail{
		URL:        sp("https://sweet.tv/movie/dune"),
		RawOptions: sp(`{"M":"0 грн"}`),
	}

	pass := func(n int) (genres []int64, megogoRows, sweetRows []models.AccessOption) {
		if err := coord.Reconcile(context.Background(), store, 7, megogo, sweettv, nil, nil); err != nil {
			t.Fatalf("reconcile pass %d: %v", n, err)
		}
		genres = append(genres, store.replacedIDs...)
		megogoRows = append(megogoRows, store.options[1]...)
		sweetRows = append(sweetRows, store.options[2]...)
		return genres, megogoRows, sweetRows
	}

	genres1, megogo1, sweet1 := pass(1)
	genres2, megogo2, sweet2 := pass(2)

	if !reflect.DeepEqual(genres1, genres2) {
		t.Errorf("genre links changed on repeat: %v vs %v", genres1, genres2)
	}
	if !reflect.DeepEqual(megogo1, megogo2) {
		t.Errorf("megogo options changed on repeat: %+v vs %+v", megogo1, megogo2)
	}
	if !reflect.DeepEqual(sweet1, sweet2) {
		t.Errorf("sweet.tv options changed on repeat: %+v vs %+v", sweet1, sweet2)
	}
	if len(megogo1) != 1 || len(sweet1) != 1 || len(genres1) != 2 {
		t.Errorf("unexpected first-pass shape: %d megogo rows, %d sweet.tv rows, %d genres",
			len(megogo1), len(sweet1), len(genres1))
	}
}

func TestReconcileGenreCacheReuse(t *testing.T) {
	store := newFakeStore()
	caches := testCaches()
	coord := NewCoordinator(caches)

	megogo := &models.SourceDetail{
		Name:           "Дюна",
		NormalizedName: "дюна",
		Genres:         sp("Драма"),
		RawOptions:     sp(`[]`),
	}

	for i := 0; i < 2; i++ {
		if err := coord.Reconcile(context.Background(), store, 7, megogo, nil, nil, nil); err != nil {
			t.Fatalf("reconcile pass %d: %v", i, err)
		}
	}

	if len(store.genres) != 1 {
		t.Errorf("created %d genres across passes, want 1", len(store.genres))
	}
	if _, ok := caches.Genres["Драма"]; !ok {
		t.Error("genre id not cached after first pass")
	}
}
