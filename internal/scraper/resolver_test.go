package scraper

import (
	"testing"

	"filmhub/pkg/models"
)

func TestResolveIdentityFirstMatchWins(t *testing.T) {
	// "dunes" already clears the bar, so the exact match behind it is
	// never considered.
	candidates := []models.Candidate{
		{Title: "dunes", URL: "https://example.com/dunes"},
		{Title: "dune", URL: "https://example.com/dune"},
	}

	match := ResolveIdentity("dune", candidates, "https://example.com")
	if match == nil {
		t.Fatal("expected a match")
	}
	if match.Title != "dunes" {
		t.Errorf("got %q, want first qualifying candidate %q", match.Title, "dunes")
	}
}

func TestResolveIdentityBelowThreshold(t *testing.T) {
	// 0.8 exactly does not clear a strictly-greater 0.85 bar.
	candidates := []models.Candidate{
		{Title: "dune 2", URL: "/film/dune-2"},
	}
	if match := ResolveIdentity("dune", candidates, "https://example.com"); match != nil {
		t.Errorf("expected no match, got %q", match.Title)
	}
}

func TestResolveIdentityRelativeURL(t *testing.T) {
	candidates := []models.Candidate{
		{Title: "Avatar", URL: "/ua/film/avatar"},
	}
	match := ResolveIdentity("Avatar", candidates, "https://megogo.net")
	if match == nil {
		t.Fatal("expected a match")
	}
	if match.URL != "https://megogo.net/ua/film/avatar" {
		t.Errorf("got URL %q", match.URL)
	}
}

func TestResolveIdentitySkipsUntitled(t *testing.T) {
	candidates := []models.Candidate{
		{Title: "", URL: "/broken-card"},
		{Title: "Avatar", URL: "https://example.com/avatar"},
	}
	match := ResolveIdentity("Avatar", candidates, "https://example.com")
	if match == nil || match.Title != "Avatar" {
		t.Fatalf("expected the titled candidate, got %+v", match)
	}
}
