package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"filmhub/pkg/models"
)

const (
	sweettvBaseURL     = "https://sweet.tv"
	sweettvSearchURL   = sweettvBaseURL + "/search?q="
	sweettvSearchLimit = 5
	sweettvPageTimeout = 45 * time.Second
)

// SweetTVClient drives a headless browser against sweet.tv. The site
// renders search results and pricing client side, so plain HTTP fetches
// return empty shells.
type SweetTVClient struct {
	cookiePath string
}

func NewSweetTVClient(cookiePath string) *SweetTVClient {
	return &SweetTVClient{cookiePath: cookiePath}
}

func (c *SweetTVClient) BaseURL() string {
	return sweettvBaseURL
}

// storedCookie mirrors the browser-export JSON format of the cookie file.
type storedCookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain"`
	Path   string `json:"path"`
}

// loadCookies installs saved session cookies before navigation. A missing
// or unreadable file is not fatal; the site still serves anonymous pages.
func (c *SweetTVClient) loadCookies() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if c.cookiePath == "" {
			return nil
		}
		data, err := os.ReadFile(c.cookiePath)
		if err != nil {
			log.Printf("[sweettv] cookie file: %v", err)
			return nil
		}
		var cookies []storedCookie
		if err := json.Unmarshal(data, &cookies); err != nil {
			log.Printf("[sweettv] cookie file parse: %v", err)
			return nil
		}
		for _, ck := range cookies {
			domain := ck.Domain
			if domain == "" {
				domain = "sweet.tv"
			}
			path := ck.Path
			if path == "" {
				path = "/"
			}
			if err := network.SetCookie(ck.Name, ck.Value).
				WithDomain(domain).
				WithPath(path).
				Do(ctx); err != nil {
				log.Printf("[sweettv] set cookie %s: %v", ck.Name, err)
			}
		}
		return nil
	})
}

func (c *SweetTVClient) run(actions ...chromedp.Action) error {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(),
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
		)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancel := context.WithTimeout(browserCtx, sweettvPageTimeout)
	defer cancel()

	return chromedp.Run(runCtx, append([]chromedp.Action{c.loadCookies()}, actions...)...)
}

const sweettvSearchJS = `
(() => {
	const out = [];
	for (const card of document.querySelectorAll("div.swiper-slide a.swiper-slide-wrap")) {
		const titleEl = card.querySelector(".movie-card__title");
		const img = card.querySelector("img");
		out.push({
			title: titleEl ? titleEl.textContent.trim() : "",
			url: card.getAttribute("href") || "",
			poster_url: img ? (img.getAttribute("src") || img.getAttribute("data-src") || "") : "",
		});
	}
	return JSON.stringify(out);
})()
`

// Search returns up to sweettvSearchLimit result cards. Poster URLs are
// only kept when wantPoster is set; the other source's artwork wins
// whenever it exists.
func (c *SweetTVClient) Search(query string, wantPoster bool) ([]models.Candidate, error) {
	var payload string
	err := c.run(
		chromedp.Navigate(sweettvSearchURL+url.QueryEscape(query)),
		chromedp.WaitReady("body"),
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(sweettvSearchJS, &payload),
	)
	if err != nil {
		return nil, fmt.Errorf("sweet.tv search %q: %w", query, err)
	}

	var cards []struct {
		Title     string `json:"title"`
		URL       string `json:"url"`
		PosterURL string `json:"poster_url"`
	}
	if err := json.Unmarshal([]byte(payload), &cards); err != nil {
		return nil, fmt.Errorf("sweet.tv search payload: %w", err)
	}

	var candidates []models.Candidate
	for _, card := range cards {
		if len(candidates) >= sweettvSearchLimit {
			break
		}
		cand := models.Candidate{Title: card.Title, URL: card.URL}
		if wantPoster {
			cand.PosterURL = card.PosterURL
		}
		candidates = append(candidates, cand)
	}
	return candidates, nil
}

const sweettvPricingJS = `
(() => {
	const out = {};
	const subBtn = [...document.querySelectorAll("button")]
		.find(b => b.textContent.includes("у передплаті"));
	if (subBtn) {
		for (const card of document.querySelectorAll(".subscriptions__cards-card")) {
			const title = card.querySelector(".subscriptions__cards-card-title");
			const price = card.querySelector(".subscriptions__cards-card-discount-price");
			if (title) {
				out[title.textContent.trim()] = price ? price.textContent.trim() : "";
			}
		}
	} else {
		for (const section of document.querySelectorAll(".movie-offers__modal-purchase")) {
			const label = section.querySelector(".movie-offers__modal-purchase-title");
			if (!label) continue;
			const tiers = {};
			for (const row of section.querySelectorAll(".movie-offers__modal-purchase-quality")) {
				const q = row.querySelector(".movie-offers__modal-purchase-quality-name");
				const p = row.querySelector(".movie-offers__modal-purchase-quality-price");
				if (q) tiers[q.textContent.trim()] = p ? p.textContent.trim() : "";
			}
			out[label.textContent.trim()] = tiers;
		}
	}
	return JSON.stringify(out);
})()
`

const sweettvMetaJS = `
(() => {
	const text = sel => {
		const el = document.querySelector(sel);
		return el ? el.textContent.trim() : "";
	};
	const genreText = text("p.desc-film-page-genre").replace(/\s*,\s*/g, ", ");
	const countries = [...document.querySelectorAll("p.desc-film-countries a")]
		.map(a => a.textContent.trim()).filter(Boolean).join(", ");
	return JSON.stringify({
		name: text("h1.movie__title"),
		description: text("p#film_description"),
		imdb_rating: text("span[data-movie-el='16']"),
		country: countries,
		genres: genreText,
		age_limit: text("span[data-movie-el='25']"),
		duration: (text("span#timeCount") + " " + text("span#timeLabel")).trim(),
		release_year: text("span[data-movie-el='14']"),
	});
})()
`

// Detail fetches a title page. The pricing blob is always collected; the
// descriptive fields only when full is set, which happens when the title
// was not found on the primary source.
func (c *SweetTVClient) Detail(pageURL string, full bool) (*models.SourceDetail, error) {
	actions := []chromedp.Action{
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible("h1.movie__title"),
		chromedp.Sleep(2 * time.Second),
	}

	var pricing, meta string
	actions = append(actions, chromedp.Evaluate(sweettvPricingJS, &pricing))
	if full {
		actions = append(actions, chromedp.Evaluate(sweettvMetaJS, &meta))
	}

	if err := c.run(actions...); err != nil {
		return nil, fmt.Errorf("sweet.tv detail %s: %w", pageURL, err)
	}

	if pricing == "" || pricing == "{}" {
		// No visible offer blocks; treat the title as bundled with the
		// base subscription.
		pricing = `{"M":"0 грн"}`
	}

	detail := &models.SourceDetail{
		URL:        strPtr(pageURL),
		RawOptions: strPtr(pricing),
	}

	if full {
		var m struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			IMDBRating  string `json:"imdb_rating"`
			Country     string `json:"country"`
			Genres      string `json:"genres"`
			AgeLimit    string `json:"age_limit"`
			Duration    string `json:"duration"`
			ReleaseYear string `json:"release_year"`
		}
		if err := json.Unmarshal([]byte(meta), &m); err != nil {
			return nil, fmt.Errorf("sweet.tv metadata payload: %w", err)
		}
		if strings.TrimSpace(m.Name) == "" {
			log.Printf("[sweettv] no title on %s, skipping", pageURL)
			return nil, nil
		}
		detail.Name = m.Name
		detail.NormalizedName = NormalizeTitle(m.Name)
		detail.Description = strPtr(m.Description)
		detail.IMDBRating = strPtr(m.IMDBRating)
		detail.Country = strPtr(m.Country)
		detail.Genres = strPtr(m.Genres)
		detail.AgeLimit = strPtr(m.AgeLimit)
		detail.Duration = strPtr(m.Duration)
		detail.ReleaseYear = strPtr(m.ReleaseYear)
	}

	return detail, nil
}
