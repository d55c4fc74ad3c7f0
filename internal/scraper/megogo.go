package scraper

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"filmhub/pkg/models"
)

const (
	megogoBaseURL     = "https://megogo.net"
	megogoSearchURL   = megogoBaseURL + "/ua/search-extended?q="
	megogoSearchLimit = 7
)

const collectorTimeout = 30 * time.Second

// MegogoClient scrapes megogo.net search and title pages.
type MegogoClient struct {
	userAgent string
}

func NewMegogoClient() *MegogoClient {
	return &MegogoClient{
		userAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	}
}

func (c *MegogoClient) BaseURL() string {
	return megogoBaseURL
}

func (c *MegogoClient) newCollector() *colly.Collector {
	col := colly.NewCollector(colly.UserAgent(c.userAgent))
	col.SetRequestTimeout(collectorTimeout)
	return col
}

// Search returns up to megogoSearchLimit result cards for the query.
func (c *MegogoClient) Search(query string) ([]models.Candidate, error) {
	var candidates []models.Candidate

	col := c.newCollector()
	col.OnHTML("div.card", func(e *colly.HTMLElement) {
		if len(candidates) >= megogoSearchLimit {
			return
		}

		title := strings.TrimSpace(e.ChildText("a.card-content-title h3.card-title"))
		href := e.ChildAttr("a.card-content-title", "href")
		if title == "" {
			// Some cards only carry the thumbnail link.
			title = strings.TrimSpace(e.ChildAttr("div.thumb a", "title"))
			if title == "" {
				title = strings.TrimSpace(e.ChildAttr("div.thumb img", "alt"))
			}
			href = e.ChildAttr("div.thumb a", "href")
		}

		candidates = append(candidates, models.Candidate{
			Title:     title,
			URL:       href,
			PosterURL: e.ChildAttr("div.thumb img", "data-original"),
		})
	})

	if err := col.Visit(megogoSearchURL + url.QueryEscape(query)); err != nil {
		return nil, fmt.Errorf("megogo search %q: %w", query, err)
	}
	col.Wait()
	return candidates, nil
}

// megogoPage accumulates the fields scraped off one title page.
type megogoPage struct {
	name        string
	posterURL   string
	ageLimit    string
	imdbRating  string
	genres      []string
	duration    string
	releaseYear string
	country     string
	description string
	svodText    string
	tvodBlocks  []megogoRawOption
}

// Detail fetches a title page and returns its metadata and raw pricing
// blob. A page without the title heading is treated as unavailable.
func (c *MegogoClient) Detail(pageURL string) (*models.SourceDetail, error) {
	page := &megogoPage{}

	col := c.newCollector()
	col.OnHTML("h1.video-title[itemprop=name]", func(e *colly.HTMLElement) {
		page.name = strings.TrimSpace(e.Text)
	})
	col.OnHTML(".player-poster img[itemprop=url]", func(e *colly.HTMLElement) {
		page.posterURL = e.Attr("src")
	})
	col.OnHTML(".videoInfoPanel-age-limit", func(e *colly.HTMLElement) {
		page.ageLimit = strings.TrimSpace(e.Text)
	})
	col.OnHTML(".videoInfoPanel-rating", func(e *colly.HTMLElement) {
		if !strings.Contains(e.Text, "IMDb") {
			return
		}
		page.imdbRating = strings.TrimSuffix(strings.TrimSpace(e.ChildText(".value")), ",")
	})
	col.OnHTML("a.video-genre", func(e *colly.HTMLElement) {
		if g := strings.TrimSpace(e.Text); g != "" {
			page.genres = append(page.genres, g)
		}
	})
	col.OnHTML(".video-duration span[itemprop=duration]", func(e *colly.HTMLElement) {
		page.duration = strings.TrimSpace(e.Text)
	})
	col.OnHTML(".video-info .video-year", func(e *colly.HTMLElement) {
		page.releaseYear = strings.TrimSpace(e.Text)
	})
	col.OnHTML(".video-info .video-country", func(e *colly.HTMLElement) {
		page.country = strings.TrimSpace(e.Text)
	})
	col.OnHTML(".video-description .show-more", func(e *colly.HTMLElement) {
		page.description = strings.TrimSpace(e.Text)
	})
	col.OnHTML(".trailer-overlay.svod .stub-description", func(e *colly.HTMLElement) {
		page.svodText = strings.TrimSpace(e.Text)
	})
	col.OnHTML(".trailer-overlay.tvod .pQuality__1", func(e *colly.HTMLElement) {
		tierType := strings.TrimSpace(e.ChildText(".pQuality__type"))
		page.tvodBlocks = append(page.tvodBlocks, megogoRawOption{
			Type:        &tierType,
			Quality:     strings.TrimSpace(e.ChildText(".pQuality__quality")),
			Description: strings.TrimSpace(e.ChildText(".pQuality__duration")),
			Price:       strings.TrimSpace(e.ChildText(".pQuality__price")),
		})
	})

	if err := col.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("megogo detail %s: %w", pageURL, err)
	}
	col.Wait()

	if page.name == "" {
		log.Printf("[megogo] no title on %s, skipping", pageURL)
		return nil, nil
	}
	return page.toDetail(pageURL)
}

func (p *megogoPage) toDetail(pageURL string) (*models.SourceDetail, error) {
	detail := &models.SourceDetail{
		Name:           p.name,
		NormalizedName: NormalizeTitle(p.name),
		URL:            strPtr(pageURL),
		PosterURL:      strPtr(p.posterURL),
		AgeLimit:       strPtr(p.ageLimit),
		IMDBRating:     strPtr(p.imdbRating),
		Duration:       strPtr(p.duration),
		ReleaseYear:    strPtr(p.releaseYear),
		Country:        strPtr(p.country),
		Description:    strPtr(p.description),
	}
	if len(p.genres) > 0 {
		detail.Genres = strPtr(strings.Join(p.genres, ", "))
	}

	options := []megogoRawOption{}
	if p.svodText != "" {
		marker := megogoSubscriptionMarker
		options = append(options, megogoRawOption{
			Type:        &marker,
			Description: p.svodText,
		})
	}
	options = append(options, p.tvodBlocks...)

	raw, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("encode megogo options: %w", err)
	}
	detail.RawOptions = strPtr(string(raw))
	return detail, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
