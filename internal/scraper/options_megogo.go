package scraper

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"filmhub/pkg/models"
)

// Canonical access-type labels. Sources carry their own wording; the
// normalizers map the recognizable markers onto these.
const (
	accessTypeFree         = "Free"
	accessTypeSubscription = "Subscription"

	// megogoSubscriptionMarker is the label Megogo puts on svod overlays.
	megogoSubscriptionMarker = "Передплата"
)

// megogoDescPrice matches a currency-suffixed integer inside a subscription
// description ("... 299 грн/місяць ...").
var megogoDescPrice = regexp.MustCompile(`(\d{1,10})\s{0,20}грн`)

// megogoRawOption is one entry of Megogo's pricing blob: an array of tier
// objects with a type label and optional price/quality/description. Type
// is a pointer so a tier without the key can be told apart from one that
// carries an empty label.
type megogoRawOption struct {
	Type        *string `json:"type"`
	Price       string  `json:"price"`
	Quality     string  `json:"quality"`
	Description string  `json:"description"`
}

// MegogoOptions converts Megogo's raw pricing blob into canonical access
// option rows. An empty array means the title is free to watch and yields a
// single ("Free", nil) row. Subscription-marked tiers are relabeled to the
// canonical "Subscription" and, when they carry no price of their own, the
// price is recovered from the description text. Any other tier keeps its
// label, suffixed with the quality in parentheses when present.
//
// The function is total: a malformed blob is logged and yields zero rows.
func MegogoOptions(filmID, platformID int64, raw string) []models.AccessOption {
	var opts []megogoRawOption
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		log.Printf("[options] megogo blob unparsable for film %d: %v", filmID, err)
		return nil
	}

	if len(opts) == 0 {
		return []models.AccessOption{{
			FilmID:     filmID,
			PlatformID: platformID,
			AccessType: accessTypeFree,
		}}
	}

	rows := make([]models.AccessOption, 0, len(opts))
	for _, opt := range opts {
		// Only a missing type key gets the placeholder. A present but
		// empty label stays empty.
		accessType := "N/A"
		if opt.Type != nil {
			accessType = *opt.Type
		}

		var price *float64
		if isDigits(opt.Price) {
			v, _ := strconv.ParseFloat(opt.Price, 64)
			price = &v
		}

		if strings.Contains(accessType, megogoSubscriptionMarker) {
			accessType = accessTypeSubscription
			if m := megogoDescPrice.FindStringSubmatch(opt.Description); m != nil {
				v, _ := strconv.ParseFloat(m[1], 64)
				price = &v
			}
		} else if opt.Quality != "" {
			accessType = fmt.Sprintf("%s (%s)", accessType, opt.Quality)
		}

		rows = append(rows, models.AccessOption{
			FilmID:     filmID,
			PlatformID: platformID,
			AccessType: accessType,
			Price:      price,
		})
	}
	return rows
}

// isDigits reports whether s is a non-empty run of ASCII digits, the only
// price form Megogo emits directly on a tier.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
