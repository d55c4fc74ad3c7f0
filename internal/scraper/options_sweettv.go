package scraper

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strconv"

	"filmhub/pkg/models"
)

var nonPriceChars = regexp.MustCompile(`[^0-9.]`)

// SweetTVOptions converts Sweet.tv's raw pricing blob into canonical access
// option rows. The blob is a flat map. A string value is a subscription
// package price and becomes ("Subscription (key)", price), with an
// unparsable price defaulting to 0.0. A nested map is a purchase/rental
// section keyed by quality and yields one ("key (quality)", price) row per
// entry, with an unparsable price left nil.
//
// Total like its Megogo counterpart: malformed input is logged and yields
// zero rows. Keys are walked in sorted order so output is deterministic.
func SweetTVOptions(filmID, platformID int64, raw string) []models.AccessOption {
	var data map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		log.Printf("[options] sweet.tv blob unparsable for film %d: %v", filmID, err)
		return nil
	}

	labels := make([]string, 0, len(data))
	for label := range data {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var rows []models.AccessOption
	for _, label := range labels {
		val := data[label]

		var flat string
		if err := json.Unmarshal(val, &flat); err == nil {
			price := parsePrice(flat)
			rows = append(rows, models.AccessOption{
				FilmID:     filmID,
				PlatformID: platformID,
				AccessType: fmt.Sprintf("%s (%s)", accessTypeSubscription, label),
				Price:      &price,
			})
			continue
		}

		var nested map[string]string
		if err := json.Unmarshal(val, &nested); err != nil {
			log.Printf("[options] sweet.tv entry %q has unexpected shape for film %d", label, filmID)
			continue
		}

		qualities := make([]string, 0, len(nested))
		for q := range nested {
			qualities = append(qualities, q)
		}
		sort.Strings(qualities)

		for _, quality := range qualities {
			var price *float64
			if s := nonPriceChars.ReplaceAllString(nested[quality], ""); s != "" {
				if v, err := strconv.ParseFloat(s, 64); err == nil {
					price = &v
				}
			}
			rows = append(rows, models.AccessOption{
				FilmID:     filmID,
				PlatformID: platformID,
				AccessType: fmt.Sprintf("%s (%s)", label, quality),
				Price:      price,
			})
		}
	}
	return rows
}

// parsePrice strips everything but digits and dots; an empty remainder
// parses as zero.
func parsePrice(s string) float64 {
	cleaned := nonPriceChars.ReplaceAllString(s, "")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}
