package films

import "strings"

// DurationLimit is the duration slider range shown by the catalog filter.
type DurationLimit struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// defaultDuration is used when the catalog has no parseable durations yet.
var defaultDuration = DurationLimit{Min: 60, Max: 240}

// SplitCountries expands the stored comma-joined country strings into a
// deduplicated sorted-insertion list of individual countries.
func SplitCountries(stored []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, joined := range stored {
		for _, raw := range strings.Split(joined, ",") {
			country := strings.TrimSpace(raw)
			if country == "" || seen[country] {
				continue
			}
			seen[country] = true
			out = append(out, country)
		}
	}
	return out
}

// DurationLimits clamps the observed min/max film durations into a slider
// range, falling back to the defaults when nothing is stored.
func DurationLimits(min, max int) DurationLimit {
	if min <= 0 || max <= 0 || min > max {
		return defaultDuration
	}
	return DurationLimit{Min: min, Max: max}
}
