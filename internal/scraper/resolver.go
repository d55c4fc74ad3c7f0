package scraper

import (
	"log"
	"strings"

	"filmhub/pkg/models"
)

// acceptThreshold is the similarity a candidate must strictly exceed to be
// accepted as the same film as the query. Near-ties below the bar are
// "no match": precision over recall.
const acceptThreshold = 0.85

// ResolveIdentity walks candidates in the order the source returned them and
// accepts the first whose title scores strictly above the acceptance
// threshold. Candidates without a title are skipped. A relative candidate
// link is resolved against baseURL. Returns nil when the list is exhausted
// without a hit.
//
// Acceptance is first-match, not best-match: a later candidate with a higher
// score is never considered once one has been accepted.
func ResolveIdentity(query string, candidates []models.Candidate, baseURL string) *models.Candidate {
	for _, cand := range candidates {
		if cand.Title == "" {
			continue
		}
		score := Similarity(query, cand.Title)
		log.Printf("[resolver] %q vs %q: %.2f", query, cand.Title, score)
		if score > acceptThreshold {
			match := cand
			if strings.HasPrefix(match.URL, "/") {
				match.URL = strings.TrimSuffix(baseURL, "/") + match.URL
			}
			return &match
		}
	}
	return nil
}
