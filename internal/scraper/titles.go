package scraper

import (
	"regexp"
	"strings"
)

var (
	titleNoise  = regexp.MustCompile(`["'“”’‘:,\-\s]+`)
	parenthetic = regexp.MustCompile(`\([^)]*\)`)
)

// NormalizeTitle converts a display title into the comparison key used for
// cross-run de-duplication: lower-cased, quote/colon/comma/hyphen/whitespace
// runs collapsed to single spaces, parenthesized substrings (typically a
// trailing release year) stripped, then trimmed. Empty input yields an empty
// key. The transform is idempotent.
//
// The key deliberately discards formatting noise, which makes it brittle to
// titles that differ only by a parenthetical: those collide.
func NormalizeTitle(title string) string {
	if title == "" {
		return ""
	}
	t := strings.ToLower(title)
	t = titleNoise.ReplaceAllString(t, " ")
	t = parenthetic.ReplaceAllString(t, "")
	return strings.TrimSpace(t)
}

// Similarity scores how much two free-text titles resemble each other, in
// [0,1]. It is the classic matching-blocks ratio: twice the total length of
// the longest common blocks over the combined length, computed over the
// lower-cased, trimmed inputs. Either side empty scores 0.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	ar := []rune(strings.ToLower(strings.TrimSpace(a)))
	br := []rune(strings.ToLower(strings.TrimSpace(b)))
	if len(ar) == 0 || len(br) == 0 {
		return 0
	}
	matched := matchingTotal(ar, br)
	return 2 * float64(matched) / float64(len(ar)+len(br))
}

// matchingTotal sums the lengths of the longest common blocks, recursing
// into the unmatched regions on either side of each block.
func matchingTotal(a, b []rune) int {
	ai, bi, size := longestBlock(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingTotal(a[:ai], b[:bi]) +
		matchingTotal(a[ai+size:], b[bi+size:])
}

// longestBlock finds the longest common contiguous run between a and b,
// preferring the earliest such run on ties.
func longestBlock(a, b []rune) (int, int, int) {
	bestA, bestB, best := 0, 0, 0
	runEnding := make(map[int]int, len(b))
	for i := range a {
		next := make(map[int]int, len(b))
		for j := range b {
			if a[i] != b[j] {
				continue
			}
			k := runEnding[j-1] + 1
			next[j] = k
			if k > best {
				bestA, bestB, best = i-k+1, j-k+1, k
			}
		}
		runEnding = next
	}
	return bestA, bestB, best
}
