// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import "strings"

// minTermLen drops short query words such as "at" and "st".
const minTermLen = 3

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "what": true,
	"are": true, "any": true, "this": true, "that": true, "from": true,
	"about": true, "there": true, "near": true, "into": true, "has": true,
	"have": true, "was": true, "were": true, "will": true, "does": true,
}

// Terms splits query into lowercase, deduplicated search terms of at
// least three characters, skipping common stop words.
func Terms(query string) []string {
	seen := make(map[string]bool)
	var terms []string
	for _, f := range strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-')
	}) {
		if len(f) < minTermLen || seen[f] || stopWords[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, f)
	}
	return terms
}

// MatchesAny reports whether text contains at least one of terms.
func MatchesAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
