package interactions

import (
	"regexp"
	"strings"
)

// dosageClause matches a trailing dosage such as "500mg", "2 tablets" or
// "0.5 ml". Longer unit spellings come first in the alternation.
var dosageClause = regexp.MustCompile(`\s*\d+(?:\.\d+)?\s*(?:capsules?|tablets?|units?|caps?|mcg|mg|ml|iu|g)\s*$`)

// parenthetical matches a single parenthesized segment like "(extra strength)".
var parenthetical = regexp.MustCompile(`\([^)]*\)`)

// Normalize reduces a user-entered medication name to its canonical lookup key.
// The steps run in a fixed order: lowercase, trim, strip one trailing dosage
// clause, blank out parenthesized segments, collapse whitespace. An empty or
// whitespace-only input comes back as "", which no index entry ever carries.
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	s = strings.TrimSpace(s)
	s = dosageClause.ReplaceAllString(s, "")
	s = parenthetical.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// firstWord returns the leading whitespace-separated token of an already
// normalized key, or "" when there is none.
func firstWord(key string) string {
	if i := strings.IndexByte(key, ' '); i >= 0 {
		return key[:i]
	}
	return key
}
