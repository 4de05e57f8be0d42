package interactions

import (
	"strings"

	"github.com/snplmntn/ainay-companion-care-sub003/interactions/entities"
)

// Resolution tiers, reported as the outcome label on resolve metrics.
const (
	tierExact = "exact"
	tierAlias = "alias"
	tierToken = "token"
	tierScan  = "scan"
	tierMiss  = "miss"
)

// resolveExact finds the single best record for a user-entered name. Tiers are
// tried in order: exact index under each expanded key, then token candidates,
// then a scan over the first scanLimit records. The scan only backs up an
// empty candidate set: once the token index has produced candidates, a failed
// qualification is a final miss. The returned tier is tierMiss when nothing
// matched.
func (s *snapshot) resolveExact(name string, scanLimit int) (entities.InteractionRecord, string) {
	key := Normalize(name)
	if key == "" {
		return entities.InteractionRecord{}, tierMiss
	}
	keys := ExpandAliases(key)
	for i, k := range keys {
		if pos, ok := s.exact[k]; ok {
			if i == 0 {
				return s.records[pos], tierExact
			}
			return s.records[pos], tierAlias
		}
	}
	cands := s.tokenCandidates(keys)
	for _, pos := range cands {
		if keyMatches(s.norms[pos], keys) {
			return s.records[pos], tierToken
		}
	}
	if len(cands) > 0 {
		return entities.InteractionRecord{}, tierMiss
	}
	for pos := 0; pos < min(scanLimit, len(s.records)); pos++ {
		if keyMatches(s.norms[pos], keys) {
			return s.records[pos], tierScan
		}
	}
	return entities.InteractionRecord{}, tierMiss
}

// tokenCandidates gathers the records registered under the first word of any
// expanded key, preserving posting order and dropping repeats across keys.
func (s *snapshot) tokenCandidates(keys []string) []int {
	var out []int
	seen := make(map[int]struct{})
	for _, k := range keys {
		w := firstWord(k)
		if len(w) < minFragmentLen {
			continue
		}
		for _, pos := range s.tokens[w] {
			if _, dup := seen[pos]; dup {
				continue
			}
			seen[pos] = struct{}{}
			out = append(out, pos)
		}
	}
	return out
}

// keyMatches reports whether a record's normalized name plausibly answers any
// of the expanded keys: one contains the other, or both start with the same
// word of more than three characters.
func keyMatches(norm string, keys []string) bool {
	if norm == "" {
		return false
	}
	nw := firstWord(norm)
	for _, k := range keys {
		if k == "" {
			continue
		}
		if strings.Contains(norm, k) || strings.Contains(k, norm) {
			return true
		}
		if len(nw) > 3 && nw == firstWord(k) {
			return true
		}
	}
	return false
}

// searchFuzzy serves typeahead: token-index probes on the query's first word
// and its prefixes, then a bounded containment scan that also looks inside
// warning text. Results keep discovery order and never repeat a name.
func (s *snapshot) searchFuzzy(query string, limit, scanLimit int) []entities.InteractionRecord {
	if limit <= 0 {
		return nil
	}
	norm := Normalize(query)
	if norm == "" {
		return nil
	}
	out := make([]entities.InteractionRecord, 0, limit)
	seen := make(map[string]struct{}, limit)
	full := func(pos int) bool {
		rec := s.records[pos]
		if _, dup := seen[rec.Name]; !dup {
			seen[rec.Name] = struct{}{}
			out = append(out, rec)
		}
		return len(out) >= limit
	}
	if primary := firstWord(norm); len(primary) >= minFragmentLen {
		for _, pos := range s.tokens[primary] {
			if full(pos) {
				return out
			}
		}
		for n := minFragmentLen; n <= len(primary); n++ {
			for _, pos := range s.tokens[primary[:n]] {
				if full(pos) {
					return out
				}
			}
		}
	}
	for pos := 0; pos < min(scanLimit, len(s.records)); pos++ {
		if s.fuzzyMatches(pos, norm) && full(pos) {
			return out
		}
	}
	return out
}

// fuzzyMatches widens matching to warning text, so "grapefruit" surfaces every
// drug whose warnings mention it.
func (s *snapshot) fuzzyMatches(pos int, norm string) bool {
	if n := s.norms[pos]; n != "" && (strings.Contains(n, norm) || strings.Contains(norm, n)) {
		return true
	}
	for _, w := range s.records[pos].Interactions {
		if strings.Contains(strings.ToLower(w), norm) {
			return true
		}
	}
	return false
}
