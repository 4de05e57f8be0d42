package interactions

import (
	"strings"
	"time"

	"github.com/snplmntn/ainay-companion-care-sub003/interactions/entities"
)

// Fragment length rules for the token index. Anything shorter than three
// characters fans out to far too many records to be useful.
const (
	minFragmentLen  = 3
	minLaterWordLen = 4
)

// snapshot is one fully indexed, immutable view of the corpus. It is built by
// exactly one goroutine and only ever read afterwards, so none of its fields
// need locking.
type snapshot struct {
	records  []entities.InteractionRecord
	norms    []string         // Normalize(records[i].Name), cached at build time
	exact    map[string]int   // normalized name -> record position
	tokens   map[string][]int // fragment -> record positions, registration order
	pairs    map[pairKey]int  // unordered normalized pair -> pairList position
	pairList []entities.PairInteraction
	skipped  int // records whose name normalized to ""
	loadedAt time.Time
}

func newSnapshot(records []entities.InteractionRecord, pairs []entities.PairInteraction) *snapshot {
	s := &snapshot{
		records:  records,
		norms:    make([]string, len(records)),
		exact:    make(map[string]int, len(records)),
		tokens:   make(map[string][]int),
		loadedAt: time.Now(),
	}
	for i, rec := range records {
		key := Normalize(rec.Name)
		s.norms[i] = key
		if key == "" {
			s.skipped++
			continue
		}
		// A duplicate key keeps the later record. The corpus occasionally
		// lists the same drug twice and correcting that here would only
		// hide the data problem.
		s.exact[key] = i
		s.indexTokens(key, i)
	}
	s.indexPairs(pairs)
	return s
}

// indexTokens registers the fragments a record is findable under: its first
// word plus every prefix of that word down to minFragmentLen, and each later
// word of at least minLaterWordLen characters. A record lands at most once in
// any fragment's posting list.
func (s *snapshot) indexTokens(key string, pos int) {
	words := strings.Fields(key)
	if len(words) == 0 {
		return
	}
	seen := make(map[string]struct{}, len(words)+8)
	register := func(frag string) {
		if _, dup := seen[frag]; dup {
			return
		}
		seen[frag] = struct{}{}
		s.tokens[frag] = append(s.tokens[frag], pos)
	}
	if first := words[0]; len(first) >= minFragmentLen {
		register(first)
		for n := minFragmentLen; n < len(first); n++ {
			register(first[:n])
		}
	}
	for _, w := range words[1:] {
		if len(w) >= minLaterWordLen {
			register(w)
		}
	}
}
