package interactions

import (
	"context"

	"github.com/snplmntn/ainay-companion-care-sub003/interactions/entities"
)

// pairKey identifies an unordered drug pair by normalized names.
type pairKey struct {
	a, b string
}

// newPairKey orders the names so (a,b) and (b,a) land on the same key.
func newPairKey(x, y string) pairKey {
	if y < x {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

func (s *snapshot) indexPairs(pairs []entities.PairInteraction) {
	s.pairList = pairs
	s.pairs = make(map[pairKey]int, len(pairs))
	for i, p := range pairs {
		ka := Normalize(p.DrugA)
		kb := Normalize(p.DrugB)
		if ka == "" || kb == "" {
			continue
		}
		// Same rule as the exact index: a duplicate pair keeps the later row.
		s.pairs[newPairKey(ka, kb)] = i
	}
}

// checkPair probes every combination of the two names' expanded keys and
// returns the first pair entry found.
func (s *snapshot) checkPair(first, second string) (entities.PairInteraction, bool) {
	ka := Normalize(first)
	kb := Normalize(second)
	if ka == "" || kb == "" {
		return entities.PairInteraction{}, false
	}
	aKeys := ExpandAliases(ka)
	bKeys := ExpandAliases(kb)
	for _, x := range aKeys {
		for _, y := range bKeys {
			if pos, ok := s.pairs[newPairKey(x, y)]; ok {
				return s.pairList[pos], true
			}
		}
	}
	return entities.PairInteraction{}, false
}

// pairsForList checks every distinct pair of the listed names, keeping list
// order and dropping duplicate hits.
func (s *snapshot) pairsForList(names []string) []entities.PairInteraction {
	var out []entities.PairInteraction
	seen := make(map[pairKey]struct{})
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			p, ok := s.checkPair(names[i], names[j])
			if !ok {
				continue
			}
			k := newPairKey(Normalize(p.DrugA), Normalize(p.DrugB))
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// CheckPair looks up the drug-drug interaction between two names, or nil when
// the pair corpus has no entry for them. Either name may be a brand alias.
func (e *Engine) CheckPair(ctx context.Context, first, second string) (*entities.PairInteraction, error) {
	s, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := s.checkPair(first, second)
	if !ok {
		return nil, nil
	}
	out := p
	return &out, nil
}

// PairsForList returns every known drug-drug interaction within a medication
// list. The result follows list order and holds no duplicates.
func (e *Engine) PairsForList(ctx context.Context, names []string) ([]entities.PairInteraction, error) {
	s, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.pairsForList(names), nil
}
