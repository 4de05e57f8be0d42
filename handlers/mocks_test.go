package handlers

import (
	"context"

	"github.com/snplmntn/ainay-companion-care-sub003/interactions/entities"
	"github.com/snplmntn/ainay-companion-care-sub003/interfaces"
)

// mockResolver returns canned answers; set err to simulate a corpus that
// never loaded.
type mockResolver struct {
	record   *entities.InteractionRecord
	results  []entities.InteractionRecord
	warnings map[string][]string
	block    string
	err      error
}

func (m *mockResolver) ResolveExact(ctx context.Context, name string) (*entities.InteractionRecord, error) {
	return m.record, m.err
}

func (m *mockResolver) SearchFuzzy(ctx context.Context, query string, limit int) ([]entities.InteractionRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.results) {
		return m.results[:limit], nil
	}
	return m.results, nil
}

func (m *mockResolver) BatchResolve(ctx context.Context, names []string) (map[string][]string, error) {
	return m.warnings, m.err
}

func (m *mockResolver) BuildContextBlock(ctx context.Context, names []string) (string, error) {
	return m.block, m.err
}

type mockPairChecker struct {
	pair  *entities.PairInteraction
	pairs []entities.PairInteraction
	err   error
}

func (m *mockPairChecker) CheckPair(ctx context.Context, first, second string) (*entities.PairInteraction, error) {
	return m.pair, m.err
}

func (m *mockPairChecker) PairsForList(ctx context.Context, names []string) ([]entities.PairInteraction, error) {
	return m.pairs, m.err
}

type mockHealthChecker struct {
	status     string
	details    map[string]any
	httpStatus int
}

func (m *mockHealthChecker) HealthCheck() (string, map[string]any, int) {
	return m.status, m.details, m.httpStatus
}

var (
	_ interfaces.Resolver      = (*mockResolver)(nil)
	_ interfaces.PairChecker   = (*mockPairChecker)(nil)
	_ interfaces.HealthChecker = (*mockHealthChecker)(nil)
)
