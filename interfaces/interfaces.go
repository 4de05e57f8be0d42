// Package interfaces defines the contracts between the interaction engine,
// its dataset collaborator, and the HTTP layer, so each side can be tested
// against hand-rolled fakes.
package interfaces

import (
	"context"
	"time"

	"github.com/snplmntn/ainay-companion-care-sub003/interactions/entities"
)

// DatasetFetcher retrieves the reference corpora from wherever they are
// published. The engine calls it at most once per successful load.
type DatasetFetcher interface {
	// FetchInteractions returns the drug-food interaction corpus.
	FetchInteractions(ctx context.Context) ([]entities.InteractionRecord, error)

	// FetchPairs returns the drug-drug pair corpus. An unconfigured pair
	// source yields (nil, nil), not an error.
	FetchPairs(ctx context.Context) ([]entities.PairInteraction, error)
}

// Resolver is the caller-facing resolution API. Implementations may load the
// corpus lazily on first use; ctx covers that load. Not-found is expressed as
// empty results, never as an error.
type Resolver interface {
	// ResolveExact returns the record for one medication name, or nil.
	ResolveExact(ctx context.Context, name string) (*entities.InteractionRecord, error)

	// SearchFuzzy returns up to limit records for a partial query.
	SearchFuzzy(ctx context.Context, query string, limit int) ([]entities.InteractionRecord, error)

	// BatchResolve maps input names to their warnings, omitting names
	// without a match or without warnings.
	BatchResolve(ctx context.Context, names []string) (map[string][]string, error)

	// BuildContextBlock renders a medication list's warnings as plain text.
	BuildContextBlock(ctx context.Context, names []string) (string, error)
}

// PairChecker answers drug-drug interaction queries from the pair corpus.
type PairChecker interface {
	CheckPair(ctx context.Context, first, second string) (*entities.PairInteraction, error)
	PairsForList(ctx context.Context, names []string) ([]entities.PairInteraction, error)
}

// Warmer exposes the corpus lifecycle to the scheduler and health checker.
type Warmer interface {
	// Warm forces the load; safe to call repeatedly.
	Warm(ctx context.Context) error
	Loaded() bool
	RecordCount() int
	PairCount() int
	LoadedAt() time.Time
	LastLoadError() string
}

// Scheduler manages the warmup and monitoring jobs.
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker reports service health for the /health endpoint.
type HealthChecker interface {
	// HealthCheck returns a status word, detail payload and HTTP status.
	HealthCheck() (status string, details map[string]any, httpStatus int)
}

// InputValidator guards the HTTP edge against junk and abuse before any
// engine call. The engine itself treats bad input as a non-match; validation
// exists to give clients useful 400s and to keep garbage out of the logs.
type InputValidator interface {
	// ValidateDrugName checks one user-entered medication name.
	ValidateDrugName(input string) error

	// ValidateLimit parses and bounds a result-limit query parameter,
	// applying the default when the input is empty.
	ValidateLimit(input string) (int, error)

	// ValidateNames checks a batch payload's name list.
	ValidateNames(names []string) error
}
