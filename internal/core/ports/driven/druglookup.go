package driven

import (
	"context"

	"github.com/medvault-labs/medvault-cli/internal/core/domain"
)

// DrugDirectory looks up medication names against a drug reference.
// Returns domain.ErrNotFound for a definitive miss; any other error is
// infrastructure trouble (network, rate limit) and callers must not
// treat it as "unknown drug".
//
// Implementations may include:
//   - RxNav REST API (RxNorm)
//   - Embedded static formulary (offline/tests)
type DrugDirectory interface {
	// Lookup resolves a drug name. Matching is case-insensitive and
	// tolerant of surrounding whitespace.
	Lookup(ctx context.Context, name string) (*domain.DrugInfo, error)
}
