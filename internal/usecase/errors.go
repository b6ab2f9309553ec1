package usecase

import (
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/lol-dataset/internal/platform/sqlstore"
)

var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrNotFound              = crerr.New("resource not found")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")

	// ErrProviderUnavailable marks a provider call that failed after its retry budget.
	ErrProviderUnavailable = crerr.New("provider unavailable")
	// ErrRateLimited marks a provider rejection due to request quota (HTTP 429).
	ErrRateLimited = crerr.New("provider rate limited")
	// ErrLookupMiss marks an enrichment lookup without a matching row.
	ErrLookupMiss = crerr.New("lookup miss")
	// ErrAmbiguousMatch marks a match whose champion slots cannot be resolved uniquely.
	ErrAmbiguousMatch = crerr.New("ambiguous match")
	// ErrInvalidComposition marks a composition request without exactly ten champions.
	ErrInvalidComposition = crerr.New("composition requires ten champions")

	ErrStoreWrite     = sqlstore.ErrStoreWrite
	ErrSchemaMismatch = sqlstore.ErrSchemaMismatch
)

func isRateLimited(err error) bool {
	return crerr.Is(err, ErrRateLimited)
}
