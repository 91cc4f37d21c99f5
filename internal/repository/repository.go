package repository

import (
	"context"

	"newsfeed/internal/domain"
)

// FailureRepository defines diagnostics journal operations
type FailureRepository interface {
	SaveFailure(ctx context.Context, f domain.Failure) error
	CleanOldFailures(days int) error
}
