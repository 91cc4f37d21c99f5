package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"newsfeed/internal/domain"
)

// FailureRepo implements repository.FailureRepository
type FailureRepo struct {
	db *sql.DB
}

// NewFailureRepo creates a new failure repository
func NewFailureRepo(db *sql.DB) *FailureRepo {
	return &FailureRepo{db: db}
}

// SaveFailure appends a failure to the journal
func (r *FailureRepo) SaveFailure(ctx context.Context, f domain.Failure) error {
	query := `
		INSERT INTO report_failures (kind, operation, user_id, article_id, message, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		string(f.Kind),
		f.Operation,
		nullableID(f.UserID),
		nullableID(f.ArticleID),
		f.Message,
		f.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save failure: %w", err)
	}
	return nil
}

// CleanOldFailures deletes failures older than specified days
func (r *FailureRepo) CleanOldFailures(days int) error {
	query := `
		DELETE FROM report_failures
		WHERE occurred_at < NOW() - INTERVAL '1 day' * $1
	`
	_, err := r.db.Exec(query, days)
	return err
}

func nullableID(id domain.ID) sql.NullString {
	return sql.NullString{String: id.String(), Valid: id != ""}
}
