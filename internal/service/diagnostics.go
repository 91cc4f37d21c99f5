package service

import (
	"context"

	"newsfeed/internal/domain"
	"newsfeed/internal/repository"

	"go.uber.org/zap"
)

// DefaultRetentionDays is how long failure records are kept
const DefaultRetentionDays = 30

// DiagnosticsService keeps the failure journal
type DiagnosticsService struct {
	failureRepo   repository.FailureRepository
	retentionDays int
	logger        *zap.Logger
}

// NewDiagnosticsService creates a new diagnostics service
func NewDiagnosticsService(failureRepo repository.FailureRepository, retentionDays int, logger *zap.Logger) *DiagnosticsService {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return &DiagnosticsService{
		failureRepo:   failureRepo,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// RecordFailure persists a failure. A journal that cannot be written is
// only logged; callers never see the error.
func (s *DiagnosticsService) RecordFailure(ctx context.Context, f domain.Failure) {
	if err := s.failureRepo.SaveFailure(ctx, f); err != nil {
		s.logger.Error("Failed to record failure",
			zap.Error(err),
			zap.String("kind", string(f.Kind)),
			zap.String("operation", f.Operation),
			zap.String("user_id", f.UserID.String()),
		)
		return
	}
	s.logger.Debug("Failure recorded",
		zap.String("kind", string(f.Kind)),
		zap.String("operation", f.Operation),
	)
}

// CleanupOldData removes failures older than the retention period
func (s *DiagnosticsService) CleanupOldData() error {
	s.logger.Info("Starting cleanup of old failures", zap.Int("retention_days", s.retentionDays))

	err := s.failureRepo.CleanOldFailures(s.retentionDays)
	if err != nil {
		s.logger.Error("Failed to cleanup old failures", zap.Error(err))
		return err
	}

	s.logger.Info("Cleanup completed successfully")
	return nil
}
