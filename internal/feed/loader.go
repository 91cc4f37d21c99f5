package feed

import (
	"context"
	"time"

	"newsfeed/internal/domain"
	"newsfeed/internal/metrics"

	"go.uber.org/zap"
)

// DefaultPageSize is the page length the service returns while more items remain
const DefaultPageSize = 10

// RecommendationFetcher fetches one page of recommended articles
type RecommendationFetcher interface {
	Recommendations(ctx context.Context, token string, userID domain.ID, articleLimit int) ([]domain.Article, error)
}

// FailureRecorder keeps failures for diagnostics
type FailureRecorder interface {
	RecordFailure(ctx context.Context, f domain.Failure)
}

// Credentials authenticate calls made on behalf of one session
type Credentials struct {
	Token  string
	UserID domain.ID
}

// LoaderConfig describes the page contract with the service
type LoaderConfig struct {
	// PageSize is the expected length of a non-final page
	PageSize int
	// ArticleLimit is sent as the articleLimit query parameter when positive
	ArticleLimit int
}

// Loader fetches pages into a State, one request at a time
type Loader struct {
	api      RecommendationFetcher
	state    *State
	creds    Credentials
	cfg      LoaderConfig
	recorder FailureRecorder
	logger   *zap.Logger
}

// NewLoader creates a loader. recorder may be nil.
func NewLoader(api RecommendationFetcher, state *State, creds Credentials, cfg LoaderConfig, recorder FailureRecorder, logger *zap.Logger) *Loader {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return &Loader{
		api:      api,
		state:    state,
		creds:    creds,
		cfg:      cfg,
		recorder: recorder,
		logger:   logger,
	}
}

// Load fetches the next page. It is a no-op while another fetch is in
// flight or after the feed is exhausted. appendItems=false replaces the
// current items. A failed fetch ends pagination for the session and the
// error is returned for logging only.
func (l *Loader) Load(ctx context.Context, appendItems bool) error {
	if !l.state.beginLoad() {
		l.logger.Debug("Skipping feed load",
			zap.String("user_id", l.creds.UserID.String()),
			zap.Bool("loading", l.state.IsLoading()),
			zap.Bool("has_more", l.state.HasMore()),
		)
		return nil
	}

	page, err := l.api.Recommendations(ctx, l.creds.Token, l.creds.UserID, l.cfg.ArticleLimit)
	if err != nil {
		l.state.failLoad()
		metrics.PageFetches.WithLabelValues("error").Inc()
		l.logger.Error("Failed to fetch recommendations",
			zap.Error(err),
			zap.String("user_id", l.creds.UserID.String()),
			zap.Bool("append", appendItems),
		)
		if l.recorder != nil {
			l.recorder.RecordFailure(ctx, domain.Failure{
				Kind:       domain.FailureConnectivity,
				Operation:  "fetch_recommendations",
				UserID:     l.creds.UserID,
				Message:    err.Error(),
				OccurredAt: time.Now(),
			})
		}
		return &domain.ConnectivityError{Op: "fetch recommendations", Err: err}
	}

	l.state.completeLoad(page, appendItems, l.cfg.PageSize)

	result := "full"
	if len(page) != l.cfg.PageSize {
		result = "short"
	}
	metrics.PageFetches.WithLabelValues(result).Inc()

	l.logger.Info("Feed page loaded",
		zap.String("user_id", l.creds.UserID.String()),
		zap.Int("page_len", len(page)),
		zap.Int("total", l.state.Len()),
		zap.Bool("append", appendItems),
		zap.Bool("has_more", l.state.HasMore()),
	)
	return nil
}
