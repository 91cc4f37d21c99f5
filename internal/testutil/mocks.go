package testutil

import (
	"context"
	"sync"

	"newsfeed/internal/domain"
	"newsfeed/internal/newsapi"

	"github.com/stretchr/testify/mock"
)

// MockNewsAPI is a mock for the recommendation service client
type MockNewsAPI struct {
	mock.Mock
}

func (m *MockNewsAPI) Register(ctx context.Context, req newsapi.RegisterRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockNewsAPI) Login(ctx context.Context, req newsapi.LoginRequest) (*newsapi.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*newsapi.LoginResponse), args.Error(1)
}

func (m *MockNewsAPI) InitPreferences(ctx context.Context, token string, userID domain.ID, topics []string) error {
	args := m.Called(ctx, token, userID, topics)
	return args.Error(0)
}

func (m *MockNewsAPI) Recommendations(ctx context.Context, token string, userID domain.ID, articleLimit int) ([]domain.Article, error) {
	args := m.Called(ctx, token, userID, articleLimit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Article), args.Error(1)
}

func (m *MockNewsAPI) ReportInteraction(ctx context.Context, token string, in domain.Interaction) error {
	args := m.Called(ctx, token, in)
	return args.Error(0)
}

// MockFailureRepository is a mock for FailureRepository
type MockFailureRepository struct {
	mock.Mock
}

func (m *MockFailureRepository) SaveFailure(ctx context.Context, f domain.Failure) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFailureRepository) CleanOldFailures(days int) error {
	args := m.Called(days)
	return args.Error(0)
}

// DispatchedReport is one call captured by RecordingDispatcher
type DispatchedReport struct {
	Token       string
	Interaction domain.Interaction
}

// RecordingDispatcher completes every report synchronously with Err.
// With Reject set it refuses all reports.
type RecordingDispatcher struct {
	mu      sync.Mutex
	reports []DispatchedReport
	Err     error
	Reject  bool
}

func (d *RecordingDispatcher) Dispatch(token string, in domain.Interaction, done func(error)) bool {
	if d.Reject {
		return false
	}
	d.mu.Lock()
	d.reports = append(d.reports, DispatchedReport{Token: token, Interaction: in})
	err := d.Err
	d.mu.Unlock()

	if done != nil {
		done(err)
	}
	return true
}

// Reports returns captured reports in dispatch order
func (d *RecordingDispatcher) Reports() []DispatchedReport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]DispatchedReport(nil), d.reports...)
}

// Interactions returns captured interactions in dispatch order
func (d *RecordingDispatcher) Interactions() []domain.Interaction {
	reports := d.Reports()
	out := make([]domain.Interaction, 0, len(reports))
	for _, r := range reports {
		out = append(out, r.Interaction)
	}
	return out
}

// RecordingRecorder captures diagnostics failures
type RecordingRecorder struct {
	mu       sync.Mutex
	failures []domain.Failure
}

func (r *RecordingRecorder) RecordFailure(_ context.Context, f domain.Failure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, f)
}

func (r *RecordingRecorder) Failures() []domain.Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Failure(nil), r.failures...)
}
