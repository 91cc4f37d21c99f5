package domain

import "time"

// FailureKind classifies a recorded failure
type FailureKind string

const (
	// FailureConnectivity covers register, login, preference submit and page fetch
	FailureConnectivity FailureKind = "connectivity"
	// FailureSilentReporting covers interaction and unlike reports
	FailureSilentReporting FailureKind = "silent_reporting"
)

// Failure is a diagnostics record. It is never read back into a session.
type Failure struct {
	ID         int64
	Kind       FailureKind
	Operation  string
	UserID     ID
	ArticleID  ID
	Message    string
	OccurredAt time.Time
}
