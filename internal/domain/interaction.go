package domain

import "time"

// InteractionType is the signal reported to the recommendation service
type InteractionType string

const (
	InteractionView InteractionType = "VIEW"
	InteractionSkip InteractionType = "SKIP"
	InteractionLike InteractionType = "LIKE"
)

// DefaultViewThreshold separates a VIEW from a SKIP
const DefaultViewThreshold = 5 * time.Second

// ClassifyDwell returns VIEW when elapsed is strictly greater than threshold, SKIP otherwise
func ClassifyDwell(elapsed, threshold time.Duration) InteractionType {
	if elapsed > threshold {
		return InteractionView
	}
	return InteractionSkip
}

// Interaction is a single report bound for the service.
// Unlike reports carry Type LIKE and go to the unlike endpoint.
type Interaction struct {
	UserID    ID
	ArticleID ID
	Type      InteractionType
	Unlike    bool
}

// Label names the report for logs and metrics
func (i Interaction) Label() string {
	if i.Unlike {
		return "UNLIKE"
	}
	return string(i.Type)
}
