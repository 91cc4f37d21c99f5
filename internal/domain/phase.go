package domain

// Phase is the onboarding phase of a feed session
type Phase string

const (
	PhaseIdentity       Phase = "identity"
	PhaseTopicSelection Phase = "topic_selection"
	PhaseFeed           Phase = "feed"
)

// CanTransition reports whether the session may move from p to next.
// Phases only move forward; FEED is terminal.
func (p Phase) CanTransition(next Phase) bool {
	switch p {
	case PhaseIdentity:
		return next == PhaseTopicSelection || next == PhaseFeed
	case PhaseTopicSelection:
		return next == PhaseFeed
	default:
		return false
	}
}

func (p Phase) String() string {
	return string(p)
}
