package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhase_CanTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     Phase
		to       Phase
		expected bool
	}{
		{name: "identity to topic selection", from: PhaseIdentity, to: PhaseTopicSelection, expected: true},
		{name: "identity straight to feed", from: PhaseIdentity, to: PhaseFeed, expected: true},
		{name: "topic selection to feed", from: PhaseTopicSelection, to: PhaseFeed, expected: true},
		{name: "topic selection back to identity", from: PhaseTopicSelection, to: PhaseIdentity, expected: false},
		{name: "feed back to topic selection", from: PhaseFeed, to: PhaseTopicSelection, expected: false},
		{name: "feed re-entry", from: PhaseFeed, to: PhaseFeed, expected: false},
		{name: "identity re-entry", from: PhaseIdentity, to: PhaseIdentity, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.CanTransition(tt.to))
		})
	}
}

func TestSession_Authenticate(t *testing.T) {
	s := Session{DisplayName: "Mai"}
	assert.False(t, s.Authenticated())

	assert.NoError(t, s.Authenticate("token-1", "42"))
	assert.True(t, s.Authenticated())

	err := s.Authenticate("token-2", "43")
	assert.ErrorIs(t, err, ErrAlreadyAuthenticated)
	assert.Equal(t, "token-1", s.AuthToken)
	assert.Equal(t, ID("42"), s.UserID)
}
