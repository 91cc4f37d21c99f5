package feed

import (
	"sync"
	"testing"
	"time"

	"newsfeed/internal/domain"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sentInteraction struct {
	id   domain.ID
	kind domain.InteractionType
}

type captureSender struct {
	mu   sync.Mutex
	sent []sentInteraction
}

func (s *captureSender) SendInteraction(id domain.ID, t domain.InteractionType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentInteraction{id: id, kind: t})
}

func newTestTracker() (*ViewTracker, *fakeClock, *captureSender) {
	clock := &fakeClock{now: time.Date(2024, 11, 20, 9, 0, 0, 0, time.UTC)}
	sender := &captureSender{}
	return NewViewTracker(sender, 5*time.Second, WithClock(clock.Now)), clock, sender
}

func TestViewTracker_Classification(t *testing.T) {
	tests := []struct {
		name     string
		dwell    time.Duration
		expected domain.InteractionType
	}{
		{name: "quick swipe", dwell: time.Second, expected: domain.InteractionSkip},
		{name: "exactly five seconds", dwell: 5 * time.Second, expected: domain.InteractionSkip},
		{name: "just over five seconds", dwell: 5*time.Second + time.Millisecond, expected: domain.InteractionView},
		{name: "long read", dwell: 40 * time.Second, expected: domain.InteractionView},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, clock, sender := newTestTracker()

			tracker.StartView("1")
			clock.Advance(tt.dwell)
			kind, ok := tracker.EndView("1")

			assert.True(t, ok)
			assert.Equal(t, tt.expected, kind)
			assert.Equal(t, []sentInteraction{{id: "1", kind: tt.expected}}, sender.sent)
			assert.False(t, tracker.Active("1"))
		})
	}
}

func TestViewTracker_EndWithoutStart(t *testing.T) {
	tracker, _, sender := newTestTracker()

	_, ok := tracker.EndView("1")

	assert.False(t, ok)
	assert.Empty(t, sender.sent)
}

func TestViewTracker_DuplicateEnd(t *testing.T) {
	tracker, clock, sender := newTestTracker()

	tracker.StartView("1")
	clock.Advance(time.Second)
	_, first := tracker.EndView("1")
	_, second := tracker.EndView("1")

	assert.True(t, first)
	assert.False(t, second)
	assert.Len(t, sender.sent, 1)
}

func TestViewTracker_RestartKeepsLatestStart(t *testing.T) {
	tracker, clock, sender := newTestTracker()

	tracker.StartView("1")
	clock.Advance(10 * time.Second)
	tracker.StartView("1")
	clock.Advance(2 * time.Second)

	kind, ok := tracker.EndView("1")

	assert.True(t, ok)
	assert.Equal(t, domain.InteractionSkip, kind)
	assert.Len(t, sender.sent, 1)
}

func TestViewTracker_IndependentTimers(t *testing.T) {
	tracker, clock, sender := newTestTracker()

	tracker.StartView("1")
	clock.Advance(3 * time.Second)
	tracker.StartView("2")
	clock.Advance(3 * time.Second)

	kind1, _ := tracker.EndView("1")
	kind2, _ := tracker.EndView("2")

	assert.Equal(t, domain.InteractionView, kind1)
	assert.Equal(t, domain.InteractionSkip, kind2)
	assert.Len(t, sender.sent, 2)
}

func TestViewTracker_DefaultThreshold(t *testing.T) {
	tracker := NewViewTracker(&captureSender{}, 0)
	assert.Equal(t, domain.DefaultViewThreshold, tracker.threshold)
}
