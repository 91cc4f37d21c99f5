package feed

import (
	"sync"
	"time"

	"newsfeed/internal/domain"
)

// InteractionSender receives classified dwell results
type InteractionSender interface {
	SendInteraction(id domain.ID, t domain.InteractionType)
}

// ViewTracker measures how long each article stays in view.
// Timers never expire: a start without a matching end is never reported.
type ViewTracker struct {
	mu        sync.Mutex
	starts    map[domain.ID]time.Time
	threshold time.Duration
	now       func() time.Time
	sender    InteractionSender
}

// TrackerOption configures a ViewTracker
type TrackerOption func(*ViewTracker)

// WithClock replaces time.Now
func WithClock(now func() time.Time) TrackerOption {
	return func(t *ViewTracker) {
		t.now = now
	}
}

// NewViewTracker creates a tracker. A non-positive threshold uses domain.DefaultViewThreshold.
func NewViewTracker(sender InteractionSender, threshold time.Duration, opts ...TrackerOption) *ViewTracker {
	if threshold <= 0 {
		threshold = domain.DefaultViewThreshold
	}
	t := &ViewTracker{
		starts:    make(map[domain.ID]time.Time),
		threshold: threshold,
		now:       time.Now,
		sender:    sender,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// StartView starts or restarts the timer for id
func (t *ViewTracker) StartView(id domain.ID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.starts[id] = t.now()
}

// EndView stops the timer for id and dispatches VIEW or SKIP.
// Without a running timer it does nothing and returns false.
func (t *ViewTracker) EndView(id domain.ID) (domain.InteractionType, bool) {
	t.mu.Lock()
	start, ok := t.starts[id]
	if !ok {
		t.mu.Unlock()
		return "", false
	}
	delete(t.starts, id)
	elapsed := t.now().Sub(start)
	t.mu.Unlock()

	kind := domain.ClassifyDwell(elapsed, t.threshold)
	t.sender.SendInteraction(id, kind)
	return kind, true
}

// Active reports whether a timer is running for id
func (t *ViewTracker) Active(id domain.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.starts[id]
	return ok
}
