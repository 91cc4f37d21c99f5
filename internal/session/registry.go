package session

import (
	"fmt"
	"sync"

	"newsfeed/internal/metrics"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Factory builds a fresh session for a chat
type Factory func(chatID int64) *Controller

// Registry keeps one session per chat for the lifetime of the process.
// The least recently used sessions are dropped once the registry is full.
type Registry struct {
	mu      sync.Mutex
	cache   *lru.Cache[int64, *Controller]
	factory Factory
	logger  *zap.Logger
	onEvict []func(chatID int64)
}

// NewRegistry creates a registry holding at most size sessions
func NewRegistry(size int, factory Factory, logger *zap.Logger) (*Registry, error) {
	r := &Registry{factory: factory, logger: logger}
	cache, err := lru.NewWithEvict[int64, *Controller](size, r.evicted)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	r.cache = cache
	return r, nil
}

// OnEvict registers fn to run when a chat's session is dropped for space.
// fn runs with the registry locked and must not call back into it.
func (r *Registry) OnEvict(fn func(chatID int64)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onEvict = append(r.onEvict, fn)
}

// evicted runs inside cache.Add, so mu is already held
func (r *Registry) evicted(chatID int64, c *Controller) {
	r.logger.Info("Session evicted",
		zap.Int64("chat_id", chatID),
		zap.String("phase", c.Phase().String()),
	)
	for _, fn := range r.onEvict {
		fn(chatID)
	}
}

// Get returns the chat's session, creating one in the IDENTITY phase if needed
func (r *Registry) Get(chatID int64) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.cache.Get(chatID); ok {
		return c
	}
	return r.create(chatID)
}

// Reset replaces the chat's session with a fresh one
func (r *Registry) Reset(chatID int64) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.create(chatID)
}

func (r *Registry) Len() int {
	return r.cache.Len()
}

// create must be called with mu held
func (r *Registry) create(chatID int64) *Controller {
	c := r.factory(chatID)
	r.cache.Add(chatID, c)
	metrics.ActiveSessions.Set(float64(r.cache.Len()))
	r.logger.Info("Session created", zap.Int64("chat_id", chatID))
	return c
}
