// Package reporting delivers interaction reports in the background.
// Callers never wait for delivery; results only reach logs, metrics and
// the completion callback.
package reporting

import (
	"context"
	"sync"
	"time"

	"newsfeed/internal/domain"
	"newsfeed/internal/metrics"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const breakerName = "interaction-reports"

// Reporter sends one interaction to the recommendation service
type Reporter interface {
	ReportInteraction(ctx context.Context, token string, in domain.Interaction) error
}

// Config tunes the worker pool
type Config struct {
	Workers   int
	QueueSize int
	// RatePerSecond caps outbound reports across all sessions; zero disables pacing
	RatePerSecond float64
	// Timeout bounds one report; zero leaves it to the transport
	Timeout time.Duration
}

type job struct {
	id    string
	token string
	in    domain.Interaction
	done  func(error)
}

// Dispatcher is a shared fire-and-forget queue for interaction reports.
// Reports are never retried and may complete in any order.
type Dispatcher struct {
	reporter Reporter
	cfg      Config
	jobs     chan job
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[struct{}]
	logger   *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// New creates a dispatcher and starts its workers
func New(reporter Reporter, cfg Config, logger *zap.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Workers)
	}

	d := &Dispatcher{
		reporter: reporter,
		cfg:      cfg,
		jobs:     make(chan job, cfg.QueueSize),
		limiter:  limiter,
		logger:   logger,
	}
	d.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			d.logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.BreakerState.WithLabelValues(name).Set(breakerStateValue(to))
		},
	})
	metrics.BreakerState.WithLabelValues(breakerName).Set(0)

	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

// Dispatch queues a report without blocking. It returns false when the
// queue is full or the dispatcher is closed; done is not called then.
func (d *Dispatcher) Dispatch(token string, in domain.Interaction, done func(error)) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}

	j := job{id: uuid.NewString(), token: token, in: in, done: done}
	select {
	case d.jobs <- j:
		metrics.ReportQueueDepth.Set(float64(len(d.jobs)))
		return true
	default:
		metrics.InteractionReports.WithLabelValues(in.Label(), "dropped").Inc()
		d.logger.Warn("Interaction report queue full, dropping report",
			zap.String("type", in.Label()),
			zap.String("article_id", in.ArticleID.String()),
		)
		return false
	}
}

// Close stops accepting reports, delivers what is queued and waits for the workers
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for j := range d.jobs {
		metrics.ReportQueueDepth.Set(float64(len(d.jobs)))
		d.deliver(j)
	}
}

func (d *Dispatcher) deliver(j job) {
	ctx := context.Background()
	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}

	err := d.limiter.Wait(ctx)
	if err == nil {
		_, err = d.breaker.Execute(func() (struct{}, error) {
			return struct{}{}, d.reporter.ReportInteraction(ctx, j.token, j.in)
		})
	}

	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.InteractionReports.WithLabelValues(j.in.Label(), result).Inc()

	d.logger.Debug("Interaction report settled",
		zap.String("report_id", j.id),
		zap.String("type", j.in.Label()),
		zap.String("user_id", j.in.UserID.String()),
		zap.String("article_id", j.in.ArticleID.String()),
		zap.String("result", result),
	)

	if j.done != nil {
		j.done(err)
	}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
