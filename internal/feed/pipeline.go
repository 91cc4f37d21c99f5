package feed

import (
	"context"
	"errors"
	"time"

	"newsfeed/internal/domain"

	"go.uber.org/zap"
)

// ErrQueueFull is passed to completion callbacks when a report could not be queued
var ErrQueueFull = errors.New("interaction report queue is full")

// Dispatcher sends reports in the background. Dispatch must not block;
// it returns false when the report was not accepted. done, if not nil,
// runs once the report settles.
type Dispatcher interface {
	Dispatch(token string, in domain.Interaction, done func(error)) bool
}

// Pipeline turns UI signals into interaction reports.
// Like toggles are applied locally before the service is told.
type Pipeline struct {
	state      *State
	dispatcher Dispatcher
	creds      Credentials
	reconciler Reconciler
	recorder   FailureRecorder
	logger     *zap.Logger
}

// NewPipeline creates a pipeline. A nil reconciler means NoRollback.
func NewPipeline(state *State, dispatcher Dispatcher, creds Credentials, reconciler Reconciler, recorder FailureRecorder, logger *zap.Logger) *Pipeline {
	if reconciler == nil {
		reconciler = NoRollback{}
	}
	return &Pipeline{
		state:      state,
		dispatcher: dispatcher,
		creds:      creds,
		reconciler: reconciler,
		recorder:   recorder,
		logger:     logger,
	}
}

// ToggleLike flips the liked state of id and reports LIKE or unlike.
// Returns the liked state after the toggle.
func (p *Pipeline) ToggleLike(id domain.ID) (bool, error) {
	liked, err := p.state.toggleLiked(id)
	if err != nil {
		return false, err
	}

	in := domain.Interaction{
		UserID:    p.creds.UserID,
		ArticleID: id,
		Type:      domain.InteractionLike,
		Unlike:    !liked,
	}
	p.send(in, func(err error) {
		p.reconciler.Reconcile(p.state, id, liked, err)
	})
	return liked, nil
}

// SendInteraction reports a VIEW, SKIP or LIKE without waiting
func (p *Pipeline) SendInteraction(id domain.ID, t domain.InteractionType) {
	p.send(domain.Interaction{UserID: p.creds.UserID, ArticleID: id, Type: t}, nil)
}

// SendUnlike reports an unlike without waiting
func (p *Pipeline) SendUnlike(id domain.ID) {
	p.send(domain.Interaction{UserID: p.creds.UserID, ArticleID: id, Type: domain.InteractionLike, Unlike: true}, nil)
}

func (p *Pipeline) send(in domain.Interaction, after func(error)) {
	done := func(err error) {
		if err != nil {
			p.reportFailed(in, err)
		}
		if after != nil {
			after(err)
		}
	}

	if !p.dispatcher.Dispatch(p.creds.Token, in, done) {
		done(ErrQueueFull)
	}
}

func (p *Pipeline) reportFailed(in domain.Interaction, err error) {
	p.logger.Warn("Interaction report failed",
		zap.Error(err),
		zap.String("type", in.Label()),
		zap.String("user_id", in.UserID.String()),
		zap.String("article_id", in.ArticleID.String()),
	)
	if p.recorder == nil {
		return
	}
	p.recorder.RecordFailure(context.Background(), domain.Failure{
		Kind:       domain.FailureSilentReporting,
		Operation:  "report_" + in.Label(),
		UserID:     in.UserID,
		ArticleID:  in.ArticleID,
		Message:    err.Error(),
		OccurredAt: time.Now(),
	})
}
