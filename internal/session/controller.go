// Package session drives one user's feed session: the onboarding phases
// and, once in the feed, pagination and interaction capture.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"newsfeed/internal/domain"
	"newsfeed/internal/feed"
	"newsfeed/internal/metrics"
	"newsfeed/internal/newsapi"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// API is the part of the recommendation service a session needs
type API interface {
	Register(ctx context.Context, req newsapi.RegisterRequest) error
	Login(ctx context.Context, req newsapi.LoginRequest) (*newsapi.LoginResponse, error)
	InitPreferences(ctx context.Context, token string, userID domain.ID, topics []string) error
	feed.RecommendationFetcher
}

// Options configures the feed components built when a session reaches the feed
type Options struct {
	Loader        feed.LoaderConfig
	ViewThreshold time.Duration
	Reconciler    feed.Reconciler
	Now           func() time.Time
}

// Snapshot is what the hosting UI renders
type Snapshot struct {
	Phase       domain.Phase
	DisplayName string
	Topics      []string
	Busy        bool
	Feed        feed.Snapshot
}

// Controller is the state machine of one session.
// Phases only move forward: IDENTITY -> TOPIC_SELECTION -> FEED, or IDENTITY -> FEED.
type Controller struct {
	api        API
	dispatcher feed.Dispatcher
	recorder   feed.FailureRecorder
	opts       Options
	logger     *zap.Logger

	mu      sync.Mutex
	phase   domain.Phase
	session domain.Session
	topics  domain.TopicSelection
	busy    bool

	state    *feed.State
	loader   *feed.Loader
	tracker  *feed.ViewTracker
	pipeline *feed.Pipeline
}

// NewController creates a session in the IDENTITY phase. recorder may be nil.
func NewController(api API, dispatcher feed.Dispatcher, recorder feed.FailureRecorder, opts Options, logger *zap.Logger) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{
		api:        api,
		dispatcher: dispatcher,
		recorder:   recorder,
		opts:       opts,
		logger:     logger,
		phase:      domain.PhaseIdentity,
	}
}

func (c *Controller) Phase() domain.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Busy reports whether an onboarding submission is in flight
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *Controller) DisplayName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.DisplayName
}

// Feed returns the feed state, or nil before the feed is built
func (c *Controller) Feed() *feed.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	snap := Snapshot{
		Phase:       c.phase,
		DisplayName: c.session.DisplayName,
		Topics:      c.topics.Labels(),
		Busy:        c.busy,
	}
	state := c.state
	c.mu.Unlock()

	if state != nil {
		snap.Feed = state.Snapshot()
	}
	return snap
}

// SubmitIdentity registers an anonymous account for name and logs in.
// Accounts without stored preferences continue to topic selection; others
// load the first page and go straight to the feed.
func (c *Controller) SubmitIdentity(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if err := c.beginSubmit("submit identity", domain.PhaseIdentity); err != nil {
		return err
	}
	defer c.endSubmit()

	if name == "" {
		return domain.ErrEmptyDisplayName
	}

	password := strings.ReplaceAll(uuid.NewString(), "-", "")
	email := fmt.Sprintf("user%d@test.com", c.opts.Now().UnixMilli())

	if err := c.api.Register(ctx, newsapi.RegisterRequest{Username: name, Email: email, Password: password}); err != nil {
		return c.connectivityFailure(ctx, "register", err)
	}

	login, err := c.api.Login(ctx, newsapi.LoginRequest{Username: name, Password: password})
	if err != nil {
		return c.connectivityFailure(ctx, "login", err)
	}

	c.mu.Lock()
	c.session.DisplayName = name
	err = c.session.Authenticate(login.Token, login.UserID)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	c.logger.Info("Session authenticated",
		zap.String("user_id", login.UserID.String()),
		zap.Bool("init_preferences", login.IsInitPreferences),
	)

	if !login.IsInitPreferences {
		return c.transition(domain.PhaseTopicSelection)
	}
	return c.enterFeed(ctx)
}

// ToggleTopic selects or deselects a catalog topic.
// Returns whether the topic is selected afterwards.
func (c *Controller) ToggleTopic(label string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != domain.PhaseTopicSelection {
		return false, &domain.PhaseError{Op: "toggle topic", Phase: c.phase}
	}
	if c.busy {
		return false, domain.ErrBusy
	}
	return c.topics.Toggle(label)
}

// SubmitTopics stores the selection as the user's initial preferences,
// loads the first page and enters the feed. An empty selection is rejected.
func (c *Controller) SubmitTopics(ctx context.Context) error {
	if err := c.beginSubmit("submit topics", domain.PhaseTopicSelection); err != nil {
		return err
	}
	defer c.endSubmit()

	c.mu.Lock()
	topics := c.topics.Labels()
	creds := c.credentials()
	c.mu.Unlock()

	if len(topics) == 0 {
		return domain.ErrEmptySelection
	}

	if err := c.api.InitPreferences(ctx, creds.Token, creds.UserID, topics); err != nil {
		return c.connectivityFailure(ctx, "submit preferences", err)
	}

	c.logger.Info("Initial preferences stored",
		zap.String("user_id", creds.UserID.String()),
		zap.Strings("topics", topics),
	)
	return c.enterFeed(ctx)
}

// LoadMore handles the UI reaching the last loaded article
func (c *Controller) LoadMore(ctx context.Context) error {
	loader, err := feedComponent(c, "load more", func() *feed.Loader { return c.loader })
	if err != nil {
		return err
	}
	return loader.Load(ctx, true)
}

// StartView starts the dwell timer of an article entering view
func (c *Controller) StartView(id domain.ID) error {
	tracker, err := feedComponent(c, "start view", func() *feed.ViewTracker { return c.tracker })
	if err != nil {
		return err
	}
	tracker.StartView(id)
	return nil
}

// EndView stops the dwell timer of an article leaving view
func (c *Controller) EndView(id domain.ID) error {
	tracker, err := feedComponent(c, "end view", func() *feed.ViewTracker { return c.tracker })
	if err != nil {
		return err
	}
	tracker.EndView(id)
	return nil
}

// SlideChanged handles carousel navigation: the previously active article
// leaves view and the new one enters. Empty ids are skipped.
func (c *Controller) SlideChanged(prev, next domain.ID) error {
	tracker, err := feedComponent(c, "slide changed", func() *feed.ViewTracker { return c.tracker })
	if err != nil {
		return err
	}
	if prev != "" {
		tracker.EndView(prev)
	}
	if next != "" {
		tracker.StartView(next)
	}
	return nil
}

// ToggleLike flips the liked state of an article. Returns the new state.
func (c *Controller) ToggleLike(id domain.ID) (bool, error) {
	pipeline, err := feedComponent(c, "toggle like", func() *feed.Pipeline { return c.pipeline })
	if err != nil {
		return false, err
	}
	return pipeline.ToggleLike(id)
}

func (c *Controller) beginSubmit(op string, phase domain.Phase) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != phase {
		return &domain.PhaseError{Op: op, Phase: c.phase}
	}
	if c.busy {
		return domain.ErrBusy
	}
	c.busy = true
	return nil
}

func (c *Controller) endSubmit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
}

// credentials must be called with mu held
func (c *Controller) credentials() feed.Credentials {
	return feed.Credentials{Token: c.session.AuthToken, UserID: c.session.UserID}
}

// enterFeed builds the feed components, runs the initial load and moves to FEED.
// A failed initial load still enters the feed with pagination stopped.
func (c *Controller) enterFeed(ctx context.Context) error {
	c.mu.Lock()
	creds := c.credentials()
	c.state = feed.NewState()
	c.loader = feed.NewLoader(c.api, c.state, creds, c.opts.Loader, c.recorder, c.logger)
	c.pipeline = feed.NewPipeline(c.state, c.dispatcher, creds, c.opts.Reconciler, c.recorder, c.logger)
	c.tracker = feed.NewViewTracker(c.pipeline, c.opts.ViewThreshold, feed.WithClock(c.opts.Now))
	loader := c.loader
	c.mu.Unlock()

	if err := loader.Load(ctx, false); err != nil {
		c.logger.Warn("Initial feed load failed", zap.Error(err), zap.String("user_id", creds.UserID.String()))
	}
	return c.transition(domain.PhaseFeed)
}

func (c *Controller) transition(to domain.Phase) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.phase.CanTransition(to) {
		return &domain.PhaseError{Op: "transition to " + to.String(), Phase: c.phase}
	}
	from := c.phase
	c.phase = to
	metrics.OnboardingTransitions.WithLabelValues(to.String()).Inc()
	c.logger.Info("Session phase changed",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.String("user_id", c.session.UserID.String()),
	)
	return nil
}

func (c *Controller) connectivityFailure(ctx context.Context, op string, err error) error {
	c.logger.Error("Onboarding call failed", zap.String("operation", op), zap.Error(err))
	if c.recorder != nil {
		c.mu.Lock()
		userID := c.session.UserID
		c.mu.Unlock()
		c.recorder.RecordFailure(ctx, domain.Failure{
			Kind:       domain.FailureConnectivity,
			Operation:  strings.ReplaceAll(op, " ", "_"),
			UserID:     userID,
			Message:    err.Error(),
			OccurredAt: c.opts.Now(),
		})
	}
	return &domain.ConnectivityError{Op: op, Err: err}
}

// feedComponent returns a feed component once the session is in FEED
func feedComponent[T any](c *Controller, op string, get func() *T) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != domain.PhaseFeed {
		return nil, &domain.PhaseError{Op: op, Phase: c.phase}
	}
	return get(), nil
}
