package handler

import (
	"context"
	"sync"

	"newsfeed/internal/middleware"
	"newsfeed/internal/session"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler renders sessions into Telegram chats
type Handler struct {
	bot      *tele.Bot
	sessions *session.Registry
	logger   *zap.Logger
	ctx      context.Context

	// Carousel position per chat
	states   map[int64]*CarouselState
	stateMux sync.RWMutex
}

// CarouselState is the slide a chat is looking at
type CarouselState struct {
	Index int
}

// NewHandler creates a new handler instance. ctx bounds the service calls
// made on behalf of chats.
func NewHandler(ctx context.Context, bot *tele.Bot, sessions *session.Registry, logger *zap.Logger) *Handler {
	h := &Handler{
		bot:      bot,
		sessions: sessions,
		logger:   logger,
		ctx:      ctx,
		states:   make(map[int64]*CarouselState),
	}
	sessions.OnEvict(h.forget)
	return h
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	h.bot.Use(middleware.Session(h.sessions, h.logger), middleware.BusyGuard(h.logger))

	// Commands
	h.bot.Handle("/start", h.handleStart)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnTopic, h.handleTopic)
	h.bot.Handle(&btnSubmitTopics, h.handleSubmitTopics)
	h.bot.Handle(&btnNav, h.handleNav)
	h.bot.Handle(&btnLike, h.handleLike)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns chat's carousel position
func (h *Handler) GetState(chatID int64) *CarouselState {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[chatID]
	if !exists {
		return &CarouselState{}
	}
	return state
}

// SetState sets chat's carousel position
func (h *Handler) SetState(chatID int64, state *CarouselState) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[chatID] = state
}

// ResetState moves chat back to the first slide
func (h *Handler) ResetState(chatID int64) {
	h.SetState(chatID, &CarouselState{})
}

// forget drops the carousel position of a chat whose session was evicted
func (h *Handler) forget(chatID int64) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	delete(h.states, chatID)
}

// session returns the session bound by middleware
func (h *Handler) session(c tele.Context) *session.Controller {
	if ctrl := middleware.SessionFrom(c); ctrl != nil {
		return ctrl
	}
	return h.sessions.Get(c.Chat().ID)
}

// Inline keyboard buttons
var (
	btnTopic        = tele.Btn{Unique: "topic"}
	btnSubmitTopics = tele.Btn{Unique: "topics_submit"}
	btnNav          = tele.Btn{Unique: "nav"}
	btnLike         = tele.Btn{Unique: "like"}
)

const (
	navPrev = "prev"
	navNext = "next"
)
