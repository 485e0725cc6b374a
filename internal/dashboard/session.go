package dashboard

import (
	"context"

	"github.com/google/uuid"
)

// Session is one open dashboard: a Board, the Controller drawing on it, and
// the two triggers a page offers (the search button and the initial load).
type Session struct {
	ID    uuid.UUID
	Board *Board

	ctrl   *Controller
	search chan struct{}
	load   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSession creates a board and binds a controller's triggers to it.
// The session lives until Close or until ctx is done.
func NewSession(ctx context.Context, fetcher Fetcher, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(ctx)
	board := NewBoard()

	s := &Session{
		ID:     uuid.New(),
		Board:  board,
		ctrl:   NewController(fetcher, board.Targets(), opts...),
		search: make(chan struct{}),
		load:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
	s.ctrl.Bind(ctx, s.search, s.load)
	return s
}

// Load fires the page-load trigger.
func (s *Session) Load() {
	s.fire(s.load)
}

// Search sets the inputs and fires the search trigger.
func (s *Session) Search(origin, destination string) {
	s.Board.SetInputs(origin, destination)
	s.fire(s.search)
}

// Close stops the triggers and waits for in-flight runs to finish. Nothing
// is drawn on the board after Close returns.
func (s *Session) Close() {
	s.cancel()
	s.ctrl.Shutdown()
}

func (s *Session) fire(trigger chan struct{}) {
	select {
	case trigger <- struct{}{}:
	case <-s.ctx.Done():
	}
}
