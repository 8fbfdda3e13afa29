package pi

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwulff/picolor-go/internal/domain"
)

// DefaultWindow is the quiet period before an edit burst is flushed.
const DefaultWindow = time.Second

// Syncer buffers rapid edits to a matrix and pushes at most once per quiet
// period. Debouncing is trailing-edge and per matrix id: an edit arriving
// inside the window cancels the pending send and restarts the timer, and at
// most one request per id is in flight at a time. Failures are reported to
// the notify callback and are not retried; the next edit schedules again.
type Syncer struct {
	client *Client
	window time.Duration
	logger zerolog.Logger

	mu       sync.Mutex
	pending  map[string]*pendingSend
	inflight map[string]bool
	closed   bool
}

type pendingSend struct {
	timer  *time.Timer
	url    string
	config domain.MatrixConfig
	notify func(error)
}

// NewSyncer creates a syncer with the given debounce window.
func NewSyncer(client *Client, window time.Duration, logger zerolog.Logger) *Syncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Syncer{
		client:   client,
		window:   window,
		logger:   logger,
		pending:  make(map[string]*pendingSend),
		inflight: make(map[string]bool),
	}
}

// Schedule queues the config for sending after the quiet period. A pending
// send for the same matrix id is superseded. notify may be nil; when set it
// receives the outcome of the flush exactly once.
func (s *Syncer) Schedule(url string, config domain.MatrixConfig, notify func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	id := config.ID
	if p, ok := s.pending[id]; ok {
		p.timer.Stop()
	}
	p := &pendingSend{url: url, config: config, notify: notify}
	p.timer = time.AfterFunc(s.window, func() {
		s.fire(id)
	})
	s.pending[id] = p
}

// CancelPending drops any queued send for the matrix id.
func (s *Syncer) CancelPending(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pending[id]; ok {
		p.timer.Stop()
		delete(s.pending, id)
	}
}

// Close cancels all queued sends. In-flight requests run to completion.
func (s *Syncer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, id)
	}
}

func (s *Syncer) fire(id string) {
	s.mu.Lock()
	p, ok := s.pending[id]
	if !ok || s.closed {
		s.mu.Unlock()
		return
	}
	if s.inflight[id] {
		// Wait for the active request before flushing the next burst.
		p.timer = time.AfterFunc(s.window, func() {
			s.fire(id)
		})
		s.mu.Unlock()
		return
	}
	delete(s.pending, id)
	s.inflight[id] = true
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	err := s.client.UpdatePattern(ctx, p.url, p.config)
	cancel()

	s.mu.Lock()
	delete(s.inflight, id)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn().Err(err).Str("matrix", id).Msg("pattern update failed")
	} else {
		s.logger.Debug().Str("matrix", id).Msg("pattern update sent")
	}
	if p.notify != nil {
		p.notify(err)
	}
}
