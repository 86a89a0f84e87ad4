package signal

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Session runs a Source in the background and feeds its readings into a Cell.
//
// Disconnecting (or the source failing) stops raw updates only. The Cell keeps
// its last value, so the render loop carries on with a frozen tension.
type Session struct {
	source Source
	cell   *Cell

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	connected bool
	err       error
	readings  uint64
}

// NewSession creates a disconnected session writing into cell.
func NewSession(source Source, cell *Cell) *Session {
	return &Session{source: source, cell: cell}
}

// Connect starts the source. Calling Connect on a connected session is a no-op.
func (s *Session) Connect(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connected {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.connected = true
	s.err = nil

	go s.run(ctx, s.done)
	slog.Info("tension source connected")
}

func (s *Session) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	err := s.source.Run(ctx, func(v float64) {
		s.cell.Set(v)
		s.mu.Lock()
		s.readings++
		s.mu.Unlock()
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	if err != nil && !errors.Is(err, context.Canceled) {
		s.err = err
		slog.Error("tension source failed", "error", err)
		return
	}
	slog.Info("tension source closed")
}

// Disconnect stops the source and waits for it to exit.
func (s *Session) Disconnect() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Toggle connects a disconnected session and disconnects a connected one.
func (s *Session) Toggle(ctx context.Context) {
	if s.Connected() {
		s.Disconnect()
		return
	}
	s.Connect(ctx)
}

// Connected reports whether the source is running.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Err returns the error that ended the last run, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Readings returns how many raw values the session has received.
func (s *Session) Readings() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readings
}

// Wait blocks until the current run ends. It returns immediately if the
// session was never connected.
func (s *Session) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}
