// Package server runs the terminal-facing TCP listener and one session per connection.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/innosenze88/ExpertAdvisor/internal/config"
	"github.com/innosenze88/ExpertAdvisor/internal/metrics"
	"github.com/innosenze88/ExpertAdvisor/internal/strategy"
)

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Server accepts terminal connections and hands each one to its own session goroutine.
type Server struct {
	cfg   config.Server
	strat strategy.Strategy
	log   zerolog.Logger

	nextID atomic.Uint64
	wg     sync.WaitGroup

	mu       sync.Mutex
	ln       net.Listener
	sessions map[uint64]net.Conn
}

// New builds a server; nothing is bound until Listen.
func New(cfg config.Server, strat strategy.Strategy, log zerolog.Logger) *Server {
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = 1024
	}
	return &Server{
		cfg:      cfg,
		strat:    strat,
		log:      log,
		sessions: make(map[uint64]net.Conn),
	}
}

// Listen binds the configured address with address reuse enabled.
func (s *Server) Listen(ctx context.Context) error {
	lc := net.ListenConfig{Control: listenControl}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr(), err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	return nil
}

// Addr reports the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// ListenAndServe binds and then serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.Listen(ctx); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Serve accepts connections until ctx is canceled, then closes the listener, wakes every
// open session and waits for them to finish. A failed accept never stops the loop.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		return errors.New("serve: listener not bound")
	}

	stop := context.AfterFunc(ctx, func() {
		_ = ln.Close()
		s.wakeSessions()
	})
	defer stop()

	s.log.Info().Str("addr", ln.Addr().String()).Msg("signal server ready")
	s.log.Info().Msg("waiting for terminal connections")

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.wg.Wait()
				s.log.Info().Msg("listener stopped")
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("accept: %w", err)
			}
			metrics.AcceptErrors.Inc()
			delay = nextAcceptDelay(delay)
			s.log.Warn().Err(err).Dur("retry_in", delay).Msg("accept failed")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
			continue
		}
		delay = 0
		s.dispatch(ctx, conn)
	}
}

func (s *Server) dispatch(ctx context.Context, conn net.Conn) {
	id := s.nextID.Add(1)
	sess := newSession(id, conn, s.strat, s.cfg, s.log)

	s.mu.Lock()
	s.sessions[id] = conn
	s.mu.Unlock()

	metrics.ConnectionsTotal.Inc()
	metrics.ActiveSessions.Inc()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.sessions, id)
			s.mu.Unlock()
			metrics.ActiveSessions.Dec()
		}()
		sess.run(ctx)
	}()
}

// wakeSessions expires pending reads so sessions observe cancellation promptly.
// Sessions still own and close their sockets.
func (s *Server) wakeSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for _, conn := range s.sessions {
		_ = conn.SetReadDeadline(now)
	}
}

func nextAcceptDelay(prev time.Duration) time.Duration {
	if prev <= 0 {
		return minAcceptDelay
	}
	if next := prev * 2; next < maxAcceptDelay {
		return next
	}
	return maxAcceptDelay
}
