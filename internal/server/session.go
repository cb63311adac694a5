package server

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/innosenze88/ExpertAdvisor/internal/codec"
	"github.com/innosenze88/ExpertAdvisor/internal/config"
	"github.com/innosenze88/ExpertAdvisor/internal/metrics"
	"github.com/innosenze88/ExpertAdvisor/internal/strategy"
)

// Reasons a session ends; also used as the metrics label.
const (
	closePeer     = "peer_closed"
	closeReset    = "peer_reset"
	closeIOError  = "io_error"
	closeShutdown = "shutdown"
)

type readOutcome int

const (
	readRetry readOutcome = iota
	readPeerClosed
	readReset
	readFatal
)

// session owns one terminal connection. Only its run goroutine touches conn, alternating
// a read with at most one write.
type session struct {
	id           uint64
	conn         net.Conn
	strat        strategy.Strategy
	bufSize      int
	idlePoll     time.Duration
	writeTimeout time.Duration
	log          zerolog.Logger

	opened   time.Time
	messages int
}

func newSession(id uint64, conn net.Conn, strat strategy.Strategy, cfg config.Server, log zerolog.Logger) *session {
	return &session{
		id:           id,
		conn:         conn,
		strat:        strat,
		bufSize:      cfg.ReadBufferSize,
		idlePoll:     cfg.IdlePoll(),
		writeTimeout: cfg.WriteTimeout(),
		log:          log.With().Uint64("session", id).Str("remote", conn.RemoteAddr().String()).Logger(),
		opened:       time.Now(),
	}
}

// run is the read → process → write loop. It returns once the connection is done and
// has closed the socket exactly once.
func (s *session) run(ctx context.Context) {
	reason := closeIOError
	defer func() { s.close(reason) }()

	s.log.Info().Msg("terminal connected")
	buf := make([]byte, s.bufSize)
	for {
		if ctx.Err() != nil {
			reason = closeShutdown
			return
		}
		if err := s.conn.SetReadDeadline(time.Now().Add(s.idlePoll)); err != nil {
			s.log.Warn().Err(err).Msg("set read deadline failed")
			return
		}

		n, err := s.conn.Read(buf)
		if n > 0 {
			if !s.respond(buf[:n]) {
				return
			}
		}
		if err == nil {
			if n == 0 {
				s.log.Info().Msg("terminal disconnected")
				reason = closePeer
				return
			}
			continue
		}

		switch classifyRead(err) {
		case readRetry:
			continue
		case readPeerClosed:
			s.log.Info().Msg("terminal disconnected")
			reason = closePeer
		case readReset:
			s.log.Info().Err(err).Msg("terminal reset connection")
			reason = closeReset
		default:
			s.log.Warn().Err(err).Msg("socket read failed")
		}
		return
	}
}

// respond handles one inbound chunk. It reports false when the connection must close.
func (s *session) respond(raw []byte) bool {
	if codec.IsBlank(raw) {
		metrics.MessagesTotal.WithLabelValues("blank").Inc()
		return true
	}
	s.messages++

	resp := s.process(raw)
	if s.writeTimeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
			s.log.Warn().Err(err).Msg("set write deadline failed")
			return false
		}
	}
	if _, err := s.conn.Write(resp); err != nil {
		s.log.Warn().Err(err).Msg("socket write failed")
		return false
	}
	return true
}

// process turns one request into a response; it never fails.
func (s *session) process(raw []byte) (resp []byte) {
	s.log.Debug().Str("raw", codec.Text(raw)).Msg("message received")

	sample, err := codec.Decode(raw)
	if err != nil {
		metrics.MessagesTotal.WithLabelValues("malformed").Inc()
		s.log.Warn().Err(err).Str("raw", codec.Text(raw)).Msg("replying with zero signal")
		return codec.ZeroResponse
	}

	defer func() {
		if r := recover(); r != nil {
			metrics.MessagesTotal.WithLabelValues("error").Inc()
			s.log.Error().Interface("panic", r).Str("symbol", sample.Symbol).Msg("signal computation failed")
			resp = codec.ZeroResponse
		}
	}()

	sig := s.strat.Compute(sample)
	resp = codec.Encode(sig)
	metrics.MessagesTotal.WithLabelValues("ok").Inc()
	metrics.SignalsTotal.WithLabelValues(sig.Direction.String()).Inc()
	if !sig.IsNeutral() {
		s.log.Info().
			Str("symbol", sample.Symbol).
			Str("rsi", strconv.FormatFloat(sample.RSI, 'f', 2, 64)).
			Str("response", string(resp)).
			Msg("signal")
	}
	return resp
}

func (s *session) close(reason string) {
	if err := s.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.log.Warn().Err(err).Msg("close failed")
	}
	metrics.SessionsClosed.WithLabelValues(reason).Inc()
	s.log.Info().
		Str("reason", reason).
		Int("messages", s.messages).
		Dur("lifetime", time.Since(s.opened)).
		Msg("terminal session closed")
}

func classifyRead(err error) readOutcome {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout():
		return readRetry
	case errors.Is(err, io.EOF):
		return readPeerClosed
	case isReset(err):
		return readReset
	default:
		return readFatal
	}
}

func isReset(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	for _, code := range resetErrnos {
		if errno == code {
			return true
		}
	}
	return false
}
