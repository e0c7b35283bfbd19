// Package server accepts memcached-protocol connections over TCP and
// an optional Unix domain socket, dispatching each parsed command to a
// Handler and driving the refresh engine's Tick/Poll loop.
package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/pior/platypus"
	"github.com/pior/platypus/protocol"
	"github.com/rs/zerolog"
)

// RefreshDriver is the subset of engine.Engine the server's background
// loop drives once per second.
type RefreshDriver interface {
	Tick(ctx context.Context)
	Poll()
}

// Handler processes one parsed command into a response.
type Handler interface {
	Handle(ctx context.Context, cc *protocol.CommandContext) (*protocol.Response, error)
}

// Config configures a Server.
type Config struct {
	// Bind is the TCP listen address, e.g. "127.0.0.1:11212".
	Bind string
	// UnixSocket is an optional Unix domain socket path.
	UnixSocket string
}

// Server owns the listeners, the live connection set, and the
// background refresh driver loop.
type Server struct {
	cfg     Config
	handler Handler
	driver  RefreshDriver
	writer  *platypus.Writer
	log     zerolog.Logger

	wg        sync.WaitGroup
	listeners []net.Listener
}

// New builds a Server. writer may be nil if there is no warm tier to
// drain on shutdown.
func New(cfg Config, handler Handler, driver RefreshDriver, writer *platypus.Writer, log zerolog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		handler: handler,
		driver:  driver,
		writer:  writer,
		log:     log.With().Str("component", "server").Logger(),
	}
}

// Serve starts the configured listeners and the background refresh
// loop, blocking until ctx is cancelled. On return, every accepted
// connection has been closed and, if configured, the writer has
// drained its queue.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.cfg.Bind != "" {
		ln, err := net.Listen("tcp", s.cfg.Bind)
		if err != nil {
			return err
		}
		s.listeners = append(s.listeners, ln)
		s.log.Info().Str("addr", s.cfg.Bind).Msg("listening on tcp")
	}

	if s.cfg.UnixSocket != "" {
		_ = os.Remove(s.cfg.UnixSocket)
		ln, err := net.Listen("unix", s.cfg.UnixSocket)
		if err != nil {
			return err
		}
		s.listeners = append(s.listeners, ln)
		s.log.Info().Str("path", s.cfg.UnixSocket).Msg("listening on unix socket")
	}

	if len(s.listeners) == 0 {
		return errors.New("server: no listener configured, set Bind or UnixSocket")
	}

	for _, ln := range s.listeners {
		ln := ln
		s.wg.Add(1)
		go s.acceptLoop(ctx, ln)
	}

	s.wg.Add(1)
	go s.tickLoop(ctx)

	<-ctx.Done()

	for _, ln := range s.listeners {
		_ = ln.Close()
	}
	s.wg.Wait()

	if s.writer != nil {
		s.writer.Shutdown()
	}
	return nil
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) {
	defer s.wg.Done()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				s.log.Warn().Err(err).Msg("accept failed")
				return
			}
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(ctx, conn)
		}()
	}
}

func (s *Server) tickLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.driver.Tick(ctx)
			s.driver.Poll()
		}
	}
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	// Closing the connection on shutdown unblocks a read on an idle client.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	reader := bufio.NewReader(conn)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		cc, err := protocol.RecvCommand(reader)
		if err != nil {
			if errors.Is(err, protocol.ErrNoCommand) {
				continue
			}
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return
			}

			// A malformed frame is surfaced to the client in its own
			// dialect without closing the connection; only a transport
			// failure (handled above) or an unrecognized dialect (cc
			// nil, e.g. a dropped connection mid-header) ends the loop.
			if cc == nil {
				s.log.Warn().Err(err).Msg("unrecognizable frame, closing connection")
				return
			}

			dialect := cc.Dialect
			var resp *protocol.Response
			if protocol.IsUnknownBinaryCommand(err) {
				resp = &protocol.Response{Kind: protocol.RespUnknownCommand}
			} else {
				s.log.Warn().Err(err).Msg("parse error")
				resp = &protocol.Response{Kind: protocol.RespClientError, Message: "parse error"}
			}
			if _, err := conn.Write(resp.Serialize(dialect)); err != nil {
				s.log.Debug().Err(err).Msg("write failed, closing connection")
				return
			}
			continue
		}

		resp, err := s.handler.Handle(ctx, cc)
		if err != nil {
			if platypus.IsKind(err, platypus.KindQuit) {
				return
			}
			s.log.Error().Err(err).Msg("handler error")
			resp = &protocol.Response{Kind: protocol.RespServerError, Message: err.Error()}
		}

		if _, err := conn.Write(resp.Serialize(cc.Dialect)); err != nil {
			s.log.Debug().Err(err).Msg("write failed, closing connection")
			return
		}
	}
}
