// Package transport is a thin newline-delimited-JSON demonstration
// transport for internal/engine, replacing the teacher's bespoke binary
// wire protocol (spec.md §6 documents a tagged-JSON external interface, not
// a binary frame).
package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"

	"clobengine/internal/engine"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const maxLineSize = 64 * 1024

// Server accepts TCP connections and serves each as an independent
// request/response loop of newline-delimited JSON, against a shared Engine.
// The accept-loop/tomb-supervision shape is the teacher's
// internal/net/server.go; per-connection handling is goroutine-per-
// connection rather than the teacher's worker pool, since a JSON
// request/response session is naturally long-lived per connection instead
// of one-shot tasks requeued onto a shared pool.
type Server struct {
	address string
	port    int
	engine  *engine.Engine

	cancel context.CancelFunc
}

// New creates a Server bound to address:port, dispatching requests to eng.
func New(address string, port int, eng *engine.Engine) *Server {
	return &Server{address: address, port: port, engine: eng}
}

// Shutdown stops the accept loop. An open connection is not closed at once:
// it stops before serving its next request line.
func (s *Server) Shutdown() {
	if s.cancel != nil {
		log.Info().Msg("transport shutting down")
		s.cancel()
	}
}

// Run listens and serves until ctx is cancelled or Shutdown is called.
func (s *Server) Run(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	defer s.Shutdown()

	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("%s:%d", s.address, s.port))
	if err != nil {
		return fmt.Errorf("transport: listen: %w", err)
	}
	defer func() {
		if err := listener.Close(); err != nil {
			log.Error().Err(err).Msg("transport: error closing listener")
		}
	}()

	t.Go(func() error {
		<-t.Dying()
		return listener.Close()
	})

	log.Info().Str("address", listener.Addr().String()).Msg("transport listening")

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				log.Error().Err(err).Msg("transport: accept error")
				continue
			}
		}
		t.Go(func() error {
			s.serveConn(t, conn)
			return nil
		})
	}
}

func (s *Server) serveConn(t *tomb.Tomb, conn net.Conn) {
	defer func() {
		if err := conn.Close(); err != nil {
			log.Error().Err(err).Str("address", conn.RemoteAddr().String()).Msg("transport: error closing connection")
		}
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, maxLineSize), maxLineSize)
	enc := json.NewEncoder(conn)

	for scanner.Scan() {
		select {
		case <-t.Dying():
			return
		default:
		}

		var req Request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			_ = enc.Encode(Response{Error: fmt.Sprintf("transport: invalid request: %v", err)})
			continue
		}

		resp := dispatch(s.engine, req)
		if err := enc.Encode(resp); err != nil {
			log.Error().Err(err).Str("address", conn.RemoteAddr().String()).Msg("transport: error writing response")
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Debug().Err(err).Str("address", conn.RemoteAddr().String()).Msg("transport: connection read error")
	}
}
