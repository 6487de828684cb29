package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/stocksync/backend/internal/logging"
)

// shutdownTimeout bounds how long in-flight status requests may take on exit
const shutdownTimeout = 5 * time.Second

// Server serves run status while a reconciliation is in progress
type Server struct {
	httpServer *http.Server
	done       chan struct{}
	stopOnce   sync.Once
	stopErr    error
}

// NewServer creates a server for handler on addr
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		done: make(chan struct{}),
	}
}

// Start listens on the configured address and serves in the background until
// ctx is done or Shutdown is called. It returns the bound address.
func (s *Server) Start(ctx context.Context) (string, error) {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return "", err
	}

	logger := logging.FromContext(ctx)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("status server stopped")
		}
	}()
	go func() {
		select {
		case <-ctx.Done():
			_ = s.Shutdown()
		case <-s.done:
		}
	}()

	logger.Info().Str("addr", ln.Addr().String()).Msg("status server listening")
	return ln.Addr().String(), nil
}

// Shutdown stops the server, waiting briefly for in-flight requests.
// Only the first call does any work.
func (s *Server) Shutdown() error {
	s.stopOnce.Do(func() {
		close(s.done)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.stopErr = s.httpServer.Shutdown(ctx)
	})
	return s.stopErr
}
