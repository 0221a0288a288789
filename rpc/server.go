package rpc

import (
	"context"
	"crypto/tls"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/latticefold/sequencer/metrics"
)

// Server is the sequencer's REST HTTP server: POST /tx, GET /health, GET
// /metrics.
type Server struct {
	addr      string
	handler   *Handler
	metrics   *metrics.Recorder
	tlsConfig *tls.Config
	srv       *http.Server
	ln        net.Listener
}

// NewServer creates a Server on addr. tlsConfig may be nil, in which case
// the server serves plain HTTP.
func NewServer(addr string, handler *Handler, rec *metrics.Recorder, tlsConfig *tls.Config) *Server {
	s := &Server{addr: addr, handler: handler, metrics: rec, tlsConfig: tlsConfig}
	mux := http.NewServeMux()
	mux.HandleFunc("/tx", s.handler.submitTx)
	mux.HandleFunc("/health", health)
	mux.Handle("/metrics", s.metrics.Handler())
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Start binds the port synchronously (so callers know immediately if
// binding fails) then serves requests in a background goroutine.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	if s.tlsConfig != nil {
		ln = tls.NewListener(ln, s.tlsConfig)
	}
	s.ln = ln
	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("[rpc] server error: %v", err)
		}
	}()
	return nil
}

// Addr returns the listener's address. Useful when started on ":0".
func (s *Server) Addr() net.Addr {
	if s.ln != nil {
		return s.ln.Addr()
	}
	return nil
}

// Stop gracefully shuts down the HTTP server, waiting up to 5 seconds for
// in-flight requests to complete.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
