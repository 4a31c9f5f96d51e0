// Package server streams the backdrop to browsers. Each websocket connection
// runs its own animation loop and receives one SVG document per frame.
package server

import (
	"context"
	_ "embed"
	"errors"
	"image/color"
	"log"
	"net/http"
	"time"

	"github.com/san-kum/backdrop/internal/loop"
	"github.com/san-kum/backdrop/internal/scene"
)

//go:embed web/index.html
var indexHTML []byte

const (
	shutdownTimeout = 5 * time.Second
	maxScale        = 4
)

type Options struct {
	FPS        int
	Bounds     scene.Bounds
	Background color.Color
	Build      loop.Builder
	// MaxBounds caps the size a browser may ask for. Zero means maxScale
	// times Bounds.
	MaxBounds scene.Bounds
	// MaxClients caps concurrent streams; zero means unlimited.
	MaxClients int
}

type Server struct {
	hub *hub
	mux *http.ServeMux
}

func New(opts Options) *Server {
	if opts.FPS <= 0 {
		opts.FPS = loop.DefaultFPS
	}
	if opts.Bounds.Validate() != nil {
		opts.Bounds = scene.Bounds{Width: 800, Height: 600}
	}
	if opts.MaxBounds.Validate() != nil {
		opts.MaxBounds = scene.Bounds{Width: maxScale * opts.Bounds.Width, Height: maxScale * opts.Bounds.Height}
	}
	if opts.Background == nil {
		opts.Background = color.White
	}

	s := &Server{hub: newHub(opts), mux: http.NewServeMux()}
	s.mux.HandleFunc("/ws", s.hub.handler)
	s.mux.HandleFunc("/", s.index)
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

// Clients reports how many streams are open.
func (s *Server) Clients() int { return s.hub.count() }

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// ListenAndServe serves until ctx is cancelled, then shuts down and closes
// every open stream.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("serving backdrop on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.hub.closeAll()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
