// Package web serves a live preview of the mirrored video in the browser.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/teslashibe/dance-companion/internal/log"
	"github.com/teslashibe/dance-companion/pkg/hub"
)

// DefaultStatusInterval is how often connected viewers receive a status push.
const DefaultStatusInterval = time.Second

// StatusFunc reports the current run state for GET /api/status.
type StatusFunc func() any

// Server is the preview server
type Server struct {
	app    *fiber.App
	addr   string
	logger *slog.Logger

	frames         *hub.Hub
	hubCtx         context.Context
	hubCancel      context.CancelFunc
	statusInterval time.Duration

	statusMu sync.RWMutex
	status   StatusFunc

	stopOnce sync.Once
	stop     chan struct{}

	startOnce    sync.Once
	shutdownOnce sync.Once
}

// NewServer creates a preview server listening on addr (e.g. ":8090").
func NewServer(addr string) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr:           addr,
		logger:         log.With("component", "web"),
		frames:         hub.New("frames"),
		hubCtx:         ctx,
		hubCancel:      cancel,
		statusInterval: DefaultStatusInterval,
		stop:           make(chan struct{}),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Dance Companion",
		DisableStartupMessage: true,
	})

	app.Use(cors.New())

	app.Get("/", s.handleIndex)

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Post("/stop", s.handleStop)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/frames", websocket.New(s.handleFramesWS))

	s.app = app
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// SetStatus installs the status reporter.
func (s *Server) SetStatus(fn StatusFunc) {
	s.statusMu.Lock()
	s.status = fn
	s.statusMu.Unlock()
}

func (s *Server) statusFunc() StatusFunc {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

// Start binds the listen address and blocks serving HTTP.
func (s *Server) Start() error {
	ln, err := s.listen()
	if err != nil {
		return err
	}
	return s.serve(ln)
}

// StartAsync binds the listen address and serves in a goroutine. A bind
// failure (e.g. port in use) is returned before anything runs.
func (s *Server) StartAsync() error {
	ln, err := s.listen()
	if err != nil {
		return err
	}
	go func() {
		if err := s.serve(ln); err != nil {
			s.logger.Error("preview server stopped", "error", err)
		}
	}()
	return nil
}

func (s *Server) listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("preview server listen %s: %w", s.addr, err)
	}
	return ln, nil
}

func (s *Server) serve(ln net.Listener) error {
	s.startOnce.Do(func() {
		go s.frames.Run(s.hubCtx)
		go s.pushStatus(s.hubCtx)
	})

	s.logger.Info("preview server listening", "addr", ln.Addr().String())
	return s.app.Listener(ln)
}

// pushStatus sends a status snapshot to viewers on every tick while any are
// connected.
func (s *Server) pushStatus(ctx context.Context) {
	ticker := time.NewTicker(s.statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn := s.statusFunc()
			if fn == nil || s.frames.ClientCount() == 0 {
				continue
			}
			if err := s.frames.BroadcastStatus(fn()); err != nil {
				s.logger.Warn("status push failed", "error", err)
			}
		}
	}
}

// SendFrame broadcasts an encoded JPEG to every viewer. Frames are dropped
// when viewers fall behind.
func (s *Server) SendFrame(jpeg []byte) {
	s.frames.BroadcastFrame(jpeg)
}

// Viewers returns the number of connected websocket viewers.
func (s *Server) Viewers() int {
	return s.frames.ClientCount()
}

// StopRequested is closed once a viewer asks the loop to stop.
func (s *Server) StopRequested() <-chan struct{} {
	return s.stop
}

// RequestStop closes StopRequested. Safe to call repeatedly.
func (s *Server) RequestStop() {
	s.stopOnce.Do(func() {
		s.logger.Info("stop requested")
		close(s.stop)
	})
}

// Shutdown stops the hub and the HTTP server.
func (s *Server) Shutdown() error {
	var err error
	s.shutdownOnce.Do(func() {
		s.hubCancel()
		err = s.app.Shutdown()
	})
	return err
}
