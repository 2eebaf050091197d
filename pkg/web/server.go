// Package web exposes the presenter-side transport: the MJPEG preview
// stream, the session JSON API, and the live event websocket.
package web

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/fitsight/fitsight/internal/log"
	"github.com/fitsight/fitsight/pkg/hub"
	"github.com/fitsight/fitsight/pkg/session"
	"github.com/fitsight/fitsight/pkg/store"
)

// Server serves the streaming endpoint and session API. It never calls
// into the camera directly; everything it shows comes from the worker's
// snapshot and event queue, so a disconnecting client cannot disturb the
// session.
type Server struct {
	app    *fiber.App
	port   int
	worker *session.Worker
	store  *store.Store
	events *hub.Hub

	// quit ends long-lived response loops (the MJPEG stream) on shutdown;
	// fasthttp's Shutdown waits for open connections, and a streaming
	// response never goes idle on its own.
	quit     chan struct{}
	quitOnce sync.Once

	summaryPath string
}

// NewServer wires the transport around a session worker.
func NewServer(port int, worker *session.Worker, st *store.Store, summaryPath string) *Server {
	s := &Server{
		port:        port,
		worker:      worker,
		store:       st,
		events:      hub.New("events"),
		quit:        make(chan struct{}),
		summaryPath: summaryPath,
	}

	app := fiber.New(fiber.Config{
		AppName:               "fitsight",
		DisableStartupMessage: true,
	})

	// Permissive CORS. The middleware only answers full preflights (Origin
	// plus Access-Control-Request-Method); a bare OPTIONS would fall through
	// to the router and 405, so every OPTIONS gets an explicit 204.
	app.Use(cors.New())
	app.Options("/*", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Get("/cv-stream", s.handleStream)

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/reps", s.handleReps)
	api.Post("/session/start", s.handleSessionStart)
	api.Post("/session/stop", s.handleSessionStop)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app

	// Terminal session failures surface to dashboard clients as an error
	// event; the session itself is already over by the time this fires.
	worker.OnError = func(err error) {
		s.events.BroadcastJSON(errorEvent(worker.State().SessionID, err))
	}

	return s
}

// Events returns the websocket broadcast hub.
func (s *Server) Events() *hub.Hub {
	return s.events
}

// Start runs the event hub and listens. Blocks until shutdown.
func (s *Server) Start() error {
	go s.events.Run()
	log.Info("stream server listening", "port", s.port, "path", "/cv-stream")
	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

// Shutdown ends open stream responses and gracefully stops the HTTP
// server. Safe to call more than once.
func (s *Server) Shutdown() error {
	s.quitOnce.Do(func() { close(s.quit) })
	return s.app.Shutdown()
}

// StartSession begins a workout session and records it in history.
func (s *Server) StartSession(workoutID string) error {
	if err := s.worker.Start(workoutID); err != nil {
		return err
	}

	st := s.worker.State()
	if s.store != nil {
		if err := s.store.CreateSession(context.Background(), st.SessionID, st.WorkoutID, st.StartedAt); err != nil {
			log.Warn("history insert failed", "error", err)
		}
	}
	s.events.BroadcastJSON(statusEvent(st))
	return nil
}

// StopSession stops the running session, finalizes history, and writes the
// rep-summary document. Safe to call when nothing is running.
func (s *Server) StopSession() {
	before := s.worker.State()
	s.worker.Stop()

	if before.SessionID == "" {
		return
	}

	st := s.worker.State()
	if s.store != nil {
		ctx := context.Background()
		if err := s.store.FinishSession(ctx, st.SessionID, time.Now(), st.RepCount); err != nil {
			log.Warn("history update failed", "error", err)
		}
		if s.summaryPath != "" {
			if err := s.store.ExportSummary(ctx, st.SessionID, s.summaryPath); err != nil {
				log.Warn("summary export failed", "error", err)
			} else {
				log.Info("rep summary written", "path", s.summaryPath, "reps", st.RepCount)
			}
		}
	}
	s.events.BroadcastJSON(statusEvent(st))
}
