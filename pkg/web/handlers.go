package web

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/fitsight/fitsight/pkg/camera"
	"github.com/fitsight/fitsight/pkg/hub"
	"github.com/fitsight/fitsight/pkg/reps"
	"github.com/fitsight/fitsight/pkg/session"
)

// handleStatus returns the current session state.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.worker.State())
}

// handleReps returns the current session's rep summaries in order.
func (s *Server) handleReps(c *fiber.Ctx) error {
	st := s.worker.State()
	if s.store == nil || st.SessionID == "" {
		return c.JSON([]reps.Summary{})
	}
	summaries, err := s.store.SessionReps(context.Background(), st.SessionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if summaries == nil {
		summaries = []reps.Summary{}
	}
	return c.JSON(summaries)
}

// StartSessionRequest is the body for POST /api/session/start.
type StartSessionRequest struct {
	WorkoutID string `json:"workout_id"`
}

// handleSessionStart starts a workout session.
func (s *Server) handleSessionStart(c *fiber.Ctx) error {
	var req StartSessionRequest
	if err := c.BodyParser(&req); err != nil || req.WorkoutID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "workout_id is required",
		})
	}

	if err := s.StartSession(req.WorkoutID); err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, session.ErrUnknownWorkout):
			status = fiber.StatusNotFound
		case errors.Is(err, session.ErrSessionActive):
			status = fiber.StatusConflict
		case errors.Is(err, camera.ErrCameraUnavailable):
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(s.worker.State())
}

// handleSessionStop ends the running session.
func (s *Server) handleSessionStop(c *fiber.Ctx) error {
	s.StopSession()
	return c.JSON(s.worker.State())
}

// handleEventsWS serves the live rep/status/error event stream.
func (s *Server) handleEventsWS(c *websocket.Conn) {
	client := hub.NewClient(s.events, c)
	client.Run() // blocks until the client disconnects
}
