// Package session runs the per-workout sensor pipeline on a dedicated
// worker goroutine and publishes results to presenter-side consumers.
package session

import (
	"time"

	"github.com/fitsight/fitsight/pkg/pose"
	"github.com/fitsight/fitsight/pkg/reps"
)

// RepEvent pairs a completed rep with the session that produced it and its
// 1-based rep number. Consumers can lag across a session boundary; the
// stamped id keeps late-drained reps attributed to the session that did the
// work.
type RepEvent struct {
	SessionID string
	Count     int
	Event     reps.Event
}

// FrameResult is the per-tick snapshot handed to presenters. Only the most
// recent instance is retained (last-write-wins); presenters may observe
// fewer frames than were produced, never a partially written one.
type FrameResult struct {
	Seq       uint64    `json:"seq"`
	JPEG      []byte    `json:"-"` // annotated frame, read-only for consumers
	Angle     *float64  `json:"angle,omitempty"`
	Feedback  string    `json:"feedback,omitempty"`
	Alert     bool      `json:"alert"`
	RepCount  int       `json:"rep_count"`
	Timestamp time.Time `json:"timestamp"`
	Err       error     `json:"-"` // terminal session error, set once
}

// State is the public view of a session. Mutated only by the worker.
type State struct {
	SessionID string    `json:"session_id"`
	WorkoutID string    `json:"workout_id"`
	Running   bool      `json:"running"`
	RepCount  int       `json:"rep_count"`
	StartedAt time.Time `json:"started_at"`
}

// Tick carries everything a Renderer needs to annotate one frame.
type Tick struct {
	Landmarks pose.LandmarkSet
	Angle     *float64
	Feedback  string
	Alert     bool
	RepCount  int
	Workout   string
}
