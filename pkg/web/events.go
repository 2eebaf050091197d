package web

import (
	"github.com/fitsight/fitsight/pkg/reps"
	"github.com/fitsight/fitsight/pkg/session"
)

// Websocket event envelope types. Every frame sent on /ws/events carries a
// "type" discriminator: "rep", "status", or "error".

// RepEvent announces one completed repetition.
type RepEvent struct {
	Type      string       `json:"type"`
	SessionID string       `json:"session_id"`
	RepCount  int          `json:"rep_count"`
	Summary   reps.Summary `json:"summary"`
}

// StatusEvent announces a session state change.
type StatusEvent struct {
	Type  string        `json:"type"`
	State session.State `json:"state"`
}

// ErrorEvent announces a terminal session error.
type ErrorEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Error     string `json:"error"`
}

func repEvent(sessionID string, repCount int, sum reps.Summary) RepEvent {
	return RepEvent{Type: "rep", SessionID: sessionID, RepCount: repCount, Summary: sum}
}

func statusEvent(st session.State) StatusEvent {
	return StatusEvent{Type: "status", State: st}
}

func errorEvent(sessionID string, err error) ErrorEvent {
	return ErrorEvent{Type: "error", SessionID: sessionID, Error: err.Error()}
}
