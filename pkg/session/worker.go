package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fitsight/fitsight/internal/log"
	"github.com/fitsight/fitsight/pkg/camera"
	"github.com/fitsight/fitsight/pkg/pose"
	"github.com/fitsight/fitsight/pkg/reps"
)

var (
	// ErrUnknownWorkout means the requested workout id has no rule.
	ErrUnknownWorkout = errors.New("unknown workout")

	// ErrSessionActive means Start was called while a session is running.
	ErrSessionActive = errors.New("session already active")
)

// Source produces frames for the worker. *camera.Source satisfies it.
type Source interface {
	Read() (camera.Frame, error)
	Close() error
}

// Renderer annotates a frame and encodes it to JPEG.
type Renderer interface {
	Render(frame camera.Frame, tick Tick) ([]byte, error)
}

// Config holds worker configuration.
type Config struct {
	Camera        camera.Config
	Rules         map[string]reps.Rule // workout id → rule
	MinConfidence float64              // landmark score floor for angles
	EventBuffer   int                  // rep event queue depth (default 64)
}

// Worker drives the tick loop: read frame → estimate pose → compute angles
// → evaluate feedback → feed the rep detector → publish a FrameResult.
//
// One goroutine (spawned by Start) is the only owner of the camera handle,
// the detector state, and the session state. Presenters read through
// Snapshot and Events at their own cadence.
type Worker struct {
	config    Config
	estimator pose.Estimator
	renderer  Renderer

	// OpenSource acquires the frame source at session start. Defaults to
	// opening the configured camera device.
	OpenSource func(camera.Config) (Source, error)

	// OnError is invoked once when the session dies mid-run (frame read or
	// estimator failure). Called from the worker goroutine.
	OnError func(err error)

	events chan RepEvent

	lifecycle sync.Mutex // serializes Start/Stop
	cancel    context.CancelFunc
	done      chan struct{}

	mu       sync.RWMutex // guards snapshot + state
	snapshot *FrameResult
	state    State
}

// New creates a worker. The caller must drain Events; rep events are never
// dropped, so an unread queue eventually backpressures the tick loop.
func New(cfg Config, estimator pose.Estimator, renderer Renderer) *Worker {
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 64
	}
	w := &Worker{
		config:    cfg,
		estimator: estimator,
		renderer:  renderer,
		events:    make(chan RepEvent, cfg.EventBuffer),
	}
	w.OpenSource = func(c camera.Config) (Source, error) {
		return camera.Open(c)
	}
	return w
}

// Events returns the rep event queue. Each event is delivered exactly once
// to whoever receives from the channel.
func (w *Worker) Events() <-chan RepEvent {
	return w.events
}

// State returns a copy of the current session state.
func (w *Worker) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Snapshot returns the most recently completed tick's result. ok is false
// before the first tick of a session.
func (w *Worker) Snapshot() (FrameResult, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.snapshot == nil {
		return FrameResult{}, false
	}
	return *w.snapshot, true
}

// Start loads the workout rule, opens the frame source, resets detector
// state, and begins the tick loop on its own goroutine. Open failures
// surface here, before any goroutine is spawned.
func (w *Worker) Start(workoutID string) error {
	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()

	if w.State().Running {
		return ErrSessionActive
	}

	rule, ok := w.config.Rules[workoutID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWorkout, workoutID)
	}

	src, err := w.OpenSource(w.config.Camera)
	if err != nil {
		return err
	}

	detector := reps.NewDetector(rule)
	detector.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})

	sessionID := uuid.NewString()

	w.mu.Lock()
	w.snapshot = nil
	w.state = State{
		SessionID: sessionID,
		WorkoutID: workoutID,
		Running:   true,
		StartedAt: time.Now(),
	}
	w.mu.Unlock()

	go w.run(ctx, cancel, src, detector, rule, sessionID)

	log.Info("session started", "workout", workoutID, "session", sessionID)
	return nil
}

// Stop requests cooperative cancellation and waits for the worker to exit.
// The camera is released before Stop returns. Idempotent: a second call is
// a no-op.
func (w *Worker) Stop() {
	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()

	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
	w.cancel = nil
	w.done = nil

	log.Info("session stopped", "reps", w.State().RepCount)
}

// run is the tick loop. It is the sole mutator of detector and session
// state while running. The stop flag is checked between ticks, not during
// a blocking read; a hung camera driver is not recovered here.
func (w *Worker) run(ctx context.Context, cancel context.CancelFunc, src Source, detector *reps.Detector, rule reps.Rule, sessionID string) {
	defer close(w.done)
	defer cancel()
	defer w.setRunning(false)
	defer src.Close()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frame, err := src.Read()
		if err != nil {
			w.fail(err)
			return
		}

		if err := w.tick(ctx, frame, detector, rule, sessionID); err != nil {
			w.fail(err)
			return
		}
	}
}

// tick runs one frame through the pipeline and publishes the result.
// Absent landmarks and angles are normal data conditions, not errors.
func (w *Worker) tick(ctx context.Context, frame camera.Frame, detector *reps.Detector, rule reps.Rule, sessionID string) error {
	defer frame.Close()

	landmarks, err := w.estimator.Estimate(frame.Image)
	if err != nil {
		return fmt.Errorf("pose estimation: %w", err)
	}

	angles := pose.ComputeAngles(landmarks, w.config.MinConfidence)
	feedback, alert := reps.Evaluate(angles, rule)

	var anglePtr *float64
	if a, ok := rule.TrackedAngle(angles); ok {
		anglePtr = &a
	}

	event := detector.Feed(angles, frame.Timestamp.UnixMilli())

	w.mu.Lock()
	if event != nil {
		w.state.RepCount++
	}
	repCount := w.state.RepCount
	w.mu.Unlock()

	jpeg, err := w.renderer.Render(frame, Tick{
		Landmarks: landmarks,
		Angle:     anglePtr,
		Feedback:  feedback,
		Alert:     alert,
		RepCount:  repCount,
		Workout:   rule.DisplayName,
	})
	if err != nil {
		// A frame that fails to encode is droppable; the rep event is not.
		log.Warn("frame render failed", "seq", frame.Seq, "error", err)
		jpeg = nil
	}

	w.mu.Lock()
	w.snapshot = &FrameResult{
		Seq:       frame.Seq,
		JPEG:      jpeg,
		Angle:     anglePtr,
		Feedback:  feedback,
		Alert:     alert,
		RepCount:  repCount,
		Timestamp: frame.Timestamp,
	}
	w.mu.Unlock()

	if event != nil {
		// Blocking send keeps rep events lossless; cancellation is the only
		// escape, so overload still backpressures but Stop cannot hang on a
		// full queue with no consumer left.
		select {
		case w.events <- RepEvent{SessionID: sessionID, Count: repCount, Event: *event}:
		case <-ctx.Done():
		}
	}
	return nil
}

// fail records a terminal session error and reports it to the presenter
// boundary. The session is over; restarting is an explicit caller action.
func (w *Worker) fail(err error) {
	log.Error("session failed", "error", err)

	w.mu.Lock()
	w.state.Running = false
	w.snapshot = &FrameResult{
		RepCount:  w.state.RepCount,
		Timestamp: time.Now(),
		Err:       err,
	}
	w.mu.Unlock()

	if w.OnError != nil {
		w.OnError(err)
	}
}

func (w *Worker) setRunning(running bool) {
	w.mu.Lock()
	w.state.Running = running
	w.mu.Unlock()
}
