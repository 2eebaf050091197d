package reps

import "github.com/fitsight/fitsight/pkg/pose"

// State is the detector's position within the repetition cycle.
type State int

const (
	// StateWaitingTop waits for the first crossing above max_threshold.
	StateWaitingTop State = iota
	// StateDescending accumulates samples while the angle falls toward
	// min_threshold.
	StateDescending
	// StateBottomReached holds at the bottom until the angle starts
	// rising again.
	StateBottomReached
	// StateAscending accumulates samples until the angle crosses
	// max_threshold, which closes the rep.
	StateAscending
)

func (s State) String() string {
	switch s {
	case StateWaitingTop:
		return "waiting_top"
	case StateDescending:
		return "descending"
	case StateBottomReached:
		return "bottom_reached"
	case StateAscending:
		return "ascending"
	default:
		return "unknown"
	}
}

// Detector is the hysteresis state machine that turns an angle stream into
// repetition events. It is owned and mutated by exactly one session worker;
// it is not safe for concurrent use.
//
// Threshold comparisons are inclusive: a sample exactly at a threshold
// counts as a crossing. Closing a rep re-arms directly into descending so
// back-to-back reps count without returning through the waiting state.
type Detector struct {
	rule Rule

	state     State
	prevAngle float64
	prevValid bool
	current   []Sample
}

// NewDetector creates a detector for the given exercise rule.
func NewDetector(rule Rule) *Detector {
	return &Detector{rule: rule}
}

// Rule returns the exercise rule the detector was built with.
func (d *Detector) Rule() Rule { return d.rule }

// State returns the current machine state.
func (d *Detector) State() State { return d.state }

// Reset clears all accumulated progress. Called on session start and on
// exercise switch.
func (d *Detector) Reset() {
	d.state = StateWaitingTop
	d.prevValid = false
	d.prevAngle = 0
	d.current = nil
}

// Feed advances the machine by one tick. timestamp is in milliseconds.
// It returns a completed Event when this tick closes a rep, nil otherwise.
//
// An absent tracked angle holds everything: no transition, no sample, and
// the previous angle is invalidated so the first reading after a gap only
// seeds the comparison baseline. Feed never fails.
func (d *Detector) Feed(angles pose.JointAngles, timestamp int64) *Event {
	angle, ok := d.rule.TrackedAngle(angles)
	if !ok {
		d.prevValid = false
		return nil
	}

	if !d.prevValid {
		d.prevAngle = angle
		d.prevValid = true
		return nil
	}

	increasing := angle > d.prevAngle

	var done *Event
	switch d.state {
	case StateWaitingTop:
		if angle >= d.rule.MaxThreshold {
			d.state = StateDescending
			d.current = []Sample{{Angle: angle, Timestamp: timestamp}}
		}

	case StateDescending:
		d.current = append(d.current, Sample{Angle: angle, Timestamp: timestamp})
		if angle <= d.rule.MinThreshold {
			d.state = StateBottomReached
		}

	case StateBottomReached:
		d.current = append(d.current, Sample{Angle: angle, Timestamp: timestamp})
		if increasing {
			d.state = StateAscending
		}

	case StateAscending:
		d.current = append(d.current, Sample{Angle: angle, Timestamp: timestamp})
		if angle >= d.rule.MaxThreshold {
			done = &Event{Samples: d.current}
			d.current = nil
			// Re-arm straight into descending so the next rep counts
			// without a fresh top crossing.
			d.state = StateDescending
		}
	}

	d.prevAngle = angle
	return done
}
