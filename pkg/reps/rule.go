// Package reps converts joint-angle streams into discrete repetition events
// using a per-exercise hysteresis state machine.
package reps

import (
	"fmt"

	"github.com/fitsight/fitsight/pkg/pose"
)

// Rule is the per-exercise configuration: which joints are tracked, the
// hysteresis band that bounds one repetition, and the form-feedback bands.
// Immutable for the lifetime of a session.
type Rule struct {
	ID           string       `yaml:"id" json:"id"`
	DisplayName  string       `yaml:"display_name" json:"display_name"`
	Joints       []pose.Joint `yaml:"joints" json:"joints"`
	MinThreshold float64      `yaml:"min_threshold" json:"min_threshold"`
	MaxThreshold float64      `yaml:"max_threshold" json:"max_threshold"`
	Feedback     []Band       `yaml:"feedback,omitempty" json:"feedback,omitempty"`
	Alert        *AlertRule   `yaml:"alert,omitempty" json:"alert,omitempty"`
}

// Band selects a feedback message when the tracked angle falls inside
// [Min, Max].
type Band struct {
	Min     float64 `yaml:"min" json:"min"`
	Max     float64 `yaml:"max" json:"max"`
	Message string  `yaml:"message" json:"message"`
}

// AlertRule raises the presenter alert flag when the named joint's angle
// leaves the allowed range. Nil bounds are not checked.
type AlertRule struct {
	Joint pose.Joint `yaml:"joint" json:"joint"`
	Below *float64   `yaml:"below,omitempty" json:"below,omitempty"`
	Above *float64   `yaml:"above,omitempty" json:"above,omitempty"`
}

// Validate checks the rule for configuration mistakes.
func (r Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule has no id")
	}
	if len(r.Joints) == 0 {
		return fmt.Errorf("rule %q tracks no joints", r.ID)
	}
	for _, j := range r.Joints {
		if !pose.KnownJoint(j) {
			return fmt.Errorf("rule %q tracks unknown joint %q", r.ID, j)
		}
	}
	if r.MinThreshold >= r.MaxThreshold {
		return fmt.Errorf("rule %q: min_threshold %.1f must be below max_threshold %.1f",
			r.ID, r.MinThreshold, r.MaxThreshold)
	}
	if r.Alert != nil && !pose.KnownJoint(r.Alert.Joint) {
		return fmt.Errorf("rule %q: alert on unknown joint %q", r.ID, r.Alert.Joint)
	}
	return nil
}

// TrackedAngle returns the mean of the tracked joints' angles. ok is false
// when any tracked joint has no reading this frame.
func (r Rule) TrackedAngle(angles pose.JointAngles) (float64, bool) {
	if len(r.Joints) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, j := range r.Joints {
		v, ok := angles.Get(j)
		if !ok {
			return 0, false
		}
		sum += v
	}
	return sum / float64(len(r.Joints)), true
}
