package reps

import "github.com/fitsight/fitsight/pkg/pose"

// Evaluate selects the form-feedback text and alert flag for the current
// frame. Pure function of the angle set and the rule; it keeps no state
// across ticks.
//
// The text comes from the first feedback band containing the tracked
// angle. The alert flag fires when the rule's alert joint leaves its
// allowed range (e.g. elbow flare); the presenter uses it to tint the
// frame.
func Evaluate(angles pose.JointAngles, rule Rule) (text string, alert bool) {
	if a, ok := rule.TrackedAngle(angles); ok {
		for _, band := range rule.Feedback {
			if a >= band.Min && a <= band.Max {
				text = band.Message
				break
			}
		}
	}

	if rule.Alert != nil {
		if a, ok := angles.Get(rule.Alert.Joint); ok {
			if rule.Alert.Below != nil && a <= *rule.Alert.Below {
				alert = true
			}
			if rule.Alert.Above != nil && a >= *rule.Alert.Above {
				alert = true
			}
		}
	}

	return text, alert
}
