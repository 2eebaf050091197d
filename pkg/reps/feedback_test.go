package reps

import (
	"testing"

	"github.com/fitsight/fitsight/pkg/pose"
)

func feedbackRule() Rule {
	above := 100.0
	return Rule{
		ID:           "pushups",
		Joints:       []pose.Joint{pose.JointLeftElbow},
		MinThreshold: 120,
		MaxThreshold: 145,
		Feedback: []Band{
			{Min: 0, Max: 119, Message: "drive back up"},
			{Min: 120, Max: 145, Message: "good depth"},
			{Min: 146, Max: 180, Message: "lower your chest"},
		},
		Alert: &AlertRule{Joint: pose.JointLeftShoulder, Above: &above},
	}
}

func TestEvaluate_BandSelection(t *testing.T) {
	rule := feedbackRule()

	cases := []struct {
		angle float64
		want  string
	}{
		{90, "drive back up"},
		{120, "good depth"},
		{145, "good depth"},
		{160, "lower your chest"},
	}

	for _, tc := range cases {
		text, _ := Evaluate(pose.JointAngles{pose.JointLeftElbow: tc.angle}, rule)
		if text != tc.want {
			t.Errorf("Evaluate(%v): got %q, want %q", tc.angle, text, tc.want)
		}
	}
}

func TestEvaluate_AbsentAngle(t *testing.T) {
	text, alert := Evaluate(pose.JointAngles{}, feedbackRule())
	if text != "" {
		t.Errorf("text with no readings: got %q, want empty", text)
	}
	if alert {
		t.Error("alert with no readings: got true, want false")
	}
}

func TestEvaluate_AlertFlag(t *testing.T) {
	rule := feedbackRule()

	// Shoulder within range: no alert.
	_, alert := Evaluate(pose.JointAngles{
		pose.JointLeftElbow:    130,
		pose.JointLeftShoulder: 80,
	}, rule)
	if alert {
		t.Error("alert below bound: got true, want false")
	}

	// Shoulder at the bound: alert fires (inclusive).
	_, alert = Evaluate(pose.JointAngles{
		pose.JointLeftElbow:    130,
		pose.JointLeftShoulder: 100,
	}, rule)
	if !alert {
		t.Error("alert at bound: got false, want true")
	}

	below := 40.0
	rule.Alert = &AlertRule{Joint: pose.JointLeftShoulder, Below: &below}
	_, alert = Evaluate(pose.JointAngles{
		pose.JointLeftElbow:    130,
		pose.JointLeftShoulder: 35,
	}, rule)
	if !alert {
		t.Error("alert below lower bound: got false, want true")
	}
}

func TestEvaluate_IsPure(t *testing.T) {
	rule := feedbackRule()
	angles := pose.JointAngles{pose.JointLeftElbow: 130, pose.JointLeftShoulder: 120}

	t1, a1 := Evaluate(angles, rule)
	t2, a2 := Evaluate(angles, rule)
	if t1 != t2 || a1 != a2 {
		t.Errorf("Evaluate not stable: (%q,%v) vs (%q,%v)", t1, a1, t2, a2)
	}
}

func TestRule_Validate(t *testing.T) {
	rule := feedbackRule()
	if err := rule.Validate(); err != nil {
		t.Errorf("valid rule rejected: %v", err)
	}

	bad := rule
	bad.MinThreshold = 150
	if err := bad.Validate(); err == nil {
		t.Error("inverted thresholds accepted")
	}

	bad = rule
	bad.Joints = nil
	if err := bad.Validate(); err == nil {
		t.Error("rule with no joints accepted")
	}

	bad = rule
	bad.Joints = []pose.Joint{"left_pinky"}
	if err := bad.Validate(); err == nil {
		t.Error("unknown joint accepted")
	}
}
