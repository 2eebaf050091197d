package reps

import (
	"testing"

	"github.com/fitsight/fitsight/pkg/pose"
)

func pushupRule() Rule {
	return Rule{
		ID:           "pushups",
		DisplayName:  "Push-ups",
		Joints:       []pose.Joint{pose.JointLeftElbow},
		MinThreshold: 120,
		MaxThreshold: 145,
	}
}

func elbow(angle float64) pose.JointAngles {
	return pose.JointAngles{pose.JointLeftElbow: angle}
}

// feedSequence feeds (angle, timestamp) pairs and returns all emitted events.
func feedSequence(d *Detector, angles []float64, timestamps []int64) []*Event {
	var events []*Event
	for i, a := range angles {
		if ev := d.Feed(elbow(a), timestamps[i]); ev != nil {
			events = append(events, ev)
		}
	}
	return events
}

func TestDetector_SingleRepScenario(t *testing.T) {
	d := NewDetector(pushupRule())

	angles := []float64{110, 125, 145, 130, 115, 120, 140, 150}
	timestamps := []int64{0, 100, 200, 300, 400, 500, 600, 700}

	events := feedSequence(d, angles, timestamps)
	if len(events) != 1 {
		t.Fatalf("events: got %d, want 1", len(events))
	}

	sum := events[0].Summarize()
	if sum.MinAngle != 115 {
		t.Errorf("MinAngle: got %v, want 115", sum.MinAngle)
	}
	if sum.MaxAngle != 150 {
		t.Errorf("MaxAngle: got %v, want 150", sum.MaxAngle)
	}
	if sum.RangeOfMotion != 35 {
		t.Errorf("RangeOfMotion: got %v, want 35", sum.RangeOfMotion)
	}
	if sum.Duration != 0.5 {
		t.Errorf("Duration: got %v, want 0.5", sum.Duration)
	}
	if sum.NumFrames != 6 {
		t.Errorf("NumFrames: got %d, want 6", sum.NumFrames)
	}
}

func TestDetector_BackToBackReps(t *testing.T) {
	d := NewDetector(pushupRule())

	// Two full descent/ascent cycles with no return to a neutral state
	// between them.
	angles := []float64{150, 150, 130, 115, 125, 150, 130, 118, 126, 150}
	timestamps := make([]int64, len(angles))
	for i := range timestamps {
		timestamps[i] = int64(i * 100)
	}

	events := feedSequence(d, angles, timestamps)
	if len(events) != 2 {
		t.Fatalf("events: got %d, want 2", len(events))
	}

	// Closing a rep re-arms into descending, so the second cycle counts
	// without another fresh top crossing.
	if d.State() != StateDescending {
		t.Errorf("state after second rep: got %v, want %v", d.State(), StateDescending)
	}
}

func TestDetector_AbsentAngleHoldsState(t *testing.T) {
	d := NewDetector(pushupRule())

	d.Feed(elbow(150), 0)   // seeds prev only
	d.Feed(elbow(150), 100) // top crossing → descending
	d.Feed(elbow(130), 200)

	if d.State() != StateDescending {
		t.Fatalf("state: got %v, want %v", d.State(), StateDescending)
	}

	// Absent angles: state and samples hold, nothing emitted.
	for i := 0; i < 3; i++ {
		if ev := d.Feed(pose.JointAngles{}, int64(300+i*100)); ev != nil {
			t.Fatalf("absent tick %d emitted an event", i)
		}
		if d.State() != StateDescending {
			t.Fatalf("absent tick %d changed state to %v", i, d.State())
		}
	}

	// First reading after the gap only seeds the comparison baseline.
	if ev := d.Feed(elbow(125), 600); ev != nil {
		t.Fatal("post-gap seed tick emitted an event")
	}
	if d.State() != StateDescending {
		t.Fatalf("post-gap seed tick changed state to %v", d.State())
	}

	d.Feed(elbow(118), 700) // sample + bottom
	d.Feed(elbow(125), 800) // rising → ascending
	ev := d.Feed(elbow(150), 900)
	if ev == nil {
		t.Fatal("expected rep event after gap recovery")
	}

	// The gap ticks and the seed tick contributed no samples:
	// 150@100, 130@200, 118@700, 125@800, 150@900.
	sum := ev.Summarize()
	if sum.NumFrames != 5 {
		t.Errorf("NumFrames: got %d, want 5", sum.NumFrames)
	}
	if sum.MinAngle != 118 {
		t.Errorf("MinAngle: got %v, want 118", sum.MinAngle)
	}
	if sum.Duration != 0.8 {
		t.Errorf("Duration: got %v, want 0.8", sum.Duration)
	}
}

func TestDetector_InclusiveThresholds(t *testing.T) {
	d := NewDetector(pushupRule())

	d.Feed(elbow(100), 0) // seed

	// Exactly max_threshold arms descending.
	d.Feed(elbow(145), 100)
	if d.State() != StateDescending {
		t.Fatalf("state at exact max: got %v, want %v", d.State(), StateDescending)
	}

	// Exactly min_threshold reaches bottom.
	d.Feed(elbow(120), 200)
	if d.State() != StateBottomReached {
		t.Fatalf("state at exact min: got %v, want %v", d.State(), StateBottomReached)
	}

	d.Feed(elbow(121), 300) // strictly increasing → ascending
	if d.State() != StateAscending {
		t.Fatalf("state: got %v, want %v", d.State(), StateAscending)
	}

	// Exactly max_threshold closes the rep.
	ev := d.Feed(elbow(145), 400)
	if ev == nil {
		t.Fatal("expected rep event at exact max crossing")
	}
	sum := ev.Summarize()
	if sum.NumFrames != 4 {
		t.Errorf("NumFrames: got %d, want 4", sum.NumFrames)
	}
}

func TestDetector_NeverReachesBottom(t *testing.T) {
	d := NewDetector(pushupRule())

	angles := []float64{150, 150, 140, 130, 125, 135, 150, 140, 150}
	timestamps := make([]int64, len(angles))
	for i := range timestamps {
		timestamps[i] = int64(i * 100)
	}

	if events := feedSequence(d, angles, timestamps); len(events) != 0 {
		t.Fatalf("events: got %d, want 0", len(events))
	}
	if d.State() != StateDescending {
		t.Errorf("state: got %v, want %v", d.State(), StateDescending)
	}
}

func TestDetector_FirstSampleOnlySeeds(t *testing.T) {
	d := NewDetector(pushupRule())

	// The very first reading never triggers a transition, even above max.
	d.Feed(elbow(160), 0)
	if d.State() != StateWaitingTop {
		t.Fatalf("state after first sample: got %v, want %v", d.State(), StateWaitingTop)
	}

	d.Feed(elbow(160), 100)
	if d.State() != StateDescending {
		t.Fatalf("state after second sample: got %v, want %v", d.State(), StateDescending)
	}
}

func TestDetector_MeanOfSymmetricJoints(t *testing.T) {
	rule := pushupRule()
	rule.Joints = []pose.Joint{pose.JointLeftElbow, pose.JointRightElbow}
	d := NewDetector(rule)

	both := func(l, r float64) pose.JointAngles {
		return pose.JointAngles{pose.JointLeftElbow: l, pose.JointRightElbow: r}
	}

	d.Feed(both(100, 100), 0)
	// Mean of 140 and 150 is 145, exactly at max → descending.
	d.Feed(both(140, 150), 100)
	if d.State() != StateDescending {
		t.Fatalf("state: got %v, want %v", d.State(), StateDescending)
	}

	// One side missing means no tracked angle at all: state holds.
	d.Feed(pose.JointAngles{pose.JointLeftElbow: 110}, 200)
	if d.State() != StateDescending {
		t.Errorf("one-sided tick changed state to %v", d.State())
	}
}

func TestDetector_Reset(t *testing.T) {
	d := NewDetector(pushupRule())

	d.Feed(elbow(150), 0)
	d.Feed(elbow(150), 100)
	d.Feed(elbow(130), 200)
	if d.State() != StateDescending {
		t.Fatalf("state: got %v, want %v", d.State(), StateDescending)
	}

	d.Reset()
	if d.State() != StateWaitingTop {
		t.Errorf("state after reset: got %v, want %v", d.State(), StateWaitingTop)
	}

	// After reset the next reading seeds again.
	d.Feed(elbow(150), 300)
	if d.State() != StateWaitingTop {
		t.Errorf("post-reset first sample transitioned to %v", d.State())
	}
}

func TestSummarize(t *testing.T) {
	ev := Event{Samples: []Sample{
		{Angle: 145, Timestamp: 200},
		{Angle: 130, Timestamp: 300},
		{Angle: 115, Timestamp: 400},
		{Angle: 150, Timestamp: 700},
	}}

	want := Summary{MinAngle: 115, MaxAngle: 150, Duration: 0.5, RangeOfMotion: 35, NumFrames: 4}
	got := ev.Summarize()
	if got != want {
		t.Errorf("Summarize: got %+v, want %+v", got, want)
	}

	// Determinism: same samples, same summary.
	if again := ev.Summarize(); again != got {
		t.Errorf("Summarize not deterministic: %+v vs %+v", again, got)
	}

	if empty := (Event{}).Summarize(); empty != (Summary{}) {
		t.Errorf("empty event summary: got %+v, want zero", empty)
	}
}
