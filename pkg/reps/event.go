package reps

// Sample is one angle reading inside a repetition. Timestamp is in
// milliseconds.
type Sample struct {
	Angle     float64 `json:"angle"`
	Timestamp int64   `json:"timestamp"`
}

// Event is one complete repetition: the ordered angle samples collected
// between two top crossings. Immutable once emitted.
type Event struct {
	Samples []Sample `json:"samples"`
}

// Summary is the derived per-rep report persisted at session end.
type Summary struct {
	MinAngle      float64 `json:"min_angle"`
	MaxAngle      float64 `json:"max_angle"`
	Duration      float64 `json:"duration"` // seconds
	RangeOfMotion float64 `json:"range_of_motion"`
	NumFrames     int     `json:"num_frames"`
}

// Summarize reduces an event to its summary. Deterministic: identical
// sample sequences always yield identical summaries.
func (e Event) Summarize() Summary {
	if len(e.Samples) == 0 {
		return Summary{}
	}

	minAngle := e.Samples[0].Angle
	maxAngle := e.Samples[0].Angle
	for _, s := range e.Samples[1:] {
		if s.Angle < minAngle {
			minAngle = s.Angle
		}
		if s.Angle > maxAngle {
			maxAngle = s.Angle
		}
	}

	first := e.Samples[0].Timestamp
	last := e.Samples[len(e.Samples)-1].Timestamp

	return Summary{
		MinAngle:      minAngle,
		MaxAngle:      maxAngle,
		Duration:      float64(last-first) / 1000.0,
		RangeOfMotion: maxAngle - minAngle,
		NumFrames:     len(e.Samples),
	}
}
