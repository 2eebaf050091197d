package pose

import "math"

// Joint names a vertex whose angle is tracked, e.g. the left elbow angle
// between the upper arm and the forearm.
type Joint string

// Tracked joints. Each is defined by a (proximal, vertex, distal) landmark
// triple; the angle is measured at the vertex.
const (
	JointLeftElbow     Joint = "left_elbow"
	JointRightElbow    Joint = "right_elbow"
	JointLeftShoulder  Joint = "left_shoulder"
	JointRightShoulder Joint = "right_shoulder"
	JointLeftHip       Joint = "left_hip"
	JointRightHip      Joint = "right_hip"
	JointLeftKnee      Joint = "left_knee"
	JointRightKnee     Joint = "right_knee"
)

// triple is the landmark triple defining a joint angle.
type triple struct {
	proximal Name
	vertex   Name
	distal   Name
}

var jointTriples = map[Joint]triple{
	JointLeftElbow:     {LeftShoulder, LeftElbow, LeftWrist},
	JointRightElbow:    {RightShoulder, RightElbow, RightWrist},
	JointLeftShoulder:  {LeftElbow, LeftShoulder, LeftHip},
	JointRightShoulder: {RightElbow, RightShoulder, RightHip},
	JointLeftHip:       {LeftShoulder, LeftHip, LeftKnee},
	JointRightHip:      {RightShoulder, RightHip, RightKnee},
	JointLeftKnee:      {LeftHip, LeftKnee, LeftAnkle},
	JointRightKnee:     {RightHip, RightKnee, RightAnkle},
}

// KnownJoint reports whether name is a tracked joint.
func KnownJoint(j Joint) bool {
	_, ok := jointTriples[j]
	return ok
}

// JointAngles maps joints to their current angle in degrees [0, 180].
// A missing key means the angle could not be derived this frame.
type JointAngles map[Joint]float64

// Get returns the angle for j and whether it is present.
func (a JointAngles) Get(j Joint) (float64, bool) {
	v, ok := a[j]
	return v, ok
}

// Angle computes the angle in degrees at vertex v formed by the bone
// vectors v→a and v→b, in [0, 180]. ok is false when either bone has zero
// length.
func Angle(a, v, b Landmark) (deg float64, ok bool) {
	ux, uy := a.X-v.X, a.Y-v.Y
	wx, wy := b.X-v.X, b.Y-v.Y

	nu := math.Hypot(ux, uy)
	nw := math.Hypot(wx, wy)
	if nu == 0 || nw == 0 {
		return 0, false
	}

	cos := (ux*wx + uy*wy) / (nu * nw)
	// Numerical noise can push |cos| past 1.
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi, true
}

// ComputeAngles derives every joint angle available from the landmark set.
// A joint is skipped when any landmark of its triple is absent or scored
// below minConfidence. Pure function of its inputs.
func ComputeAngles(set LandmarkSet, minConfidence float64) JointAngles {
	angles := make(JointAngles, len(jointTriples))
	for joint, t := range jointTriples {
		a, okA := visible(set, t.proximal, minConfidence)
		v, okV := visible(set, t.vertex, minConfidence)
		b, okB := visible(set, t.distal, minConfidence)
		if !okA || !okV || !okB {
			continue
		}
		if deg, ok := Angle(a, v, b); ok {
			angles[joint] = deg
		}
	}
	return angles
}

func visible(set LandmarkSet, name Name, minConfidence float64) (Landmark, bool) {
	lm, ok := set[name]
	if !ok || lm.Confidence < minConfidence {
		return Landmark{}, false
	}
	return lm, true
}
