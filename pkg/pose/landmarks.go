// Package pose provides body-landmark estimation and joint-angle geometry.
package pose

// Name identifies a body keypoint produced by the estimator.
type Name string

// Keypoints of the single-person 17-point skeleton.
const (
	Nose          Name = "nose"
	LeftEye       Name = "left_eye"
	RightEye      Name = "right_eye"
	LeftEar       Name = "left_ear"
	RightEar      Name = "right_ear"
	LeftShoulder  Name = "left_shoulder"
	RightShoulder Name = "right_shoulder"
	LeftElbow     Name = "left_elbow"
	RightElbow    Name = "right_elbow"
	LeftWrist     Name = "left_wrist"
	RightWrist    Name = "right_wrist"
	LeftHip       Name = "left_hip"
	RightHip      Name = "right_hip"
	LeftKnee      Name = "left_knee"
	RightKnee     Name = "right_knee"
	LeftAnkle     Name = "left_ankle"
	RightAnkle    Name = "right_ankle"
)

// keypointOrder maps estimator output rows to landmark names.
var keypointOrder = [...]Name{
	Nose, LeftEye, RightEye, LeftEar, RightEar,
	LeftShoulder, RightShoulder, LeftElbow, RightElbow,
	LeftWrist, RightWrist, LeftHip, RightHip,
	LeftKnee, RightKnee, LeftAnkle, RightAnkle,
}

// Landmark is an estimated body keypoint. X and Y are normalized to the
// frame (0-1). Confidence is the estimator's score for this point (0-1).
type Landmark struct {
	X          float64
	Y          float64
	Confidence float64
}

// LandmarkSet maps keypoint names to landmarks. Any keypoint may be
// absent (occluded or below the estimator's score floor).
type LandmarkSet map[Name]Landmark

// Connections lists the skeleton edges used for frame overlay drawing.
var Connections = [][2]Name{
	{LeftShoulder, RightShoulder},
	{LeftShoulder, LeftElbow},
	{LeftElbow, LeftWrist},
	{RightShoulder, RightElbow},
	{RightElbow, RightWrist},
	{LeftShoulder, LeftHip},
	{RightShoulder, RightHip},
	{LeftHip, RightHip},
	{LeftHip, LeftKnee},
	{LeftKnee, LeftAnkle},
	{RightHip, RightKnee},
	{RightKnee, RightAnkle},
}

// FlipX mirrors every landmark horizontally. Used when the preview frame
// is mirrored so the overlay stays aligned with the subject.
func (s LandmarkSet) FlipX() LandmarkSet {
	if s == nil {
		return nil
	}
	out := make(LandmarkSet, len(s))
	for name, lm := range s {
		lm.X = 1 - lm.X
		out[name] = lm
	}
	return out
}
