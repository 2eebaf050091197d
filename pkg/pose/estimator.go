package pose

import "gocv.io/x/gocv"

// Estimator is the interface for pose estimation backends.
type Estimator interface {
	// Estimate finds body landmarks in the frame. Keypoints below the
	// configured score floor are omitted from the result. A frame with no
	// visible subject yields an empty set, not an error.
	Estimate(img gocv.Mat) (LandmarkSet, error)

	// Close releases resources.
	Close() error
}

// Config holds estimator configuration.
type Config struct {
	ModelPath     string  `json:"model_path" yaml:"model_path"`         // Path to ONNX model
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"` // Keypoint score floor (default 0.3)
	InputSize     int     `json:"input_size" yaml:"input_size"`         // Square model input edge in pixels
}

// DefaultConfig returns production defaults for MoveNet Lightning.
func DefaultConfig() Config {
	return Config{
		ModelPath:     "models/movenet_singlepose_lightning.onnx",
		MinConfidence: 0.3,
		InputSize:     192,
	}
}
