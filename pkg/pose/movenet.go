package pose

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// MoveNetEstimator runs a single-person MoveNet ONNX model through the
// OpenCV DNN module.
type MoveNetEstimator struct {
	net    gocv.Net
	config Config
	mu     sync.Mutex // Protects inference
}

// NewMoveNet creates a MoveNet pose estimator from an ONNX model file.
func NewMoveNet(cfg Config) (*MoveNetEstimator, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	net := gocv.ReadNet(cfg.ModelPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("failed to load model: %s", cfg.ModelPath)
	}

	return &MoveNetEstimator{
		net:    net,
		config: cfg,
	}, nil
}

// Estimate runs the model on one frame and returns visible landmarks with
// coordinates normalized to 0-1.
func (e *MoveNetEstimator) Estimate(img gocv.Mat) (LandmarkSet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if img.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	size := e.config.InputSize
	blob := gocv.BlobFromImage(img, 1.0, image.Pt(size, size),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	e.net.SetInput(blob, "")
	out := e.net.Forward("")
	defer out.Close()

	// MoveNet output is [1,1,17,3]: (y, x, score) per keypoint,
	// coordinates already normalized to the input square.
	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read model output: %w", err)
	}
	if len(data) < len(keypointOrder)*3 {
		return nil, fmt.Errorf("unexpected model output size: %d", len(data))
	}

	set := make(LandmarkSet, len(keypointOrder))
	for i, name := range keypointOrder {
		y := float64(data[i*3])
		x := float64(data[i*3+1])
		score := float64(data[i*3+2])
		if score < e.config.MinConfidence {
			continue
		}
		set[name] = Landmark{X: x, Y: y, Confidence: score}
	}

	return set, nil
}

// Close releases the network resources.
func (e *MoveNetEstimator) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.net.Close()
}
