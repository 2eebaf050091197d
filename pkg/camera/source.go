package camera

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

var (
	// ErrCameraUnavailable means the device failed to open.
	ErrCameraUnavailable = errors.New("camera unavailable")

	// ErrFrameRead means the device stopped producing frames mid-session.
	ErrFrameRead = errors.New("frame read failed")
)

// Frame is one captured image. The caller owns the Mat after Read and must
// Close it.
type Frame struct {
	Image     gocv.Mat
	Timestamp time.Time // monotonic capture time
	Seq       uint64    // sequence index, starts at 1
}

// Close releases the frame's pixel buffer.
func (f *Frame) Close() {
	f.Image.Close()
}

// Source wraps a capture device. One Source serves exactly one session at
// a time; Read may block until the driver delivers a frame and never
// buffers more than the newest one.
type Source struct {
	cap       *gocv.VideoCapture
	config    Config
	seq       uint64
	closeOnce sync.Once
	closeErr  error
}

// Open acquires the capture device. Fails with ErrCameraUnavailable when
// the device cannot be opened.
func Open(cfg Config) (*Source, error) {
	cap, err := gocv.OpenVideoCapture(cfg.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("%w: device %d: %v", ErrCameraUnavailable, cfg.DeviceID, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("%w: device %d", ErrCameraUnavailable, cfg.DeviceID)
	}

	cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	if cfg.FPS > 0 {
		cap.Set(gocv.VideoCaptureFPS, float64(cfg.FPS))
	}

	return &Source{cap: cap, config: cfg}, nil
}

// Config returns the configuration the source was opened with.
func (s *Source) Config() Config {
	return s.config
}

// Read blocks until the next frame is available. Fails with ErrFrameRead
// when the device stops delivering; a broken handle will not self-heal, so
// callers should treat this as fatal for the session.
func (s *Source) Read() (Frame, error) {
	img := gocv.NewMat()
	if ok := s.cap.Read(&img); !ok || img.Empty() {
		img.Close()
		return Frame{}, fmt.Errorf("%w: device %d", ErrFrameRead, s.config.DeviceID)
	}
	s.seq++
	return Frame{Image: img, Timestamp: time.Now(), Seq: s.seq}, nil
}

// Close releases the device. Safe to call more than once; only the first
// call touches the driver.
func (s *Source) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.cap.Close()
	})
	return s.closeErr
}
