// Package overlay annotates captured frames: mirrored preview, skeleton
// drawing, form-alert tint, and a HUD with rep count, angle, and feedback.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/fitsight/fitsight/pkg/camera"
	"github.com/fitsight/fitsight/pkg/pose"
	"github.com/fitsight/fitsight/pkg/session"
)

// alertAlpha is the weight of the red blend applied on form alerts.
const alertAlpha = 0.25

var (
	boneColor     = color.RGBA{R: 66, G: 245, B: 164}
	jointColor    = color.RGBA{R: 255, G: 255, B: 255}
	hudColor      = color.RGBA{R: 255, G: 255, B: 255}
	feedbackColor = color.RGBA{R: 66, G: 188, B: 245}
)

// Renderer draws the session overlay and encodes frames to JPEG.
// It satisfies session.Renderer.
type Renderer struct {
	quality int
}

// New creates a renderer with the given JPEG quality (1-100).
func New(quality int) *Renderer {
	if quality < 1 || quality > 100 {
		quality = 85
	}
	return &Renderer{quality: quality}
}

// Render mirrors the frame, draws the skeleton and HUD, applies the alert
// tint when set, and returns JPEG bytes. The input frame is not modified.
func (r *Renderer) Render(frame camera.Frame, tick session.Tick) ([]byte, error) {
	img := gocv.NewMat()
	defer img.Close()

	// Mirror so the subject sees themselves as in a gym mirror; landmarks
	// are flipped to match.
	gocv.Flip(frame.Image, &img, 1)
	landmarks := tick.Landmarks.FlipX()

	drawSkeleton(&img, landmarks)

	if tick.Alert {
		tintRed(&img)
	}

	drawHUD(&img, tick)

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img,
		[]int{gocv.IMWriteJpegQuality, r.quality})
	if err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	defer buf.Close()

	// The native buffer dies with buf; hand the caller its own copy.
	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}

func drawSkeleton(img *gocv.Mat, landmarks pose.LandmarkSet) {
	if len(landmarks) == 0 {
		return
	}
	w := float64(img.Cols())
	h := float64(img.Rows())

	for _, conn := range pose.Connections {
		a, okA := landmarks[conn[0]]
		b, okB := landmarks[conn[1]]
		if !okA || !okB {
			continue
		}
		gocv.Line(img, toPixel(a, w, h), toPixel(b, w, h), boneColor, 2)
	}

	for _, lm := range landmarks {
		gocv.Circle(img, toPixel(lm, w, h), 4, jointColor, -1)
	}
}

func tintRed(img *gocv.Mat) {
	red := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(0, 0, 255, 0), img.Rows(), img.Cols(), img.Type())
	defer red.Close()
	gocv.AddWeighted(*img, 1-alertAlpha, red, alertAlpha, 0, img)
}

func drawHUD(img *gocv.Mat, tick session.Tick) {
	angleText := "angle: --"
	if tick.Angle != nil {
		angleText = fmt.Sprintf("angle: %.1f", *tick.Angle)
	}

	lines := []struct {
		text  string
		color color.RGBA
	}{
		{tick.Workout, hudColor},
		{fmt.Sprintf("reps: %d", tick.RepCount), hudColor},
		{angleText, hudColor},
	}
	if tick.Feedback != "" {
		lines = append(lines, struct {
			text  string
			color color.RGBA
		}{tick.Feedback, feedbackColor})
	}

	y := 30
	for _, line := range lines {
		if line.text == "" {
			continue
		}
		gocv.PutText(img, line.text, image.Pt(12, y),
			gocv.FontHersheySimplex, 0.7, line.color, 2)
		y += 28
	}
}

func toPixel(lm pose.Landmark, w, h float64) image.Point {
	return image.Pt(int(lm.X*w), int(lm.Y*h))
}
