package web

import (
	"bufio"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// mjpegBoundary separates parts of the multipart stream.
const mjpegBoundary = "frame"

// streamInterval paces the transport at ~30 fps, independent of the worker
// tick rate. The stream always carries the latest completed frame; skipped
// frames are expected.
const streamInterval = 33 * time.Millisecond

// handleStream serves the MJPEG preview as multipart/x-mixed-replace.
// A client disconnect only ends this response loop; the session worker
// never notices.
func (s *Server) handleStream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "multipart/x-mixed-replace; boundary="+mjpegBoundary)
	c.Set(fiber.HeaderCacheControl, "no-store")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(s.streamFrames))
	return nil
}

// streamFrames writes multipart frames until the client hangs up or the
// server shuts down. Without the quit case, Shutdown would wait forever on
// a connected viewer.
func (s *Server) streamFrames(w *bufio.Writer) {
	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			res, ok := s.worker.Snapshot()
			if !ok || len(res.JPEG) == 0 {
				continue
			}
			if err := writePart(w, res.JPEG); err != nil {
				return
			}
		}
	}
}

func writePart(w *bufio.Writer, jpeg []byte) error {
	if _, err := fmt.Fprintf(w, "--%s\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n",
		mjpegBoundary, len(jpeg)); err != nil {
		return err
	}
	if _, err := w.Write(jpeg); err != nil {
		return err
	}
	if _, err := w.Write([]byte("\r\n")); err != nil {
		return err
	}
	return w.Flush()
}
