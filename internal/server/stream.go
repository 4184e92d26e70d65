package server

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"

	"gocv.io/x/gocv"
)

// FrameBuffer keeps the most recent annotated frame as JPEG bytes.
// It is fed by the recognition loop and read by stream clients.
type FrameBuffer struct {
	mu      sync.Mutex
	data    []byte
	seq     uint64
	updated chan struct{}
	viewers atomic.Int32
}

// NewFrameBuffer creates an empty FrameBuffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{updated: make(chan struct{})}
}

// OnFrame encodes frame and publishes it. Nothing is encoded while no
// client is watching.
func (b *FrameBuffer) OnFrame(frame *gocv.Mat) {
	if b.viewers.Load() == 0 || frame == nil || frame.Empty() {
		return
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		log.Printf("Error encoding preview frame: %v", err)
		return
	}
	defer buf.Close()

	// GetBytes aliases native memory released by buf.Close.
	data := append([]byte(nil), buf.GetBytes()...)
	b.Publish(data)
}

// Publish stores data as the latest frame and wakes waiting clients.
func (b *FrameBuffer) Publish(data []byte) {
	b.mu.Lock()
	b.data = data
	b.seq++
	close(b.updated)
	b.updated = make(chan struct{})
	b.mu.Unlock()
}

// Latest returns the latest frame, its sequence number (0 if none was
// published yet), and a channel closed on the next Publish.
func (b *FrameBuffer) Latest() ([]byte, uint64, <-chan struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data, b.seq, b.updated
}

// Viewers returns the number of connected stream clients.
func (b *FrameBuffer) Viewers() int {
	return int(b.viewers.Load())
}

// StreamHandler serves the frame buffer as an MJPEG stream.
type StreamHandler struct {
	frames *FrameBuffer
}

// NewStreamHandler creates a new StreamHandler reading from frames.
func NewStreamHandler(frames *FrameBuffer) *StreamHandler {
	return &StreamHandler{frames: frames}
}

// ServeHTTP streams MJPEG frames to the client until it disconnects.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.frames.viewers.Add(1)
	defer h.frames.viewers.Add(-1)

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	var sent uint64
	for {
		data, seq, updated := h.frames.Latest()
		if seq != sent && len(data) > 0 {
			if err := writePart(w, data); err != nil {
				return
			}
			sent = seq
		}

		select {
		case <-r.Context().Done():
			return
		case <-updated:
		}
	}
}

func writePart(w http.ResponseWriter, data []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "\r\n"); err != nil {
		return err
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
