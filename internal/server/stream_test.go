package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func TestFrameBuffer_Publish(t *testing.T) {
	b := NewFrameBuffer()

	data, seq, updated := b.Latest()
	if data != nil || seq != 0 {
		t.Fatalf("expected empty buffer, got %d bytes seq %d", len(data), seq)
	}

	b.Publish([]byte("one"))

	select {
	case <-updated:
	default:
		t.Fatal("expected update channel to be closed after Publish")
	}

	data, seq, _ = b.Latest()
	if string(data) != "one" || seq != 1 {
		t.Errorf("Latest() = %q, %d; want one, 1", data, seq)
	}
}

func TestFrameBuffer_OnFrameWithoutViewers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires OpenCV in short mode")
	}

	b := NewFrameBuffer()
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 48, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()

	b.OnFrame(&frame)

	if _, seq, _ := b.Latest(); seq != 0 {
		t.Errorf("expected no frame encoded without viewers, got seq %d", seq)
	}

	b.viewers.Add(1)
	b.OnFrame(&frame)

	data, seq, _ := b.Latest()
	if seq != 1 {
		t.Fatalf("expected seq 1, got %d", seq)
	}
	if !bytes.HasPrefix(data, []byte{0xFF, 0xD8}) {
		t.Error("expected JPEG start-of-image marker")
	}
}

func TestStreamHandler(t *testing.T) {
	t.Run("writes the latest frame as a multipart part", func(t *testing.T) {
		b := NewFrameBuffer()
		b.Publish([]byte("jpeg-bytes"))
		h := NewStreamHandler(b)

		ctx, cancel := context.WithCancel(context.Background())
		req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		done := make(chan struct{})
		go func() {
			h.ServeHTTP(rec, req)
			close(done)
		}()

		deadline := time.After(2 * time.Second)
		for b.Viewers() == 0 {
			select {
			case <-deadline:
				t.Fatal("handler did not register as viewer")
			case <-time.After(5 * time.Millisecond):
			}
		}

		cancel()
		<-done

		if b.Viewers() != 0 {
			t.Errorf("expected 0 viewers after disconnect, got %d", b.Viewers())
		}

		ct := rec.Header().Get("Content-Type")
		if !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
			t.Errorf("unexpected Content-Type %q", ct)
		}

		body := rec.Body.String()
		if !strings.Contains(body, "--frame\r\n") {
			t.Error("expected frame boundary in body")
		}
		if !strings.Contains(body, "Content-Length: 10\r\n\r\njpeg-bytes\r\n") {
			t.Errorf("unexpected body %q", body)
		}
	})

	t.Run("rejects POST", func(t *testing.T) {
		h := NewStreamHandler(NewFrameBuffer())

		req := httptest.NewRequest(http.MethodPost, "/api/stream", nil)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}
