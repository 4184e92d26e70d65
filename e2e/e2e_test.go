package e2e

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/ayusman/fingersign/internal/app"
	"github.com/ayusman/fingersign/internal/capture"
	"github.com/ayusman/fingersign/internal/detector"
	"github.com/ayusman/fingersign/internal/display"
	"github.com/ayusman/fingersign/internal/gesture"
	"github.com/ayusman/fingersign/internal/server"
	"github.com/ayusman/fingersign/internal/store"
)

// scriptedDetector returns one prepared set of hands per call.
type scriptedDetector struct {
	script [][]detector.HandLandmarks
	calls  int
}

func (d *scriptedDetector) Detect(frame *gocv.Mat) ([]detector.HandLandmarks, error) {
	if d.calls >= len(d.script) {
		return nil, nil
	}
	hands := d.script[d.calls]
	d.calls++
	return hands, nil
}

func (d *scriptedDetector) Close() error { return nil }

func pose(handedness, key string) detector.HandLandmarks {
	var open [5]bool
	for i, c := range key {
		open[i] = c == '1'
	}
	return detector.PoseLandmarks(handedness, open)
}

type resultLog struct {
	results []gesture.FrameResult
}

func (l *resultLog) OnResult(r gesture.FrameResult) { l.results = append(l.results, r) }

// readPart reads one MJPEG part and returns its body.
func readPart(t *testing.T, r *bufio.Reader) []byte {
	t.Helper()

	tp := textproto.NewReader(r)
	boundary, err := tp.ReadLine()
	if err != nil {
		t.Fatalf("read boundary: %v", err)
	}
	if boundary != "--frame" {
		t.Fatalf("boundary = %q, want --frame", boundary)
	}

	header, err := tp.ReadMIMEHeader()
	if err != nil {
		t.Fatalf("read part header: %v", err)
	}
	if ct := header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("part Content-Type = %q", ct)
	}

	n, err := strconv.Atoi(header.Get("Content-Length"))
	if err != nil {
		t.Fatalf("bad Content-Length: %v", err)
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		t.Fatalf("read part body: %v", err)
	}
	return body
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	recorder, err := store.NewRecorder(s, 0)
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}

	table := gesture.DefaultSymbolTable()
	frames := server.NewFrameBuffer()
	events := server.NewEventHub()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go events.Run(ctx)

	srv := server.New(server.Config{
		Table:     table,
		Store:     s,
		SessionID: recorder.SessionID(),
		Frames:    frames,
		Events:    events,
	})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// Connect a preview viewer and an event client before the loop starts.
	streamCtx, stopStream := context.WithCancel(ctx)
	defer stopStream()
	streamReq, _ := http.NewRequestWithContext(streamCtx, http.MethodGet, ts.URL+"/api/stream", nil)
	streamResp, err := client.Do(streamReq)
	if err != nil {
		t.Fatalf("stream request error = %v", err)
	}
	defer streamResp.Body.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/api/events", nil)
	if err != nil {
		t.Fatalf("dial events: %v", err)
	}
	defer ws.Close()

	deadline := time.Now().Add(2 * time.Second)
	for events.Clients() == 0 || frames.Viewers() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("preview clients were not registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	mats := make([]*gocv.Mat, 4)
	for i := range mats {
		m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 480, 640, gocv.MatTypeCV8UC3)
		mats[i] = &m
		defer m.Close()
	}

	det := &scriptedDetector{script: [][]detector.HandLandmarks{
		{pose(detector.HandRight, "11111")},
		{pose(detector.HandRight, "00111")},
		{pose(detector.HandRight, "00111")},
		{pose(detector.HandRight, "00000"), pose(detector.HandLeft, "10110")},
	}}
	results := &resultLog{}

	application := app.New(app.DefaultConfig(), table)
	application.SetCamera(capture.NewMockCamera(mats, false))
	application.SetDetector(det)
	application.SetDisplay(display.NewMockDisplay(0))
	application.AddResultListener(results)
	application.AddResultListener(recorder)
	application.AddResultListener(events)
	application.AddFrameListener(frames)

	if err := application.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := recorder.Close(); err != nil {
		t.Fatalf("recorder.Close() error = %v", err)
	}

	t.Run("Labels", func(t *testing.T) {
		want := [][]string{{"Unknown"}, {"OK"}, {"OK"}, {"Force", "Unknown"}}

		if len(results.results) != len(want) {
			t.Fatalf("got %d frame results, want %d", len(results.results), len(want))
		}
		for i, r := range results.results {
			if len(r.Recognitions) != len(want[i]) {
				t.Errorf("frame %d: %d recognitions, want %d", i, len(r.Recognitions), len(want[i]))
				continue
			}
			for j, rec := range r.Recognitions {
				if rec.Label != want[i][j] {
					t.Errorf("frame %d hand %d: label %q, want %q", i, j, rec.Label, want[i][j])
				}
				if rec.FingersUp != strings.Count(rec.Key, "1") {
					t.Errorf("frame %d hand %d: fingers up %d for key %s", i, j, rec.FingersUp, rec.Key)
				}
			}
		}
	})

	t.Run("History", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/history")
		if err != nil {
			t.Fatalf("history request error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var body struct {
			Session struct {
				Frames uint64 `json:"frames"`
			} `json:"session"`
			Recognitions []store.Recognition `json:"recognitions"`
			Counts       map[string]int      `json:"counts"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode history: %v", err)
		}

		// The held OK sign is stored once.
		if len(body.Recognitions) != 4 {
			t.Errorf("stored %d recognitions, want 4", len(body.Recognitions))
		}
		if body.Counts["Unknown"] != 2 || body.Counts["OK"] != 1 || body.Counts["Force"] != 1 {
			t.Errorf("counts = %v", body.Counts)
		}
		if body.Session.Frames != 4 {
			t.Errorf("session frames = %d, want 4", body.Session.Frames)
		}
	})

	t.Run("Events", func(t *testing.T) {
		ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		for i := 1; i <= 4; i++ {
			var result gesture.FrameResult
			if err := ws.ReadJSON(&result); err != nil {
				t.Fatalf("event %d: %v", i, err)
			}
			if result.Seq != uint64(i) {
				t.Errorf("event seq = %d, want %d", result.Seq, i)
			}
		}
	})

	t.Run("Stream", func(t *testing.T) {
		if ct := streamResp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
			t.Fatalf("stream Content-Type = %q", ct)
		}

		data := readPart(t, bufio.NewReader(streamResp.Body))
		if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
			t.Error("expected a JPEG frame")
		}
	})

	t.Run("Symbols", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/symbols")
		if err != nil {
			t.Fatalf("symbols request error = %v", err)
		}
		defer resp.Body.Close()

		var body struct {
			Symbols []gesture.Symbol `json:"symbols"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode symbols: %v", err)
		}
		if len(body.Symbols) != table.Len() {
			t.Errorf("got %d symbols, want %d", len(body.Symbols), table.Len())
		}
	})
}

func TestE2E_HeadlessFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 720, 1280, gocv.MatTypeCV8UC3)
	defer frame.Close()

	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.PeaceLandmarks()})

	application := app.New(app.DefaultConfig(), gesture.DefaultSymbolTable())
	application.SetDetector(det)

	result, err := application.ProcessFrame(&frame)
	if err != nil {
		t.Fatalf("ProcessFrame() error = %v", err)
	}

	if result.Width != app.FrameWidth || result.Height != app.FrameHeight {
		t.Errorf("frame size = %dx%d, want %dx%d", result.Width, result.Height, app.FrameWidth, app.FrameHeight)
	}
	if len(result.Recognitions) != 1 || result.Recognitions[0].Label != "Peace" {
		t.Errorf("recognitions = %+v, want one Peace", result.Recognitions)
	}
}
