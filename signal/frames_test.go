package signal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// stillCamera returns the same frame, after reporting no frame for the
// first skip calls.
type stillCamera struct {
	img   image.Image
	skip  int32
	calls atomic.Int32
}

func (c *stillCamera) Frame(ctx context.Context) (image.Image, error) {
	if c.calls.Add(1) <= c.skip {
		return nil, ErrNoFrame
	}
	return c.img, nil
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// decodeFrame checks a realtime-input message and returns the JPEG config.
func decodeFrame(t *testing.T, msg []byte) image.Config {
	t.Helper()
	var in RealtimeInput
	if err := json.Unmarshal(msg, &in); err != nil {
		t.Fatalf("decoding message %q: %v", msg, err)
	}
	if in.RealtimeInput.Media.MIMEType != FrameMIMEType {
		t.Errorf("mime type = %q, want %q", in.RealtimeInput.Media.MIMEType, FrameMIMEType)
	}
	data, err := base64.StdEncoding.DecodeString(in.RealtimeInput.Media.Data)
	if err != nil {
		t.Fatalf("decoding base64: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding jpeg: %v", err)
	}
	return cfg
}

func TestEncodeFrameScales(t *testing.T) {
	tests := []struct {
		name string
		src  image.Image
	}{
		{"downscale", solid(640, 480, color.RGBA{R: 200, A: 255})},
		{"upscale", solid(32, 24, color.RGBA{G: 200, A: 255})},
		{"test pattern", mustFrame(t, NewTestPattern(100, 50))},
	}

	dst := image.NewRGBA(image.Rect(0, 0, 320, 240))
	var buf bytes.Buffer
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := EncodeFrame(tt.src, dst, 50, &buf)
			if err != nil {
				t.Fatalf("EncodeFrame: %v", err)
			}
			cfg := decodeFrame(t, msg)
			if cfg.Width != 320 || cfg.Height != 240 {
				t.Errorf("frame size = %dx%d, want 320x240", cfg.Width, cfg.Height)
			}
		})
	}
}

func mustFrame(t *testing.T, src FrameSource) image.Image {
	t.Helper()
	img, err := src.Frame(context.Background())
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	return img
}

func TestFramePumpSkipsMissingFrames(t *testing.T) {
	cam := &stillCamera{img: solid(64, 48, color.RGBA{B: 255, A: 255}), skip: 2}
	pump := &FramePump{Source: cam, Interval: time.Millisecond, Width: 32, Height: 24, Quality: 80}

	sent := make(chan []byte, 16)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- pump.Run(ctx, func(msg []byte) error {
			select {
			case sent <- append([]byte(nil), msg...):
			default:
			}
			return nil
		})
	}()

	for i := 0; i < 3; i++ {
		select {
		case msg := <-sent:
			if cfg := decodeFrame(t, msg); cfg.Width != 32 || cfg.Height != 24 {
				t.Errorf("frame %d size = %dx%d, want 32x24", i, cfg.Width, cfg.Height)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("frame %d never sent", i)
		}
	}
	cancel()

	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if cam.calls.Load() < 5 {
		t.Errorf("camera polled %d times, want at least 5 (2 skipped + 3 sent)", cam.calls.Load())
	}
}

type unpluggedCamera struct{}

var errUnplugged = errors.New("camera unplugged")

func (unpluggedCamera) Frame(context.Context) (image.Image, error) { return nil, errUnplugged }

func TestFramePumpErrors(t *testing.T) {
	still := &stillCamera{img: solid(8, 8, color.RGBA{A: 255})}
	errSend := errors.New("connection reset")

	tests := []struct {
		name string
		pump *FramePump
		send func([]byte) error
		want error
	}{
		{"source fails", &FramePump{Source: unpluggedCamera{}, Interval: time.Millisecond, Width: 8, Height: 8}, func([]byte) error { return nil }, errUnplugged},
		{"send fails", &FramePump{Source: still, Interval: time.Millisecond, Width: 8, Height: 8}, func([]byte) error { return errSend }, errSend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pump.Run(context.Background(), tt.send)
			if !errors.Is(err, tt.want) {
				t.Errorf("Run() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFramePumpRejectsBadConfig(t *testing.T) {
	pump := NewFramePump(nil)
	if err := pump.Run(context.Background(), func([]byte) error { return nil }); err == nil {
		t.Error("expected error without a source")
	}
}

// lineSink collects written lines without ever blocking the writer.
type lineSink struct{ lines chan string }

func (s lineSink) Write(p []byte) (int, error) {
	select {
	case s.lines <- string(p):
	default:
	}
	return len(p), nil
}

func TestToolCallSourceStreamsFrames(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	sink := lineSink{lines: make(chan string, 256)}
	src := NewToolCallSource(pr, sink)
	src.Frames = &FramePump{
		Source:   &stillCamera{img: solid(64, 48, color.RGBA{R: 255, A: 255})},
		Interval: time.Millisecond,
		Width:    32,
		Height:   24,
	}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	var got atomic.Value
	go func() { errc <- src.Run(ctx, func(v float64) { got.Store(v) }) }()
	go io.WriteString(pw, tensionLine("t1", 0.9))

	var frames, acks int
	deadline := time.After(2 * time.Second)
	for frames == 0 || acks == 0 {
		select {
		case line := <-sink.lines:
			switch {
			case strings.Contains(line, `"realtimeInput"`):
				frames++
			case strings.Contains(line, `"toolResponse"`):
				acks++
			}
		case <-deadline:
			t.Fatalf("frames = %d, acks = %d before timeout", frames, acks)
		}
	}
	cancel()

	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if v, _ := got.Load().(float64); v != 0.9 {
		t.Errorf("reading = %v, want 0.9", v)
	}
}
