package signal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"time"

	"golang.org/x/image/draw"
)

// ErrNoFrame is returned by a FrameSource that has nothing to send yet.
// The pump skips that tick.
var ErrNoFrame = errors.New("no frame available")

// FrameMIMEType is the media type of every streamed frame.
const FrameMIMEType = "image/jpeg"

// FrameSource supplies the latest camera frame.
type FrameSource interface {
	Frame(ctx context.Context) (image.Image, error)
}

// MediaChunk is one encoded frame.
type MediaChunk struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

// RealtimeInput is the message carrying a frame to the analysis service.
type RealtimeInput struct {
	RealtimeInput struct {
		Media MediaChunk `json:"media"`
	} `json:"realtimeInput"`
}

// FramePump samples a FrameSource at a fixed rate, downscales each frame and
// sends it as a JPEG realtime-input message.
type FramePump struct {
	Source   FrameSource
	Interval time.Duration
	Width    int
	Height   int
	Quality  int // JPEG quality, 1-100
}

// NewFramePump returns a pump sending 320x240 frames at 5 fps.
func NewFramePump(src FrameSource) *FramePump {
	return &FramePump{
		Source:   src,
		Interval: 200 * time.Millisecond,
		Width:    320,
		Height:   240,
		Quality:  50,
	}
}

// Run sends frames until ctx is cancelled or send fails.
func (p *FramePump) Run(ctx context.Context, send func([]byte) error) error {
	if p.Source == nil || p.Interval <= 0 || p.Width <= 0 || p.Height <= 0 {
		return errors.New("frame pump: source, interval and size are required")
	}
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	dst := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	var buf bytes.Buffer
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		img, err := p.Source.Frame(ctx)
		if errors.Is(err, ErrNoFrame) {
			continue
		}
		if err != nil {
			return fmt.Errorf("capturing frame: %w", err)
		}
		msg, err := EncodeFrame(img, dst, p.Quality, &buf)
		if err != nil {
			return err
		}
		if err := send(msg); err != nil {
			return fmt.Errorf("sending frame: %w", err)
		}
	}
}

// EncodeFrame scales img into dst and returns it as a realtime-input message.
// buf is scratch space for the JPEG bytes.
func EncodeFrame(img image.Image, dst *image.RGBA, quality int, buf *bytes.Buffer) ([]byte, error) {
	if quality <= 0 {
		quality = jpeg.DefaultQuality
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	buf.Reset()
	if err := jpeg.Encode(buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}

	var msg RealtimeInput
	msg.RealtimeInput.Media = MediaChunk{
		MIMEType: FrameMIMEType,
		Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
	}
	return json.Marshal(msg)
}

// TestPattern is a synthetic FrameSource: a colour gradient that drifts
// sideways over time. It stands in for a camera in demos and headless runs.
type TestPattern struct {
	Width, Height int
	start         time.Time
}

// NewTestPattern creates a w x h test pattern.
func NewTestPattern(w, h int) *TestPattern {
	return &TestPattern{Width: w, Height: h, start: time.Now()}
}

// Frame implements FrameSource.
func (p *TestPattern) Frame(ctx context.Context) (image.Image, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, ErrNoFrame
	}
	shift := int(time.Since(p.start) / (20 * time.Millisecond))
	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((x + shift) * 255 / p.Width),
				G: uint8(y * 255 / p.Height),
				B: 128,
				A: 255,
			})
		}
	}
	return img, nil
}
