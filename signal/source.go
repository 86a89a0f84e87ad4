package signal

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"sync"
	"time"
)

// Source produces raw tension readings until ctx is cancelled or the
// underlying stream ends. Readings may be out of range; the receiver clamps.
type Source interface {
	Run(ctx context.Context, onTension func(float64)) error
}

// TensionFunction is the tool name the analysis service calls to report tension.
const TensionFunction = "setHandTension"

// FunctionCall is one tool invocation in a server message.
type FunctionCall struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

// ServerMessage is the subset of the analysis service's messages we read.
type ServerMessage struct {
	ToolCall *struct {
		FunctionCalls []FunctionCall `json:"functionCalls"`
	} `json:"toolCall,omitempty"`
}

// FunctionResponse acknowledges a FunctionCall.
type FunctionResponse struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

// ToolResponse is the message written back after handling tool calls.
type ToolResponse struct {
	ToolResponse struct {
		FunctionResponses []FunctionResponse `json:"functionResponses"`
	} `json:"toolResponse"`
}

// tensionArgs are the arguments of a setHandTension call. Tension is left
// untyped so a non-numeric value can be told apart from a missing one.
type tensionArgs struct {
	Tension any `json:"tension"`
}

// ParseTension extracts the tension readings from one server message.
// Calls to other functions, or without a numeric tension, are skipped.
// The returned calls are the ones that should be acknowledged.
func ParseTension(line []byte) (values []float64, handled []FunctionCall, err error) {
	var msg ServerMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		return nil, nil, fmt.Errorf("decoding server message: %w", err)
	}
	if msg.ToolCall == nil {
		return nil, nil, nil
	}
	for _, fc := range msg.ToolCall.FunctionCalls {
		if fc.Name != TensionFunction {
			continue
		}
		var args tensionArgs
		if len(fc.Args) > 0 {
			if err := json.Unmarshal(fc.Args, &args); err != nil {
				slog.Warn("bad tool call arguments", "id", fc.ID, "error", err)
			}
		}
		switch v := args.Tension.(type) {
		case float64:
			values = append(values, v)
		case nil:
		default:
			slog.Warn("non-numeric tension", "id", fc.ID, "value", v)
		}
		handled = append(handled, fc)
	}
	return values, handled, nil
}

// ToolCallSource reads newline-delimited JSON server messages and reports
// every setHandTension call. When Reply is set, each handled call is
// acknowledged with an "OK" tool response, and Frames (if set) streams
// camera frames on the same writer while Run is active.
//
// The input is read by one goroutine for the lifetime of the source, so Run
// may be called again after a cancelled Run without losing buffered lines.
type ToolCallSource struct {
	In     io.Reader
	Reply  io.Writer
	Frames *FramePump

	mu sync.Mutex // serialises writes to Reply

	readOnce sync.Once
	lines    chan []byte
	readErr  error // valid once lines is closed
}

// NewToolCallSource creates a source reading r and acknowledging on w (may be nil).
func NewToolCallSource(r io.Reader, w io.Writer) *ToolCallSource {
	return &ToolCallSource{In: r, Reply: w}
}

func (s *ToolCallSource) readLines() {
	defer close(s.lines)
	sc := bufio.NewScanner(s.In)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		s.lines <- append([]byte(nil), sc.Bytes()...)
	}
	s.readErr = sc.Err()
}

// Run implements Source. It returns nil at end of stream.
func (s *ToolCallSource) Run(ctx context.Context, onTension func(float64)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.readOnce.Do(func() {
		s.lines = make(chan []byte)
		go s.readLines()
	})

	pumpErr := make(chan error, 1)
	if s.Frames != nil && s.Reply != nil {
		pumpDone := make(chan struct{})
		go func() {
			defer close(pumpDone)
			if err := s.Frames.Run(ctx, s.send); err != nil && ctx.Err() == nil {
				pumpErr <- err
			}
		}()
		defer func() {
			cancel()
			<-pumpDone
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-pumpErr:
			return err
		case line, ok := <-s.lines:
			if !ok {
				if s.readErr != nil {
					return fmt.Errorf("reading tool calls: %w", s.readErr)
				}
				return nil
			}
			if len(line) == 0 {
				continue
			}
			values, handled, err := ParseTension(line)
			if err != nil {
				slog.Warn("skipping malformed message", "error", err)
				continue
			}
			for _, v := range values {
				onTension(v)
			}
			if err := s.acknowledge(handled); err != nil {
				return err
			}
		}
	}
}

func (s *ToolCallSource) acknowledge(calls []FunctionCall) error {
	if s.Reply == nil || len(calls) == 0 {
		return nil
	}
	var resp ToolResponse
	for _, fc := range calls {
		resp.ToolResponse.FunctionResponses = append(resp.ToolResponse.FunctionResponses, FunctionResponse{
			ID:       fc.ID,
			Name:     fc.Name,
			Response: map[string]any{"result": "OK"},
		})
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encoding tool response: %w", err)
	}
	if err := s.send(data); err != nil {
		return fmt.Errorf("writing tool response: %w", err)
	}
	return nil
}

// send writes one newline-terminated message to Reply.
func (s *ToolCallSource) send(msg []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.Reply.Write(append(msg, '\n'))
	return err
}

// TCPSource dials an analysis service speaking the tool-call protocol.
// Frames, when set, are streamed over the same connection.
type TCPSource struct {
	Addr    string
	Timeout time.Duration
	Frames  *FramePump
}

// Run implements Source. The connection is closed when ctx is cancelled.
func (s *TCPSource) Run(ctx context.Context, onTension func(float64)) error {
	d := net.Dialer{Timeout: s.Timeout}
	conn, err := d.DialContext(ctx, "tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", s.Addr, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	src := NewToolCallSource(conn, conn)
	src.Frames = s.Frames
	err = src.Run(ctx, onTension)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Oscillator is a synthetic source that breathes between relaxed and tense.
// It emits at Interval, like a vision service reporting a few times a second.
type Oscillator struct {
	Interval time.Duration // time between readings
	Period   time.Duration // full relaxed-tense-relaxed cycle
}

// Run implements Source.
func (o *Oscillator) Run(ctx context.Context, onTension func(float64)) error {
	if o.Interval <= 0 || o.Period <= 0 {
		return errors.New("oscillator: interval and period must be positive")
	}
	ticker := time.NewTicker(o.Interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			onTension(o.At(now.Sub(start)))
		}
	}
}

// At returns the oscillator's reading at elapsed time t.
func (o *Oscillator) At(t time.Duration) float64 {
	phase := 2 * math.Pi * t.Seconds() / o.Period.Seconds()
	return 0.5 - 0.5*math.Cos(phase)
}
