package signal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"below", -5, 0},
		{"zero", 0, 0},
		{"inside", 0.42, 0.42},
		{"one", 1, 1},
		{"above", 5, 1},
		{"nan", math.NaN(), 0},
		{"+inf", math.Inf(1), 1},
		{"-inf", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.in); got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCellClampsAndResets(t *testing.T) {
	var c Cell
	if c.Load() != 0 {
		t.Fatalf("zero cell = %v, want 0", c.Load())
	}
	c.Set(5)
	if c.Load() != 1 {
		t.Errorf("after Set(5) = %v, want 1", c.Load())
	}
	c.Set(-5)
	if c.Load() != 0 {
		t.Errorf("after Set(-5) = %v, want 0", c.Load())
	}
	c.Set(0.3)
	c.Reset()
	if c.Load() != 0 {
		t.Errorf("after Reset = %v, want 0", c.Load())
	}
}

func TestCellConcurrentWriter(t *testing.T) {
	var c Cell
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			c.Set(float64(i%7) - 3)
		}
	}()
	for i := 0; i < 10000; i++ {
		if v := c.Load(); v < 0 || v > 1 {
			t.Fatalf("read %v outside [0,1]", v)
		}
	}
	wg.Wait()
}

func TestSmootherStaysInRange(t *testing.T) {
	s := NewSmoother(0.1, 0.01)
	inputs := []float64{-5, 5, -5, 5, 5, 5, -5, 0.5, 5}
	for _, in := range inputs {
		for frame := 0; frame < 30; frame++ {
			v := s.Advance(in)
			if v < 0 || v > 1 {
				t.Fatalf("smoothed value %v outside [0,1] for input %v", v, in)
			}
		}
	}
}

func TestSmootherContinuity(t *testing.T) {
	s := NewSmoother(0.1, 0.01)
	prev := s.Value()
	for frame := 0; frame < 200; frame++ {
		v := s.Advance(1)
		// Each step covers at most Factor of the gap, or the snap distance.
		if step := v - prev; step > math.Max(0.1*(1-prev), 0.01)+1e-12 {
			t.Fatalf("frame %d jumped by %v from %v", frame, step, prev)
		}
		prev = v
	}
	if prev != 1 {
		t.Errorf("after 200 frames value = %v, want snapped to 1", prev)
	}
}

func TestSmootherConvergenceRate(t *testing.T) {
	// ~90% of the way there in ~22 frames at factor 0.1.
	s := NewSmoother(0.1, 0)
	for i := 0; i < 22; i++ {
		s.Advance(1)
	}
	if v := s.Value(); v < 0.89 || v > 0.91 {
		t.Errorf("after 22 frames value = %v, want ~0.9", v)
	}
}

func TestParseTension(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantValues  []float64
		wantHandled int
		wantErr     bool
	}{
		{
			name:        "single call",
			line:        `{"toolCall":{"functionCalls":[{"id":"a","name":"setHandTension","args":{"tension":0.7}}]}}`,
			wantValues:  []float64{0.7},
			wantHandled: 1,
		},
		{
			name:        "out of range passes through",
			line:        `{"toolCall":{"functionCalls":[{"id":"a","name":"setHandTension","args":{"tension":3}}]}}`,
			wantValues:  []float64{3},
			wantHandled: 1,
		},
		{
			name:        "other function ignored",
			line:        `{"toolCall":{"functionCalls":[{"id":"a","name":"wave","args":{}},{"id":"b","name":"setHandTension","args":{"tension":0.1}}]}}`,
			wantValues:  []float64{0.1},
			wantHandled: 1,
		},
		{
			name:        "non-numeric tension acknowledged only",
			line:        `{"toolCall":{"functionCalls":[{"id":"a","name":"setHandTension","args":{"tension":"high"}}]}}`,
			wantHandled: 1,
		},
		{
			name:        "null and boolean tension acknowledged only",
			line:        `{"toolCall":{"functionCalls":[{"id":"a","name":"setHandTension","args":{"tension":null}},{"id":"b","name":"setHandTension","args":{"tension":true}}]}}`,
			wantHandled: 2,
		},
		{
			name:        "bad call does not hide a good one",
			line:        `{"toolCall":{"functionCalls":[{"id":"a","name":"setHandTension","args":{"tension":"high"}},{"id":"b","name":"setHandTension","args":{"tension":0.4}}]}}`,
			wantValues:  []float64{0.4},
			wantHandled: 2,
		},
		{
			name: "no tool call",
			line: `{"serverContent":{}}`,
		},
		{
			name:    "malformed",
			line:    `{"toolCall":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, handled, err := ParseTension([]byte(tt.line))
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(values) != len(tt.wantValues) {
				t.Fatalf("values = %v, want %v", values, tt.wantValues)
			}
			for i := range values {
				if values[i] != tt.wantValues[i] {
					t.Errorf("values[%d] = %v, want %v", i, values[i], tt.wantValues[i])
				}
			}
			if len(handled) != tt.wantHandled {
				t.Errorf("handled %d calls, want %d", len(handled), tt.wantHandled)
			}
		})
	}
}

func TestToolCallSourceRepliesOK(t *testing.T) {
	in := strings.Join([]string{
		`{"toolCall":{"functionCalls":[{"id":"c1","name":"setHandTension","args":{"tension":0.25}}]}}`,
		``,
		`not json`,
		`{"toolCall":{"functionCalls":[{"id":"c2","name":"setHandTension","args":{"tension":0.75}}]}}`,
	}, "\n")
	var out bytes.Buffer
	src := NewToolCallSource(strings.NewReader(in), &out)

	var got []float64
	if err := src.Run(context.Background(), func(v float64) { got = append(got, v) }); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(got) != 2 || got[0] != 0.25 || got[1] != 0.75 {
		t.Errorf("readings = %v, want [0.25 0.75]", got)
	}

	dec := json.NewDecoder(&out)
	var ids []string
	for {
		var resp ToolResponse
		if err := dec.Decode(&resp); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decoding reply: %v", err)
		}
		for _, fr := range resp.ToolResponse.FunctionResponses {
			if fr.Response["result"] != "OK" {
				t.Errorf("response for %s = %v, want OK", fr.ID, fr.Response)
			}
			ids = append(ids, fr.ID)
		}
	}
	if len(ids) != 2 || ids[0] != "c1" || ids[1] != "c2" {
		t.Errorf("acknowledged ids = %v, want [c1 c2]", ids)
	}
}

func TestToolCallSourceCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- NewToolCallSource(pr, nil).Run(ctx, func(float64) {})
	}()
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func tensionLine(id string, v float64) string {
	return fmt.Sprintf(`{"toolCall":{"functionCalls":[{"id":%q,"name":"setHandTension","args":{"tension":%v}}]}}`+"\n", id, v)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSessionReconnectKeepsReadings(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	var cell Cell
	s := NewSession(NewToolCallSource(pr, nil), &cell)
	s.Connect(context.Background())

	if _, err := io.WriteString(pw, tensionLine("a", 0.3)); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "first reading", func() bool { return s.Readings() == 1 })
	s.Disconnect()

	// Written while disconnected; must be delivered after reconnecting
	go io.WriteString(pw, tensionLine("b", 0.1))

	s.Connect(context.Background())
	defer s.Disconnect()
	for i, v := range []float64{0.2, 0.5, 0.8} {
		go io.WriteString(pw, tensionLine(fmt.Sprint("c", i), v))
		want := uint64(i + 3)
		waitFor(t, fmt.Sprintf("reading %d", want), func() bool { return s.Readings() >= want })
	}

	if got := s.Readings(); got != 5 {
		t.Errorf("readings = %d, want 5", got)
	}
	if got := cell.Load(); got != 0.8 {
		t.Errorf("cell = %v, want 0.8", got)
	}
}

func TestToolCallSourceAckFailureEndsRun(t *testing.T) {
	in := tensionLine("a", 0.5) + tensionLine("b", 0.6)
	src := NewToolCallSource(strings.NewReader(in), failWriter{})

	errc := make(chan error, 1)
	go func() { errc <- src.Run(context.Background(), func(float64) {}) }()

	select {
	case err := <-errc:
		if err == nil {
			t.Error("expected write error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after failed acknowledgement")
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestOscillatorAt(t *testing.T) {
	o := &Oscillator{Interval: 200 * time.Millisecond, Period: 4 * time.Second}
	tests := []struct {
		t    time.Duration
		want float64
	}{
		{0, 0},
		{time.Second, 0.5},
		{2 * time.Second, 1},
		{4 * time.Second, 0},
	}
	for _, tt := range tests {
		if got := o.At(tt.t); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("At(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestOscillatorRejectsZeroInterval(t *testing.T) {
	o := &Oscillator{}
	if err := o.Run(context.Background(), func(float64) {}); err == nil {
		t.Error("expected error for zero interval")
	}
}

// failingSource emits one reading then fails.
type failingSource struct{ v float64 }

func (f failingSource) Run(ctx context.Context, onTension func(float64)) error {
	onTension(f.v)
	return errors.New("camera unavailable")
}

func TestSessionFailureFreezesTension(t *testing.T) {
	var cell Cell
	s := NewSession(failingSource{v: 0.6}, &cell)
	s.Connect(context.Background())
	s.Wait()

	if s.Connected() {
		t.Error("session still connected after source failure")
	}
	if s.Err() == nil {
		t.Error("expected source error to be surfaced")
	}
	if got := cell.Load(); got != 0.6 {
		t.Errorf("cell = %v, want last reading 0.6 kept", got)
	}
	if s.Readings() != 1 {
		t.Errorf("readings = %d, want 1", s.Readings())
	}
}

func TestSessionDisconnectKeepsValue(t *testing.T) {
	var cell Cell
	s := NewSession(&Oscillator{Interval: time.Millisecond, Period: time.Second}, &cell)
	s.Connect(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for s.Readings() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	s.Disconnect()

	if s.Connected() {
		t.Error("session connected after Disconnect")
	}
	if s.Err() != nil {
		t.Errorf("clean disconnect reported error: %v", s.Err())
	}
	frozen := cell.Load()
	time.Sleep(10 * time.Millisecond)
	if cell.Load() != frozen {
		t.Error("cell changed after disconnect")
	}
}

func TestSessionToggle(t *testing.T) {
	var cell Cell
	s := NewSession(&Oscillator{Interval: time.Millisecond, Period: time.Second}, &cell)
	s.Toggle(context.Background())
	if !s.Connected() {
		t.Fatal("Toggle did not connect")
	}
	s.Toggle(context.Background())
	if s.Connected() {
		t.Error("Toggle did not disconnect")
	}
}
