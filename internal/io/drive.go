// Package io holds the engine's external collaborators: drive sources that
// produce the nerve layer's per-tick input vector, and trace sinks that
// consume the output layer's spike vector.
package io

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

const (
	ConstantDriveName = "constant"
	SequenceDriveName = "sequence"
	ScalarDriveName   = "scalar"
	ZeroDriveName     = "zero"
)

// ErrDriveExhausted is returned by finite drive sources once every frame
// has been consumed.
var ErrDriveExhausted = errors.New("drive source exhausted")

// DriveSource produces one nerve-layer input vector per tick. Samples are
// signed fixed-point currents in the same domain as quantized weights.
type DriveSource interface {
	Name() string
	Read(ctx context.Context) ([]int16, error)
}

// TraceSink consumes the output-layer spike vector after each tick.
type TraceSink interface {
	Name() string
	Write(ctx context.Context, tick int, outputs []bool) error
}

// ConstantDrive feeds the same vector every tick.
type ConstantDrive struct {
	values []int16
}

// NewConstantDrive returns a drive producing width copies of value.
func NewConstantDrive(width int, value int16) *ConstantDrive {
	values := make([]int16, width)
	for i := range values {
		values[i] = value
	}
	return &ConstantDrive{values: values}
}

// NewConstantDriveVector returns a drive producing a fixed vector.
func NewConstantDriveVector(values []int16) *ConstantDrive {
	return &ConstantDrive{values: append([]int16(nil), values...)}
}

func (d *ConstantDrive) Name() string {
	return ConstantDriveName
}

func (d *ConstantDrive) Read(_ context.Context) ([]int16, error) {
	return append([]int16(nil), d.values...), nil
}

// SequenceDrive replays a recorded sequence of drive frames, optionally
// looping when the sequence runs out.
type SequenceDrive struct {
	mu     sync.Mutex
	frames [][]int16
	pos    int
	loop   bool
}

func NewSequenceDrive(frames [][]int16, loop bool) (*SequenceDrive, error) {
	if len(frames) == 0 {
		return nil, errors.New("sequence drive needs at least one frame")
	}
	width := len(frames[0])
	copied := make([][]int16, 0, len(frames))
	for i, frame := range frames {
		if len(frame) != width {
			return nil, fmt.Errorf("frame %d width mismatch: got=%d want=%d", i, len(frame), width)
		}
		copied = append(copied, append([]int16(nil), frame...))
	}
	return &SequenceDrive{frames: copied, loop: loop}, nil
}

func (d *SequenceDrive) Name() string {
	return SequenceDriveName
}

func (d *SequenceDrive) Read(_ context.Context) ([]int16, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pos >= len(d.frames) {
		if !d.loop {
			return nil, ErrDriveExhausted
		}
		d.pos = 0
	}
	frame := d.frames[d.pos]
	d.pos++
	return append([]int16(nil), frame...), nil
}

// ScalarDrive is a settable drive: an external collaborator updates the
// current sample and every nerve neuron sees it on the next tick.
type ScalarDrive struct {
	mu    sync.RWMutex
	width int
	value int16
}

func NewScalarDrive(width int, initial int16) *ScalarDrive {
	return &ScalarDrive{width: width, value: initial}
}

func (d *ScalarDrive) Name() string {
	return ScalarDriveName
}

func (d *ScalarDrive) Read(_ context.Context) ([]int16, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	values := make([]int16, d.width)
	for i := range values {
		values[i] = d.value
	}
	return values, nil
}

func (d *ScalarDrive) Set(value int16) {
	d.mu.Lock()
	d.value = value
	d.mu.Unlock()
}

// MemoryTraceSink retains every output vector it is handed.
type MemoryTraceSink struct {
	mu      sync.RWMutex
	outputs [][]bool
}

func NewMemoryTraceSink() *MemoryTraceSink {
	return &MemoryTraceSink{}
}

func (s *MemoryTraceSink) Name() string {
	return "memory"
}

func (s *MemoryTraceSink) Write(_ context.Context, _ int, outputs []bool) error {
	s.mu.Lock()
	s.outputs = append(s.outputs, append([]bool(nil), outputs...))
	s.mu.Unlock()
	return nil
}

// All returns every recorded output vector in tick order.
func (s *MemoryTraceSink) All() [][]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([][]bool, 0, len(s.outputs))
	for _, o := range s.outputs {
		out = append(out, append([]bool(nil), o...))
	}
	return out
}
