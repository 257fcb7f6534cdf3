package io

import (
	"context"
	"errors"
	"testing"
)

func TestConstantDrive(t *testing.T) {
	drive := NewConstantDrive(3, 128)
	values, err := drive.Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(values) != 3 || values[0] != 128 || values[2] != 128 {
		t.Fatalf("unexpected values: %v", values)
	}

	// Caller mutation must not reach the source.
	values[0] = 0
	again, _ := drive.Read(context.Background())
	if again[0] != 128 {
		t.Fatalf("drive aliased its buffer: %v", again)
	}
}

func TestSequenceDriveReplayAndExhaustion(t *testing.T) {
	drive, err := NewSequenceDrive([][]int16{{1, 2}, {3, 4}}, false)
	if err != nil {
		t.Fatalf("new sequence: %v", err)
	}

	first, err := drive.Read(context.Background())
	if err != nil || first[0] != 1 || first[1] != 2 {
		t.Fatalf("frame 1 = %v (%v)", first, err)
	}
	second, err := drive.Read(context.Background())
	if err != nil || second[0] != 3 {
		t.Fatalf("frame 2 = %v (%v)", second, err)
	}
	if _, err := drive.Read(context.Background()); !errors.Is(err, ErrDriveExhausted) {
		t.Fatalf("expected ErrDriveExhausted, got %v", err)
	}
}

func TestSequenceDriveLoops(t *testing.T) {
	drive, err := NewSequenceDrive([][]int16{{7}}, true)
	if err != nil {
		t.Fatalf("new sequence: %v", err)
	}
	for i := 0; i < 5; i++ {
		values, err := drive.Read(context.Background())
		if err != nil || values[0] != 7 {
			t.Fatalf("loop read %d = %v (%v)", i, values, err)
		}
	}
}

func TestSequenceDriveValidation(t *testing.T) {
	if _, err := NewSequenceDrive(nil, false); err == nil {
		t.Fatal("expected error for empty sequence")
	}
	if _, err := NewSequenceDrive([][]int16{{1}, {1, 2}}, false); err == nil {
		t.Fatal("expected error for ragged frames")
	}
}

func TestScalarDriveSet(t *testing.T) {
	drive := NewScalarDrive(2, 0)
	drive.Set(64)

	values, err := drive.Read(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if values[0] != 64 || values[1] != 64 {
		t.Fatalf("unexpected values: %v", values)
	}
}

func TestMemoryTraceSink(t *testing.T) {
	sink := NewMemoryTraceSink()
	if err := sink.Write(context.Background(), 1, []bool{true, false}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := sink.Write(context.Background(), 2, []bool{false, true}); err != nil {
		t.Fatalf("write: %v", err)
	}

	all := sink.All()
	if len(all) != 2 || !all[0][0] || !all[1][1] {
		t.Fatalf("unexpected trace: %v", all)
	}
}
