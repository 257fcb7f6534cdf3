package fixed

import (
	"math"
	"testing"
)

func TestSatAdd16(t *testing.T) {
	cases := []struct {
		a, b, want int16
	}{
		{0, 0, 0},
		{100, 28, 128},
		{-100, 28, -72},
		{math.MaxInt16, 1, math.MaxInt16},
		{math.MaxInt16, math.MaxInt16, math.MaxInt16},
		{math.MinInt16, -1, math.MinInt16},
		{math.MinInt16, math.MinInt16, math.MinInt16},
		{math.MaxInt16, math.MinInt16, -1},
	}
	for _, tc := range cases {
		if got := SatAdd16(tc.a, tc.b); got != tc.want {
			t.Fatalf("SatAdd16(%d, %d) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSatSub16(t *testing.T) {
	cases := []struct {
		a, b, want int16
	}{
		{0, 0, 0},
		{10, 3, 7},
		{math.MinInt16, 1, math.MinInt16},
		{math.MaxInt16, -1, math.MaxInt16},
		{0, math.MinInt16, math.MaxInt16},
	}
	for _, tc := range cases {
		if got := SatSub16(tc.a, tc.b); got != tc.want {
			t.Fatalf("SatSub16(%d, %d) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestMulQ7(t *testing.T) {
	cases := []struct {
		sample int16
		weight int8
		want   int16
	}{
		{0, 127, 0},
		{128, 64, 64},    // 1.0 * 0.5
		{128, 115, 115},  // 1.0 * ~0.9, the synthetic nerve weight
		{256, 115, 230},  // 2.0 * ~0.9
		{128, -64, -64},  // 1.0 * -0.5
		{math.MaxInt16, 127, 32511},
		{math.MinInt16, -128, math.MaxInt16}, // saturates, never wraps
	}
	for _, tc := range cases {
		if got := MulQ7(tc.sample, tc.weight); got != tc.want {
			t.Fatalf("MulQ7(%d, %d) = %d, want %d", tc.sample, tc.weight, got, tc.want)
		}
	}
}

func TestClamp16(t *testing.T) {
	if got := Clamp16(1 << 20); got != math.MaxInt16 {
		t.Fatalf("Clamp16 high = %d", got)
	}
	if got := Clamp16(-(1 << 20)); got != math.MinInt16 {
		t.Fatalf("Clamp16 low = %d", got)
	}
	if got := Clamp16(-5); got != -5 {
		t.Fatalf("Clamp16 passthrough = %d", got)
	}
}
