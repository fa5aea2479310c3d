package capture

import (
	"testing"

	"github.com/mksync/mksync/internal/events"
)

func TestBorderOf(t *testing.T) {
	const width, height = int32(1920), int32(1080)

	cases := []struct {
		name     string
		x, y     int32
		want     events.Border
		wantEdge bool
	}{
		{"center", 960, 540, 0, false},
		{"left edge", 0, 540, events.BorderLeft, true},
		{"one pixel in from left is not the edge", 1, 540, 0, false},
		{"inside hysteresis band left is not the edge", borderHysteresis - 1, 540, 0, false},
		{"right edge", width - 1, 540, events.BorderRight, true},
		{"top edge", 960, 0, events.BorderTop, true},
		{"bottom edge", 960, height - 1, events.BorderBottom, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := borderOf(tc.x, tc.y, width, height)
			if ok != tc.wantEdge {
				t.Fatalf("borderOf(%d,%d) ok = %v, want %v", tc.x, tc.y, ok, tc.wantEdge)
			}
			if ok && got != tc.want {
				t.Fatalf("borderOf(%d,%d) = %v, want %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestBorderLatchFiresOnceThenSuppresses(t *testing.T) {
	const width, height = int32(1920), int32(1080)
	var l borderLatch

	which, ok := l.check(0, 540, width, height)
	if !ok || which != events.BorderLeft {
		t.Fatalf("first touch: got (%v,%v), want (BorderLeft,true)", which, ok)
	}

	for _, x := range []int32{0, 1, 2, borderHysteresis - 1} {
		if _, ok := l.check(x, 540, width, height); ok {
			t.Fatalf("check(%d,540) fired again while still inside the hysteresis band", x)
		}
	}

	if _, ok := l.check(borderHysteresis+1, 540, width, height); ok {
		t.Fatalf("check fired while clearing the band, want suppressed until fully interior")
	}

	if _, ok := l.check(960, 540, width, height); ok {
		t.Fatalf("check fired at center, want latch cleared silently")
	}

	which, ok = l.check(0, 540, width, height)
	if !ok || which != events.BorderLeft {
		t.Fatalf("re-touch after clearing interior: got (%v,%v), want (BorderLeft,true)", which, ok)
	}
}
