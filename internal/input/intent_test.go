package input

import (
	"math"
	"testing"
)

func TestMergeKeepsEdges(t *testing.T) {
	pending := Intent{JumpDown: true, JumpHeld: true, Horizontal: 1}
	next := Intent{JumpHeld: true, Horizontal: -0.5}

	got := pending.Merge(next)

	if !got.JumpDown {
		t.Error("expected JumpDown to survive merge")
	}
	if !got.JumpHeld {
		t.Error("expected JumpHeld from newer frame")
	}
	if got.Horizontal != -0.5 {
		t.Errorf("expected horizontal -0.5, got %v", got.Horizontal)
	}
}

func TestMergeReleaseAfterPress(t *testing.T) {
	// Press and release both land between two physics steps.
	got := Intent{}.Merge(Intent{JumpDown: true, JumpHeld: true}).Merge(Intent{JumpUp: true})

	if !got.JumpDown || !got.JumpUp {
		t.Errorf("expected both edges, got %+v", got)
	}
	if got.JumpHeld {
		t.Error("expected button no longer held")
	}
}

func TestConsumedClearsEdgesOnly(t *testing.T) {
	in := Intent{Horizontal: 0.3, JumpDown: true, JumpHeld: true, JumpUp: true}
	got := in.Consumed()

	if got.JumpDown || got.JumpUp {
		t.Errorf("expected edges cleared, got %+v", got)
	}
	if !got.JumpHeld || got.Horizontal != 0.3 {
		t.Errorf("expected held state kept, got %+v", got)
	}
	if !in.JumpDown {
		t.Error("Consumed must not modify the receiver")
	}
}

func TestClamped(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.5, 0.5},
		{2, 1},
		{-3, -1},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		got := Intent{Horizontal: tt.in}.Clamped().Horizontal
		if got != tt.want {
			t.Errorf("Clamped(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGrabIsJumpHeld(t *testing.T) {
	if (Intent{JumpHeld: true}).Grab() != true {
		t.Error("expected grab while jump held")
	}
	if (Intent{JumpDown: true}).Grab() {
		t.Error("expected no grab from a press edge alone")
	}
}
