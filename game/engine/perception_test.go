package engine

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	a := Position{X: 1, Y: 1}
	b := Position{X: 4, Y: 5}

	if got := DistanceSquared(a, b); got != 25 {
		t.Errorf("Expected squared distance 25, got %d", got)
	}
	if got := Distance(a, b); math.Abs(got-5) > 1e-9 {
		t.Errorf("Expected distance 5, got %f", got)
	}
}

func TestWithinRadius(t *testing.T) {
	player := Position{X: 10, Y: 10}

	tests := []struct {
		name   string
		dragon Position
		radius int
		want   bool
	}{
		{"exactly on radius straight", Position{X: 15, Y: 10}, 5, true},
		{"exactly on radius diagonal", Position{X: 13, Y: 14}, 5, true},
		{"just beyond", Position{X: 14, Y: 14}, 5, false},
		{"same cell zero radius", Position{X: 10, Y: 10}, 0, true},
		{"adjacent zero radius", Position{X: 11, Y: 10}, 0, false},
		{"negative radius", Position{X: 10, Y: 10}, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinRadius(tt.dragon, player, tt.radius); got != tt.want {
				t.Errorf("WithinRadius(%v, %v, %d) = %v, want %v", tt.dragon, player, tt.radius, got, tt.want)
			}
		})
	}
}

func TestAlerted_InclusiveAndOrdered(t *testing.T) {
	player := Position{X: 8, Y: 8}
	dragons := []Position{
		{X: 14, Y: 8},  // 6, beyond
		{X: 11, Y: 12}, // 5, on the boundary
		{X: 8, Y: 9},   // 1
		{X: 12, Y: 12}, // sqrt(32), beyond
	}

	got := Alerted(dragons, player, 5)
	want := []int{1, 2}
	if len(got) != len(want) {
		t.Fatalf("Expected alerted %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected alerted %v, got %v", want, got)
		}
	}

	positions := AlertedPositions(dragons, player, 5)
	if len(positions) != 2 || positions[0] != dragons[1] || positions[1] != dragons[2] {
		t.Errorf("Unexpected alerted positions %v", positions)
	}
}

func TestAlerted_ExhaustiveAgainstDistance(t *testing.T) {
	player := Position{X: 10, Y: 10}
	for radius := 0; radius <= 7; radius++ {
		for x := 0; x <= 20; x++ {
			for y := 0; y <= 20; y++ {
				d := Position{X: x, Y: y}
				alerted := len(Alerted([]Position{d}, player, radius)) == 1
				want := Distance(d, player) <= float64(radius)
				if alerted != want {
					t.Errorf("radius %d dragon %v: alerted=%v, want %v", radius, d, alerted, want)
				}
			}
		}
	}
}

func TestAlerted_NoDragons(t *testing.T) {
	if got := Alerted(nil, Position{X: 1, Y: 1}, 5); len(got) != 0 {
		t.Errorf("Expected no alerted dragons, got %v", got)
	}
}
