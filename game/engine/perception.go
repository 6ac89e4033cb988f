package engine

import "math"

// DistanceSquared is the squared Euclidean distance between a and b
func DistanceSquared(a, b Position) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// Distance is the Euclidean distance between a and b
func Distance(a, b Position) float64 {
	return math.Sqrt(float64(DistanceSquared(a, b)))
}

// WithinRadius reports whether b is at most radius away from a (inclusive).
// Compared on squared integers so boundary ties are exact.
func WithinRadius(a, b Position, radius int) bool {
	if radius < 0 {
		return false
	}
	return DistanceSquared(a, b) <= radius*radius
}

// Alerted returns the indexes of the dragons that smell the player this turn
func Alerted(dragons []Position, player Position, smellRadius int) []int {
	var alerted []int
	for i, d := range dragons {
		if WithinRadius(d, player, smellRadius) {
			alerted = append(alerted, i)
		}
	}
	return alerted
}

// AlertedPositions returns the positions of the alerted dragons
func AlertedPositions(dragons []Position, player Position, smellRadius int) []Position {
	idx := Alerted(dragons, player, smellRadius)
	positions := make([]Position, 0, len(idx))
	for _, i := range idx {
		positions = append(positions, dragons[i])
	}
	return positions
}
