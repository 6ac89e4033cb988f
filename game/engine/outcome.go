package engine

// Evaluate decides the outcome of a turn once every move has resolved.
//
// Each dragon within distance 1 of the player costs one health point. A dragon
// on the player's cell, or health reaching zero, is a loss and stops the pass.
// Otherwise standing on the exit is a win. health is consumed in place.
func Evaluate(player Position, dragons []Position, exit Position, health *int) Outcome {
	for _, d := range dragons {
		if DistanceSquared(d, player) <= 1 {
			*health--
		}
		if d == player || *health <= 0 {
			if *health < 0 {
				*health = 0
			}
			return Loss
		}
	}

	if player == exit {
		return Win
	}
	return Ongoing
}
