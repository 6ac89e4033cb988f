package engine

import "strings"

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// PathLength returns the number of steps on the shortest wall-free route
// between from and to, or -1 when to cannot be reached.
func PathLength(g *Grid, from, to Position) int {
	if !g.InBounds(from) || !g.InBounds(to) || g.IsWall(from) || g.IsWall(to) {
		return -1
	}

	dist := map[Position]int{from: 0}
	queue := []Position{from}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if p == to {
			return dist[p]
		}
		for _, dir := range Directions {
			next := p.Add(dir.Delta())
			if _, seen := dist[next]; seen || !CanStep(g, p, dir.Delta()) {
				continue
			}
			dist[next] = dist[p] + 1
			queue = append(queue, next)
		}
	}
	return -1
}

// FindNearestDragon finds the closest dragon and returns its position and squared distance
func FindNearestDragon(state *GameState) (Position, int, bool) {
	minDistance := -1
	var nearestPos Position

	for _, d := range state.Dragons {
		distance := DistanceSquared(state.PlayerPos, d)
		if minDistance == -1 || distance < minDistance {
			minDistance = distance
			nearestPos = d
		}
	}

	return nearestPos, minDistance, minDistance >= 0
}

// AnalyzeDanger assesses how close the dragons are to the player
func AnalyzeDanger(state *GameState, smellRadius int) string {
	if state.Health <= 0 {
		return "CRITICAL: No health left!"
	}

	_, dist, found := FindNearestDragon(state)
	if !found {
		return "SAFE: No dragons in the dungeon"
	}

	if dist <= 1 {
		return "DANGER: A dragon is breathing down your neck!"
	} else if len(state.Alerted) > 0 {
		return "CAUTION: A dragon has caught your scent"
	} else if dist <= (smellRadius+1)*(smellRadius+1) {
		return "LOW: A dragon is close to catching your scent"
	}

	return "SAFE: No dragon nearby"
}

// RenderBoard draws the grid with the configured glyphs, one string per row.
// Dragons use the visible glyph within reveal of the player, or everywhere
// once the game is over.
func RenderBoard(g *Grid, state *GameState, glyphs Glyphs, reveal int) []string {
	rows := make([]string, g.Height)
	var b strings.Builder
	for y := 0; y < g.Height; y++ {
		b.Reset()
		for x := 0; x < g.Width; x++ {
			p := Position{X: x, Y: y}
			switch g.At(p) {
			case Wall:
				b.WriteString(glyphs.Wall)
			case Player:
				b.WriteString(glyphs.Player)
			case Dragon:
				if state.GameOver || WithinRadius(p, state.PlayerPos, reveal) {
					b.WriteString(glyphs.VisibleDragon)
				} else {
					b.WriteString(glyphs.Dragon)
				}
			case Exit:
				b.WriteString(glyphs.Exit)
			default:
				b.WriteString(glyphs.Floor)
			}
		}
		rows[y] = b.String()
	}
	return rows
}
