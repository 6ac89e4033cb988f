package main

import "github.com/wricardo/dragons-dungeon/game/engine"

// Strategy plans a route to the door that keeps clear of dragons.
//
// The server reports every dragon, so the bot plays with full information.
// It first looks for a path that never touches a tile next to a dragon,
// then for one that only avoids the dragons themselves.
type Strategy struct {
	// Lookahead is how many moves are sent at once while no dragon is near
	Lookahead int
	// Caution is the extra distance past the smell radius at which the bot
	// switches to one move per request
	Caution int
}

func NewStrategy() *Strategy {
	return &Strategy{Lookahead: 5, Caution: 2}
}

// NextMoves returns the moves to send next, or nil when no route exists
func (s *Strategy) NextMoves(state *engine.GameState, smellRadius int) []string {
	grid := engine.NewGrid(state.Width, state.Height)

	path := s.route(grid, state, true)
	if path == nil {
		path = s.route(grid, state, false)
	}
	if path == nil {
		return nil
	}

	n := s.Lookahead
	if len(state.Alerted) > 0 || s.dragonNear(state, smellRadius+s.Caution) {
		n = 1
	}
	if n > len(path) {
		n = len(path)
	}
	return path[:n]
}

func (s *Strategy) dragonNear(state *engine.GameState, radius int) bool {
	for _, d := range state.Dragons {
		if engine.WithinRadius(d, state.PlayerPos, radius) {
			return true
		}
	}
	return false
}

// route runs a BFS from the player to the door. careful also blocks the
// tiles around each dragon, except the door itself.
func (s *Strategy) route(grid *engine.Grid, state *engine.GameState, careful bool) []string {
	blocked := make(map[engine.Position]bool)
	for _, d := range state.Dragons {
		blocked[d] = true
		if !careful {
			continue
		}
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				blocked[engine.Position{X: d.X + dx, Y: d.Y + dy}] = true
			}
		}
	}
	delete(blocked, state.ExitPos)

	type step struct {
		from engine.Position
		dir  engine.Direction
	}
	prev := map[engine.Position]step{state.PlayerPos: {}}
	queue := []engine.Position{state.PlayerPos}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		if p == state.ExitPos {
			var moves []string
			for p != state.PlayerPos {
				st := prev[p]
				moves = append(moves, string(st.dir))
				p = st.from
			}
			for i, j := 0, len(moves)-1; i < j; i, j = i+1, j-1 {
				moves[i], moves[j] = moves[j], moves[i]
			}
			return moves
		}

		for _, dir := range engine.Directions {
			next := p.Add(dir.Delta())
			if _, seen := prev[next]; seen || blocked[next] || !engine.CanStep(grid, p, dir.Delta()) {
				continue
			}
			prev[next] = step{from: p, dir: dir}
			queue = append(queue, next)
		}
	}
	return nil
}
