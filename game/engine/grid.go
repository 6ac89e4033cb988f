package engine

import "fmt"

// Grid owns the wall layout and the occupant overlay.
//
// Walls are fixed when the grid is created: the outer border plus a cross
// partition through the center lines that stops PartitionGap tiles short of
// the border so all four quadrants stay connected.
type Grid struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Tiles  [][]Tile `json:"tiles"`
}

// NewGrid builds a bordered width x height grid with the cross partition
func NewGrid(width, height int) *Grid {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
		for x := range tiles[y] {
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				tiles[y][x] = Wall
			} else {
				tiles[y][x] = Floor
			}
		}
	}

	// Horizontal leg
	midY := height / 2
	for x := PartitionGap; x < width-PartitionGap; x++ {
		tiles[midY][x] = Wall
	}

	// Vertical leg
	midX := width / 2
	for y := PartitionGap; y < height-PartitionGap; y++ {
		tiles[y][midX] = Wall
	}

	return &Grid{Width: width, Height: height, Tiles: tiles}
}

// InBounds reports whether p lies inside the grid
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.Width && p.Y < g.Height
}

// At returns the tile at p
func (g *Grid) At(p Position) Tile {
	g.mustContain(p)
	return g.Tiles[p.Y][p.X]
}

// IsWall checks if p is a wall
func (g *Grid) IsWall(p Position) bool {
	return g.At(p) == Wall
}

// Place overwrites the occupant marker at p
func (g *Grid) Place(p Position, t Tile) {
	g.mustContain(p)
	if g.Tiles[p.Y][p.X] == Wall || t == Wall {
		panic(fmt.Sprintf("engine: walls are fixed, cannot place %s at (%d,%d)", t, p.X, p.Y))
	}
	g.Tiles[p.Y][p.X] = t
}

// Clear restores p to a free tile
func (g *Grid) Clear(p Position) {
	g.Place(p, Floor)
}

// FreeTiles returns every non-wall position in row-major order
func (g *Grid) FreeTiles() []Position {
	var free []Position
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.Tiles[y][x] != Wall {
				free = append(free, Position{X: x, Y: y})
			}
		}
	}
	return free
}

// CountTiles counts the cells holding t
func (g *Grid) CountTiles(t Tile) int {
	count := 0
	for _, row := range g.Tiles {
		for _, tile := range row {
			if tile == t {
				count++
			}
		}
	}
	return count
}

func (g *Grid) mustContain(p Position) {
	if !g.InBounds(p) {
		panic(fmt.Sprintf("engine: position (%d,%d) outside %dx%d grid", p.X, p.Y, g.Width, g.Height))
	}
}

// Overlay clears every free tile and places the exit, the dragons and the
// player from state, in that order
func (g *Grid) Overlay(state *GameState) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.Tiles[y][x] != Wall {
				g.Tiles[y][x] = Floor
			}
		}
	}
	g.Place(state.ExitPos, Exit)
	for _, d := range state.Dragons {
		g.Place(d, Dragon)
	}
	g.Place(state.PlayerPos, Player)
}

// GridFromState rebuilds the map of a state received from elsewhere, such as
// over the API. Entities on walls or outside the grid are an error.
func GridFromState(state *GameState) (*Grid, error) {
	if state.Width < MinGridSize || state.Height < MinGridSize {
		return nil, fmt.Errorf("state has no usable dimensions (%dx%d)", state.Width, state.Height)
	}
	g := NewGrid(state.Width, state.Height)
	positions := append([]Position{state.ExitPos, state.PlayerPos}, state.Dragons...)
	for _, p := range positions {
		if !g.InBounds(p) || g.IsWall(p) {
			return nil, fmt.Errorf("state places an entity on (%d,%d), which is not a free tile", p.X, p.Y)
		}
	}
	g.Overlay(state)
	return g, nil
}
