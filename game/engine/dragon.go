package engine

// Roller is the source of randomness for dragon decisions.
// *rand.Rand from math/rand/v2 satisfies it.
type Roller interface {
	IntN(n int) int
}

// Occupancy tracks the cells held by dragons during a turn
type Occupancy map[Position]int

// NewOccupancy builds the occupancy set for the given dragon positions
func NewOccupancy(dragons []Position) Occupancy {
	occ := make(Occupancy, len(dragons))
	for _, d := range dragons {
		occ[d]++
	}
	return occ
}

// Has reports whether a dragon holds p
func (o Occupancy) Has(p Position) bool {
	return o[p] > 0
}

// Move commits a dragon from one cell to another
func (o Occupancy) Move(from, to Position) {
	if from == to {
		return
	}
	if o[from] <= 1 {
		delete(o, from)
	} else {
		o[from]--
	}
	o[to]++
}

// StepMode is the movement policy picked for one dragon in one turn
type StepMode int

const (
	ModeRandom StepMode = iota
	ModePursue
)

// pursuitDelta is the squared distance beyond which dragons pursue less often
const pursuitDelta = 2 * 2

// DragonController decides the moves of alerted dragons
type DragonController struct {
	grid   *Grid
	roller Roller
}

// NewDragonController creates a controller bound to grid
func NewDragonController(grid *Grid, roller Roller) *DragonController {
	return &DragonController{grid: grid, roller: roller}
}

// PickMode rolls the movement policy for a dragon at the given distance.
// Far dragons (distance > 2) pursue one time in three, close dragons two in three.
func (c *DragonController) PickMode(dragon, player Position) StepMode {
	roll := c.roller.IntN(3)
	if DistanceSquared(dragon, player) > pursuitDelta {
		if roll < 1 {
			return ModePursue
		}
		return ModeRandom
	}
	if roll < 2 {
		return ModePursue
	}
	return ModeRandom
}

// PursuitDelta returns the cardinal step that brings dragon closest to player.
// Exact distance ties go to the smaller (dx, dy) tuple.
func PursuitDelta(dragon, player Position) Delta {
	var best Delta
	bestDist := -1
	for _, dir := range Directions {
		d := dir.Delta()
		dist := DistanceSquared(dragon.Add(d), player)
		if bestDist < 0 || dist < bestDist || (dist == bestDist && d.less(best)) {
			best = d
			bestDist = dist
		}
	}
	return best
}

// RandomDelta picks a cardinal step uniformly
func (c *DragonController) RandomDelta() Delta {
	return Directions[c.roller.IntN(len(Directions))].Delta()
}

// Step returns the next position of one alerted dragon. Walls and cells held
// by other dragons reject the move and the dragon stays put.
func (c *DragonController) Step(dragon, player Position, occupied Occupancy) Position {
	var d Delta
	if c.PickMode(dragon, player) == ModePursue {
		d = PursuitDelta(dragon, player)
	} else {
		d = c.RandomDelta()
	}

	next := dragon.Add(d)
	if !c.grid.InBounds(next) || c.grid.IsWall(next) || occupied.Has(next) {
		return dragon
	}
	return next
}

// MoveAlerted moves every alerted dragon in slice order, committing each move
// to the shared occupancy before the next dragon decides. dragons is updated
// in place.
func (c *DragonController) MoveAlerted(dragons []Position, alerted []int, player Position) {
	occupied := NewOccupancy(dragons)
	for _, i := range alerted {
		from := dragons[i]
		to := c.Step(from, player, occupied)
		occupied.Move(from, to)
		dragons[i] = to
	}
}
