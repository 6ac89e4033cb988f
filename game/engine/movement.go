package engine

import "strings"

// Direction is a cardinal move requested by the player
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists the cardinal moves in enumeration order. Random dragon
// steps draw from this order.
var Directions = []Direction{Up, Down, Right, Left}

// Delta returns the step offset for d
func (d Direction) Delta() Delta {
	switch d {
	case Up:
		return Delta{DX: 0, DY: -1}
	case Down:
		return Delta{DX: 0, DY: 1}
	case Right:
		return Delta{DX: 1, DY: 0}
	case Left:
		return Delta{DX: -1, DY: 0}
	}
	return Delta{}
}

// CommandKind tags a parsed player command
type CommandKind int

const (
	CommandInvalid CommandKind = iota
	CommandMove
	CommandQuit
)

// Command is the tagged result of parsing player input
type Command struct {
	Kind      CommandKind
	Direction Direction
	Raw       string
}

// Move builds a move command for d
func Move(d Direction) Command {
	return Command{Kind: CommandMove, Direction: d, Raw: string(d)}
}

// ParseCommand turns raw input into a Command. Unknown input is CommandInvalid.
func ParseCommand(input string) Command {
	raw := strings.ToLower(strings.TrimSpace(input))
	switch raw {
	case "up", "u", "north":
		return Command{Kind: CommandMove, Direction: Up, Raw: raw}
	case "down", "d", "south":
		return Command{Kind: CommandMove, Direction: Down, Raw: raw}
	case "left", "l", "west":
		return Command{Kind: CommandMove, Direction: Left, Raw: raw}
	case "right", "r", "east":
		return Command{Kind: CommandMove, Direction: Right, Raw: raw}
	case "q", "quit", "exit":
		return Command{Kind: CommandQuit, Raw: raw}
	}
	return Command{Kind: CommandInvalid, Raw: raw}
}

// Resolve returns where an entity at p ends up after stepping by d.
// A wall destination leaves the entity at p. The destination must be inside
// the grid; the border walls guarantee that for every interior position.
func Resolve(g *Grid, p Position, d Delta) Position {
	if d == (Delta{}) {
		return p
	}
	next := p.Add(d)
	if g.IsWall(next) {
		return p
	}
	return next
}

// CanStep checks whether a step from p by d would move
func CanStep(g *Grid, p Position, d Delta) bool {
	next := p.Add(d)
	return g.InBounds(next) && !g.IsWall(next)
}
