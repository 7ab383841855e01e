package guidance

import (
	"fmt"

	"lintang/blocknav/pkg/datastructure"
)

const (
	UNKNOWN            = -9999
	TURN_LEFT          = -2
	CONTINUE_ON_STREET = 0
	TURN_RIGHT         = 2
	FINISH             = 4
	U_TURN             = 8
	START              = 101
)

type Heading int

const (
	North Heading = iota
	East
	South
	West
)

func (h Heading) String() string {
	switch h {
	case North:
		return "North"
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	}
	return "Unknown"
}

// headingOf is the compass heading of a single 4-connected step. rows grow southwards.
func headingOf(from, to datastructure.Node) (Heading, bool) {
	switch {
	case to.Row == from.Row-1 && to.Col == from.Col:
		return North, true
	case to.Row == from.Row && to.Col == from.Col+1:
		return East, true
	case to.Row == from.Row+1 && to.Col == from.Col:
		return South, true
	case to.Row == from.Row && to.Col == from.Col-1:
		return West, true
	}
	return 0, false
}

// turnSign maps the heading change between two legs to a sign.
func turnSign(prev, next Heading) int {
	switch (int(next) - int(prev) + 4) % 4 {
	case 0:
		return CONTINUE_ON_STREET
	case 1:
		return TURN_RIGHT
	case 2:
		return U_TURN
	case 3:
		return TURN_LEFT
	}
	return UNKNOWN
}

// Instruction is one straight leg of a path: Steps cells in Heading starting at Point.
type Instruction struct {
	Point   datastructure.Node
	Sign    int
	Heading Heading
	Steps   int
}

func NewInstruction(sign int, heading Heading, p datastructure.Node) Instruction {
	return Instruction{
		Sign:    sign,
		Heading: heading,
		Point:   p,
	}
}

func (instr *Instruction) GetTurnDescription() string {
	switch instr.Sign {
	case START:
		return fmt.Sprintf("Head %s for %s", instr.Heading, cells(instr.Steps))
	case FINISH:
		return "you have arrived at your destination"
	case CONTINUE_ON_STREET:
		return fmt.Sprintf("Continue %s for %s", instr.Heading, cells(instr.Steps))
	}
	dir := getDirectionDescription(instr.Sign)
	if dir == "" {
		return fmt.Sprintf("unknown %d", instr.Sign)
	}
	return fmt.Sprintf("%s, head %s for %s", dir, instr.Heading, cells(instr.Steps))
}

func getDirectionDescription(sign int) string {
	switch sign {
	case TURN_LEFT:
		return "Turn left"
	case TURN_RIGHT:
		return "Turn right"
	case U_TURN:
		return "Make U-turn"
	default:
		return ""
	}
}

func cells(n int) string {
	if n == 1 {
		return "1 cell"
	}
	return fmt.Sprintf("%d cells", n)
}
