package guidance

import (
	"errors"
	"fmt"

	"lintang/blocknav/pkg/datastructure"
)

var ErrEmptyPath = errors.New("path is empty")

type DrivingInstruction struct {
	Instruction string             `json:"instruction"`
	Point       datastructure.Node `json:"point"`
	Heading     string             `json:"heading"`
	Steps       int                `json:"steps"`
}

func NewDrivingInstruction(ins Instruction, description string) DrivingInstruction {
	heading := ins.Heading.String()
	if ins.Sign == FINISH {
		heading = ""
	}
	return DrivingInstruction{
		Instruction: description,
		Point:       ins.Point,
		Heading:     heading,
		Steps:       ins.Steps,
	}
}

// InstructionsFromPath merges consecutive steps with the same heading into one
// instruction and appends a FINISH at the last node.
func InstructionsFromPath(path []datastructure.Node) ([]Instruction, error) {
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}
	ways := make([]Instruction, 0)
	for i := 1; i < len(path); i++ {
		heading, ok := headingOf(path[i-1], path[i])
		if !ok {
			return nil, fmt.Errorf("step %d from (%d, %d) to (%d, %d) is not a unit move",
				i, path[i-1].Row, path[i-1].Col, path[i].Row, path[i].Col)
		}
		if len(ways) == 0 {
			ways = append(ways, NewInstruction(START, heading, path[i-1]))
		} else if last := &ways[len(ways)-1]; last.Heading != heading {
			ways = append(ways, NewInstruction(turnSign(last.Heading, heading), heading, path[i-1]))
		}
		ways[len(ways)-1].Steps++
	}
	ways = append(ways, Instruction{Sign: FINISH, Point: path[len(path)-1]})
	return ways, nil
}

func GetTurnDescriptions(instructions []Instruction) []string {
	turnDescriptions := make([]string, 0, len(instructions))
	for i := range instructions {
		turnDescriptions = append(turnDescriptions, instructions[i].GetTurnDescription())
	}
	return turnDescriptions
}

func GetDrivingInstructions(path []datastructure.Node) ([]DrivingInstruction, error) {
	ways, err := InstructionsFromPath(path)
	if err != nil {
		return nil, err
	}
	descs := GetTurnDescriptions(ways)
	drivingInstructions := make([]DrivingInstruction, 0, len(ways))
	for i := range ways {
		drivingInstructions = append(drivingInstructions, NewDrivingInstruction(ways[i], descs[i]))
	}
	return drivingInstructions, nil
}
