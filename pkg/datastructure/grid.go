package datastructure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrEmptyGrid = errors.New("grid has no cells")

// Grid is the raw occupancy map: 0 free, 1 blocked.
type Grid struct {
	cells  [][]uint8
	height int
	width  int
}

func NewGrid(cells [][]uint8) (*Grid, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	width := len(cells[0])
	cp := make([][]uint8, len(cells))
	for i, row := range cells {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(row), width)
		}
		cp[i] = make([]uint8, width)
		for j, c := range row {
			if c > 1 {
				return nil, fmt.Errorf("cell (%d, %d) has value %d, want 0 or 1", i, j, c)
			}
			cp[i][j] = c
		}
	}
	return &Grid{cells: cp, height: len(cp), width: width}, nil
}

// ParseGrid reads one row per line. '0' or '.' is free, '1' or '#' is blocked.
// blank lines and lines starting with ';' are skipped.
func ParseGrid(r io.Reader) (*Grid, error) {
	var cells [][]uint8
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		row := make([]uint8, 0, len(line))
		for _, ch := range line {
			switch ch {
			case '0', '.':
				row = append(row, 0)
			case '1', '#':
				row = append(row, 1)
			case ' ', '\t', ',':
			default:
				return nil, fmt.Errorf("line %d: unexpected character %q", lineNo, ch)
			}
		}
		cells = append(cells, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read grid: %w", err)
	}
	return NewGrid(cells)
}

func LoadGrid(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grid: %w", err)
	}
	defer f.Close()
	return ParseGrid(f)
}

func (g *Grid) Height() int { return g.height }

func (g *Grid) Width() int { return g.width }

func (g *Grid) Contains(n Node) bool {
	return n.Row >= 0 && n.Row < g.height && n.Col >= 0 && n.Col < g.width
}

func (g *Grid) IsFree(n Node) bool {
	return g.Contains(n) && g.cells[n.Row][n.Col] == 0
}

// Cell returns the raw value, 1 for anything outside the grid.
func (g *Grid) Cell(row, col int) uint8 {
	if !g.Contains(Node{row, col}) {
		return 1
	}
	return g.cells[row][col]
}

// Neighbors4 returns free neighbors in left, up, right, down order.
func (g *Grid) Neighbors4(n Node) []Node {
	nbs := make([]Node, 0, 4)
	for _, d := range Directions {
		nb := Node{Row: n.Row + d.DRow, Col: n.Col + d.DCol}
		if g.IsFree(nb) {
			nbs = append(nbs, nb)
		}
	}
	return nbs
}

// RenderASCII draws the grid with '#' obstacles, '*' path cells, 'S' start and 'G' goal.
func (g *Grid) RenderASCII(path []Node, start, goal Node) string {
	onPath := make(map[Node]struct{}, len(path))
	for _, n := range path {
		onPath[n] = struct{}{}
	}
	var sb strings.Builder
	for i := 0; i < g.height; i++ {
		for j := 0; j < g.width; j++ {
			n := Node{i, j}
			switch {
			case n == start:
				sb.WriteByte('S')
			case n == goal:
				sb.WriteByte('G')
			case g.cells[i][j] == 1:
				sb.WriteByte('#')
			default:
				if _, ok := onPath[n]; ok {
					sb.WriteByte('*')
				} else {
					sb.WriteByte('.')
				}
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
