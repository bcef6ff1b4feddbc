package grid

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// maze cell characters
const (
	cellWall    = '1'
	cellWallAlt = 'X'
	cellFree    = '0'
	cellFreeAlt = '.'
	cellStart   = 'S'
	cellGoal    = 'G'
)

// Maze is a parsed maze file: the grid plus the optional start and goal markers.
type Maze struct {
	Grid  *Grid
	Start *Location
	Goal  *Location
}

// ParseMaze reads the maze text format. Each line is a row (z), each character a column (x).
// '1'/'X' are walls, '0'/'.' free cells, 'S' and 'G' free cells marking start and goal.
// Empty lines and lines starting with '#' are skipped.
func ParseMaze(text string, opts ...Option) (*Maze, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))

	width := -1
	z := 0
	blocked := make([]Location, 0)
	m := &Maze{}

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) < 1 {
			// skip empty lines
			continue
		} else if line[0] == '#' {
			// skip comments
			continue
		}

		if width < 0 {
			width = len(line)
		} else if len(line) != width {
			return nil, fmt.Errorf("line %v: row has %v cells, expected %v", lineNumber, len(line), width)
		}

		for x := 0; x < len(line); x++ {
			l := MakeLocation(x, z)
			switch line[x] {
			case cellWall, cellWallAlt:
				blocked = append(blocked, l)
			case cellFree, cellFreeAlt:
			case cellStart:
				if m.Start != nil {
					return nil, fmt.Errorf("line %v: duplicate start marker", lineNumber)
				}
				m.Start = &l
			case cellGoal:
				if m.Goal != nil {
					return nil, fmt.Errorf("line %v: duplicate goal marker", lineNumber)
				}
				m.Goal = &l
			default:
				return nil, fmt.Errorf("line %v: unknown cell %q at column %v", lineNumber, line[x], x)
			}
		}
		z++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if width < 0 {
		return nil, fmt.Errorf("%w: maze has no rows", ErrInvalidGrid)
	}

	g, err := NewGrid(width, z, append(opts, WithBlocked(blocked...))...)
	if err != nil {
		return nil, err
	}
	m.Grid = g
	return m, nil
}

func ReadMazeFile(filename string, opts ...Option) (*Maze, error) {
	text, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	m, err := ParseMaze(string(text), opts...)
	if err != nil {
		return nil, fmt.Errorf("parse %v: %w", filename, err)
	}
	return m, nil
}

// AsString serializes the maze including the start and goal markers.
func (m *Maze) AsString() string {
	rows := strings.Split(strings.TrimSuffix(m.Grid.AsString(), "\n"), "\n")
	mark := func(l *Location, c byte) {
		if l == nil {
			return
		}
		row := []byte(rows[l.Z])
		row[l.X] = c
		rows[l.Z] = string(row)
	}
	mark(m.Start, cellStart)
	mark(m.Goal, cellGoal)
	return strings.Join(rows, "\n") + "\n"
}

func WriteMaze(m *Maze, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(m.AsString()); err != nil {
		return err
	}
	return writer.Flush()
}
