// Package mapio parses octile map files and scenario files into the core domain model,
// and formats solved paths and high-level search metrics back out. It is the one package
// allowed to do text parsing and I/O; everything upstream of it works in typed values.
package mapio

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/mapf-cbs/internal/core"
)

// ErrInvalidMap is returned when a map file does not match the octile header/body shape.
var ErrInvalidMap = errors.New("invalid map file")

var mapRegexp = regexp.MustCompile(`type octile\r?\nheight (\d+)\r?\nwidth (\d+)\r?\nmap\r?\n([\s\S]*)`)

var passableChars = map[byte]struct{}{
	'.': {}, 'G': {}, 'O': {}, 'T': {}, 'S': {}, 'W': {},
}

// ParseMap reads an octile-format map into a Grid. `@` marks a permanent obstacle; every
// other character in `{.GOTSW}` is passable. The goal field of the returned grid is left
// at its zero value — callers set it per agent before planning.
func ParseMap(content string) (*core.Grid, error) {
	m := mapRegexp.FindStringSubmatch(content)
	if m == nil {
		return nil, ErrInvalidMap
	}
	height, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("%w: height is not a number", ErrInvalidMap)
	}
	width, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, fmt.Errorf("%w: width is not a number", ErrInvalidMap)
	}

	grid := core.NewGrid(width, height, core.Cell{})
	lines := strings.Split(strings.Trim(m[3], "\r\n"), "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, "\r")
		for j := 0; j < len(line); j++ {
			c := line[j]
			switch {
			case c == '@':
				cell := core.Cell{X: j, Y: i}
				grid.AddObstacle(core.LocationTime{Cell: cell, Time: core.AllTimes}, core.ObstacleSet{})
			default:
				if _, ok := passableChars[c]; !ok {
					return nil, fmt.Errorf("%w: invalid character %q", ErrInvalidMap, string(c))
				}
			}
		}
	}
	return grid, nil
}

// FormatMap serializes a Grid back to octile format. Only unconditional permanent
// obstacles (AllTimes entries with an empty coming-from set) are rendered as `@`; any
// other obstacle kind a Grid might carry (dynamic, conditional) has no octile
// representation and is rendered as passable, matching the format's static-only intent.
func FormatMap(grid *core.Grid) string {
	var b strings.Builder
	fmt.Fprintf(&b, "type octile\nheight %d\nwidth %d\nmap\n", grid.Height, grid.Width)
	for i := 0; i < grid.Height; i++ {
		for j := 0; j < grid.Width; j++ {
			cell := core.Cell{X: j, Y: i}
			set, ok := grid.Obstacles[core.LocationTime{Cell: cell, Time: core.AllTimes}]
			if ok && len(set) == 0 {
				b.WriteByte('@')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
