// Command gen_instances generates deterministic octile map and scenario file pairs for
// MAPF benchmarking.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/mapio"
)

// instanceParams controls one generated map/scenario pair.
type instanceParams struct {
	Seed            int64
	NumAgents       int
	GridWidth       int
	GridHeight      int
	ObstacleDensity float64
}

// generateInstance builds a random grid with ObstacleDensity permanent obstacles and
// NumAgents agents with distinct, reachable-looking start/goal cells, deterministically
// from Seed.
func generateInstance(params instanceParams) (*core.Grid, []core.Agent, string) {
	rng := rand.New(rand.NewSource(params.Seed))
	name := fmt.Sprintf("mapfcbs_%d_%dx%d_%d", params.NumAgents, params.GridWidth, params.GridHeight, params.Seed)

	grid := core.NewGrid(params.GridWidth, params.GridHeight, core.Cell{})
	for y := 0; y < params.GridHeight; y++ {
		for x := 0; x < params.GridWidth; x++ {
			if rng.Float64() < params.ObstacleDensity {
				cell := core.Cell{X: x, Y: y}
				grid.AddObstacle(core.LocationTime{Cell: cell, Time: core.AllTimes}, core.ObstacleSet{})
			}
		}
	}

	free := make([]core.Cell, 0, params.GridWidth*params.GridHeight)
	for y := 0; y < params.GridHeight; y++ {
		for x := 0; x < params.GridWidth; x++ {
			c := core.Cell{X: x, Y: y}
			if grid.IsValidLocation(c) {
				free = append(free, c)
			}
		}
	}
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	n := params.NumAgents
	if 2*n > len(free) {
		n = len(free) / 2
	}
	agents := make([]core.Agent, 0, n)
	for i := 0; i < n; i++ {
		agents = append(agents, core.Agent{
			ID:    fmt.Sprintf("%d", i),
			Start: free[2*i],
			Goal:  free[2*i+1],
		})
	}
	return grid, agents, name
}

func main() {
	seed := flag.Int64("seed", 42, "Random seed for deterministic generation")
	numAgents := flag.Int("agents", 10, "Number of agents")
	gridWidth := flag.Int("width", 20, "Grid width")
	gridHeight := flag.Int("height", 20, "Grid height")
	obstacleDensity := flag.Float64("obstacle-density", 0.1, "Fraction of cells that are permanent obstacles")
	outputDir := flag.String("output", "testdata", "Output directory")
	scalingMode := flag.Bool("scaling", false, "Generate a scaling test suite (10, 50, 100, 500 agents)")

	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	var sizes []int
	if *scalingMode {
		sizes = []int{10, 50, 100, 500}
	} else {
		sizes = []int{*numAgents}
	}

	for _, size := range sizes {
		gridSize := *gridWidth
		if *scalingMode {
			gridSize = int(math.Ceil(math.Sqrt(float64(size)) * 3))
			if gridSize < 10 {
				gridSize = 10
			}
		}
		height := *gridHeight
		if *scalingMode {
			height = gridSize
		}

		params := instanceParams{
			Seed:            *seed,
			NumAgents:       size,
			GridWidth:       gridSize,
			GridHeight:      height,
			ObstacleDensity: *obstacleDensity,
		}

		grid, agents, name := generateInstance(params)

		mapName := name + ".map"
		mapPath := filepath.Join(*outputDir, mapName)
		if err := os.WriteFile(mapPath, []byte(mapio.FormatMap(grid)), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing map %s: %v\n", mapPath, err)
			continue
		}

		scenPath := filepath.Join(*outputDir, name+".scen")
		scen := mapio.FormatScenario(mapName, grid.Width, grid.Height, agents)
		if err := os.WriteFile(scenPath, []byte(scen), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing scenario %s: %v\n", scenPath, err)
			continue
		}

		fmt.Printf("Generated: %s + %s (%d agents, %dx%d grid)\n", mapPath, scenPath, len(agents), grid.Width, grid.Height)
	}
}
