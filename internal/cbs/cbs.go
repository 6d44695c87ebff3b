package cbs

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/elektrokombinacija/mapf-cbs/internal/core"
	"github.com/elektrokombinacija/mapf-cbs/internal/search"
)

// ErrAlreadySolved is returned when Solve is called a second time on the same Instance.
var ErrAlreadySolved = errors.New("cbs: instance already solved")

// HeuristicKind selects the high-level heuristic.
type HeuristicKind string

const (
	HeuristicZero HeuristicKind = "zero"
	HeuristicDG   HeuristicKind = "dg"
)

// Options configures one solve — the CLI flags map directly onto these fields.
type Options struct {
	DisablePrioritizing bool
	DisableBypassing    bool
	DisableCAT          bool
	DisableDiagonal     bool
	DiagonalSlackness   int
	DiagonalPromotion   bool
	Heuristic           HeuristicKind
	Log                 *logrus.Logger
}

// Result is the outcome of a solved instance: one path per agent id, plus the
// aggregated high-level and low-level node-generation counters.
type Result struct {
	Paths              map[string]core.Path
	HighLevelGenerated int
	LowLevelGenerated  int
}

// Instance is one MAPF problem bound to a grid and agent set; Solve may be called at
// most once.
type Instance struct {
	grid   *core.Grid
	agents []core.Agent
	opts   Options
	solved bool
}

// NewInstance creates a solver instance for grid and agents under opts.
func NewInstance(grid *core.Grid, agents []core.Agent, opts Options) *Instance {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	return &Instance{grid: grid, agents: agents, opts: opts}
}

// Solve runs conflict-based search to completion and returns one conflict-free path per
// agent.
func (inst *Instance) Solve() (Result, error) {
	if inst.solved {
		return Result{}, ErrAlreadySolved
	}
	inst.solved = true

	cfg := inst.buildConfig()
	inst.opts.Log.WithFields(logrus.Fields{
		"agents":             len(inst.agents),
		"heuristic":          inst.opts.Heuristic,
		"prioritize":         !inst.opts.DisablePrioritizing,
		"bypass":             !inst.opts.DisableBypassing,
		"cat":                !inst.opts.DisableCAT,
		"diagonal_subsolver": !inst.opts.DisableDiagonal,
	}).Debug("starting CBS solve")

	root, err := New(inst.agents, nil, map[string]core.Path{}, cfg)
	if err != nil {
		return Result{}, fmt.Errorf("cbs: root is infeasible: %w", err)
	}

	path, _, err := search.Search[*Node](root)
	if err != nil {
		return Result{}, fmt.Errorf("cbs: %w", err)
	}
	solution := path[len(path)-1]

	result := Result{
		Paths:              solution.Paths,
		HighLevelGenerated: cfg.Stats.HighLevelGenerated,
		LowLevelGenerated:  cfg.Stats.LowLevelGenerated,
	}
	inst.opts.Log.WithFields(logrus.Fields{
		"high_level_generated": result.HighLevelGenerated,
		"low_level_generated":  result.LowLevelGenerated,
	}).Info("solve complete")
	return result, nil
}

func (inst *Instance) buildConfig() *Config {
	cfg := &Config{
		Grid:   inst.grid,
		UseCAT: !inst.opts.DisableCAT,
		Stats:  &Stats{},
	}

	switch inst.opts.Heuristic {
	case HeuristicDG:
		cfg.Heuristic = NewDGHeuristic()
	default:
		cfg.Heuristic = ZeroHeuristic{}
	}

	if inst.opts.DisablePrioritizing {
		cfg.ConflictPicker = DefaultConflictPicker
	} else {
		cfg.ConflictPicker = PrioritizingConflictPicker
	}

	if !inst.opts.DisableBypassing {
		cfg.PostExpanded = BypassingPostExpanded
	}

	if !inst.opts.DisableDiagonal {
		subsolver := DiagonalSubsolver{Slackness: inst.opts.DiagonalSlackness, Promotion: inst.opts.DiagonalPromotion}
		cfg.NodePreprocessor = subsolver.Preprocess
	}

	return cfg
}
