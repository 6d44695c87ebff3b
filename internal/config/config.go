// Package config resolves CLI flags and an optional YAML defaults file into a single
// settings struct the CLI entry point hands to internal/cbs.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/elektrokombinacija/mapf-cbs/internal/cbs"
)

// Settings is the fully-resolved configuration for one CLI invocation: required input
// paths, optional output paths, the wall-clock budget, and the solver options a CLI flag
// maps directly onto.
type Settings struct {
	MapFile     string
	AgentsFile  string
	PathsFile   string
	MetricsFile string
	Timeout     time.Duration
	NumAgents   int

	Solver cbs.Options
}

// defaults mirrors spec's flag defaults: every optimisation on (the solver options all
// default to false, i.e. enabled) except where a flag's own default says otherwise.
// --config can override these; explicit CLI flags always override --config.
type defaults struct {
	PrioritiseConflicts        bool
	BypassConflicts            bool
	ConflictAvoidanceTable     bool
	DiagonalSubsolver          bool
	DiagonalSubsolverSlackness int
	DiagonalSubsolverPromotion bool
	Heuristic                  string
}

func defaultSettings() defaults {
	return defaults{
		PrioritiseConflicts:        true,
		BypassConflicts:            true,
		ConflictAvoidanceTable:     true,
		DiagonalSubsolver:          true,
		DiagonalSubsolverSlackness: 2,
		DiagonalSubsolverPromotion: false,
		Heuristic:                  string(cbs.HeuristicZero),
	}
}

// loadConfigFile reads an optional YAML defaults file via viper. A missing --config flag
// is not an error; defaults from defaultSettings() are used untouched.
func loadConfigFile(path string) (defaults, error) {
	d := defaultSettings()
	if path == "" {
		return d, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("prioritise_conflicts", d.PrioritiseConflicts)
	v.SetDefault("bypass_conflicts", d.BypassConflicts)
	v.SetDefault("conflict_avoidance_table", d.ConflictAvoidanceTable)
	v.SetDefault("diagonal_subsolver", d.DiagonalSubsolver)
	v.SetDefault("diagonal_subsolver_slackness", d.DiagonalSubsolverSlackness)
	v.SetDefault("diagonal_subsolver_promotion", d.DiagonalSubsolverPromotion)
	v.SetDefault("heuristic", d.Heuristic)

	if err := v.ReadInConfig(); err != nil {
		return d, fmt.Errorf("config: reading %s: %w", path, err)
	}

	d.PrioritiseConflicts = v.GetBool("prioritise_conflicts")
	d.BypassConflicts = v.GetBool("bypass_conflicts")
	d.ConflictAvoidanceTable = v.GetBool("conflict_avoidance_table")
	d.DiagonalSubsolver = v.GetBool("diagonal_subsolver")
	d.DiagonalSubsolverSlackness = v.GetInt("diagonal_subsolver_slackness")
	d.DiagonalSubsolverPromotion = v.GetBool("diagonal_subsolver_promotion")
	d.Heuristic = v.GetString("heuristic")
	return d, nil
}

// Parse resolves Settings from args (normally os.Args[1:]): it registers every CLI flag
// from spec §6, pre-scans for --config to load its defaults, then re-parses so that
// explicit flags always win over a loaded config value.
func Parse(args []string) (Settings, error) {
	configPath, err := peekConfigFlag(args)
	if err != nil {
		return Settings{}, err
	}
	d, err := loadConfigFile(configPath)
	if err != nil {
		return Settings{}, err
	}

	fs := flag.NewFlagSet("mapfcbs", flag.ContinueOnError)
	var s Settings
	var timeoutSeconds float64
	var heuristic string

	fs.StringVar(&s.MapFile, "map-file", "", "octile map file (required)")
	fs.StringVar(&s.AgentsFile, "agents-file", "", "scenario file (required)")
	fs.StringVar(&s.PathsFile, "paths-file", "", "optional path output file")
	fs.StringVar(&s.MetricsFile, "metrics-file", "", "optional metrics output file")
	fs.Float64Var(&timeoutSeconds, "timeout", 0, "wall-clock budget in seconds; 0 disables the watchdog")
	fs.IntVar(&s.NumAgents, "num-agents", 0, "keep only the first k scenario agents; 0 keeps all")
	fs.BoolVar(&s.Solver.DisablePrioritizing, "disable-prioritising-conflicts", !d.PrioritiseConflicts, "disable conflict prioritisation")
	fs.BoolVar(&s.Solver.DisableBypassing, "disable-bypassing-conflicts", !d.BypassConflicts, "disable conflict bypassing")
	fs.BoolVar(&s.Solver.DisableCAT, "disable-cat", !d.ConflictAvoidanceTable, "disable the conflict avoidance table")
	fs.BoolVar(&s.Solver.DisableDiagonal, "disable-diagonal-subsolver", !d.DiagonalSubsolver, "disable the diagonal subsolver")
	fs.IntVar(&s.Solver.DiagonalSlackness, "diagonal-subsolver-slackness", d.DiagonalSubsolverSlackness, "max waits the diagonal subsolver's DFS tolerates")
	fs.BoolVar(&s.Solver.DiagonalPromotion, "diagonal-subsolver-promotion", d.DiagonalSubsolverPromotion, "enable MVC promotion in the diagonal subsolver")
	fs.StringVar(&heuristic, "heuristic", d.Heuristic, "high-level heuristic: zero or dg")
	fs.String("config", "", "optional YAML file of default optimisation toggles")

	if err := fs.Parse(args); err != nil {
		return Settings{}, err
	}

	if s.MapFile == "" || s.AgentsFile == "" {
		return Settings{}, fmt.Errorf("config: --map-file and --agents-file are required")
	}

	switch cbs.HeuristicKind(heuristic) {
	case cbs.HeuristicZero, cbs.HeuristicDG:
		s.Solver.Heuristic = cbs.HeuristicKind(heuristic)
	default:
		return Settings{}, fmt.Errorf("config: --heuristic must be %q or %q, got %q", cbs.HeuristicZero, cbs.HeuristicDG, heuristic)
	}

	s.Timeout = time.Duration(timeoutSeconds * float64(time.Second))
	return s, nil
}

// peekConfigFlag extracts --config's value without fully parsing args, since the real
// flag.FlagSet needs the config-derived defaults before it can be built.
func peekConfigFlag(args []string) (string, error) {
	fs := flag.NewFlagSet("mapfcbs-peek", flag.ContinueOnError)
	fs.SetOutput(discardWriter{})
	path := fs.String("config", "", "")
	registerPassthroughFlags(fs)
	if err := fs.Parse(args); err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	return *path, nil
}

// registerPassthroughFlags declares every non-config flag so the peek parse doesn't
// abort on an unknown flag before reaching --config.
func registerPassthroughFlags(fs *flag.FlagSet) {
	fs.String("map-file", "", "")
	fs.String("agents-file", "", "")
	fs.String("paths-file", "", "")
	fs.String("metrics-file", "", "")
	fs.Float64("timeout", 0, "")
	fs.Int("num-agents", 0, "")
	fs.Bool("disable-prioritising-conflicts", false, "")
	fs.Bool("disable-bypassing-conflicts", false, "")
	fs.Bool("disable-cat", false, "")
	fs.Bool("disable-diagonal-subsolver", false, "")
	fs.Int("diagonal-subsolver-slackness", 0, "")
	fs.Bool("diagonal-subsolver-promotion", false, "")
	fs.String("heuristic", "", "")
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
