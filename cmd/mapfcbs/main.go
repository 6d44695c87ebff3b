// Command mapfcbs runs conflict-based search over an octile map and scenario file and
// writes the solved paths and high-level search metrics.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/elektrokombinacija/mapf-cbs/internal/cbs"
	"github.com/elektrokombinacija/mapf-cbs/internal/config"
	"github.com/elektrokombinacija/mapf-cbs/internal/mapio"
)

func main() {
	log := newLogger()

	settings, err := config.Parse(os.Args[1:])
	if err != nil {
		log.WithError(err).Error("invalid configuration")
		os.Exit(1)
	}

	if settings.Timeout > 0 {
		go watchdog(settings.Timeout, log)
	}

	if err := run(settings, log); err != nil {
		log.WithError(err).Error("solve failed")
		os.Exit(1)
	}
}

// newLogger builds the process-wide logger, reading its level from MAPFCBS_LOG_LEVEL
// (panic|fatal|error|warn|info|debug|trace; default info).
func newLogger() *logrus.Logger {
	log := logrus.New()
	levelName := strings.ToLower(strings.TrimSpace(os.Getenv("MAPFCBS_LOG_LEVEL")))
	if levelName == "" {
		levelName = "info"
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// watchdog terminates the process with exit code 1 if the solve has not finished within
// budget. The core does not observe cancellation itself; this is purely a process-level
// deadline per spec's concurrency model.
func watchdog(budget time.Duration, log *logrus.Logger) {
	time.Sleep(budget)
	log.WithField("timeout", budget).Error("solve exceeded timeout budget")
	os.Exit(1)
}

func run(settings config.Settings, log *logrus.Logger) error {
	mapContent, err := os.ReadFile(settings.MapFile)
	if err != nil {
		return fmt.Errorf("reading map file: %w", err)
	}
	grid, err := mapio.ParseMap(string(mapContent))
	if err != nil {
		return fmt.Errorf("parsing map file: %w", err)
	}

	scenContent, err := os.ReadFile(settings.AgentsFile)
	if err != nil {
		return fmt.Errorf("reading agents file: %w", err)
	}
	agents, err := mapio.ParseScenario(string(scenContent))
	if err != nil {
		return fmt.Errorf("parsing agents file: %w", err)
	}
	if settings.NumAgents > 0 && settings.NumAgents < len(agents) {
		agents = agents[:settings.NumAgents]
	}

	opts := settings.Solver
	opts.Log = log
	inst := cbs.NewInstance(grid, agents, opts)

	result, err := inst.Solve()
	if err != nil {
		return fmt.Errorf("solving instance: %w", err)
	}

	pathsOut := mapio.FormatPaths(agents, result.Paths)
	if err := writeOutput(settings.PathsFile, pathsOut); err != nil {
		return fmt.Errorf("writing paths output: %w", err)
	}

	if settings.MetricsFile != "" {
		metricsOut := mapio.FormatMetrics(result.HighLevelGenerated)
		if err := os.WriteFile(settings.MetricsFile, []byte(metricsOut), 0o644); err != nil {
			return fmt.Errorf("writing metrics file: %w", err)
		}
	}

	return nil
}

// writeOutput prints content to stdout, or to path when one was given.
func writeOutput(path, content string) error {
	if path == "" {
		fmt.Print(content)
		return nil
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
