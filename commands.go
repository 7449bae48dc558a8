package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/wricardo/minesweeper/game/config"
	"github.com/wricardo/minesweeper/game/engine"
)

// runValidate prints one block per preset file and fails if any is invalid
func runValidate(w io.Writer, configDir string) error {
	manager, err := config.NewManager(configDir)
	if err != nil {
		return err
	}

	results, err := manager.Validate()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Validating game presets in %s\n", configDir)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	if len(results) == 0 {
		fmt.Fprintln(w, "No preset files found; built-in presets will be served.")
		return nil
	}

	invalid := 0
	for _, result := range results {
		if result.Valid {
			fmt.Fprintf(w, "✅ %s\n", result.File)
		} else {
			invalid++
			fmt.Fprintf(w, "❌ %s\n", result.File)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(w, "   error: %s\n", e)
		}
		for _, n := range result.Notes {
			fmt.Fprintf(w, "   note: %s\n", n)
		}
	}

	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Summary: %d valid, %d invalid\n", len(results)-invalid, invalid)

	if invalid > 0 {
		return fmt.Errorf("%d of %d presets are invalid", invalid, len(results))
	}
	return nil
}

// boardStats summarizes the sample boards generated for one preset
type boardStats struct {
	ConfigID    string
	Size        int
	MineCount   int
	Samples     int
	Density     float64
	AvgOpenings float64
	AvgBBBV     float64
	MinBBBV     int
	MaxBBBV     int
}

// analyzeConfig measures samples boards for cfg. Fixed layouts are measured once.
func analyzeConfig(id string, cfg *engine.GameConfig, samples int, seed uint64) (boardStats, error) {
	stats := boardStats{
		ConfigID:  id,
		Size:      cfg.Size,
		MineCount: cfg.MineCount,
	}

	if len(cfg.Layout) > 0 || cfg.Seed != 0 {
		samples = 1
	}
	if samples < 1 {
		samples = 1
	}

	totalOpenings, totalBBBV := 0, 0
	for i := 0; i < samples; i++ {
		var grid engine.Grid
		var err error
		switch {
		case len(cfg.Layout) > 0:
			grid, err = engine.ParseLayout(cfg.Layout)
		case cfg.Seed != 0:
			grid, err = engine.Generate(cfg.Size, cfg.MineCount, cfg.Seed)
		default:
			grid, err = engine.Generate(cfg.Size, cfg.MineCount, seed+uint64(i))
		}
		if err != nil {
			return stats, fmt.Errorf("preset %s: %w", id, err)
		}

		bbbv := engine.BBBV(grid)
		totalOpenings += engine.Openings(grid)
		totalBBBV += bbbv
		if i == 0 || bbbv < stats.MinBBBV {
			stats.MinBBBV = bbbv
		}
		if bbbv > stats.MaxBBBV {
			stats.MaxBBBV = bbbv
		}
		stats.Density = engine.MineDensity(grid)
	}

	stats.Samples = samples
	stats.AvgOpenings = float64(totalOpenings) / float64(samples)
	stats.AvgBBBV = float64(totalBBBV) / float64(samples)
	return stats, nil
}

// runAnalyze prints a difficulty table over every available preset
func runAnalyze(w io.Writer, configDir string, samples int, seed uint64) error {
	manager, err := config.NewManager(configDir)
	if err != nil {
		return err
	}

	infos, err := manager.ListConfigs()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRESET\tBOARD\tMINES\tDENSITY\tSAMPLES\tOPENINGS\t3BV AVG\t3BV MIN\t3BV MAX")

	for _, info := range infos {
		cfg, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			return err
		}

		stats, err := analyzeConfig(info.ConfigID, cfg, samples, seed)
		if err != nil {
			return err
		}

		fmt.Fprintf(tw, "%s\t%dx%d\t%d\t%.1f%%\t%d\t%.1f\t%.1f\t%d\t%d\n",
			stats.ConfigID, stats.Size, stats.Size, stats.MineCount, stats.Density*100,
			stats.Samples, stats.AvgOpenings, stats.AvgBBBV, stats.MinBBBV, stats.MaxBBBV)
	}

	return tw.Flush()
}
