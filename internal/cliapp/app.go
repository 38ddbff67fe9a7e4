// Package cliapp builds the tessera CLI: one urfave/cli/v2 app with a
// subcommand per public operation (schedule, stackup, mate, bom), each
// reading a YAML project fixture and printing a colored summary.
package cliapp

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"tessera/internal/fixture"
	"tessera/internal/logging"
	"tessera/internal/style"
	"tessera/pkg/tessera"
)

const (
	fFixture = "fixture"
	fNow     = "now"
	fStart   = "start"
	fMethod  = "method"
	fSamples = "samples"
	fSeed    = "seed"
)

var logger = logging.NewDefaultLogger()

// New builds the tessera CLI application.
func New() *cli.App {
	return &cli.App{
		Name:  "tessera",
		Usage: "Project schedule and tolerance-stackup analysis engine",

		Writer:    os.Stdout,
		ErrWriter: os.Stderr,

		Commands: []*cli.Command{
			scheduleCommand(),
			stackupCommand(),
			mateCommand(),
			bomCommand(),
		},
	}
}

func loadSnapshot(c *cli.Context) (tessera.Snapshot, error) {
	path := c.String(fFixture)
	if path == "" {
		return nil, fmt.Errorf("--%s is required", fFixture)
	}
	doc, err := fixture.Load(path)
	if err != nil {
		return nil, err
	}
	s := tessera.NewStore()
	if err := fixture.Populate(s, doc); err != nil {
		return nil, err
	}
	return s.Snapshot(), nil
}

func scheduleCommand() *cli.Command {
	return &cli.Command{
		Name:  "schedule",
		Usage: "compute the critical-path schedule and earned-value metrics for a fixture",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: fFixture, Required: true, Usage: "YAML project fixture"},
			&cli.StringFlag{Name: fStart, Required: true, Usage: "project start date, RFC3339"},
			&cli.StringFlag{Name: fNow, Usage: "status date for EVM, RFC3339 (omit to skip EVM)"},
		},
		Action: func(c *cli.Context) error {
			snap, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			start, err := time.Parse(time.RFC3339, c.String(fStart))
			if err != nil {
				return fmt.Errorf("--%s: %w", fStart, err)
			}
			var now *time.Time
			if c.String(fNow) != "" {
				t, err := time.Parse(time.RFC3339, c.String(fNow))
				if err != nil {
					return fmt.Errorf("--%s: %w", fNow, err)
				}
				now = &t
			}

			logger.WithField("fixture", c.String(fFixture)).Info("computing schedule")
			sched, err := tessera.ComputeSchedule(snap, start, now, logger)
			if err != nil {
				return err
			}
			printSchedule(c, sched)
			return nil
		},
	}
}

func printSchedule(c *cli.Context, sched *tessera.Schedule) {
	w := c.App.Writer
	fmt.Fprintln(w, style.Heading("Schedule summary"))
	fmt.Fprintf(w, "%s %d\n", style.Dim("critical path nodes:"), len(sched.CriticalPath))
	for _, id := range sched.CriticalPath {
		fmt.Fprintf(w, "  %s %s\n", style.Success("*"), id)
	}
	for id, nr := range sched.Nodes {
		marker := style.Dim("-")
		if nr.IsCritical {
			marker = style.Failure("!")
		}
		fmt.Fprintf(w, "  %s %-12s float=%.2fd  %s .. %s\n", marker, id, nr.TotalFloat, nr.EarliestStart.Format("2006-01-02"), nr.EarliestFinish.Format("2006-01-02"))
	}
	if sched.EVM != nil {
		m := sched.EVM
		fmt.Fprintln(w, style.Heading("Earned value"))
		fmt.Fprintf(w, "  BAC=%.2f PV=%.2f EV=%.2f AC=%.2f\n", m.BAC, m.PV, m.EV, m.AC)
		spiLine := fmt.Sprintf("  CPI=%.3f SPI=%.3f EAC=%.2f VAC=%.2f", m.CPI, m.SPI, m.EAC, m.VAC)
		if m.SPI < 1 || m.CPI < 1 {
			fmt.Fprintln(w, style.Warning(spiLine))
		} else {
			fmt.Fprintln(w, style.Success(spiLine))
		}
	}
}

func stackupCommand() *cli.Command {
	return &cli.Command{
		Name:  "stackup",
		Usage: "analyze a tolerance stackup chain (worst-case, RSS, or Monte Carlo)",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: fFixture, Required: true, Usage: "YAML project fixture"},
			&cli.StringFlag{Name: "stackup-id", Required: true, Usage: "id of the stackup to analyze"},
			&cli.StringFlag{Name: fMethod, Value: "worst-case", Usage: "worst-case, rss, or monte-carlo"},
			&cli.UintFlag{Name: fSamples, Value: 10000, Usage: "sample count for monte-carlo"},
			&cli.Int64Flag{Name: fSeed, Usage: "rng seed for monte-carlo (0 = unseeded)"},
		},
		Action: func(c *cli.Context) error {
			snap, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			st, ok := snap.Stackup(tessera.ID(c.String("stackup-id")))
			if !ok {
				return fmt.Errorf("stackup %q not found in fixture", c.String("stackup-id"))
			}

			cfg := tessera.StackupConfig{ConfidenceLevel: 0.95}
			switch c.String(fMethod) {
			case "rss":
				cfg.Method = tessera.RSS
			case "monte-carlo":
				cfg.Method = tessera.MonteCarlo
				cfg.Samples = uint32(c.Uint(fSamples))
				if seed := c.Int64(fSeed); seed != 0 {
					u := uint64(seed)
					cfg.Seed = &u
				}
			default:
				cfg.Method = tessera.WorstCase
			}

			logger.WithField("stackup_id", st.ID).WithField("method", c.String(fMethod)).Info("analyzing stackup")
			result, err := tessera.AnalyzeStackup(snap, st, cfg, logger)
			if err != nil {
				return err
			}
			printStackup(c, result)
			return nil
		},
	}
}

func printStackup(c *cli.Context, r *tessera.StackupResult) {
	w := c.App.Writer
	fmt.Fprintln(w, style.Heading("Stackup result"))
	fmt.Fprintf(w, "  nominal=%.4f\n", r.Nominal)
	fmt.Fprintf(w, "  predicted tolerance: [%.4f, %.4f]\n", r.PredictedTolerance.Lower, r.PredictedTolerance.Upper)
	if r.Cpk != nil {
		line := fmt.Sprintf("  Cpk=%.3f yield=%.4f%% PPM=%.1f", *r.Cpk, *r.YieldPercentage, *r.PPM)
		if *r.Cpk < 1.0 {
			fmt.Fprintln(w, style.Warning(line))
		} else {
			fmt.Fprintln(w, style.Success(line))
		}
	}
	if len(r.Sensitivity.WithMultiplier) > 0 {
		fmt.Fprintln(w, style.Dim("  top contributors (with multiplier):"))
		for i, e := range r.Sensitivity.WithMultiplier {
			if i >= 3 {
				break
			}
			fmt.Fprintf(w, "    %s %.1f%%\n", e.FeatureID, e.SharePctWithSign)
		}
	}
}

func mateCommand() *cli.Command {
	return &cli.Command{
		Name:  "mate",
		Usage: "classify a shaft/hole mate as clearance, transition, or interference",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: fFixture, Required: true, Usage: "YAML project fixture"},
			&cli.StringFlag{Name: "mate-id", Required: true, Usage: "id of the mate to analyze"},
		},
		Action: func(c *cli.Context) error {
			snap, err := loadSnapshot(c)
			if err != nil {
				return err
			}
			m, ok := snap.Mate(tessera.ID(c.String("mate-id")))
			if !ok {
				return fmt.Errorf("mate %q not found in fixture", c.String("mate-id"))
			}

			logger.WithField("mate_id", m.ID).Info("analyzing mate")
			result, err := tessera.AnalyzeMate(snap, m)
			if err != nil {
				return err
			}

			w := c.App.Writer
			fmt.Fprintln(w, style.Heading("Mate result"))
			fmt.Fprintf(w, "  shaft [%.4f, %.4f]  hole [%.4f, %.4f]\n", result.ShaftLMC, result.ShaftMMC, result.HoleLMC, result.HoleMMC)
			fmt.Fprintf(w, "  clearance: min=%.4f max=%.4f\n", result.MinClearance, result.MaxClearance)
			classLine := fmt.Sprintf("  classification: %v", result.Classification)
			switch {
			case result.MinClearance < 0:
				fmt.Fprintln(w, style.Failure(classLine))
			default:
				fmt.Fprintln(w, style.Success(classLine))
			}
			return nil
		},
	}
}

func bomCommand() *cli.Command {
	return &cli.Command{
		Name:  "bom",
		Usage: "generate a bill of materials with interpolated per-volume unit cost",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: fFixture, Required: true, Usage: "YAML project fixture"},
			&cli.StringFlag{Name: "assembly-id", Required: true, Usage: "id of the top-level assembly"},
			&cli.UintFlag{Name: "volume", Required: true, Usage: "production volume"},
		},
		Action: func(c *cli.Context) error {
			snap, err := loadSnapshot(c)
			if err != nil {
				return err
			}

			logger.WithField("assembly_id", c.String("assembly-id")).WithField("volume", c.Uint("volume")).Info("generating bom")
			result, err := tessera.GenerateBOM(snap, tessera.ID(c.String("assembly-id")), uint32(c.Uint("volume")), logger)
			if err != nil {
				return err
			}

			w := c.App.Writer
			fmt.Fprintln(w, style.Heading("BOM summary"))
			fmt.Fprintf(w, "  volume=%d line items=%d\n", result.Volume, len(result.LineItems))
			for _, li := range result.LineItems {
				fmt.Fprintf(w, "  %-12s qty=%-6d unit=%.4f total=%.2f (%v)\n", li.ComponentID, li.TotalQuantity, li.UnitCost, li.LineTotal, li.Kind)
			}
			totalLine := fmt.Sprintf("  total cost: %.2f", result.TotalCost)
			if result.HasInterpolatedCosts {
				fmt.Fprintln(w, style.Warning(totalLine+" (includes interpolated costs)"))
			} else {
				fmt.Fprintln(w, style.Success(totalLine))
			}
			return nil
		},
	}
}
