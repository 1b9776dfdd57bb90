package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ramonehamilton/forgebreaker/internal/charts"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/assumptions"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deckimport"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/stress"
)

type analyzeOptions struct {
	DeckFile   string
	Name       string
	Format     string
	Archetype  string
	StressType string
	Target     string
	Intensity  float64
	Chart      string
}

// analysisReport is the analyze command's output.
type analysisReport struct {
	Warnings      []string                   `json:"warnings,omitempty"`
	Assumptions   *assumptions.AssumptionSet `json:"assumptions"`
	Stress        *stress.Result             `json:"stress,omitempty"`
	BreakingPoint *stress.BreakingPoint      `json:"breaking_point"`
}

func newAnalyzeCommand(a *app) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Derive and stress-test the assumptions of a deck list",
		Long: "Parse an Arena deck export, derive the beliefs the deck is built on and\n" +
			"search for the one that breaks first. Runs offline against the local card database.",
		Example: "  forgebreaker analyze --deck-file burn.txt --archetype aggro\n" +
			"  forgebreaker analyze --deck-file - --stress missing --target \"Monastery Swiftspear\"\n" +
			"  forgebreaker analyze --deck-file burn.txt --chart curve.html",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.analyze(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.DeckFile, "deck-file", "d", "", "deck list file, - for stdin")
	f.StringVar(&opts.Name, "name", "", "deck name (default: file name)")
	f.StringVar(&opts.Format, "format", "", "deck format")
	f.StringVarP(&opts.Archetype, "archetype", "a", "", "archetype override (aggro, midrange, control, combo)")
	f.StringVar(&opts.StressType, "stress", "", "also apply one scenario (underperform, missing, delayed, hostile_meta)")
	f.StringVar(&opts.Target, "target", stress.TargetAll, "scenario target card")
	f.Float64Var(&opts.Intensity, "intensity", stress.DefaultIntensity, "scenario intensity in (0, 1]")
	f.StringVar(&opts.Chart, "chart", "", "write a mana curve chart to this HTML file")
	_ = cmd.MarkFlagRequired("deck-file")
	return cmd
}

func (a *app) analyze(stdin io.Reader, out io.Writer, opts *analyzeOptions) error {
	text, name, err := readDeckFile(stdin, opts.DeckFile)
	if err != nil {
		return err
	}
	if opts.Name != "" {
		name = opts.Name
	}

	engine, simulator, err := a.engines()
	if err != nil {
		return err
	}
	snap := a.loadCards().Snapshot()

	parsed, err := deckimport.NewParser(snap).ParseDeck(text)
	if err != nil {
		return err
	}
	d := parsed.Deck(name, opts.Format, strings.ToLower(strings.TrimSpace(opts.Archetype)))

	report := &analysisReport{
		Warnings:    parsed.Warnings,
		Assumptions: engine.Derive(d, snap),
	}

	if opts.StressType != "" {
		sc := stress.Scenario{
			StressType: stress.StressType(opts.StressType),
			Target:     opts.Target,
			Intensity:  opts.Intensity,
		}
		if err := sc.Validate(); err != nil {
			return err
		}
		if report.Stress, err = simulator.Apply(report.Assumptions, sc); err != nil {
			return err
		}
	}

	if report.BreakingPoint, err = simulator.FindBreakingPoint(report.Assumptions, nil); err != nil {
		return err
	}

	if opts.Chart != "" {
		if err := charts.RenderManaCurveFile(opts.Chart, d, snap, charts.DefaultChartConfig()); err != nil {
			return err
		}
		a.logger.Info("Mana curve written", zap.String("path", opts.Chart))
	}

	return printJSON(out, report)
}

// readDeckFile returns the deck text and a name derived from the file
// name.
func readDeckFile(stdin io.Reader, path string) (string, string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read deck from stdin: %w", err)
		}
		return string(data), "Imported deck", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read deck file: %w", err)
	}
	base := filepath.Base(path)
	return string(data), strings.TrimSuffix(base, filepath.Ext(base)), nil
}
