// Package charts renders deck charts as standalone go-echarts HTML.
package charts

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/forgebreaker/internal/mtga/carddb"
	"github.com/ramonehamilton/forgebreaker/internal/mtga/deck"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string
	Subtitle   string
	YAxisLabel string
	XAxisLabel string
	Width      string // e.g. "900px"
	Height     string
	Theme      string
	ShowLegend bool
	Colors     []string
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:      "900px",
		Height:     "500px",
		Theme:      "light",
		ShowLegend: true,
		Colors:     []string{"#EE6666", "#5470C6", "#91CC75", "#FAC858", "#73C0DE", "#3BA272", "#FC8452", "#9A60B4"},
	}
}

// DataPoint represents a single data point in a chart.
type DataPoint struct {
	Label string
	Value float64
}

// SeriesData represents a data series for multi-series charts.
type SeriesData struct {
	Name   string
	Points []DataPoint
}

// CardLookup resolves card facts by name. *carddb.Snapshot implements it.
type CardLookup interface {
	Lookup(name string) (*carddb.Card, bool)
}

// curveBuckets are the mana value columns; the last one collects 7+.
var curveBuckets = []string{"0", "1", "2", "3", "4", "5", "6", "7+"}

// ManaCurve counts the deck's non-land main-deck cards per mana value,
// split into creatures and other spells. Cards the lookup does not know
// are reported separately, since their mana value is unknown.
func ManaCurve(d *deck.Deck, cards CardLookup) (series []SeriesData, unknown int) {
	creatures := make([]float64, len(curveBuckets))
	spells := make([]float64, len(curveBuckets))

	if d != nil {
		for _, name := range d.Cards.Names() {
			qty := d.Cards[name]
			var (
				c  *carddb.Card
				ok bool
			)
			if cards != nil {
				c, ok = cards.Lookup(name)
			}
			if !ok {
				if !carddb.IsBasicLandName(name) {
					unknown += qty
				}
				continue
			}
			if c.IsLand() {
				continue
			}

			bucket := min(int(c.ManaValue), len(curveBuckets)-1)
			if strings.Contains(c.TypeLine, "Creature") {
				creatures[bucket] += float64(qty)
			} else {
				spells[bucket] += float64(qty)
			}
		}
	}

	return []SeriesData{
		{Name: "Creatures", Points: points(creatures)},
		{Name: "Spells", Points: points(spells)},
	}, unknown
}

func points(values []float64) []DataPoint {
	out := make([]DataPoint, len(values))
	for i, v := range values {
		out[i] = DataPoint{Label: curveBuckets[i], Value: v}
	}
	return out
}

// RenderManaCurve writes the deck's mana curve as a stacked bar chart.
func RenderManaCurve(w io.Writer, d *deck.Deck, cards CardLookup, config ChartConfig) error {
	series, unknown := ManaCurve(d, cards)
	if config.Title == "" && d != nil {
		config.Title = d.Name
	}
	if config.Subtitle == "" {
		config.Subtitle = "Mana curve (non-land main deck)"
		if unknown > 0 {
			config.Subtitle += fmt.Sprintf(", %d cards not in the card database", unknown)
		}
	}
	if config.XAxisLabel == "" {
		config.XAxisLabel = "Mana value"
	}
	if config.YAxisLabel == "" {
		config.YAxisLabel = "Cards"
	}
	return RenderStackedBarChart(w, series, config)
}

// RenderStackedBarChart writes a bar chart with one stacked series per
// entry. Labels come from the first series.
func RenderStackedBarChart(w io.Writer, series []SeriesData, config ChartConfig) error {
	if len(series) == 0 {
		return fmt.Errorf("no data series provided")
	}
	if len(config.Colors) == 0 {
		config.Colors = DefaultChartConfig().Colors
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: config.XAxisLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: config.YAxisLabel}),
		charts.WithColorsOpts(opts.Colors(config.Colors)),
	)

	xLabels := make([]string, len(series[0].Points))
	for i, point := range series[0].Points {
		xLabels[i] = point.Label
	}
	bar.SetXAxis(xLabels)

	for _, s := range series {
		yData := make([]opts.BarData, len(s.Points))
		for j, point := range s.Points {
			yData[j] = opts.BarData{Value: point.Value}
		}
		bar.AddSeries(s.Name, yData,
			charts.WithBarChartOpts(opts.BarChart{Stack: "total"}),
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)
	}

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// RenderManaCurveFile writes the mana curve chart to outputPath.
func RenderManaCurveFile(outputPath string, d *deck.Deck, cards CardLookup, config ChartConfig) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if err := RenderManaCurve(f, d, cards, config); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
