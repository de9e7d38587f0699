// Package charts renders deck statistics as interactive HTML charts.
package charts

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title    string // Chart title
	Subtitle string // Chart subtitle
	Width    string // Chart width (e.g., "900px")
	Height   string // Chart height (e.g., "500px")
	Theme    string // Chart theme
	Color    string // Series color
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:  "900px",
		Height: "500px",
		Theme:  "light",
		Color:  "#5470C6",
	}
}

// DataPoint represents a single data point in a chart.
type DataPoint struct {
	Label string
	Value float64
}

// RenderBarChart renders an interactive bar chart as HTML.
func RenderBarChart(data []DataPoint, config ChartConfig, w io.Writer) error {
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
		charts.WithColorsOpts(opts.Colors{config.Color}),
	)

	xLabels := make([]string, len(data))
	yData := make([]opts.BarData, len(data))
	for i, point := range data {
		xLabels[i] = point.Label
		yData[i] = opts.BarData{Value: point.Value}
	}

	bar.SetXAxis(xLabels).
		AddSeries("Cards", yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:     opts.Bool(true),
				Position: "top",
			}),
		)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}

// RenderManaCurve renders a mana curve as a bar chart. Buckets are shown
// in mana value order with the open-ended bucket last.
func RenderManaCurve(curve map[string]int, title string, w io.Writer) error {
	data := make([]DataPoint, 0, len(curve))
	for bucket, count := range curve {
		data = append(data, DataPoint{Label: bucket, Value: float64(count)})
	}
	sort.Slice(data, func(i, j int) bool {
		return curveBucketRank(data[i].Label) < curveBucketRank(data[j].Label)
	})

	config := DefaultChartConfig()
	config.Title = title
	if config.Title == "" {
		config.Title = "Mana Curve"
	}
	config.Subtitle = "Non-land cards by mana value"

	return RenderBarChart(data, config, w)
}

// curveBucketRank orders curve buckets: numeric values ascending, the
// "7+" overflow bucket after everything numeric.
func curveBucketRank(bucket string) int {
	var value int
	if _, err := fmt.Sscanf(bucket, "%d", &value); err == nil {
		return value
	}
	return 1 << 30
}
