package plotpage

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const labelFontSize = 11

// BarBuilder provides a fluent API for building bar charts.
type BarBuilder struct {
	style Style
	bar   *charts.Bar
}

// NewBarChart creates a new bar chart builder.
func NewBarChart(style Style) *BarBuilder {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithInitializationOpts(opts.Initialization{Width: style.Width, Height: style.Height}),
		charts.WithGridOpts(opts.Grid{
			Left: style.GridLeft, Right: style.GridRight,
			Top: style.GridTop, Bottom: style.GridBottom,
			ContainLabel: opts.Bool(true),
		}),
	)
	return &BarBuilder{style: style, bar: bar}
}

// XAxis sets the x-axis labels and rotation.
func (b *BarBuilder) XAxis(name string, labels []string, rotate float64) *BarBuilder {
	b.bar.SetGlobalOptions(charts.WithXAxisOpts(opts.XAxis{
		Name: name,
		AxisLabel: &opts.AxisLabel{
			Rotate:   rotate,
			Interval: "0",
			FontSize: labelFontSize,
		},
	}))
	b.bar.SetXAxis(labels)
	return b
}

// YAxis sets the y-axis name. Counts use integer ticks.
func (b *BarBuilder) YAxis(name string) *BarBuilder {
	b.bar.SetGlobalOptions(charts.WithYAxisOpts(opts.YAxis{
		Name:        name,
		MinInterval: 1,
	}))
	return b
}

// Series adds a data series with value labels on top of each bar.
func (b *BarBuilder) Series(name string, data []int, color string) *BarBuilder {
	barData := make([]opts.BarData, len(data))
	for i, v := range data {
		barData[i] = opts.BarData{Value: v}
	}
	b.bar.AddSeries(name, barData,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)
	return b
}

// Build returns the constructed bar chart.
func (b *BarBuilder) Build() *charts.Bar {
	return b.bar
}

// BoxStats is the five-number summary drawn for one box.
type BoxStats struct {
	Name                     string
	Min, Q1, Median, Q3, Max float64
}

// NewBoxPlot builds a box plot with one box per entry.
func NewBoxPlot(style Style, yName string, boxes []BoxStats) *charts.BoxPlot {
	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithInitializationOpts(opts.Initialization{Width: style.Width, Height: style.Height}),
		charts.WithGridOpts(opts.Grid{
			Left: style.GridLeft, Right: style.GridRight,
			Top: style.GridTop, Bottom: style.GridBottom,
			ContainLabel: opts.Bool(true),
		}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45, Interval: "0", FontSize: labelFontSize}}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)
	names := make([]string, len(boxes))
	data := make([]opts.BoxPlotData, len(boxes))
	for i, b := range boxes {
		names[i] = b.Name
		data[i] = opts.BoxPlotData{Name: b.Name, Value: []float64{b.Min, b.Q1, b.Median, b.Q3, b.Max}}
	}
	box.SetXAxis(names).AddSeries(yName, data)
	return box
}
