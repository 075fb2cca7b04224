// Package charts renders the missing-value and outlier charts as PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/KaramelBytes/dataprep-cli/internal/analysis"
	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

var (
	// ErrNoMissing is returned when a table has no missing cells to chart.
	ErrNoMissing = errors.New("no missing values found in the data")
	// ErrNoNumeric is returned when a table has no numeric column to chart.
	ErrNoNumeric = errors.New("no numeric columns to chart")
)

var barColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}

const (
	width    = 10 * vg.Inch
	height   = 6 * vg.Inch
	barWidth = 20
)

// MissingValuesPNG draws the per-column missing counts of the columns that
// have any.
func MissingValuesPNG(rep analysis.MissingReport) ([]byte, error) {
	names, counts := rep.Affected()
	if len(names) == 0 {
		return nil, ErrNoMissing
	}
	p, err := countBars("Count of Missing Values by Column", "Columns", "Count of Missing Values", names, counts)
	if err != nil {
		return nil, err
	}
	return render(p, width, height)
}

// OutliersPNG draws the outlier count per numeric column above a box plot of
// every numeric column.
func OutliersPNG(t *table.Table, rep analysis.OutlierReport) ([]byte, error) {
	if len(rep.Order) == 0 {
		return nil, ErrNoNumeric
	}
	counts := make([]int, len(rep.Order))
	for i, n := range rep.Order {
		counts[i] = rep.Counts[n]
	}
	bars, err := countBars("Count of Outliers by Feature", "Features", "Count of Outliers", rep.Order, counts)
	if err != nil {
		return nil, err
	}
	box, err := boxes(t, rep.Order)
	if err != nil {
		return nil, err
	}

	img := vgimg.New(width, 2*height)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 2, Cols: 1, PadY: vg.Points(12), PadTop: vg.Points(6), PadBottom: vg.Points(6)}
	canvases := plot.Align([][]*plot.Plot{{bars}, {box}}, tiles, dc)
	bars.Draw(canvases[0][0])
	box.Draw(canvases[1][0])

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func countBars(title, xLabel, yLabel string, names []string, counts []int) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	vals := make(plotter.Values, len(counts))
	labels := plotter.XYLabels{XYs: make(plotter.XYs, len(counts)), Labels: make([]string, len(counts))}
	top := 0
	for i, c := range counts {
		vals[i] = float64(c)
		labels.XYs[i] = plotter.XY{X: float64(i), Y: float64(c)}
		labels.Labels[i] = strconv.Itoa(c)
		if c > top {
			top = c
		}
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(barWidth))
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = barColor
	p.Add(bars)

	text, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, fmt.Errorf("bar labels: %w", err)
	}
	for i := range text.TextStyle {
		text.TextStyle[i].XAlign = draw.XCenter
		text.TextStyle[i].YAlign = draw.YBottom
	}
	p.Add(text)

	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Min = 0
	p.Y.Max = float64(top) + math.Max(1, float64(top)*0.1)
	p.Y.Tick.Marker = integerTicks{}
	return p, nil
}

func boxes(t *table.Table, names []string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Box Plot of Numeric Features"
	p.Y.Label.Text = "Value"

	var shown []string
	for _, n := range names {
		c, ok := t.Column(n)
		if !ok {
			continue
		}
		vals := c.Valid()
		if len(vals) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(vg.Points(barWidth), float64(len(shown)), plotter.Values(vals))
		if err != nil {
			return nil, fmt.Errorf("box plot %s: %w", n, err)
		}
		p.Add(b)
		shown = append(shown, n)
	}
	if len(shown) == 0 {
		return nil, ErrNoNumeric
	}
	p.NominalX(shown...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return p, nil
}

func render(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// integerTicks places major ticks on whole numbers only.
type integerTicks struct{}

func (integerTicks) Ticks(lo, hi float64) []plot.Tick {
	step := math.Max(1, math.Ceil((hi-lo)/10))
	var ticks []plot.Tick
	for v := math.Ceil(lo); v <= hi; v += step {
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', 0, 64)})
	}
	return ticks
}
