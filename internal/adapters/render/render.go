// Package render draws dashboard figures as PNG or SVG images with go-chart.
// Only pie and bar figures have an image form; the heatmap and the
// indicator cards are left to the browser.
//
// Stacked bar figures hold shares and go through go-chart's StackedBarChart,
// which draws every bar at 100%. Grouped bar figures hold counts and go
// through BarChart, one bar per trace and category on a zero-based axis.
// BarChart is vertical only, so horizontal count figures are drawn as columns
// in their ranking order.
package render

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/okian/mindthegap/internal/domain/chart"
)

// Format is an image encoding.
type Format string

// Supported formats.
const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts "png" or "svg" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case PNG:
		return PNG, nil
	case SVG:
		return SVG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() gochart.RendererProvider {
	if f == SVG {
		return gochart.SVG
	}
	return gochart.PNG
}

const (
	defaultWidth  = 800
	defaultHeight = 500
	barSpacing    = 4
	minBarWidth   = 4
	sidePadding   = 120

	barModeStack = "stack"
	orientationH = "h"
)

// Renderer turns figures into images.
type Renderer struct {
	width  int
	height int
}

// NewRenderer creates a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{width: defaultWidth, height: defaultHeight}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Supports reports whether fig has an image form.
func Supports(fig chart.Figure) bool {
	switch fig.Kind() {
	case chart.TypePie, chart.TypeBar:
		return true
	}
	return false
}

// Render writes fig to w in the given format.
func (r *Renderer) Render(ctx context.Context, fig chart.Figure, format Format, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if format != PNG && format != SVG {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if fig.Empty || len(fig.Data) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyFigure, fig.ID)
	}

	switch fig.Kind() {
	case chart.TypePie:
		return r.pie(fig).Render(format.provider(), w)
	case chart.TypeBar:
		d, err := r.bars(fig)
		if err != nil {
			return err
		}
		return d.Render(format.provider(), w)
	}
	return fmt.Errorf("%w: %s (%s)", ErrUnsupportedFigure, fig.ID, fig.Kind())
}

type drawable interface {
	Render(rp gochart.RendererProvider, w io.Writer) error
}

// bars picks the go-chart type for a bar figure from its bar mode.
func (r *Renderer) bars(fig chart.Figure) (drawable, error) {
	if fig.Layout.BarMode == barModeStack {
		return r.stackedBar(fig)
	}
	return r.groupedBar(fig)
}

// barAxes returns the category labels and per-trace values of a bar
// figure. Horizontal figures carry their categories on Y.
func barAxes(fig chart.Figure) (categories []string, values [][]float64, horizontal bool, err error) {
	first := fig.Data[0]
	horizontal = first.Orientation == orientationH
	catAxis := first.X
	if horizontal {
		catAxis = first.Y
	}
	categories, ok := labels(catAxis)
	if !ok || len(categories) == 0 {
		return nil, nil, false, fmt.Errorf("%w: %s has no categories", ErrUnsupportedFigure, fig.ID)
	}
	values = make([][]float64, len(fig.Data))
	for i, t := range fig.Data {
		vals := t.Y
		if horizontal {
			vals = t.X
		}
		ys, ok := floats(vals)
		if !ok {
			return nil, nil, false, fmt.Errorf("%w: %s has no values", ErrUnsupportedFigure, fig.ID)
		}
		values[i] = ys
	}
	return categories, values, horizontal, nil
}

// groupedBar lays the traces side by side for each category. Only the first
// bar of a group carries the category label.
func (r *Renderer) groupedBar(fig chart.Figure) (gochart.BarChart, error) {
	categories, values, _, err := barAxes(fig)
	if err != nil {
		return gochart.BarChart{}, err
	}

	peak := 0.0
	bars := make([]gochart.Value, 0, len(categories)*len(values))
	for i, c := range categories {
		for j, ys := range values {
			v := 0.0
			if i < len(ys) && ys[i] > 0 {
				v = ys[i]
			}
			peak = max(peak, v)
			label := ""
			if j == 0 {
				label = c
			}
			bars = append(bars, gochart.Value{Value: v, Label: label, Style: fill(traceColor(fig.Data[j]))})
		}
	}
	if peak == 0 {
		return gochart.BarChart{}, fmt.Errorf("%w: %s", ErrEmptyFigure, fig.ID)
	}

	return gochart.BarChart{
		Title:      fig.Title,
		Width:      r.width,
		Height:     r.height,
		BarSpacing: barSpacing,
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: peak},
		},
		Bars: bars,
	}, nil
}

func (r *Renderer) pie(fig chart.Figure) gochart.PieChart {
	t := fig.Data[0]
	var colors []string
	if t.Marker != nil {
		colors = t.Marker.Colors
	}
	values := make([]gochart.Value, 0, len(t.Values))
	for i, v := range t.Values {
		if v <= 0 || i >= len(t.Labels) {
			continue
		}
		val := gochart.Value{Value: float64(v), Label: fmt.Sprintf("%s %d", t.Labels[i], v)}
		if i < len(colors) {
			val.Style = fill(colors[i])
		}
		values = append(values, val)
	}
	return gochart.PieChart{
		Title:  fig.Title,
		Width:  r.width,
		Height: r.height,
		Values: values,
	}
}

// stackedBar groups the traces by category: one bar per category, one
// segment per trace.
func (r *Renderer) stackedBar(fig chart.Figure) (gochart.StackedBarChart, error) {
	categories, values, horizontal, err := barAxes(fig)
	if err != nil {
		return gochart.StackedBarChart{}, err
	}

	extent := r.width
	if horizontal {
		extent = r.height
	}
	width := (extent-sidePadding)/len(categories) - barSpacing
	if width < minBarWidth {
		width = minBarWidth
	}
	bars := make([]gochart.StackedBar, len(categories))
	for i, c := range categories {
		bars[i] = gochart.StackedBar{Name: c, Width: width}
	}

	for j, ys := range values {
		for i := range bars {
			if i >= len(ys) || ys[i] <= 0 {
				continue
			}
			bars[i].Values = append(bars[i].Values, gochart.Value{
				Value: ys[i],
				Label: fig.Data[j].Name,
				Style: fill(traceColor(fig.Data[j])),
			})
		}
	}

	return gochart.StackedBarChart{
		Title:        fig.Title,
		Width:        r.width,
		Height:       r.height,
		BarSpacing:   barSpacing,
		IsHorizontal: horizontal,
		Bars:         bars,
	}, nil
}

func traceColor(t chart.Trace) string {
	if t.Marker == nil {
		return ""
	}
	return t.Marker.Color
}

func fill(hex string) gochart.Style {
	if hex == "" {
		return gochart.Style{}
	}
	c := drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
	return gochart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1}
}

func labels(v any) ([]string, bool) {
	switch xs := v.(type) {
	case []string:
		return xs, true
	case []int:
		out := make([]string, len(xs))
		for i, x := range xs {
			out[i] = strconv.Itoa(x)
		}
		return out, true
	}
	return nil, false
}

func floats(v any) ([]float64, bool) {
	switch xs := v.(type) {
	case []float64:
		return xs, true
	case []int:
		out := make([]float64, len(xs))
		for i, x := range xs {
			out[i] = float64(x)
		}
		return out, true
	}
	return nil, false
}
