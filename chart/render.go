package chart

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// ErrNothingToRender is returned for a spec without a single drawable point.
var ErrNothingToRender = errors.New("chart has no drawable points")

// Format is an image encoding supported by Render.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// FormatFromPath picks the encoding from a file extension; anything but .svg renders PNG.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return SVG
	}
	return PNG
}

// Render draws spec to w.
func Render(w io.Writer, spec Spec, format Format) error {
	if spec.Empty() {
		return ErrNothingToRender
	}

	series := make([]gochart.Series, 0, 2)
	for _, s := range []Series{spec.Charge, spec.Discharge} {
		if len(s.X) == 0 {
			continue
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    s.Name,
			XValues: s.X,
			YValues: s.Y,
			Style: gochart.Style{
				StrokeColor: s.Color,
				StrokeWidth: 2,
			},
		})
	}

	gridLines := make([]gochart.GridLine, 0, len(spec.GridLines))
	for _, v := range spec.GridLines {
		gridLines = append(gridLines, gochart.GridLine{Value: v})
	}

	ch := newChart(spec, series, gridLines)
	provider := gochart.PNG
	if format == SVG {
		provider = gochart.SVG
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("render %s chart: %w", format, err)
	}
	return nil
}

func newChart(spec Spec, series []gochart.Series, gridLines []gochart.GridLine) *gochart.Chart {
	ch := &gochart.Chart{
		Title:      spec.Labels.Title,
		Width:      spec.Width,
		Height:     spec.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 48, Left: 16, Right: 24, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:  spec.Labels.X,
			Range: &gochart.ContinuousRange{Min: spec.XRange.Min, Max: spec.XRange.Max},
			Ticks: axisTicks(spec.XTicks, spec.XRange),
		},
		YAxis: gochart.YAxis{
			Name:  spec.Labels.Y,
			Range: &gochart.ContinuousRange{Min: spec.YRange.Min, Max: spec.YRange.Max},
			Ticks: axisTicks(spec.YTicks, spec.YRange),
			GridMajorStyle: gochart.Style{
				StrokeColor:     spec.GridColor,
				StrokeWidth:     1,
				StrokeDashArray: []float64{5, 5},
			},
			GridLines: gridLines,
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(ch)}
	return ch
}

// axisTicks labels values and pins unlabeled ticks at the range bounds.
// go-chart derives the axis range from the tick extremes once ticks are set.
func axisTicks(values []float64, r Range) []gochart.Tick {
	out := make([]gochart.Tick, 0, len(values)+2)
	if len(values) == 0 || values[0] != r.Min {
		out = append(out, gochart.Tick{Value: r.Min})
	}
	for _, v := range values {
		out = append(out, gochart.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64)})
	}
	if len(values) == 0 || values[len(values)-1] != r.Max {
		out = append(out, gochart.Tick{Value: r.Max})
	}
	return out
}
