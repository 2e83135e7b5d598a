// Package chart lays out and renders the per-cycle capacity comparison chart.
package chart

import (
	"github.com/wcharczuk/go-chart/v2/drawing"

	cycles "github.com/lucasjlepore/cycle-analyzer"
)

// Labels are the caller-supplied chart texts.
type Labels struct {
	X     string
	Y     string
	Title string
}

// DefaultLabels are the axis labels and title of the standard capacity plot.
func DefaultLabels() Labels {
	return Labels{
		X:     "Cycle Number",
		Y:     "Capacity (mA.h)",
		Title: "Max Charge and Max Discharge Capacities for Cycle Number",
	}
}

// Style holds the fixed chart cosmetics.
type Style struct {
	// X ticks are XTickStart, XTickStart+XTickStep, ... below XTickStop.
	XTickStart float64
	XTickStop  float64
	XTickStep  float64
	// Y ticks are 0, YTickStep, ... below YTickStop; a dashed gridline is drawn at each.
	YTickStop float64
	YTickStep float64
	YMax      float64

	Width  int
	Height int

	ChargeColor    drawing.Color
	DischargeColor drawing.Color
	GridColor      drawing.Color
}

// DefaultStyle is a 10x6 figure with ticks every 15 cycles from 1 and every 20 mA.h up to 180.
func DefaultStyle() Style {
	return Style{
		XTickStart:     1,
		XTickStop:      302,
		XTickStep:      15,
		YTickStop:      200,
		YTickStep:      20,
		YMax:           180,
		Width:          1000,
		Height:         600,
		ChargeColor:    drawing.Color{R: 0, G: 0, B: 255, A: 255},
		DischargeColor: drawing.Color{R: 255, G: 0, B: 0, A: 255},
		GridColor:      drawing.Color{R: 128, G: 128, B: 128, A: 128},
	}
}

// Range is a closed axis interval.
type Range struct {
	Min float64
	Max float64
}

// Series is one drawable line. Cycles with an undefined maximum are left out.
type Series struct {
	Name  string
	X     []float64
	Y     []float64
	Color drawing.Color
}

// Spec is the fully laid out chart, independent of the output format.
type Spec struct {
	Labels    Labels
	Charge    Series
	Discharge Series
	XRange    Range
	YRange    Range
	XTicks    []float64
	YTicks    []float64
	GridLines []float64
	Width     int
	Height    int
	GridColor drawing.Color
}

// Points returns the number of drawable points across both series.
func (s Spec) Points() int {
	return len(s.Charge.X) + len(s.Discharge.X)
}

// Empty reports whether nothing can be drawn.
func (s Spec) Empty() bool {
	return s.Points() == 0
}

// BuildSpec lays out the two capacity series against cycle number.
func BuildSpec(rows []cycles.CycleCapacity, labels Labels, st Style) Spec {
	spec := Spec{
		Labels:    labels,
		Charge:    Series{Name: "Max Charge Capacity", Color: st.ChargeColor},
		Discharge: Series{Name: "Max Discharge Capacity", Color: st.DischargeColor},
		Width:     st.Width,
		Height:    st.Height,
		GridColor: st.GridColor,
	}

	maxCycle := int64(0)
	for _, row := range rows {
		if row.Cycle > maxCycle {
			maxCycle = row.Cycle
		}
		x := float64(row.Cycle)
		if row.HasCharge() {
			spec.Charge.X = append(spec.Charge.X, x)
			spec.Charge.Y = append(spec.Charge.Y, row.MaxCharge)
		}
		if row.HasDischarge() {
			spec.Discharge.X = append(spec.Discharge.X, x)
			spec.Discharge.Y = append(spec.Discharge.Y, row.MaxDischarge)
		}
	}

	spec.XRange = Range{Min: 0, Max: float64(maxCycle) + 1}
	spec.YRange = Range{Min: 0, Max: st.YMax}
	spec.XTicks = within(arange(st.XTickStart, st.XTickStop, st.XTickStep), spec.XRange)
	spec.YTicks = within(arange(0, st.YTickStop, st.YTickStep), spec.YRange)
	spec.GridLines = append([]float64(nil), spec.YTicks...)
	return spec
}

// arange returns start, start+step, ... strictly below stop.
func arange(start, stop, step float64) []float64 {
	if step <= 0 || start >= stop {
		return nil
	}
	n := int((stop - start) / step)
	out := make([]float64, 0, n+1)
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v >= stop {
			break
		}
		out = append(out, v)
	}
	return out
}

func within(values []float64, r Range) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v >= r.Min && v <= r.Max {
			out = append(out, v)
		}
	}
	return out
}
