package cycles

import (
	"fmt"
	"math"
	"strings"
)

// Fade describes how capacity develops over the summarized cycles.
// Fields that cannot be derived are NaN.
type Fade struct {
	Cycles int

	FirstCycle     int64
	FirstDischarge float64
	LastCycle      int64
	LastDischarge  float64
	RetentionPct   float64 // LastDischarge / FirstDischarge
	FadePerCycle   float64 // mean discharge loss per cycle between first and last

	PeakCycle     int64
	PeakDischarge float64

	// Ratio of max discharge to max charge, averaged over cycles that have both.
	MeanEfficiencyPct float64
	EfficiencyCycles  int
}

// AnalyzeFade derives retention and efficiency figures from a summary.
func AnalyzeFade(s Summary) Fade {
	f := Fade{
		Cycles:            s.Len(),
		FirstDischarge:    math.NaN(),
		LastDischarge:     math.NaN(),
		RetentionPct:      math.NaN(),
		FadePerCycle:      math.NaN(),
		PeakDischarge:     math.NaN(),
		MeanEfficiencyPct: math.NaN(),
	}

	found := false
	effTotal := 0.0
	for _, row := range s.Rows {
		if row.HasCharge() && row.HasDischarge() && row.MaxCharge > 0 {
			effTotal += row.MaxDischarge / row.MaxCharge * 100
			f.EfficiencyCycles++
		}
		if !row.HasDischarge() {
			continue
		}
		if !found {
			f.FirstCycle, f.FirstDischarge = row.Cycle, row.MaxDischarge
			found = true
		}
		f.LastCycle, f.LastDischarge = row.Cycle, row.MaxDischarge
		if math.IsNaN(f.PeakDischarge) || row.MaxDischarge > f.PeakDischarge {
			f.PeakCycle, f.PeakDischarge = row.Cycle, row.MaxDischarge
		}
	}

	if f.EfficiencyCycles > 0 {
		f.MeanEfficiencyPct = effTotal / float64(f.EfficiencyCycles)
	}
	if found && f.FirstDischarge > 0 {
		f.RetentionPct = f.LastDischarge / f.FirstDischarge * 100
	}
	if found && f.LastCycle > f.FirstCycle {
		f.FadePerCycle = (f.FirstDischarge - f.LastDischarge) / float64(f.LastCycle-f.FirstCycle)
	}
	return f
}

// BuildNotes turns a summary into a short plain-text report.
func BuildNotes(s Summary) string {
	f := AnalyzeFade(s)

	var b strings.Builder
	fmt.Fprintf(&b, "Cycles: %d", f.Cycles)
	if maxCycle, ok := s.MaxCycle(); ok {
		fmt.Fprintf(&b, " (%d..%d)", s.Rows[0].Cycle, maxCycle)
	}
	b.WriteByte('\n')
	if s.DroppedRows > 0 {
		fmt.Fprintf(&b, "Rows without a cycle number: %d\n", s.DroppedRows)
	}

	if math.IsNaN(f.FirstDischarge) {
		b.WriteString("No discharge capacity recorded.\n")
		return strings.TrimSpace(b.String())
	}

	fmt.Fprintf(&b, "Discharge capacity: %.3f mA.h at cycle %d -> %.3f mA.h at cycle %d\n",
		f.FirstDischarge, f.FirstCycle, f.LastDischarge, f.LastCycle)
	fmt.Fprintf(&b, "Peak discharge: %.3f mA.h at cycle %d\n", f.PeakDischarge, f.PeakCycle)
	if isFinite(f.RetentionPct) {
		fmt.Fprintf(&b, "Retention: %.1f%%", f.RetentionPct)
		if isFinite(f.FadePerCycle) {
			fmt.Fprintf(&b, " | fade %.4f mA.h/cycle", f.FadePerCycle)
		}
		b.WriteByte('\n')
	}
	if f.EfficiencyCycles > 0 {
		fmt.Fprintf(&b, "Mean discharge/charge ratio: %.1f%% over %d cycles\n", f.MeanEfficiencyPct, f.EfficiencyCycles)
	}

	b.WriteString("\nAssessment\n- ")
	b.WriteString(retentionAssessment(f))
	b.WriteByte('\n')

	return strings.TrimSpace(b.String())
}

func retentionAssessment(f Fade) string {
	switch {
	case !isFinite(f.RetentionPct) || f.LastCycle == f.FirstCycle:
		return "A single discharge point; retention needs more cycles."
	case f.RetentionPct >= 95:
		return "Capacity is stable across the run."
	case f.RetentionPct >= 80:
		return "Moderate capacity fade."
	default:
		return "Capacity dropped below 80% of the first cycle."
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
