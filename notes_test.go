package cycles

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeFade(t *testing.T) {
	s := Summary{Rows: []CycleCapacity{
		{Cycle: 1, MaxCharge: 160, MaxDischarge: math.NaN()},
		{Cycle: 2, MaxCharge: 150, MaxDischarge: 150},
		{Cycle: 3, MaxCharge: 150, MaxDischarge: 152},
		{Cycle: 6, MaxCharge: 125, MaxDischarge: 120},
	}}

	f := AnalyzeFade(s)

	assert.Equal(t, 4, f.Cycles)
	assert.Equal(t, int64(2), f.FirstCycle)
	assert.Equal(t, 150.0, f.FirstDischarge)
	assert.Equal(t, int64(6), f.LastCycle)
	assert.InDelta(t, 80.0, f.RetentionPct, 1e-9)
	assert.InDelta(t, 7.5, f.FadePerCycle, 1e-9)
	assert.Equal(t, int64(3), f.PeakCycle)
	assert.Equal(t, 3, f.EfficiencyCycles)
}

func TestAnalyzeFadeWithoutDischarge(t *testing.T) {
	f := AnalyzeFade(Summary{Rows: []CycleCapacity{{Cycle: 1, MaxCharge: 5, MaxDischarge: math.NaN()}}})
	assert.True(t, math.IsNaN(f.RetentionPct))
	assert.True(t, math.IsNaN(f.MeanEfficiencyPct))
	assert.Zero(t, f.EfficiencyCycles)
}

func TestBuildNotes(t *testing.T) {
	s := Summary{Rows: []CycleCapacity{
		{Cycle: 1, MaxCharge: 150, MaxDischarge: 148},
		{Cycle: 2, MaxCharge: 149, MaxDischarge: 147},
	}, DroppedRows: 1}

	notes := BuildNotes(s)

	assert.Contains(t, notes, "Cycles: 2 (1..2)")
	assert.Contains(t, notes, "Rows without a cycle number: 1")
	assert.Contains(t, notes, "Retention: 99.3%")
	assert.Contains(t, notes, "Capacity is stable across the run.")
}

func TestBuildNotesNoDischarge(t *testing.T) {
	notes := BuildNotes(Summary{Rows: []CycleCapacity{{Cycle: 4, MaxCharge: 1, MaxDischarge: math.NaN()}}})
	assert.Contains(t, notes, "No discharge capacity recorded.")
}
