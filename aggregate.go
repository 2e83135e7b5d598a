package cycles

import (
	"math"
	"sort"
)

// CycleCapacity is the per-cycle capacity summary. A maximum with no valid source value is NaN.
type CycleCapacity struct {
	Cycle        int64
	MaxCharge    float64
	MaxDischarge float64
	Records      int
}

// HasCharge reports whether at least one charge value contributed to MaxCharge.
func (c CycleCapacity) HasCharge() bool {
	return !math.IsNaN(c.MaxCharge)
}

// HasDischarge reports whether at least one discharge value contributed to MaxDischarge.
func (c CycleCapacity) HasDischarge() bool {
	return !math.IsNaN(c.MaxDischarge)
}

// Summary holds one row per distinct cycle number in ascending order.
type Summary struct {
	Rows []CycleCapacity
	// DroppedRows counts records whose cycle number was absent or not an integer.
	DroppedRows int
}

// Len returns the number of cycles.
func (s Summary) Len() int {
	return len(s.Rows)
}

// MaxCycle returns the largest cycle number present.
func (s Summary) MaxCycle() (int64, bool) {
	if len(s.Rows) == 0 {
		return 0, false
	}
	return s.Rows[len(s.Rows)-1].Cycle, true
}

// Summarize groups records by cycle number and keeps the running maxima of the charge and
// discharge columns. It always recomputes from the table.
func Summarize(t *Table) Summary {
	out := Summary{Rows: []CycleCapacity{}}
	if t == nil {
		return out
	}

	groups := make(map[int64]*CycleCapacity)
	for _, rec := range t.Records {
		key, ok := rec.CycleKey()
		if !ok {
			out.DroppedRows++
			continue
		}
		acc, ok := groups[key]
		if !ok {
			acc = &CycleCapacity{Cycle: key, MaxCharge: math.NaN(), MaxDischarge: math.NaN()}
			groups[key] = acc
		}
		acc.Records++
		if v, ok := rec.Float(ColCharge); ok {
			acc.MaxCharge = runningMax(acc.MaxCharge, v)
		}
		if v, ok := rec.Float(ColDischarge); ok {
			acc.MaxDischarge = runningMax(acc.MaxDischarge, v)
		}
	}

	out.Rows = make([]CycleCapacity, 0, len(groups))
	for _, acc := range groups {
		out.Rows = append(out.Rows, *acc)
	}
	sort.Slice(out.Rows, func(i, j int) bool {
		return out.Rows[i].Cycle < out.Rows[j].Cycle
	})
	return out
}

func runningMax(current, v float64) float64 {
	if math.IsNaN(v) {
		return current
	}
	if math.IsNaN(current) || v > current {
		return v
	}
	return current
}
