package cycles

import (
	"fmt"
	"math"
	"strings"
)

// Head returns a copy of the first k summary rows. k <= 0 yields an empty slice.
func Head(s Summary, k int) []CycleCapacity {
	if k <= 0 {
		return []CycleCapacity{}
	}
	if k > len(s.Rows) {
		k = len(s.Rows)
	}
	out := make([]CycleCapacity, k)
	copy(out, s.Rows[:k])
	return out
}

// FormatTable renders summary rows as a fixed-width text table.
func FormatTable(rows []CycleCapacity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%5s  %12s  %12s  %13s\n", "", "cycle number", "Max Charge", "Max Discharge")
	for i, row := range rows {
		fmt.Fprintf(
			&b,
			"%5d  %12d  %12s  %13s\n",
			i,
			row.Cycle,
			formatCapacity(row.MaxCharge),
			formatCapacity(row.MaxDischarge),
		)
	}
	return b.String()
}

func formatCapacity(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6f", v)
}
