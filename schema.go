package cycles

import (
	"math"
	"strconv"
	"strings"
)

// Columns is the positional field layout of an exported cycling log. Source files carry no
// header row, so names are assigned by position only.
var Columns = []string{
	"mode", "ox/red", "error", "control changes", "Ns changes", "counter inc.", "Ns", "time/s", "dq/mA.h",
	"(Q-Qo)/mA.h", "control/V/mA", "Ecell/V", "Q charge/discharge/mA.h", "half cycle", "<I>/mA", "x", "cycle number",
	"Q charge/mA.h", "Q discharge/mA.h", "Energy/W.h", "Energy charge/W.h", "Energy discharge/W.h", "cycle time/s",
	"step time/s", "charge time/s", "discharge time/s", "d(Q-Qo)/dE/mA.h/V", "Capacity/mA.h", "Efficiency/%",
	"control/V", "control/mA", "P/W",
}

// NumColumns is the field count every row must have.
var NumColumns = len(Columns)

// Positions of the fields the aggregator reads.
const (
	ColCycleNumber = 16
	ColCharge      = 17
	ColDischarge   = 18
)

var columnIndex = func() map[string]int {
	m := make(map[string]int, len(Columns))
	for i, name := range Columns {
		m[name] = i
	}
	return m
}()

// ColumnIndex returns the position of a named column.
func ColumnIndex(name string) (int, bool) {
	i, ok := columnIndex[name]
	return i, ok
}

var absentMarkers = map[string]struct{}{
	"":     {},
	"NaN":  {},
	"nan":  {},
	"-nan": {},
	"NA":   {},
	"N/A":  {},
	"#N/A": {},
	"null": {},
	"NULL": {},
}

// IsAbsent reports whether a raw field value means "no value".
func IsAbsent(raw string) bool {
	_, ok := absentMarkers[strings.TrimSpace(raw)]
	return ok
}

// Record is one data row of the source file.
type Record struct {
	Line   int
	Fields []string
}

// Field returns the raw value at col, or "" when the row is shorter.
func (r Record) Field(col int) string {
	if col < 0 || col >= len(r.Fields) {
		return ""
	}
	return r.Fields[col]
}

// Float parses the value at col. Absent, unparseable and infinite values yield (NaN, false).
func (r Record) Float(col int) (float64, bool) {
	return parseValue(r.Field(col))
}

// CycleKey returns the integral cycle number of the row.
func (r Record) CycleKey() (int64, bool) {
	v, ok := r.Float(ColCycleNumber)
	if !ok || math.Trunc(v) != v {
		return 0, false
	}
	if v >= math.MaxInt64 || v < math.MinInt64 {
		return 0, false
	}
	return int64(v), true
}

// Table is the immutable result of a load.
type Table struct {
	Source     string
	Skipped    int
	Records    []Record
	Padded     int // rows completed with absent values in lenient mode
	Trimmed    int // rows whose trailing empty field was dropped
	BlankLines int
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

func parseValue(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if IsAbsent(s) {
		return math.NaN(), false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN(), false
	}
	return v, true
}
