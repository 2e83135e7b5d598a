package cycles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// tsvRow builds one full-width data line with the given cycle/charge/discharge values.
func tsvRow(cycle, charge, discharge string) string {
	fields := make([]string, NumColumns)
	for i := range fields {
		fields[i] = "0"
	}
	fields[ColCycleNumber] = cycle
	fields[ColCharge] = charge
	fields[ColDischarge] = discharge
	return strings.Join(fields, "\t")
}

func header(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "EC-Lab ASCII FILE header line"
	}
	return lines
}

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cycling.mpt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}
