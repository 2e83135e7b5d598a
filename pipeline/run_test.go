package pipeline

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xuri/excelize/v2"

	cycles "github.com/lucasjlepore/cycle-analyzer"
)

func dataRow(cycle, charge, discharge string) string {
	fields := make([]string, cycles.NumColumns)
	for i := range fields {
		fields[i] = "0"
	}
	fields[cycles.ColCycleNumber] = cycle
	fields[cycles.ColCharge] = charge
	fields[cycles.ColDischarge] = discharge
	return strings.Join(fields, "\t")
}

// writeCyclingLog writes a log with two header lines and three cycles; cycle 3 has no discharge.
func writeCyclingLog(t *testing.T) string {
	t.Helper()
	lines := []string{
		"EC-Lab ASCII FILE",
		"Nb header lines : 2",
		dataRow("1", "5.0", "2.0"),
		dataRow("1", "7.0", "1.5"),
		dataRow("2", "3.0", "4.0"),
		dataRow("3", "6.5", ""),
	}
	path := filepath.Join(t.TempDir(), "cell01.mpt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func baseOptions(t *testing.T, format string) Options {
	return Options{
		InputPath: writeCyclingLog(t),
		SkipRows:  2,
		OutDir:    filepath.Join(t.TempDir(), "out"),
		Format:    format,
		TableRows: 2,
	}
}

func TestRunCSV(t *testing.T) {
	opts := baseOptions(t, "csv")
	opts.Diagnostics = true
	opts.CopySource = true

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Records)
	assert.Equal(t, 3, res.Cycles)
	assert.NotEmpty(t, res.RunID)

	f, err := os.Open(res.SummaryPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, summaryHeader, rows[0])
	assert.Equal(t, []string{"1", "7.000000", "2.000000", "2"}, rows[1])
	assert.Equal(t, []string{"3", "6.500000", "", "1"}, rows[3])

	table, err := os.ReadFile(res.TablePath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimRight(string(table), "\n"), "\n"), 3)

	notes, err := os.ReadFile(res.NotesPath)
	require.NoError(t, err)
	assert.Contains(t, string(notes), "Cycles: 3 (1..3)")

	for _, p := range []string{res.ChartPath, res.DiagnosticsPath, res.SourceCopyPath} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
	assert.Equal(t, "source.mpt", filepath.Base(res.SourceCopyPath))

	var manifest Manifest
	data, err := os.ReadFile(res.ManifestPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Equal(t, ManifestFormatVersion, manifest.FormatVersion)
	assert.Equal(t, res.RunID, manifest.RunID)
	assert.Len(t, manifest.SourceSHA256, 64)
	assert.Equal(t, 2, manifest.SkipRows)
	assert.Equal(t, 3, manifest.CycleCount)
	assert.Contains(t, manifest.Artifacts, "capacity.png")
	assert.Contains(t, manifest.Artifacts, "diagnostics.txt")
}

func TestRunJSONUsesNullForUndefinedMaxima(t *testing.T) {
	res, err := Run(context.Background(), baseOptions(t, "json"))
	require.NoError(t, err)

	var rows []SummaryRow
	data, err := os.ReadFile(res.SummaryPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 3)
	require.NotNil(t, rows[0].MaxChargeMAh)
	assert.Equal(t, 7.0, *rows[0].MaxChargeMAh)
	assert.Nil(t, rows[2].MaxDischargeMAh)
	assert.Contains(t, string(data), `"max_discharge_mah": null`)
}

func TestRunParquet(t *testing.T) {
	res, err := Run(context.Background(), baseOptions(t, "parquet"))
	require.NoError(t, err)

	fr, err := local.NewLocalFileReader(res.SummaryPath)
	require.NoError(t, err)
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(summaryParquetRow), 1)
	require.NoError(t, err)
	defer pr.ReadStop()

	n := int(pr.GetNumRows())
	require.Equal(t, 3, n)
	rows := make([]summaryParquetRow, n)
	require.NoError(t, pr.Read(&rows))
	assert.Equal(t, int64(2), rows[1].CycleNumber)
	assert.Equal(t, 4.0, rows[1].MaxDischargeMAh)
	assert.True(t, math.IsNaN(rows[2].MaxDischargeMAh))
}

func TestRunWorkbook(t *testing.T) {
	res, err := Run(context.Background(), baseOptions(t, "xlsx"))
	require.NoError(t, err)

	f, err := excelize.OpenFile(res.SummaryPath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "cycle number", rows[0][0])
	assert.Equal(t, "Max Discharge", rows[0][2])
	assert.Equal(t, "2", rows[2][0])
	assert.Equal(t, "", rows[3][2])
}

func TestRunSQLite(t *testing.T) {
	res, err := Run(context.Background(), baseOptions(t, "sqlite"))
	require.NoError(t, err)

	db, err := sql.Open("sqlite", res.SummaryPath)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM cycle_capacity`).Scan(&count))
	assert.Equal(t, 3, count)

	var charge float64
	var discharge sql.NullFloat64
	require.NoError(t, db.QueryRow(
		`SELECT max_charge_mah, max_discharge_mah FROM cycle_capacity WHERE cycle_number = 3`,
	).Scan(&charge, &discharge))
	assert.Equal(t, 6.5, charge)
	assert.False(t, discharge.Valid)
}

func TestRunSVGChart(t *testing.T) {
	opts := baseOptions(t, "csv")
	opts.ChartFile = "capacity.svg"

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	data, err := os.ReadFile(res.ChartPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
}

func TestRunRefusesNonEmptyOutputDir(t *testing.T) {
	opts := baseOptions(t, "csv")
	require.NoError(t, os.MkdirAll(opts.OutDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(opts.OutDir, "keep.txt"), []byte("x"), 0o644))

	_, err := Run(context.Background(), opts)
	assert.True(t, errors.Is(err, cycles.ErrConfig))

	opts.Overwrite = true
	_, err = Run(context.Background(), opts)
	assert.NoError(t, err)
}

func TestRunErrors(t *testing.T) {
	t.Run("unsupported format", func(t *testing.T) {
		_, err := Run(context.Background(), baseOptions(t, "xml"))
		assert.True(t, errors.Is(err, cycles.ErrConfig))
	})

	t.Run("missing input", func(t *testing.T) {
		opts := baseOptions(t, "csv")
		opts.InputPath = filepath.Join(t.TempDir(), "missing.mpt")
		_, err := Run(context.Background(), opts)
		assert.True(t, errors.Is(err, cycles.ErrInputAccess))
		_, statErr := os.Stat(opts.OutDir)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("empty after skip", func(t *testing.T) {
		opts := baseOptions(t, "csv")
		opts.SkipRows = 100
		_, err := Run(context.Background(), opts)
		assert.True(t, errors.Is(err, cycles.ErrEmptyResult))
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Run(ctx, baseOptions(t, "csv"))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func writeLongLog(t *testing.T, cycleCount int) string {
	t.Helper()
	lines := []string{"EC-Lab ASCII FILE", "Nb header lines : 2"}
	for c := 1; c <= cycleCount; c++ {
		cycle := strconv.Itoa(c)
		charge := strconv.FormatFloat(160-float64(c)*0.5, 'f', 3, 64)
		discharge := strconv.FormatFloat(158-float64(c)*0.6, 'f', 3, 64)
		lines = append(lines, dataRow(cycle, charge, "0"), dataRow(cycle, "0", discharge))
	}
	path := filepath.Join(t.TempDir(), "long.mpt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestRunChartCycleCounts(t *testing.T) {
	for _, n := range []int{1, 15, 40} {
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			for _, chartFile := range []string{"capacity.png", "capacity.svg"} {
				opts := baseOptions(t, "csv")
				opts.InputPath = writeLongLog(t, n)
				opts.ChartFile = chartFile

				res, err := Run(context.Background(), opts)
				require.NoError(t, err, chartFile)
				assert.Equal(t, n, res.Cycles)

				info, err := os.Stat(res.ChartPath)
				require.NoError(t, err)
				assert.NotZero(t, info.Size())
			}
		})
	}
}

func TestRunSQLiteOverwrite(t *testing.T) {
	opts := baseOptions(t, "sqlite")
	opts.InputPath = writeLongLog(t, 20)

	_, err := Run(context.Background(), opts)
	require.NoError(t, err)

	opts.InputPath = writeLongLog(t, 5)
	opts.Overwrite = true
	res, err := Run(context.Background(), opts)
	require.NoError(t, err)

	db, err := sql.Open("sqlite", res.SummaryPath)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM cycle_capacity`).Scan(&count))
	assert.Equal(t, 5, count)
}

func TestRunTreatsInfiniteValuesAsAbsent(t *testing.T) {
	lines := []string{
		"header",
		"header",
		dataRow("1", "inf", "2.0"),
		dataRow("1", "-Infinity", "1.0"),
		dataRow("2", "3.0", "inf"),
		dataRow("2", "4.0", "3.5"),
	}
	opts := baseOptions(t, "json")
	opts.InputPath = filepath.Join(t.TempDir(), "inf.mpt")
	require.NoError(t, os.WriteFile(opts.InputPath, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)

	var rows []SummaryRow
	data, err := os.ReadFile(res.SummaryPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 2)
	assert.Nil(t, rows[0].MaxChargeMAh)
	require.NotNil(t, rows[0].MaxDischargeMAh)
	assert.Equal(t, 2.0, *rows[0].MaxDischargeMAh)
	require.NotNil(t, rows[1].MaxDischargeMAh)
	assert.Equal(t, 3.5, *rows[1].MaxDischargeMAh)
}

func TestRunDefaultTableRows(t *testing.T) {
	opts := baseOptions(t, "csv")
	opts.InputPath = writeLongLog(t, 20)
	opts.TableRows = 0

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)

	table, err := os.ReadFile(res.TablePath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(table), "\n"), "\n")
	assert.Len(t, lines, DefaultTableRows+1)
}
