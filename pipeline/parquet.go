package pipeline

import (
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	cycles "github.com/lucasjlepore/cycle-analyzer"
)

// Undefined maxima are stored as NaN.
type summaryParquetRow struct {
	CycleNumber     int64   `parquet:"name=cycle_number, type=INT64"`
	MaxChargeMAh    float64 `parquet:"name=max_charge_mah, type=DOUBLE"`
	MaxDischargeMAh float64 `parquet:"name=max_discharge_mah, type=DOUBLE"`
	Records         int64   `parquet:"name=records, type=INT64"`
}

func writeSummaryParquet(path string, rows []cycles.CycleCapacity) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(summaryParquetRow), 1)
	if err != nil {
		_ = fw.Close()
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, r := range rows {
		row := summaryParquetRow{
			CycleNumber:     r.Cycle,
			MaxChargeMAh:    r.MaxCharge,
			MaxDischargeMAh: r.MaxDischarge,
			Records:         int64(r.Records),
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}
