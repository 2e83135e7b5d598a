package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"math"
	"os"

	// Registers the pure-Go "sqlite" driver.
	_ "github.com/glebarez/go-sqlite"

	cycles "github.com/lucasjlepore/cycle-analyzer"
)

const createSummaryTable = `CREATE TABLE cycle_capacity (
	cycle_number      INTEGER PRIMARY KEY,
	max_charge_mah    REAL,
	max_discharge_mah REAL,
	records           INTEGER NOT NULL
)`

const insertSummaryRow = `INSERT INTO cycle_capacity
	(cycle_number, max_charge_mah, max_discharge_mah, records) VALUES (?, ?, ?, ?)`

func writeSummarySQLite(ctx context.Context, path string, rows []cycles.CycleCapacity) error {
	// An overwrite run may find the database of an earlier run.
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, createSummaryTable); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, insertSummaryRow)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Cycle, nullable(r.MaxCharge), nullable(r.MaxDischarge), r.Records); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	return db.Close()
}

func nullable(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
}
