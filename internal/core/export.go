package core

// export.go writes one target's batch as a marketplace upload file.

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// exportDateLayout renders the run date as month_day_year.
const exportDateLayout = "01_02_2006"

// ExportFileName returns the upload file name for target on the given day.
func ExportFileName(target TargetInfo, now time.Time) string {
	return fmt.Sprintf("%s_Export_%s.csv", target.FilePrefix, now.Format(exportDateLayout))
}

// exportColumns returns the fields the target exports, in batch order.
func (b *batch) exportColumns() []Field {
	cols := make([]Field, 0, len(b.order))
	for _, f := range b.order {
		if _, ok := b.target.Column(f); ok {
			cols = append(cols, f)
		}
	}
	return cols
}

// rows renders the header row followed by one row per record.
func (b *batch) rows() [][]string {
	cols := b.exportColumns()

	header := make([]string, len(cols))
	for i, f := range cols {
		header[i], _ = b.target.Column(f)
	}

	out := make([][]string, 0, len(b.records)+1)
	out = append(out, header)
	for _, rec := range b.records {
		row := make([]string, len(cols))
		for i, f := range cols {
			row[i] = rec[f].String()
		}
		out = append(out, row)
	}
	return out
}

// write serializes the batch to dir and returns the file path. The file is
// written under a temporary name and renamed into place, so a failed write
// never leaves a partial upload file behind.
func (b *batch) write(dir string, now time.Time) (string, error) {
	path := filepath.Join(dir, ExportFileName(b.target.Info, now))

	tmp, err := os.CreateTemp(dir, ".export-*.csv")
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	w.UseCRLF = true
	if err := w.WriteAll(b.rows()); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write export file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename export file: %w", err)
	}

	return path, nil
}
