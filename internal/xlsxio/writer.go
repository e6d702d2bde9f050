// =============================================================================
// CTOS Report Extractor - Workbook Writer
// =============================================================================
//
// Writes the multi-sheet export workbook: one sheet per section schema,
// a bold fixed header row each, and at least one row per sheet - sheets
// with no extracted data get a single placeholder row of sentinels so
// no sheet is ever empty. The file is written to a temporary name and
// renamed into place, so a failed save never leaves a half-written
// workbook behind.
//
// =============================================================================

package xlsxio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/ctos-report-extractor/internal/projector"
)

// WriteWorkbook writes sheets in schema order to path. Every schema
// sheet is created whether or not it has rows.
func WriteWorkbook(path string, sheets map[string][]projector.Row, schemas []projector.SheetSchema) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, schema := range schemas {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), schema.Name); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", schema.Name, err)
			}
		} else if _, err := f.NewSheet(schema.Name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", schema.Name, err)
		}

		if err := writeSheet(f, schema, sheets[schema.Name], bold); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", schema.Name, err)
		}
	}

	// SaveAs validates the target extension, so the temp name must keep
	// the .xlsx suffix.
	tmp := filepath.Join(filepath.Dir(path),
		fmt.Sprintf(".%s.%s.tmp.xlsx", filepath.Base(path), uuid.NewString()[:8]))
	if err := f.SaveAs(tmp); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move workbook into place: %w", err)
	}
	return nil
}

// writeSheet writes the header row and data (or placeholder) rows.
func writeSheet(f *excelize.File, schema projector.SheetSchema, rows []projector.Row, boldStyle int) error {
	header := make([]interface{}, len(schema.Columns))
	for i, col := range schema.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(schema.Name, "A1", &header); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(schema.Columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(schema.Name, "A1", last, boldStyle); err != nil {
		return err
	}

	if len(rows) == 0 {
		rows = []projector.Row{placeholderRow(schema)}
	}

	for r, row := range rows {
		values := make([]interface{}, len(schema.Columns))
		for i, col := range schema.Columns {
			values[i] = row[col]
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(schema.Name, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// placeholderRow fills every column with the sheet's sentinel.
func placeholderRow(schema projector.SheetSchema) projector.Row {
	row := make(projector.Row, len(schema.Columns))
	for _, col := range schema.Columns {
		row[col] = schema.Sentinel
	}
	return row
}
