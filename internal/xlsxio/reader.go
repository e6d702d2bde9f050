// =============================================================================
// CTOS Report Extractor - Workbook Reader
// =============================================================================
//
// Reads the two-column-minimum input workbook: an account-identifier
// column and an XML-text column, plus an optional row-sequence column.
// Header matching is case-insensitive after trimming and uppercasing.
// A missing account or XML column aborts the whole import before any
// processing starts; a missing sequence column just defaults every row
// to sequence 0.
//
// =============================================================================

package xlsxio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/ctos-report-extractor/internal/config"
)

// InputRow is one raw input row. Account carries the raw, un-normalized
// identifier; key normalization happens in the pipeline.
type InputRow struct {
	Account string
	Seq     int
	XML     string
}

// ReadInput reads the first sheet of the workbook at path.
func ReadInput(path string, cfg *config.Config) ([]InputRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("input workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("input sheet %q is empty", sheet)
	}

	accountIdx, err := requiredColumn(rows[0], cfg.AccountColumn)
	if err != nil {
		return nil, err
	}
	xmlIdx, err := requiredColumn(rows[0], cfg.XMLColumn)
	if err != nil {
		return nil, err
	}
	seqIdx := optionalColumn(rows[0], cfg.SequenceColumn)

	var out []InputRow
	for _, row := range rows[1:] {
		account := strings.TrimSpace(cell(row, accountIdx))
		xml := cell(row, xmlIdx)
		if account == "" && strings.TrimSpace(xml) == "" {
			continue
		}

		seq := 0
		if seqIdx >= 0 {
			// Sequence cells sometimes come back as "3.0"; take the
			// integer part rather than dropping the row.
			raw := strings.TrimSpace(cell(row, seqIdx))
			if n, err := strconv.Atoi(raw); err == nil {
				seq = n
			} else if fl, err := strconv.ParseFloat(raw, 64); err == nil {
				seq = int(fl)
			}
		}

		out = append(out, InputRow{Account: account, Seq: seq, XML: xml})
	}
	return out, nil
}

// requiredColumn resolves a mandatory header or fails the import.
func requiredColumn(headers []string, name string) (int, error) {
	if idx := findColumn(headers, name); idx >= 0 {
		return idx, nil
	}
	return -1, fmt.Errorf("input is missing required column %q", name)
}

// optionalColumn resolves a header, returning -1 when absent.
func optionalColumn(headers []string, name string) int {
	return findColumn(headers, name)
}

// findColumn matches headers case-insensitively after trimming.
func findColumn(headers []string, name string) int {
	want := strings.ToUpper(strings.TrimSpace(name))
	for i, h := range headers {
		if strings.ToUpper(strings.TrimSpace(h)) == want {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx >= 0 && idx < len(row) {
		return row[idx]
	}
	return ""
}
