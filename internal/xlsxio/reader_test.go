package xlsxio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/ctos-report-extractor/internal/config"
)

// writeInputWorkbook builds a single-sheet workbook from string rows.
func writeInputWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, row := range rows {
		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}

	path := filepath.Join(t.TempDir(), "input.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadInput(t *testing.T) {
	path := writeInputWorkbook(t, [][]string{
		{"NU_PTL", "ROW_SEQ", "XML_DATA"},
		{"ACC1", "2", "<report>b</report>"},
		{"ACC1", "1", "<report>a</report>"},
		{"ACC2", "", "<report>c</report>"},
	})

	rows, err := ReadInput(path, config.Default())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, InputRow{Account: "ACC1", Seq: 2, XML: "<report>b</report>"}, rows[0])
	assert.Equal(t, InputRow{Account: "ACC1", Seq: 1, XML: "<report>a</report>"}, rows[1])
	assert.Equal(t, InputRow{Account: "ACC2", Seq: 0, XML: "<report>c</report>"}, rows[2])
}

func TestReadInputHeaderMatchingIsLenient(t *testing.T) {
	path := writeInputWorkbook(t, [][]string{
		{" nu_ptl ", "xml_data"},
		{"ACC1", "<report/>"},
	})

	rows, err := ReadInput(path, config.Default())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ACC1", rows[0].Account)
	assert.Equal(t, "<report/>", rows[0].XML)
}

func TestReadInputFloatSequence(t *testing.T) {
	path := writeInputWorkbook(t, [][]string{
		{"NU_PTL", "ROW_SEQ", "XML_DATA"},
		{"ACC1", "3.0", "<report/>"},
	})

	rows, err := ReadInput(path, config.Default())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Seq)
}

func TestReadInputMissingAccountColumn(t *testing.T) {
	path := writeInputWorkbook(t, [][]string{
		{"SOMETHING", "XML_DATA"},
		{"x", "<report/>"},
	})

	_, err := ReadInput(path, config.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NU_PTL")
}

func TestReadInputMissingXMLColumn(t *testing.T) {
	path := writeInputWorkbook(t, [][]string{
		{"NU_PTL"},
		{"ACC1"},
	})

	_, err := ReadInput(path, config.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "XML_DATA")
}

func TestReadInputSkipsBlankRows(t *testing.T) {
	path := writeInputWorkbook(t, [][]string{
		{"NU_PTL", "XML_DATA"},
		{"", ""},
		{"ACC1", "<report/>"},
	})

	rows, err := ReadInput(path, config.Default())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ACC1", rows[0].Account)
}

func TestReadInputRejectsMissingFile(t *testing.T) {
	_, err := ReadInput(filepath.Join(t.TempDir(), "nope.xlsx"), config.Default())
	require.Error(t, err)
}

func TestFindColumn(t *testing.T) {
	headers := []string{" NU_PTL ", "row_seq", "XML_DATA"}
	assert.Equal(t, 0, findColumn(headers, "nu_ptl"))
	assert.Equal(t, 1, findColumn(headers, "ROW_SEQ"))
	assert.Equal(t, 2, findColumn(headers, "xml_data"))
	assert.Equal(t, -1, findColumn(headers, "OTHER"))
}
