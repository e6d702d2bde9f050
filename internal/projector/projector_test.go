package projector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/ctos-report-extractor/internal/types"
)

func record(field, value string) types.Record {
	return types.Record{Field: field, Value: value}
}

func bold(field, value string) types.Record {
	return types.Record{Field: field, Value: value, Bold: true}
}

func TestSchemaShapes(t *testing.T) {
	assert.Len(t, OldSheets, 3)
	assert.Len(t, NewSheets, 4)

	counts := map[string]int{}
	for _, s := range append(append([]SheetSchema{}, OldSheets...), NewSheets...) {
		counts[s.Name] = len(s.Columns)
	}
	assert.Equal(t, 14, counts["Header"])
	assert.Equal(t, 16, counts["Summary"])
	assert.Equal(t, 38, counts["Accounts"])
	assert.Equal(t, 14, counts["Profile"])
	assert.Equal(t, 24, counts["Banking"])
	assert.Equal(t, 18, counts["Legal"])
	assert.Equal(t, 15, counts["TradeRef"])

	for _, s := range OldSheets {
		assert.Equal(t, types.SentinelDash, s.Sentinel, s.Name)
	}
	for _, s := range NewSheets {
		assert.Equal(t, types.SentinelEmpty, s.Sentinel, s.Name)
	}
}

func TestSheetsFor(t *testing.T) {
	assert.Equal(t, NewSheets, SheetsFor(types.VariantNew))
	assert.Equal(t, OldSheets, SheetsFor(types.VariantOld))
	// Unknown documents route through the legacy tables.
	assert.Equal(t, OldSheets, SheetsFor(types.VariantUnknown))
}

func TestProjectOldFormat(t *testing.T) {
	records := types.RecordList{
		record("subject_name", "John"),
		record("new_ic", "900101"),
		bold("A", "-"),
		record("Record", "1"),
		record("account_no", "123"),
		record("status", "active"),
		record("Record", "2"),
		record("account_no", "456"),
	}

	sheets := Project("ACC1", records, types.VariantOld)

	// Every declared sheet present even without rows.
	require.Contains(t, sheets, "Header")
	require.Contains(t, sheets, "Summary")
	require.Contains(t, sheets, "Accounts")
	assert.Empty(t, sheets["Summary"])

	require.Len(t, sheets["Header"], 1)
	header := sheets["Header"][0]
	assert.Equal(t, "ACC1", header["account"])
	assert.Equal(t, "John", header["subject_name"])
	assert.Equal(t, "900101", header["new_ic"])
	assert.Equal(t, "-", header["dob"], "unmatched old-format column gets the dash sentinel")

	require.Len(t, sheets["Accounts"], 2)
	first := sheets["Accounts"][0]
	assert.Equal(t, "ACC1", first["account"])
	assert.Equal(t, "A", first["section"])
	assert.Equal(t, "1", first["record"])
	assert.Equal(t, "123", first["account_no"])
	assert.Equal(t, "active", first["status"])
	assert.Equal(t, "-", first["lender"])

	second := sheets["Accounts"][1]
	assert.Equal(t, "2", second["record"])
	assert.Equal(t, "456", second["account_no"])
}

func TestProjectOldFormatSummaryRouting(t *testing.T) {
	records := types.RecordList{
		bold("Summary", "-"),
		record("total_enquiries", "5"),
	}
	sheets := Project("ACC1", records, types.VariantOld)
	require.Len(t, sheets["Summary"], 1)
	assert.Equal(t, "5", sheets["Summary"][0]["total_enquiries"])
	assert.Equal(t, "Summary", sheets["Summary"][0]["section"])
}

func TestProjectNewFormat(t *testing.T) {
	records := types.RecordList{
		record("name", "Jane"),
		bold("section_b1", "-"),
		record("account_no", "777"),
		record("age_30", "10"),
		bold("section_e1", "-"),
		record("case_no", "55"),
		bold("tref_plus", "-"),
		record("account_no", "1"),
		record("", ""),
		record("account_no", "2"),
	}

	sheets := Project("ACC9", records, types.VariantNew)

	require.Len(t, sheets["Profile"], 1)
	assert.Equal(t, "Jane", sheets["Profile"][0]["name"])
	assert.Equal(t, "", sheets["Profile"][0]["dob"], "unmatched new-format column gets the empty sentinel")

	require.Len(t, sheets["Banking"], 1)
	assert.Equal(t, "777", sheets["Banking"][0]["account_no"])
	assert.Equal(t, "10", sheets["Banking"][0]["age_30"])
	assert.Equal(t, "section_b1", sheets["Banking"][0]["section"])

	require.Len(t, sheets["Legal"], 1)
	assert.Equal(t, "55", sheets["Legal"][0]["case_no"])

	// The blank marker splits trade-reference enquiries into rows.
	require.Len(t, sheets["TradeRef"], 2)
	assert.Equal(t, "1", sheets["TradeRef"][0]["account_no"])
	assert.Equal(t, "2", sheets["TradeRef"][1]["account_no"])
}

func TestProjectUnmatchedGroupProducesNoRow(t *testing.T) {
	records := types.RecordList{
		bold("A", "-"),
		record("Record", "1"),
		record("unmapped_field", "x"),
	}
	sheets := Project("ACC1", records, types.VariantOld)
	assert.Empty(t, sheets["Accounts"])
}

func TestProjectAgeColumnsPresentOnBankingSheets(t *testing.T) {
	columnSet := func(schema SheetSchema) map[string]bool {
		set := map[string]bool{}
		for _, c := range schema.Columns {
			set[c] = true
		}
		return set
	}
	for _, s := range []SheetSchema{OldSheets[2], NewSheets[1], NewSheets[3]} {
		cols := columnSet(s)
		for _, age := range ageColumns {
			assert.True(t, cols[age], "%s missing %s", s.Name, age)
		}
	}
}
