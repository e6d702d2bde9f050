// =============================================================================
// CTOS Report Extractor - Tabular Projector
// =============================================================================
//
// The projector maps a flattened record stream onto fixed-column sheet
// rows for export. Old-format and new-format layouts carry independent
// schema tables: column counts, column names and even the absent-value
// sentinel differ between the two ("-" on old sheets, "" on new sheets),
// and that asymmetry is contractual, not something to normalize away.
//
// Routing works off the boundary markers the extractor emits: a bold
// marker opens a section, a "Record" marker or a blank marker opens a
// new row group inside the current section.
//
// =============================================================================

package projector

import (
	"strings"

	"github.com/ginjaninja78/ctos-report-extractor/internal/types"
)

// Row is one projected sheet row, keyed by column name. Rows are never
// mutated after they are appended to a sheet.
type Row map[string]string

// SheetSchema is one sheet's fixed, ordered column list plus the
// sentinel used for columns no record field matched.
type SheetSchema struct {
	Name     string
	Columns  []string
	Sentinel string
}

// ageColumns is the fixed-width aging vector present on several sheets.
var ageColumns = []string{
	"age_30", "age_60", "age_90", "age_120", "age_150", "age_180", "age_210",
}

// OldSheets is the legacy-format schema table. 14, 16 and 38 columns.
var OldSheets = []SheetSchema{
	{
		Name:     "Header",
		Sentinel: types.SentinelDash,
		Columns: []string{
			"account", "report", "report_no", "report_date", "subject_name",
			"old_ic", "new_ic", "nationality", "dob", "address", "phone",
			"source", "status", "remarks",
		},
	},
	{
		Name:     "Summary",
		Sentinel: types.SentinelDash,
		Columns: []string{
			"account", "section", "total_enquiries", "total_litigation",
			"total_banking", "total_trade", "bankruptcy", "special_attention",
			"earliest_known", "latest_known", "enq_date", "report_no",
			"facility_count", "outstanding_total", "arrears_total", "remarks",
		},
	},
	{
		Name:     "Accounts",
		Sentinel: types.SentinelDash,
		Columns: append([]string{
			"account", "section", "record", "account_no", "acct_no", "ref_no",
			"status", "capacity", "lender", "branch", "facility",
			"account_type", "limit", "outstanding", "instalment", "arrears",
			"tenure", "start_date", "end_date", "update_date", "approval_date",
			"last_payment_date", "settlement_date", "legal_status",
			"legal_date", "restructure_date", "currency", "collateral",
			"repayment_term", "position", "remarks",
		}, ageColumns...),
	},
}

// NewSheets is the new-format schema table. 14, 24, 18 and 15 columns.
var NewSheets = []SheetSchema{
	{
		Name:     "Profile",
		Sentinel: types.SentinelEmpty,
		Columns: []string{
			"account", "name", "new_ic", "old_ic", "dob", "nationality",
			"gender", "address", "phone", "email", "enq_no", "enq_date",
			"source", "remarks",
		},
	},
	{
		Name:     "Banking",
		Sentinel: types.SentinelEmpty,
		Columns: append([]string{
			"account", "section", "account_no", "lender", "facility",
			"capacity", "status", "limit", "outstanding", "instalment",
			"arrears_amount", "arrears_month", "start_date", "update_date",
			"legal_status", "legal_date", "currency",
		}, ageColumns...),
	},
	{
		Name:     "Legal",
		Sentinel: types.SentinelEmpty,
		Columns: []string{
			"account", "section", "case_no", "court", "case_type",
			"plaintiff", "defendant", "amount", "filed_date", "hearing_date",
			"status", "settlement_date", "lawyer", "other_party_1_name",
			"other_party_1_capacity", "other_party_2_name",
			"other_party_2_capacity", "remarks",
		},
	},
	{
		Name:     "TradeRef",
		Sentinel: types.SentinelEmpty,
		Columns: append([]string{
			"account", "section", "account_no", "relationship", "status",
			"debt_amount", "contact", "remarks",
		}, ageColumns...),
	},
}

// SheetsFor returns the schema table for a variant. Unknown documents
// route through the legacy table, mirroring the generic extraction path.
func SheetsFor(v types.Variant) []SheetSchema {
	if v == types.VariantNew {
		return NewSheets
	}
	return OldSheets
}

// newSectionSheet routes a new-format section tag to its sheet.
var newSectionSheet = map[string]string{
	"section_a1": "Profile",
	"section_a2": "Profile",
	"section_b1": "Banking",
	"section_c1": "Banking",
	"section_c2": "Banking",
	"history":    "Banking",
	"section_d1": "Legal",
	"section_d2": "Legal",
	"section_e1": "Legal",
	"tref_plus":  "TradeRef",
}

// group is one row's worth of extracted fields.
type group struct {
	section string
	record  string
	fields  []types.Record
}

// Project distributes one account's record stream across the variant's
// sheets. Every declared sheet is present in the result, possibly with
// zero rows; the workbook writer supplies placeholder rows.
func Project(account string, records types.RecordList, variant types.Variant) map[string][]Row {
	schemas := SheetsFor(variant)

	sheets := make(map[string][]Row, len(schemas))
	index := make(map[string]SheetSchema, len(schemas))
	for _, schema := range schemas {
		sheets[schema.Name] = []Row{}
		index[schema.Name] = schema
	}

	for _, g := range groupRecords(records) {
		name := routeGroup(g, variant, schemas)
		schema, ok := index[name]
		if !ok {
			continue
		}
		if row, ok := buildRow(account, g, schema); ok {
			sheets[name] = append(sheets[name], row)
		}
	}
	return sheets
}

// groupRecords splits the stream at section, record and blank markers.
func groupRecords(records types.RecordList) []group {
	var groups []group
	current := group{}
	flush := func() {
		if len(current.fields) > 0 || current.record != "" {
			groups = append(groups, current)
		}
	}

	for _, r := range records {
		switch {
		case r.Bold:
			flush()
			current = group{section: r.Field}
		case r.Field == "Record":
			section := current.section
			flush()
			current = group{section: section, record: r.Value}
		case r.Field == "" && r.Value == "":
			section := current.section
			flush()
			current = group{section: section}
		default:
			current.fields = append(current.fields, r)
		}
	}
	flush()
	return groups
}

// routeGroup picks the destination sheet for one group.
func routeGroup(g group, variant types.Variant, schemas []SheetSchema) string {
	if variant == types.VariantNew {
		if name, ok := newSectionSheet[strings.ToLower(g.section)]; ok {
			return name
		}
		// Preamble fields (header/summary emissions) describe the subject.
		return "Profile"
	}

	if g.section == "" {
		return "Header"
	}
	if strings.Contains(strings.ToLower(g.section), "summ") {
		return "Summary"
	}
	return "Accounts"
}

// buildRow copies matched fields into the schema's named slots. A group
// matching no data column produces no row.
func buildRow(account string, g group, schema SheetSchema) (Row, bool) {
	row := make(Row, len(schema.Columns))
	for _, col := range schema.Columns {
		row[col] = schema.Sentinel
	}

	columns := make(map[string]string, len(schema.Columns))
	for _, col := range schema.Columns {
		columns[strings.ToLower(col)] = col
	}

	matched := 0
	for _, r := range g.fields {
		if col, ok := columns[strings.ToLower(r.Field)]; ok {
			row[col] = r.Value
			matched++
		}
	}
	if matched == 0 {
		return nil, false
	}

	if _, ok := columns["account"]; ok {
		row["account"] = account
	}
	if col, ok := columns["section"]; ok && g.section != "" {
		row[col] = g.section
	}
	if col, ok := columns["record"]; ok && g.record != "" {
		row[col] = g.record
	}
	return row, true
}
