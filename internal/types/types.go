// =============================================================================
// CTOS Report Extractor - Shared Types
// =============================================================================
//
// This package holds the small value types shared by the extraction
// pipeline. Keeping them in their own package avoids import cycles between
// the combiner, the classifier, the extractor and the projector.
//
// =============================================================================

package types

import "strings"

// Fragment is one raw XML blob read from one input row. It is never
// mutated after construction; the combiner consumes fragments and
// produces combined document text.
type Fragment struct {
	// Account is the normalized account key the fragment belongs to.
	Account string

	// Seq is the row-sequence key used to order fragments that belong
	// to the same account. Rows without a sequence column all carry 0.
	Seq int

	// XML is the raw cell text. May be malformed, truncated, or not
	// XML at all.
	XML string
}

// Record is one (field, value) pair in the flattened extraction output.
// Bold marks section-boundary rows for display consumers.
type Record struct {
	Field string
	Value string
	Bold  bool
}

// RecordList is the ordered extraction output for one account.
// Field names repeat freely; repeated "Record" entries mark record
// boundaries in the flattened list.
type RecordList []Record

// Append adds a plain record.
func (r *RecordList) Append(field, value string) {
	*r = append(*r, Record{Field: field, Value: value})
}

// AppendBold adds a section-marker record.
func (r *RecordList) AppendBold(field, value string) {
	*r = append(*r, Record{Field: field, Value: value, Bold: true})
}

// Variant identifies which report layout a combined document follows.
type Variant int

const (
	// VariantUnknown means no signature tag matched. Extraction still
	// runs through the generic tag-dispatch rules.
	VariantUnknown Variant = iota

	// VariantOld is the legacy section/record/data layout.
	VariantOld

	// VariantNew is the per-letter-section layout.
	VariantNew
)

// String returns the variant name used in logs and sheet routing.
func (v Variant) String() string {
	switch v {
	case VariantOld:
		return "OLD"
	case VariantNew:
		return "NEW"
	default:
		return "UNKNOWN"
	}
}

// Sentinels for absent values. The two spellings are both contractual:
// display records and old-format sheets use the dash, new-format sheets
// use the empty string. Callers pick per path; nothing unifies them.
const (
	SentinelDash  = "-"
	SentinelEmpty = ""
)

// AgeBuckets is the canonical fixed-width aging vector. Every age field
// expands to exactly these seven buckets in exactly this order, with
// missing buckets backfilled with SentinelDash.
var AgeBuckets = []string{"30", "60", "90", "120", "150", "180", "210"}

// NormalizeAccountKey trims surrounding whitespace and collapses
// multi-part identifiers by cutting at the first underscore, so
// "ACC1_2" and "ACC1_7" group under the one logical account "ACC1".
// Case is preserved.
func NormalizeAccountKey(raw string) string {
	key := strings.TrimSpace(raw)
	if i := strings.Index(key, "_"); i >= 0 {
		key = key[:i]
	}
	return key
}
