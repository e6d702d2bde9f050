// =============================================================================
// CTOS Report Extractor - Numeric Identifier Repair
// =============================================================================
//
// Upstream spreadsheets store long account and reference numbers as
// floats, so a 12-digit account number arrives as "4.5E+11". The repair
// renormalizes such values to their exact integer string form. It is
// applied only to the designated identifier fields, never globally: a
// genuine measurement field is allowed to stay in scientific notation.
//
// =============================================================================

package extractor

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// identifierFields are the field names subject to renormalization.
// Prefixed emissions ("other_party_1_ref_no") match on their final
// segment.
var identifierFields = map[string]bool{
	"account_no": true,
	"acct_no":    true,
	"ref_no":     true,
	"enq_no":     true,
	"old_ic":     true,
	"new_ic":     true,
}

// scientificPattern matches a complete scientific-notation literal.
var scientificPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?[eE][+-]?\d+$`)

// isIdentifierField reports whether a field name, or its final
// underscore-separated segment, names a numeric identifier.
func isIdentifierField(field string) bool {
	field = strings.ToLower(field)
	if identifierFields[field] {
		return true
	}
	for name := range identifierFields {
		if strings.HasSuffix(field, "_"+name) {
			return true
		}
	}
	return false
}

// RenormalizeNumber converts a scientific-notation value to its exact
// plain string form: "4.5E+11" becomes "450000000000". Values that are
// not scientific notation, or fail to parse, pass through untouched.
func RenormalizeNumber(value string) string {
	trimmed := strings.TrimSpace(value)
	if !scientificPattern.MatchString(trimmed) {
		return value
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return value
	}
	return d.String()
}
