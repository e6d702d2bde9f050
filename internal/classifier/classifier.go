// =============================================================================
// CTOS Report Extractor - Schema Classifier
// =============================================================================
//
// Two structurally different report layouts coexist upstream: the legacy
// layout built from generic <section>/<record>/<data> elements and the
// newer layout with dedicated per-letter section tags. The classifier
// inspects a cleaned document for signature tags and routes it to OLD,
// NEW or UNKNOWN.
//
// The display-refresh path and the export path historically used slightly
// different signature sets. That drift is deliberate here: the two sets
// live side by side as DisplaySignature and ExportSignature and must not
// be merged without product-owner confirmation.
//
// =============================================================================

package classifier

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/ginjaninja78/ctos-report-extractor/internal/types"
)

// newLayoutTags are the signature tags common to both classification
// paths. Any one of them marks a document as NEW.
var newLayoutTags = []string{
	"section_a1",
	"section_a2",
	"section_b1",
	"section_c1",
	"section_c2",
	"section_d1",
	"section_d2",
	"section_e1",
	"history",
}

// oldLayoutTags mark the legacy layout. OLD only wins when no NEW
// signature tag is present: transitional documents carry legacy wrapper
// tags around new content and must route as NEW.
var oldLayoutTags = []string{"section", "record", "data"}

// perfectMarkerTags identify an authoritative report document, as
// opposed to a synthetic-root wrapper around recovered scraps.
var perfectMarkerTags = []string{"report", "enq_report"}

// Signature is one named signature-tag set. Classify routes a document
// using exactly this set's tags.
type Signature struct {
	// Name labels the set in logs ("display" or "export").
	Name string

	// ExtraNewTags extends the shared NEW set for this path only.
	ExtraNewTags []string
}

// DisplaySignature is the tag set the display-refresh path uses.
var DisplaySignature = Signature{
	Name:         "display",
	ExtraNewTags: []string{"tref_plus", "enq_sum"},
}

// ExportSignature is the tag set the export path uses.
var ExportSignature = Signature{
	Name:         "export",
	ExtraNewTags: []string{"section_summ"},
}

// Classify inspects xmlText for this signature set's tags. It never
// fails: unparseable input falls back to a raw text scan, and documents
// matching neither set come back as VariantUnknown.
func (s Signature) Classify(xmlText string) types.Variant {
	tags := collectTags(xmlText)

	for _, tag := range newLayoutTags {
		if tags[tag] {
			return types.VariantNew
		}
	}
	for _, tag := range s.ExtraNewTags {
		if tags[tag] {
			return types.VariantNew
		}
	}
	for _, tag := range oldLayoutTags {
		if tags[tag] {
			return types.VariantOld
		}
	}
	return types.VariantUnknown
}

// HasPerfectMarker reports whether the document contains a primary
// report or enquiry root element. Used by fragment selection to prefer
// authoritative documents over repaired wrappers.
func HasPerfectMarker(xmlText string) bool {
	tags := collectTags(xmlText)
	for _, tag := range perfectMarkerTags {
		if tags[tag] {
			return true
		}
	}
	return false
}

// collectTags gathers the lowercased element names present in the
// document. If the text does not parse even permissively, a crude
// string scan stands in so classification stays total.
func collectTags(xmlText string) map[string]bool {
	tags := make(map[string]bool)

	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromString(xmlText); err != nil {
		scanTags(xmlText, tags)
		return tags
	}

	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		tags[strings.ToLower(el.Tag)] = true
		for _, child := range el.ChildElements() {
			walk(child)
		}
	}
	for _, root := range doc.ChildElements() {
		walk(root)
	}
	if len(tags) == 0 {
		scanTags(xmlText, tags)
	}
	return tags
}

// scanTags extracts plausible opening-tag names from raw text.
func scanTags(text string, tags map[string]bool) {
	lower := strings.ToLower(text)
	for i := 0; i < len(lower); i++ {
		if lower[i] != '<' {
			continue
		}
		j := i + 1
		for j < len(lower) && (isTagChar(lower[j])) {
			j++
		}
		if j > i+1 {
			tags[lower[i+1:j]] = true
		}
	}
}

func isTagChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}
