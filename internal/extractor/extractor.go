// =============================================================================
// CTOS Report Extractor - Tree Walker
// =============================================================================
//
// The walker converts a sanitized report document into the ordered flat
// list of (field, value) records the display grid and the export
// projector consume. Traversal is depth-first pre-order over element
// nodes; dispatch is a tag-name lookup table so each section shape gets
// its own handler while unknown tags fall through to a generic rule.
//
// Flattening comes in three reusable strategies shared by the handlers:
// one-level flattening with underscore-joined names, arbitrary-depth
// flattening for directorship-style sections, and indexed sub-record
// flattening for litigation-style sections. See handlers.go.
//
// =============================================================================

package extractor

import (
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/ginjaninja78/ctos-report-extractor/internal/sanitizer"
	"github.com/ginjaninja78/ctos-report-extractor/internal/types"
)

// skipTags are wrapper elements the walker descends through without
// emitting anything: the sanitizer's synthetic root and the structural
// wrappers the lenient HTML repair pass can introduce.
var skipTags = map[string]bool{
	sanitizer.SyntheticRoot: true,
	"html":                  true,
	"head":                  true,
	"body":                  true,
	"p":                     true,
}

// handler processes one element. It returns true when it consumed the
// element's subtree; returning false lets the walker continue into the
// children with the generic rules.
type handler func(w *Walker, el *etree.Element, ctx *walkContext) bool

// walkContext carries the accumulated output and the current path
// prefix down the traversal.
type walkContext struct {
	out    *types.RecordList
	prefix string
}

// Walker is a reusable, stateless extraction engine. Safe for
// sequential reuse across accounts; per-document state lives in the
// walk context.
type Walker struct {
	log      *zap.Logger
	handlers map[string]handler
}

// New builds a walker with the full tag-dispatch table.
func New(log *zap.Logger) *Walker {
	w := &Walker{log: log}
	w.handlers = map[string]handler{
		// Legacy layout.
		"report":     (*Walker).handleReport,
		"enq_report": (*Walker).handleReport,
		"header":     (*Walker).handleHeader,
		"summary":    (*Walker).handleSummary,
		"section":    (*Walker).handleSection,
		"record":     (*Walker).handleRecord,
		"data":       (*Walker).handleData,

		// Newer per-letter layout.
		"section_a1": (*Walker).handleFlatSection,
		"section_a2": (*Walker).handleFlatSection,
		"section_b1": (*Walker).handleFlatSection,
		"section_c1": (*Walker).handleFlatSection,
		"section_c2": (*Walker).handleFlatSection,
		"history":    (*Walker).handleFlatSection,
		"section_d1": (*Walker).handleDeepSection,
		"section_d2": (*Walker).handleDeepSection,
		"section_e1": (*Walker).handleIndexedSection,
		"tref_plus":  (*Walker).handleTradeRef,
		"enq_sum":    (*Walker).handleSummary,

		// Export-path signature tag; same denormalized shape as summary.
		"section_summ": (*Walker).handleSummary,
	}
	return w
}

// Extract walks a sanitized document and returns the flattened record
// list. It never returns an error: if the text still refuses to parse,
// the result is a single diagnostic record carrying the parser message.
func (w *Walker) Extract(xmlText string) types.RecordList {
	out := types.RecordList{}

	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromString(xmlText); err != nil {
		w.log.Warn("document unparseable at extraction time", zap.Error(err))
		out.Append("Error", err.Error())
		return out
	}

	ctx := &walkContext{out: &out}
	for _, root := range doc.ChildElements() {
		w.walk(root, ctx)
	}
	return out
}

// walk dispatches one element through the handler table.
func (w *Walker) walk(el *etree.Element, ctx *walkContext) {
	tag := strings.ToLower(el.Tag)

	if skipTags[tag] {
		for _, child := range el.ChildElements() {
			w.walk(child, ctx)
		}
		return
	}

	if h, ok := w.handlers[tag]; ok {
		if h(w, el, ctx) {
			return
		}
	}
	w.generic(el, ctx)
}

// generic is the fallback rule shared by both layouts: leaf elements
// emit (tag, text), container elements recurse.
func (w *Walker) generic(el *etree.Element, ctx *walkContext) {
	children := el.ChildElements()
	if len(children) == 0 {
		emit(ctx, el.Tag, elementText(el))
		return
	}
	for _, child := range children {
		w.walk(child, ctx)
	}
}

// emit appends one record, applying the numeric-identifier repair and
// the display sentinel for absent values.
func emit(ctx *walkContext, field, value string) {
	if value == "" {
		value = types.SentinelDash
	}
	if isIdentifierField(field) {
		value = RenormalizeNumber(value)
	}
	ctx.out.Append(field, value)
}

// elementText returns the element's own trimmed text content.
func elementText(el *etree.Element) string {
	return strings.TrimSpace(el.Text())
}

// attrOr returns the named attribute's trimmed value, or fallback when
// the attribute is missing or blank.
func attrOr(el *etree.Element, name, fallback string) string {
	if v := strings.TrimSpace(el.SelectAttrValue(name, "")); v != "" {
		return v
	}
	return fallback
}

// hasDescendant reports whether any descendant element carries the
// given lowercased tag.
func hasDescendant(el *etree.Element, tag string) bool {
	for _, child := range el.ChildElements() {
		if strings.ToLower(child.Tag) == tag || hasDescendant(child, tag) {
			return true
		}
	}
	return false
}

// childByTag returns the first immediate child with the lowercased tag.
func childByTag(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if strings.ToLower(child.Tag) == tag {
			return child
		}
	}
	return nil
}

// joinPrefix joins a path prefix and a field name with an underscore.
func joinPrefix(prefix, field string) string {
	if prefix == "" {
		return field
	}
	return prefix + "_" + field
}
