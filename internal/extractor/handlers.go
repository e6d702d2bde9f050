// =============================================================================
// CTOS Report Extractor - Section Handlers
// =============================================================================
//
// One handler per section shape. Field names emitted here are
// contractual: the export projector's column schemas match on them, so
// renaming a field silently empties a workbook column.
//
// =============================================================================

package extractor

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/ginjaninja78/ctos-report-extractor/internal/types"
)

// handleReport emits the report identifier when the container carries an
// id attribute, then recurses with the field as path prefix. The prefix
// is not consumed by flattening today but downstream grouping relies on
// it being threaded through.
func (w *Walker) handleReport(el *etree.Element, ctx *walkContext) bool {
	prefix := ctx.prefix
	if id := strings.TrimSpace(el.SelectAttrValue("id", "")); id != "" {
		emit(ctx, "Report", id)
		prefix = joinPrefix(ctx.prefix, "Report")
	}
	sub := &walkContext{out: ctx.out, prefix: prefix}
	for _, child := range el.ChildElements() {
		w.walk(child, sub)
	}
	return true
}

// handleHeader emits each immediate child as (tag, text) unless the
// block nests a secondary enquiry report, in which case the header is a
// pure pass-through wrapper.
func (w *Walker) handleHeader(el *etree.Element, ctx *walkContext) bool {
	if hasDescendant(el, "enq_report") {
		for _, child := range el.ChildElements() {
			w.walk(child, ctx)
		}
		return true
	}
	for _, child := range el.ChildElements() {
		emit(ctx, child.Tag, elementText(child))
	}
	return true
}

// handleSummary extracts the denormalized name/value list. Descendant
// elements exposing an explicit name attribute take priority; only when
// none exist does the plain nested-child variant apply.
func (w *Walker) handleSummary(el *etree.Element, ctx *walkContext) bool {
	var named []*etree.Element
	var collect func(e *etree.Element)
	collect = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if strings.TrimSpace(child.SelectAttrValue("name", "")) != "" {
				named = append(named, child)
			}
			collect(child)
		}
	}
	collect(el)

	if len(named) > 0 {
		for _, item := range named {
			emit(ctx, item.SelectAttrValue("name", ""), elementText(item))
		}
		return true
	}
	for _, child := range el.ChildElements() {
		emit(ctx, child.Tag, elementText(child))
	}
	return true
}

// handleSection emits the bold section-boundary marker and recurses
// with the title as the path context. Legacy documents label sections
// with an id attribute instead of a title.
func (w *Walker) handleSection(el *etree.Element, ctx *walkContext) bool {
	title := attrOr(el, "title", attrOr(el, "id", el.Tag))
	ctx.out.AppendBold(title, types.SentinelDash)

	sub := &walkContext{out: ctx.out, prefix: joinPrefix(ctx.prefix, title)}
	for _, child := range el.ChildElements() {
		w.walk(child, sub)
	}
	return true
}

// handleRecord emits the record-boundary marker and recurses.
func (w *Walker) handleRecord(el *etree.Element, ctx *walkContext) bool {
	emit(ctx, "Record", attrOr(el, "seq", types.SentinelDash))
	for _, child := range el.ChildElements() {
		w.walk(child, ctx)
	}
	return true
}

// handleData emits one generic leaf-data field. The display name
// prefers the caption attribute over the name attribute over the tag.
// The age field is special: it always expands to the seven fixed aging
// buckets so downstream consumers see a fixed-width vector.
func (w *Walker) handleData(el *etree.Element, ctx *walkContext) bool {
	name := attrOr(el, "caption", attrOr(el, "name", el.Tag))

	if strings.EqualFold(name, "age") {
		expandAge(el, ctx)
		return true
	}

	children := el.ChildElements()
	if len(children) == 0 {
		emit(ctx, name, elementText(el))
		return true
	}
	sub := &walkContext{out: ctx.out, prefix: joinPrefix(ctx.prefix, name)}
	for _, child := range children {
		w.walk(child, sub)
	}
	return true
}

// expandAge emits exactly the seven canonical buckets in order. Source
// buckets are matched by period attribute, name attribute, or trailing
// digits of the child tag; buckets absent from the source are
// backfilled with the dash sentinel.
func expandAge(el *etree.Element, ctx *walkContext) {
	present := make(map[string]string, len(types.AgeBuckets))
	for _, child := range el.ChildElements() {
		bucket := strings.TrimSpace(child.SelectAttrValue("period", ""))
		if bucket == "" {
			bucket = strings.TrimSpace(child.SelectAttrValue("name", ""))
		}
		if bucket == "" {
			bucket = trailingDigits(child.Tag)
		}
		if bucket != "" {
			present[bucket] = elementText(child)
		}
	}
	for _, bucket := range types.AgeBuckets {
		value := present[bucket]
		if value == "" {
			value = types.SentinelDash
		}
		ctx.out.Append("age_"+bucket, value)
	}
}

// trailingDigits returns the digit suffix of a tag like "month_90".
func trailingDigits(tag string) string {
	i := len(tag)
	for i > 0 && tag[i-1] >= '0' && tag[i-1] <= '9' {
		i--
	}
	return tag[i:]
}

// sectionMarker emits the bold boundary record that opens a new-format
// section in the flattened display list and routes rows during export.
func sectionMarker(el *etree.Element, ctx *walkContext) {
	ctx.out.AppendBold(strings.ToLower(el.Tag), types.SentinelDash)
}

// handleFlatSection flattens one level of nested sub-groups: a child
// group's fields are emitted as parent_child (action + date becomes
// action_date). Leaf children emit as themselves.
func (w *Walker) handleFlatSection(el *etree.Element, ctx *walkContext) bool {
	sectionMarker(el, ctx)
	flattenOneLevel(el, ctx)
	return true
}

// handleDeepSection flattens the directorship-style section to
// arbitrary depth with underscore-joined paths.
func (w *Walker) handleDeepSection(el *etree.Element, ctx *walkContext) bool {
	sectionMarker(el, ctx)
	for _, child := range el.ChildElements() {
		flattenDeep(child, "", ctx)
	}
	return true
}

// handleIndexedSection flattens the litigation-style section. Its
// other_party children form an indexed list of sub-records, each field
// prefixed with the parent field and the sub-record's own sequence
// number; everything else flattens one level.
func (w *Walker) handleIndexedSection(el *etree.Element, ctx *walkContext) bool {
	sectionMarker(el, ctx)
	partyIndex := 0
	for _, child := range el.ChildElements() {
		if strings.ToLower(child.Tag) == "other_party" {
			partyIndex++
			flattenIndexed(child, partyIndex, ctx)
			continue
		}
		flattenChild(child, ctx)
	}
	return true
}

// handleTradeRef walks the trade-reference enquiry list. Each enquiry
// becomes its own sub-group: account number first, then the
// relationship, account-status and contact subsections, with the age
// vector expanded inside account-status. A blank marker row separates
// consecutive enquiries in the flattened output.
func (w *Walker) handleTradeRef(el *etree.Element, ctx *walkContext) bool {
	sectionMarker(el, ctx)
	first := true
	for _, enq := range el.ChildElements() {
		if strings.ToLower(enq.Tag) != "enquiry" {
			continue
		}
		if !first {
			ctx.out.Append("", "")
		}
		first = false

		if acc := childByTag(enq, "account_no"); acc != nil {
			emit(ctx, "account_no", elementText(acc))
		}
		for _, sub := range []string{"relationship", "account_status", "contact"} {
			group := childByTag(enq, sub)
			if group == nil {
				continue
			}
			for _, field := range group.ChildElements() {
				if strings.EqualFold(field.Tag, "age") {
					expandAge(field, ctx)
					continue
				}
				emit(ctx, field.Tag, elementText(field))
			}
		}
	}
	return true
}

// =============================================================================
// Flattening strategies
// =============================================================================

// flattenOneLevel applies the one-level strategy to every child of el.
func flattenOneLevel(el *etree.Element, ctx *walkContext) {
	for _, child := range el.ChildElements() {
		flattenChild(child, ctx)
	}
}

// flattenChild emits a leaf child directly, or a sub-group's fields
// prefixed with the group name. Nesting below one level is not
// descended; the sub-field's whole text is taken as the value.
func flattenChild(child *etree.Element, ctx *walkContext) {
	grandchildren := child.ChildElements()
	if len(grandchildren) == 0 {
		emit(ctx, child.Tag, elementText(child))
		return
	}
	for _, sub := range grandchildren {
		emit(ctx, child.Tag+"_"+sub.Tag, elementText(sub))
	}
}

// flattenDeep recursively emits every leaf under el with the full
// underscore-joined path.
func flattenDeep(el *etree.Element, prefix string, ctx *walkContext) {
	children := el.ChildElements()
	if len(children) == 0 {
		emit(ctx, joinPrefix(prefix, el.Tag), elementText(el))
		return
	}
	for _, child := range children {
		flattenDeep(child, joinPrefix(prefix, el.Tag), ctx)
	}
}

// flattenIndexed emits a sub-record's fields as parent_N_field, using
// the sub-record's own seq attribute when present and the 1-based list
// position otherwise.
func flattenIndexed(party *etree.Element, position int, ctx *walkContext) {
	index := strings.TrimSpace(party.SelectAttrValue("seq", ""))
	if index == "" {
		index = strconv.Itoa(position)
	}
	for _, field := range party.ChildElements() {
		emit(ctx, party.Tag+"_"+index+"_"+field.Tag, elementText(field))
	}
}
