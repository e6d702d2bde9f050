// =============================================================================
// CTOS Report Extractor - XML Sanitizer
// =============================================================================
//
// Report fragments arrive from upstream spreadsheet systems truncated,
// concatenated with trailing junk, or outright malformed. This package
// turns any input string into text a standard XML parser accepts, using a
// cascading strategy:
//
//   1. Truncate everything after the first closing </report> tag.
//   2. Strip characters illegal in XML 1.0 and trim whitespace.
//   3. Strict parse: if the text is already valid XML, return it as-is.
//   4. Lenient HTML-style repair: re-serialize whatever structure the
//      HTML parser can recover, wrapped in a synthetic root.
//   5. Last resort: escape the raw text as character data inside the
//      synthetic root.
//
// Step 5 cannot fail, so Sanitize is total: it never returns text the
// XML parser rejects and it never panics, whatever the input.
//
// =============================================================================

package sanitizer

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"
)

// SyntheticRoot is the element name used to wrap repaired or escaped
// content. The tree walker skips it transparently.
const SyntheticRoot = "ctos_xml"

// closingReportTag terminates a report document. Anything after its
// first occurrence is upstream junk and gets discarded.
const closingReportTag = "</report>"

// Sanitize returns a cleaned form of text that is guaranteed to parse as
// XML. Already-valid input with a single root element passes through
// byte-for-byte, which makes Sanitize idempotent.
func Sanitize(text string) string {
	text = truncateAfterReport(text)
	text = stripIllegalChars(text)
	text = strings.TrimSpace(text)

	if text == "" {
		return emptyDocument()
	}

	switch roots := countRoots(text); {
	case roots == 1:
		return text
	case roots > 1:
		// Valid markup, just more than one top-level element.
		return wrap(text)
	}

	if repaired, ok := lenientRepair(text); ok {
		return repaired
	}

	return wrap(escapeText(text))
}

// SanitizeAny handles cell values that may not be strings at all. Nil
// and non-string values yield an empty synthetic-root document rather
// than an error.
func SanitizeAny(v any) string {
	s, ok := v.(string)
	if !ok {
		return emptyDocument()
	}
	return Sanitize(s)
}

// truncateAfterReport discards everything after the first closing report
// tag, case-insensitively. Output produced by the sanitizer's own wrap
// paths starts with the synthetic root and is left alone, so re-running
// the cascade never re-truncates repaired text.
func truncateAfterReport(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(strings.ToLower(trimmed), "<"+SyntheticRoot) {
		return text
	}
	lower := strings.ToLower(text)
	if i := strings.Index(lower, closingReportTag); i >= 0 {
		return text[:i+len(closingReportTag)]
	}
	return text
}

// stripIllegalChars removes the control characters XML 1.0 forbids:
// 0x00-0x08, 0x0B, 0x0C and 0x0E-0x1F. Tab, LF and CR stay.
func stripIllegalChars(text string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, text)
}

// countRoots strict-parses the text and reports how many top-level
// elements it contains. A return of 0 means the parse failed.
func countRoots(text string) int {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = false
	if err := doc.ReadFromString(text); err != nil {
		return 0
	}
	n := len(doc.ChildElements())
	if n == 0 {
		// Parseable but element-free (comments, PIs, bare text).
		return 0
	}
	return n
}

// lenientRepair runs the text through the HTML parser, which recovers a
// tree from almost any tag soup, then re-serializes the recovered body
// content inside the synthetic root. The result is strict-parsed before
// being accepted: the HTML serializer emits void elements like <br>
// without a closing slash, and such output must fall through to the
// escape path instead.
func lenientRepair(text string) (string, bool) {
	node, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return "", false
	}

	body := findBody(node)
	if body == nil {
		return "", false
	}

	var buf bytes.Buffer
	for child := body.FirstChild; child != nil; child = child.NextSibling {
		if err := html.Render(&buf, child); err != nil {
			return "", false
		}
	}

	repaired := wrap(buf.String())
	if countRoots(repaired) != 1 {
		return "", false
	}
	return repaired, true
}

// findBody locates the <body> element the HTML parser synthesizes.
func findBody(node *html.Node) *html.Node {
	if node.Type == html.ElementNode && node.Data == "body" {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if body := findBody(child); body != nil {
			return body
		}
	}
	return nil
}

// escapeText renders the raw text as XML character data.
func escapeText(text string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(text)) // cannot fail on a bytes.Buffer
	return buf.String()
}

func wrap(inner string) string {
	return "<" + SyntheticRoot + ">" + inner + "</" + SyntheticRoot + ">"
}

func emptyDocument() string {
	return "<" + SyntheticRoot + "/>"
}
