package classmate

import (
	"regexp"
	"strings"
)

// attrValueRE recognizes class/className/id attribute assignments with a
// quoted value, double or single. Group 1 is the attribute name, group 2 a
// double-quoted value, group 3 a single-quoted one. Extraction is lexical on
// purpose: documents are edited live and frequently syntactically incomplete,
// so anything that does not match is simply not an identifier yet.
var attrValueRE = regexp.MustCompile(`\b(className|class|id)\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// emptyAttrTailRE matches an attribute with an empty quoted value at the very
// end of a text window, the shape left behind when a closing quote has just
// been typed.
var emptyAttrTailRE = regexp.MustCompile(`\b(className|class|id)\s*=\s*(""|'')$`)

// closingQuoteWindow bounds the backward search for an attribute opened by an
// earlier keystroke. Long enough for "className  =  ''" with stray spacing.
const closingQuoteWindow = 64

// Extract lexically pulls every identifier occurrence out of a document.
// Whitespace-separated class lists yield one class record per token; id
// values are never split. Malformed markup cannot fail extraction.
func Extract(doc *Document) []Record {
	text := doc.Text()
	var records []Record
	for _, m := range attrValueRE.FindAllStringSubmatchIndex(text, -1) {
		attr := text[m[2]:m[3]]
		vs, ve := m[4], m[5]
		if vs < 0 {
			vs, ve = m[6], m[7]
		}
		value := text[vs:ve]
		if attr == "id" {
			if value == "" {
				continue
			}
			line, col := doc.PositionAt(vs)
			records = append(records, Record{
				Name:     value,
				Kind:     KindID,
				Location: Location{Path: doc.Path(), Line: line, Column: col},
			})
			continue
		}
		for _, tok := range splitClassList(value) {
			line, col := doc.PositionAt(vs + tok.offset)
			records = append(records, Record{
				Name:     tok.text,
				Kind:     KindClass,
				Location: Location{Path: doc.Path(), Line: line, Column: col},
			})
		}
	}
	return records
}

// classToken is one whitespace-delimited entry of a class list, with its
// offset inside the attribute value.
type classToken struct {
	text   string
	offset int
}

func splitClassList(value string) []classToken {
	var toks []classToken
	i := 0
	for i < len(value) {
		if isSpace(value[i]) {
			i++
			continue
		}
		j := i
		for j < len(value) && !isSpace(value[j]) {
			j++
		}
		toks = append(toks, classToken{text: value[i:j], offset: i})
		i = j
	}
	return toks
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// attrSite is one empty attribute value a trigger can fill. The offset sits
// between the quotes.
type attrSite struct {
	attr   string
	offset int
}

// triggerSites locates the empty-attribute insertion points produced by one
// text change: every attr=""/attr='' contained in the inserted text itself,
// or, when the inserted text is a lone quote, the attribute it just closed.
// Sites are returned in ascending offset order.
func triggerSites(doc *Document, offset int, inserted string) []attrSite {
	text := doc.Text()
	if offset < 0 || offset+len(inserted) > len(text) {
		return nil // stale change report, document moved on
	}
	span := text[offset : offset+len(inserted)]

	var sites []attrSite
	for _, m := range attrValueRE.FindAllStringSubmatchIndex(span, -1) {
		vs, ve := m[4], m[5]
		if vs < 0 {
			vs, ve = m[6], m[7]
		}
		if vs != ve {
			continue // value already filled, never overwrite
		}
		sites = append(sites, attrSite{
			attr:   span[m[2]:m[3]],
			offset: offset + vs,
		})
	}
	if len(sites) > 0 {
		return sites
	}

	// A single typed quote may have closed an attribute opened by a prior
	// keystroke; the pattern then ends exactly at the typed character.
	if inserted != `"` && inserted != `'` {
		return nil
	}
	end := offset + 1
	start := end - closingQuoteWindow
	if start < 0 {
		start = 0
	}
	window := text[start:end]
	m := emptyAttrTailRE.FindStringSubmatchIndex(window)
	if m == nil {
		return nil
	}
	return []attrSite{{attr: window[m[2]:m[3]], offset: offset}}
}

// enclosingTagName scans backward from offset for the nearest unclosed
// element open tag and returns its name, or "" when the position is not
// inside one. Closing tags, comments and doctypes yield "".
func enclosingTagName(text string, offset int) string {
	if offset > len(text) {
		offset = len(text)
	}
	lt := strings.LastIndexByte(text[:offset], '<')
	if lt < 0 {
		return ""
	}
	seg := text[lt+1 : offset]
	if strings.ContainsRune(seg, '>') {
		return "" // that tag closed before the offset
	}
	end := 0
	for end < len(seg) {
		c := seg[end]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			end++
			continue
		}
		if end > 0 && (c >= '0' && c <= '9' || c == '-') {
			end++
			continue
		}
		break
	}
	return seg[:end]
}
