package classmate

import (
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// SelectorSet holds the class and id selector names defined in a stylesheet.
// Completion uses it to mark candidates that already have a rule.
type SelectorSet struct {
	classes map[string]struct{}
	ids     map[string]struct{}
}

// Has reports whether a selector of the given kind is defined.
func (s SelectorSet) Has(kind Kind, name string) bool {
	if kind == KindID {
		_, ok := s.ids[name]
		return ok
	}
	_, ok := s.classes[name]
	return ok
}

// Classes returns the distinct class selector names, sorted.
func (s SelectorSet) Classes() []string { return sortedKeys(s.classes) }

// IDs returns the distinct id selector names, sorted.
func (s SelectorSet) IDs() []string { return sortedKeys(s.ids) }

// ScanStylesheet lexes css text and collects every `.class` and `#id`
// selector. The lexer never fails: malformed css mid-edit tokenizes oddly
// and simply contributes fewer selectors.
//
// Hash tokens double as hex colors inside declaration values, so collection
// pauses between a ':' and the ';' or brace that ends the value. That also
// skips selectors behind a pseudo-class colon, a rarity worth the trade.
func ScanStylesheet(text string) SelectorSet {
	set := SelectorSet{
		classes: make(map[string]struct{}),
		ids:     make(map[string]struct{}),
	}

	lexer := css.NewLexer(parse.NewInputString(text))
	inValue := false
	for {
		tt, data := lexer.Next()
		switch tt {
		case css.ErrorToken:
			// EOF or an unreadable byte, either way the scan is done.
			return set
		case css.ColonToken:
			inValue = true
		case css.SemicolonToken, css.LeftBraceToken, css.RightBraceToken:
			inValue = false
		case css.DelimToken:
			if inValue || len(data) != 1 || data[0] != '.' {
				continue
			}
			tt2, name := lexer.Next()
			switch tt2 {
			case css.IdentToken:
				set.classes[string(name)] = struct{}{}
			case css.ErrorToken:
				return set
			case css.ColonToken:
				inValue = true
			case css.SemicolonToken, css.LeftBraceToken, css.RightBraceToken:
				inValue = false
			}
		case css.HashToken:
			if !inValue && len(data) > 1 {
				set.ids[string(data[1:])] = struct{}{}
			}
		}
	}
}
