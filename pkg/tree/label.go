package tree

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/graphize/pkg/value"
)

// DefaultMaxLabel is the default rune limit for strings inside labels.
const DefaultMaxLabel = 48

// DefaultRootLabel labels the root node of a container document.
const DefaultRootLabel = "root"

const ellipsis = "…"

// Preview renders v as a short single-line string:
//
//	null, true, false   as written
//	numbers             their literal text (1.50 stays 1.50)
//	strings             unquoted, "" when empty, control characters escaped
//	empty containers    {} and []
//	other containers    {…} and […]
//
// Strings longer than maxRunes runes are cut and end in "…". A maxRunes of 0
// or less disables truncation.
func Preview(v value.Value, maxRunes int) string {
	switch v.Kind() {
	case value.KindNull:
		return "null"
	case value.KindBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case value.KindNumber:
		return v.Literal()
	case value.KindString:
		return text(v.Str(), maxRunes)
	case value.KindSequence:
		if v.Len() == 0 {
			return "[]"
		}
		return "[" + ellipsis + "]"
	case value.KindMapping:
		if v.Len() == 0 {
			return "{}"
		}
		return "{" + ellipsis + "}"
	}
	return ""
}

// ChildLabel renders the label of a member or element node. Leaves and empty
// containers show "key: preview"; non-empty containers show the key alone,
// since their contents get nodes of their own. Keys follow the same
// escaping and truncation rules as string values.
func ChildLabel(key string, v value.Value, maxRunes int) string {
	k := text(key, maxRunes)
	if v.IsContainer() && v.Len() > 0 {
		return k
	}
	return k + ": " + Preview(v, maxRunes)
}

// rootLabel renders the label of the root node of a container document.
func rootLabel(root string, v value.Value) string {
	if v.Len() == 0 {
		return root + ": " + Preview(v, 0)
	}
	return root
}

// text truncates s to maxRunes runes and escapes control characters.
func text(s string, maxRunes int) string {
	if s == "" {
		return `""`
	}
	cut := false
	if maxRunes > 0 && utf8.RuneCountInString(s) > maxRunes {
		n := 0
		for i := range s {
			if n == maxRunes {
				s = s[:i]
				break
			}
			n++
		}
		cut = true
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\r':
			b.WriteString(`\r`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
	if cut {
		b.WriteString(ellipsis)
	}
	return b.String()
}
