package value

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a [Value].
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

var kindNames = [...]string{
	KindNull:     "null",
	KindBool:     "bool",
	KindNumber:   "number",
	KindString:   "string",
	KindSequence: "sequence",
	KindMapping:  "mapping",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Member is one key/value pair of a mapping.
type Member struct {
	Key   string
	Value Value
}

// Value is a decoded JSON/YAML/TOML value. The zero Value is Null.
type Value struct {
	kind    Kind
	b       bool
	s       string // number literal or string content
	items   []Value
	members []Member
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// IsJSONNumber reports whether lit is a JSON number literal.
func IsJSONNumber(lit string) bool { return jsonNumber.MatchString(lit) }

// Number returns a number holding lit. A JSON number literal is kept
// verbatim. Other notations (0x1F, 1_000, +1.5) are rewritten in decimal
// when they parse as an integer or a finite float. A literal that cannot be
// read as a number is kept and encoded to JSON as a string.
func Number(lit string) Value {
	if !IsJSONNumber(lit) {
		lit = normaliseNumber(lit)
	}
	return Value{kind: KindNumber, s: lit}
}

func normaliseNumber(lit string) string {
	clean := strings.ReplaceAll(lit, "_", "")
	if i, err := strconv.ParseInt(clean, 0, 64); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if u, err := strconv.ParseUint(clean, 0, 64); err == nil {
		return strconv.FormatUint(u, 10)
	}
	if f, err := strconv.ParseFloat(clean, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return lit
}

// Int returns a number for an integer.
func Int(i int64) Value { return Number(strconv.FormatInt(i, 10)) }

// Float returns a number for a finite float, formatted in the shortest
// form that round-trips.
func Float(f float64) Value { return Number(strconv.FormatFloat(f, 'g', -1, 64)) }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Sequence returns a sequence of the given items. The slice is copied.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, items: slices.Clone(items)}
}

// Mapping returns a mapping of the given members in order. If a key repeats,
// the first position is kept and the last value wins.
func Mapping(members ...Member) Value {
	out := make([]Member, 0, len(members))
	index := make(map[string]int, len(members))
	for _, m := range members {
		if i, ok := index[m.Key]; ok {
			out[i].Value = m.Value
			continue
		}
		index[m.Key] = len(out)
		out = append(out, m)
	}
	return Value{kind: KindMapping, members: out}
}

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsContainer reports whether v is a sequence or a mapping.
func (v Value) IsContainer() bool {
	return v.kind == KindSequence || v.kind == KindMapping
}

// IsLeaf reports whether v is a scalar (null, bool, number or string).
func (v Value) IsLeaf() bool { return !v.IsContainer() }

// AsBool returns the boolean held by a Bool value, false otherwise.
func (v Value) AsBool() bool { return v.kind == KindBool && v.b }

// Literal returns the literal text of a Number, "" otherwise.
func (v Value) Literal() string {
	if v.kind != KindNumber {
		return ""
	}
	return v.s
}

// Float parses a Number. ok is false for other kinds.
func (v Value) Float() (f float64, ok bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	return f, err == nil
}

// Str returns the content of a String, "" otherwise.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.s
}

// Len returns the number of items or members of a container, 0 for leaves.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return len(v.members)
	}
	return 0
}

// Item returns the i-th element of a sequence. It panics if v is not a
// sequence or i is out of range.
func (v Value) Item(i int) Value {
	if v.kind != KindSequence {
		panic("value: Item on " + v.kind.String())
	}
	return v.items[i]
}

// Member returns the i-th member of a mapping. It panics if v is not a
// mapping or i is out of range.
func (v Value) Member(i int) Member {
	if v.kind != KindMapping {
		panic("value: Member on " + v.kind.String())
	}
	return v.members[i]
}

// Items returns a copy of the elements of a sequence, nil otherwise.
func (v Value) Items() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return slices.Clone(v.items)
}

// Members returns a copy of the members of a mapping, nil otherwise.
func (v Value) Members() []Member {
	if v.kind != KindMapping {
		return nil
	}
	return slices.Clone(v.members)
}

// Get looks up key in a mapping.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Equal reports whether a and b are structurally identical. Numbers compare
// by literal text, mappings compare member by member in order.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber, KindString:
		return a.s == b.s
	case KindSequence:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(a.members) != len(b.members) {
			return false
		}
		for i := range a.members {
			if a.members[i].Key != b.members[i].Key || !Equal(a.members[i].Value, b.members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
