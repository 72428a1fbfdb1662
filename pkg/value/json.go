package value

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON encodes v as JSON. Mapping members keep their order and
// numbers are written with their literal text; a number that is not a JSON
// literal is written as a string.
func (v Value) MarshalJSON() ([]byte, error) {
	return v.AppendJSON(nil), nil
}

// AppendJSON appends the compact JSON encoding of v to buf.
func (v Value) AppendJSON(buf []byte) []byte {
	switch v.kind {
	case KindBool:
		if v.b {
			return append(buf, "true"...)
		}
		return append(buf, "false"...)
	case KindNumber:
		if !IsJSONNumber(v.s) {
			return appendString(buf, v.s)
		}
		return append(buf, v.s...)
	case KindString:
		return appendString(buf, v.s)
	case KindSequence:
		buf = append(buf, '[')
		for i, item := range v.items {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = item.AppendJSON(buf)
		}
		return append(buf, ']')
	case KindMapping:
		buf = append(buf, '{')
		for i, m := range v.members {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = appendString(buf, m.Key)
			buf = append(buf, ':')
			buf = m.Value.AppendJSON(buf)
		}
		return append(buf, '}')
	default:
		return append(buf, "null"...)
	}
}

// IndentJSON returns v as JSON indented with two spaces.
func (v Value) IndentJSON() []byte {
	var out bytes.Buffer
	// AppendJSON always produces valid JSON, so Indent cannot fail.
	_ = json.Indent(&out, v.AppendJSON(nil), "", "  ")
	return out.Bytes()
}

func appendString(buf []byte, s string) []byte {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return append(buf, bytes.TrimSuffix(b.Bytes(), []byte("\n"))...)
}
