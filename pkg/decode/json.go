package decode

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/graphize/pkg/value"
)

var errTrailingData = errors.New("invalid character after top-level value")

// errTruncated reports input that ends inside a value. Blank text never
// reaches this stage, so running out of tokens is always a truncation.
var errTruncated = fmt.Errorf("unexpected end of JSON input: %w", io.ErrUnexpectedEOF)

// decodeJSON reads exactly one JSON value from text. Object members keep
// document order. A repeated key keeps its first position and its last
// value. Numbers keep their literal text.
func decodeJSON(text string, maxDepth int) (value.Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	b := &builder{maxDepth: maxDepth}
	var wantKey []bool // parallel to b.stack

	for !b.done {
		tok, err := dec.Token()
		if err == io.EOF {
			return value.Value{}, errTruncated
		}
		if err != nil {
			return value.Value{}, err
		}

		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				if err := b.open(d == '{'); err != nil {
					return value.Value{}, err
				}
				wantKey = append(wantKey, d == '{')
				continue
			default:
				wantKey = wantKey[:len(wantKey)-1]
				b.close()
			}
		} else if n := len(wantKey); n > 0 && wantKey[n-1] {
			key, ok := tok.(string)
			if !ok {
				return value.Value{}, fmt.Errorf("object key is %T, not a string", tok)
			}
			b.key(key)
			wantKey[n-1] = false
			continue
		} else {
			v, err := jsonScalar(tok)
			if err != nil {
				return value.Value{}, err
			}
			b.add(v)
		}

		if b.inMapping() {
			wantKey[len(wantKey)-1] = true
		}
	}

	if _, err := dec.Token(); err != io.EOF {
		return value.Value{}, errTrailingData
	}
	return b.result, nil
}

func jsonScalar(tok json.Token) (value.Value, error) {
	switch t := tok.(type) {
	case nil:
		return value.Null(), nil
	case bool:
		return value.Bool(t), nil
	case json.Number:
		return value.Number(t.String()), nil
	case string:
		return value.String(t), nil
	default:
		return value.Value{}, fmt.Errorf("unexpected JSON token %T", tok)
	}
}
