package decode

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/graphize/pkg/value"
)

// decodeTOML reads a TOML document. Table keys follow the order in which they
// first appear in the document.
func decodeTOML(text string, maxDepth int) (value.Value, error) {
	var doc map[string]any
	md, err := toml.Decode(text, &doc)
	if err != nil {
		return value.Value{}, err
	}
	if len(doc) == 0 {
		return value.Value{}, ErrEmpty
	}

	order := make(map[string]int, len(md.Keys()))
	for i, k := range md.Keys() {
		if _, ok := order[k.String()]; !ok {
			order[k.String()] = i
		}
	}
	w := &tomlWalker{b: &builder{maxDepth: maxDepth}, order: order}
	return w.walk(doc)
}

// tomlFrame is one open table or array. Array elements share their parent's
// key path, which is how toml.MetaData reports keys inside arrays of tables.
type tomlFrame struct {
	path  toml.Key
	keys  []string
	table map[string]any
	items []any
	next  int
}

type tomlWalker struct {
	b     *builder
	order map[string]int
	stack []*tomlFrame
}

func (w *tomlWalker) walk(root map[string]any) (value.Value, error) {
	if err := w.visit(nil, root); err != nil {
		return value.Value{}, err
	}
	for len(w.stack) > 0 {
		top := w.stack[len(w.stack)-1]
		if top.table != nil {
			if top.next >= len(top.keys) {
				w.pop()
				continue
			}
			k := top.keys[top.next]
			top.next++
			w.b.key(k)
			if err := w.visit(append(slices.Clone(top.path), k), top.table[k]); err != nil {
				return value.Value{}, err
			}
			continue
		}
		if top.next >= len(top.items) {
			w.pop()
			continue
		}
		item := top.items[top.next]
		top.next++
		if err := w.visit(top.path, item); err != nil {
			return value.Value{}, err
		}
	}
	return w.b.result, nil
}

func (w *tomlWalker) pop() {
	w.stack = w.stack[:len(w.stack)-1]
	w.b.close()
}

func (w *tomlWalker) visit(path toml.Key, x any) error {
	switch t := x.(type) {
	case map[string]any:
		if err := w.b.open(true); err != nil {
			return err
		}
		w.stack = append(w.stack, &tomlFrame{path: path, keys: w.orderedKeys(path, t), table: t})
	case []map[string]any:
		items := make([]any, len(t))
		for i := range t {
			items[i] = t[i]
		}
		return w.openArray(path, items)
	case []any:
		return w.openArray(path, t)
	default:
		v, err := tomlScalar(x)
		if err != nil {
			return err
		}
		w.b.add(v)
	}
	return nil
}

func (w *tomlWalker) openArray(path toml.Key, items []any) error {
	if err := w.b.open(false); err != nil {
		return err
	}
	w.stack = append(w.stack, &tomlFrame{path: path, items: items})
	return nil
}

// orderedKeys sorts the keys of the table at path by document position. Keys
// the metadata does not report sort last, by name.
func (w *tomlWalker) orderedKeys(path toml.Key, table map[string]any) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	pos := func(k string) int {
		if i, ok := w.order[append(slices.Clone(path), k).String()]; ok {
			return i
		}
		return math.MaxInt
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(pos(a), pos(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return keys
}

func tomlScalar(x any) (value.Value, error) {
	switch t := x.(type) {
	case string:
		return value.String(t), nil
	case bool:
		return value.Bool(t), nil
	case int64:
		return value.Int(t), nil
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return value.Value{}, errNonFinite
		}
		return value.Float(t), nil
	case time.Time:
		return value.String(tomlTime(t)), nil
	default:
		return value.Value{}, fmt.Errorf("unexpected TOML value %T", x)
	}
}

// tomlTime formats a TOML date/time the way it was written. Local values
// carry marker zones from the toml package and are printed without offset.
func tomlTime(t time.Time) string {
	switch t.Location().String() {
	case "datetime-local":
		return t.Format("2006-01-02T15:04:05.999999999")
	case "date-local":
		return t.Format("2006-01-02")
	case "time-local":
		return t.Format("15:04:05.999999999")
	default:
		return t.Format(time.RFC3339Nano)
	}
}
