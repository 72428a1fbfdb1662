package decode

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/graphize/pkg/value"
)

var (
	errYAMLMultiDoc = errors.New("multi-document YAML streams are not supported")
	errYAMLAlias    = errors.New("YAML aliases are not supported")
	errNonFinite    = errors.New("non-finite numbers are not supported")
)

// decodeYAML reads a single YAML document from text.
func decodeYAML(text string, maxDepth int) (value.Value, error) {
	dec := yaml.NewDecoder(strings.NewReader(text))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return value.Value{}, ErrEmpty
		}
		return value.Value{}, err
	}
	root := documentRoot(&doc)

	var next yaml.Node
	switch err := dec.Decode(&next); {
	case err == io.EOF:
	case err != nil:
		return value.Value{}, err
	case documentRoot(&next) != nil:
		return value.Value{}, errYAMLMultiDoc
	}

	if root == nil {
		return value.Value{}, ErrEmpty
	}
	return convertYAML(root, maxDepth)
}

// documentRoot returns the content node of a document, or nil if the document
// holds nothing ("", comments only, or a bare "---").
func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	n := doc.Content[0]
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" && n.Value == "" && n.Style == 0 {
		return nil
	}
	return n
}

// yamlFrame tracks the walk position inside one mapping or sequence node.
type yamlFrame struct {
	node *yaml.Node
	next int
}

func convertYAML(root *yaml.Node, maxDepth int) (value.Value, error) {
	b := &builder{maxDepth: maxDepth}
	var stack []*yamlFrame

	// visit adds a scalar to the builder or opens a container frame.
	visit := func(n *yaml.Node) error {
		switch n.Kind {
		case yaml.ScalarNode:
			v, err := yamlScalar(n)
			if err != nil {
				return err
			}
			b.add(v)
			return nil
		case yaml.MappingNode, yaml.SequenceNode:
			if err := b.open(n.Kind == yaml.MappingNode); err != nil {
				return err
			}
			stack = append(stack, &yamlFrame{node: n})
			return nil
		case yaml.AliasNode:
			return errYAMLAlias
		default:
			return fmt.Errorf("unexpected YAML node kind %d", n.Kind)
		}
	}

	if err := visit(root); err != nil {
		return value.Value{}, err
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		content := top.node.Content
		if top.next >= len(content) {
			stack = stack[:len(stack)-1]
			b.close()
			continue
		}

		if top.node.Kind == yaml.MappingNode {
			k, v := content[top.next], content[top.next+1]
			top.next += 2
			if k.Kind == yaml.AliasNode {
				return value.Value{}, errYAMLAlias
			}
			if k.Kind != yaml.ScalarNode {
				return value.Value{}, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			if b.key(k.Value) {
				return value.Value{}, fmt.Errorf("line %d: mapping key %q already defined", k.Line, k.Value)
			}
			if err := visit(v); err != nil {
				return value.Value{}, err
			}
			continue
		}

		item := content[top.next]
		top.next++
		if err := visit(item); err != nil {
			return value.Value{}, err
		}
	}
	return b.result, nil
}

// yamlScalar maps a resolved YAML scalar to a value. Core schema tags become
// null, bool or number; every other tag keeps the scalar text as a string.
func yamlScalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return value.Value{}, err
		}
		return value.Bool(b), nil
	case "!!int", "!!float":
		var x any
		if err := n.Decode(&x); err != nil {
			return value.Value{}, err
		}
		v, err := yamlNumber(x)
		if err != nil {
			return value.Value{}, err
		}
		// JSON literals are kept as written; other notations are normalised.
		if value.IsJSONNumber(n.Value) {
			return value.Number(n.Value), nil
		}
		return v, nil
	default:
		return value.String(n.Value), nil
	}
}

func yamlNumber(x any) (value.Value, error) {
	switch t := x.(type) {
	case int:
		return value.Int(int64(t)), nil
	case int64:
		return value.Int(t), nil
	case uint64:
		return value.Number(strconv.FormatUint(t, 10)), nil
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return value.Value{}, errNonFinite
		}
		return value.Float(t), nil
	default:
		return value.Value{}, fmt.Errorf("unexpected YAML number %T", x)
	}
}
