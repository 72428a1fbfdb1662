package decode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/graphize/pkg/value"
)

var (
	// ErrDecode is returned when text is not valid content in any attempted
	// format, or decodes to a shape the data model does not support.
	ErrDecode = errors.New("decode: not valid JSON/YAML content")

	// ErrEmpty is returned when text holds no document at all.
	ErrEmpty = errors.New("decode: empty document")
)

// Format selects which stages a [Decoder] runs.
type Format string

const (
	FormatAuto Format = "auto" // JSON, then YAML
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists every accepted format name.
var Formats = []Format{FormatAuto, FormatJSON, FormatYAML, FormatTOML}

// ParseFormat validates a format name. The empty string means auto.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatAuto, nil
	}
	f := Format(strings.ToLower(s))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want auto, json, yaml or toml)", s)
}

// Options configures a [Decoder].
type Options struct {
	// Format pins decoding to one format. Empty means [FormatAuto].
	Format Format

	// MaxDepth limits container nesting. A top-level mapping or sequence is
	// level 1. Zero means unlimited.
	MaxDepth int
}

// StageError is the failure of a single decoding stage.
type StageError struct {
	Stage Format
	Err   error
}

func (e StageError) Error() string { return string(e.Stage) + ": " + e.Err.Error() }

func (e StageError) Unwrap() error { return e.Err }

// Decoder decodes text according to its [Options].
type Decoder struct {
	opts Options
}

// New returns a Decoder for opts.
func New(opts Options) (*Decoder, error) {
	f, err := ParseFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}
	if opts.MaxDepth < 0 {
		return nil, fmt.Errorf("max depth must be >= 0, got %d", opts.MaxDepth)
	}
	opts.Format = f
	return &Decoder{opts: opts}, nil
}

var defaultDecoder = &Decoder{opts: Options{Format: FormatAuto}}

// Decode decodes text with the default options: strict JSON first, YAML
// second, no depth limit.
func Decode(text string) (value.Value, error) {
	return defaultDecoder.Decode(text)
}

// Diagnose runs the default stages on text and returns the error of every
// stage that failed. It returns nil if text decodes.
func Diagnose(text string) []StageError {
	return defaultDecoder.Diagnose(text)
}

// Options returns the decoder's options.
func (d *Decoder) Options() Options { return d.opts }

// Decode returns the value held by text. It returns exactly [ErrDecode] when
// no stage succeeds and [ErrEmpty] when text holds no document.
func (d *Decoder) Decode(text string) (value.Value, error) {
	if isBlank(text) {
		return value.Value{}, ErrEmpty
	}
	empty := false
	for _, st := range d.stages() {
		res := st.run(text, d.opts.MaxDepth)
		if res.ok {
			return res.value, nil
		}
		// Only the YAML and TOML stages report ErrEmpty, for text holding
		// nothing but comments or markers.
		if errors.Is(res.err, ErrEmpty) {
			empty = true
		}
	}
	if empty {
		return value.Value{}, ErrEmpty
	}
	return value.Value{}, ErrDecode
}

// Diagnose returns the error of each stage that failed on text, in stage
// order. It returns nil when a stage succeeds.
func (d *Decoder) Diagnose(text string) []StageError {
	if isBlank(text) {
		return []StageError{{Stage: d.opts.Format, Err: ErrEmpty}}
	}
	var errs []StageError
	for _, st := range d.stages() {
		res := st.run(text, d.opts.MaxDepth)
		if res.ok {
			return nil
		}
		errs = append(errs, StageError{Stage: st.format, Err: res.err})
	}
	return errs
}

// =============================================================================
// Stages
// =============================================================================

// stageResult is the tagged outcome of one stage: ok with a value, or an
// error.
type stageResult struct {
	value value.Value
	ok    bool
	err   error
}

type stage struct {
	format Format
	fn     func(text string, maxDepth int) (value.Value, error)
}

func (s stage) run(text string, maxDepth int) stageResult {
	v, err := s.fn(text, maxDepth)
	if err != nil {
		return stageResult{err: err}
	}
	return stageResult{value: v, ok: true}
}

var (
	jsonStage = stage{format: FormatJSON, fn: decodeJSON}
	yamlStage = stage{format: FormatYAML, fn: decodeYAML}
	tomlStage = stage{format: FormatTOML, fn: decodeTOML}
)

func (d *Decoder) stages() []stage {
	switch d.opts.Format {
	case FormatJSON:
		return []stage{jsonStage}
	case FormatYAML:
		return []stage{yamlStage}
	case FormatTOML:
		return []stage{tomlStage}
	default:
		return []stage{jsonStage, yamlStage}
	}
}

func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// =============================================================================
// Value builder
// =============================================================================

var errTooDeep = errors.New("document nested too deeply")

// container is an open mapping or sequence on the builder stack.
type container struct {
	mapping bool
	key     string
	items   []value.Value
	members []value.Member
	seen    map[string]struct{}
}

// builder assembles a value.Value from a stream of open/key/add/close events,
// so format walkers never recurse on document nesting.
type builder struct {
	stack    []*container
	maxDepth int
	result   value.Value
	done     bool
}

func (b *builder) open(mapping bool) error {
	if b.maxDepth > 0 && len(b.stack) >= b.maxDepth {
		return errTooDeep
	}
	c := &container{mapping: mapping}
	if mapping {
		c.seen = make(map[string]struct{})
	}
	b.stack = append(b.stack, c)
	return nil
}

// key sets the key for the next value of the open mapping and reports
// whether it was seen before.
func (b *builder) key(k string) (dup bool) {
	top := b.stack[len(b.stack)-1]
	_, dup = top.seen[k]
	top.seen[k] = struct{}{}
	top.key = k
	return dup
}

func (b *builder) add(v value.Value) {
	if len(b.stack) == 0 {
		b.result, b.done = v, true
		return
	}
	top := b.stack[len(b.stack)-1]
	if top.mapping {
		top.members = append(top.members, value.Member{Key: top.key, Value: v})
		return
	}
	top.items = append(top.items, v)
}

func (b *builder) close() {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	if top.mapping {
		b.add(value.Mapping(top.members...))
		return
	}
	b.add(value.Sequence(top.items...))
}

// inMapping reports whether the innermost open container is a mapping.
func (b *builder) inMapping() bool {
	return len(b.stack) > 0 && b.stack[len(b.stack)-1].mapping
}
