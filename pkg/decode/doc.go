// Package decode turns raw document text into a [value.Value].
//
// # Stages
//
// In the default auto mode, decoding is an explicit two-stage attempt with a
// fixed precedence:
//
//  1. strict JSON: exactly one JSON value, object member order kept
//  2. YAML: a single document, read through the yaml.v3 node API
//
// The first stage that succeeds wins. If both fail, [Decode] returns
// [ErrDecode] itself with no further detail. Callers that want to know why
// can run [Diagnose], which reports every stage's error.
//
// Text that holds nothing (empty, whitespace only, only YAML comments, or a
// bare "---" marker) is not a failure: it yields [ErrEmpty], which callers
// treat as "nothing to draw".
//
// # Formats
//
// A [Decoder] built with [Options] can be pinned to a single format:
//
//	dec, _ := decode.New(decode.Options{Format: decode.FormatTOML})
//	v, err := dec.Decode(text)
//
// TOML decoding uses BurntSushi/toml; table keys follow document order and
// date/time values become strings.
//
// # Supported shapes
//
// YAML and TOML can express values the data model cannot hold. These are
// rejected as [ErrDecode]:
//
//   - YAML aliases (no back-references)
//   - YAML mapping keys that are not scalars
//   - duplicate YAML mapping keys
//   - non-finite numbers (.inf, .nan, inf, nan)
//   - documents nested deeper than [Options.MaxDepth]
//
// Conversion walks documents with explicit stacks, so adversarially deep
// input cannot overflow the goroutine stack.
//
// # Concurrency
//
// Decoding is pure. A [Decoder] holds only its options and is safe for
// concurrent use.
package decode
