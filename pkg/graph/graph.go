package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/graphize/pkg/tree"
)

// =============================================================================
// Tree Serialization API
// =============================================================================

// MarshalTree converts a State to JSON bytes.
func MarshalTree(s *tree.State) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTreeTo(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalTree decodes JSON bytes into a validated State.
func UnmarshalTree(data []byte) (*tree.State, error) {
	return readTreeFrom(bytes.NewReader(data))
}

// WriteTreeFile writes a State to a JSON file.
// The file is created with 0644 permissions.
func WriteTreeFile(s *tree.State, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTreeTo(s, f)
}

// WriteTree writes a State as JSON to an io.Writer.
// Use MarshalTree for in-memory serialization or WriteTreeFile for files.
func WriteTree(s *tree.State, w io.Writer) error {
	return writeTreeTo(s, w)
}

// ReadTreeFile reads a JSON file and returns the decoded State.
// Returns validation errors for malformed trees.
func ReadTreeFile(path string) (*tree.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readTreeFrom(f)
}

// ReadTree decodes a JSON tree from an io.Reader into a State.
func ReadTree(r io.Reader) (*tree.State, error) {
	return readTreeFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeTreeTo(s *tree.State, w io.Writer) error {
	out := FromState(s)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readTreeFrom(r io.Reader) (*tree.State, error) {
	var data Tree
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToState(data)
}
