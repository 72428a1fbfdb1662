// Package pipeline provides the parse → render pipeline shared by the CLI
// and the HTTP server.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Parse: decode the document text and build the tree ([tree.Parse])
//  2. Render: turn the tree into output artifacts (wire JSON, DOT, SVG, layout)
//
// Each stage can be run on its own. The [Runner] adds caching: parsed trees
// are keyed by a hash of the document text and the parse options, artifacts
// by a hash of the tree and the render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Text:    `{"name": "Alice"}`,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// # Errors
//
// A document that is neither JSON nor YAML fails with an error coded
// [errors.ErrCodeInvalidContent] whose user message is
// "Not valid JSON/YAML content."; errors.Is(err, decode.ErrDecode) still
// holds. An empty document is not an error: it parses to the empty tree,
// which renders to [ErrNothingToDraw] for drawing formats.
//
// [tree.Parse]: github.com/matzehuels/graphize/pkg/tree.Parse
// [errors.ErrCodeInvalidContent]: github.com/matzehuels/graphize/pkg/errors.ErrCodeInvalidContent
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphize/pkg/cache"
	"github.com/matzehuels/graphize/pkg/decode"
	errs "github.com/matzehuels/graphize/pkg/errors"
	"github.com/matzehuels/graphize/pkg/render/nodelink"
	"github.com/matzehuels/graphize/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 600.0
)

// DefaultDirection is the default tree growth direction.
const DefaultDirection = nodelink.DefaultDirection

// Format constants for output formats.
const (
	FormatJSON   = "json"   // wire tree
	FormatDOT    = "dot"    // Graphviz source
	FormatSVG    = "svg"    // rendered diagram
	FormatLayout = "layout" // node boxes and pane size as JSON
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:   true,
	FormatDOT:    true,
	FormatSVG:    true,
	FormatLayout: true,
}

// ErrNothingToDraw is returned when a drawing format is requested for the
// empty tree.
var ErrNothingToDraw = nodelink.ErrNothingToDraw

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Text      string `json:"text"`
	Format    string `json:"format,omitempty"` // auto, json, yaml, toml
	MaxDepth  int    `json:"max_depth,omitempty"`
	MaxLabel  int    `json:"max_label,omitempty"` // negative disables truncation
	RootLabel string `json:"root_label,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Direction string   `json:"direction,omitempty"`
	Width     float64  `json:"width,omitempty"`
	Height    float64  `json:"height,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// State is the parsed tree.
	State *tree.State

	// TreeHash is the content hash of the tree's wire form.
	TreeHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Depth      int
	ParseTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the tree came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that an output format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg, layout)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateInputFormat checks a document format name.
func ValidateInputFormat(format string) error {
	if _, err := decode.ParseFormat(format); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidFormat, err, "invalid input format: %q (must be one of: auto, json, yaml, toml)", format)
	}
	return nil
}

// ValidateDirection checks a direction name.
func ValidateDirection(direction string) error {
	if _, err := nodelink.ParseDirection(direction); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidDirection, err, "invalid direction: %q (must be one of: DOWN, LEFT, UP, RIGHT)", direction)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. It is idempotent: defaults only fill zero fields and
// normalisation leaves normalised values alone.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// ValidateForParse checks the parse options and sets parse defaults.
// Empty text is valid: it parses to the empty tree.
func (o *Options) ValidateForParse() error {
	if o.Format == "" {
		o.Format = string(decode.FormatAuto)
	}
	if err := ValidateInputFormat(o.Format); err != nil {
		return err
	}
	if o.MaxDepth < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "max depth must not be negative")
	}
	if o.MaxLabel == 0 {
		o.MaxLabel = tree.DefaultMaxLabel
	}
	if o.RootLabel == "" {
		o.RootLabel = tree.DefaultRootLabel
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Direction == "" {
		o.Direction = string(DefaultDirection)
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render defaults and validates the render options.
// The direction is normalised to upper case.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateDirection(o.Direction); err != nil {
		return err
	}
	d, _ := nodelink.ParseDirection(o.Direction)
	o.Direction = string(d)
	return errs.ValidateViewport(o.Width, o.Height)
}

// DecodeOptions returns the decoder configuration.
func (o *Options) DecodeOptions() decode.Options {
	f, _ := decode.ParseFormat(o.Format)
	return decode.Options{Format: f, MaxDepth: o.MaxDepth}
}

// NodelinkOptions returns the DOT generation options.
func (o *Options) NodelinkOptions() nodelink.Options {
	return nodelink.Options{Direction: nodelink.Direction(o.Direction), Detailed: o.Detailed}
}

// Viewport returns the render viewport.
func (o *Options) Viewport() nodelink.Viewport {
	return nodelink.Viewport{Width: o.Width, Height: o.Height}
}

// TreeKeyOpts returns cache key options for the parse stage.
func (o *Options) TreeKeyOpts() cache.TreeKeyOpts {
	return cache.TreeKeyOpts{
		Format:    o.Format,
		MaxDepth:  o.MaxDepth,
		MaxLabel:  o.MaxLabel,
		RootLabel: o.RootLabel,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
// Options that do not affect a format are left out of its key.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatDOT:
		k.Direction, k.Detailed = o.Direction, o.Detailed
	case FormatSVG, FormatLayout:
		k.Direction, k.Detailed = o.Direction, o.Detailed
		k.Width, k.Height = o.Width, o.Height
	}
	return k
}
