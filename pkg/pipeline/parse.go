package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/graphize/pkg/decode"
	errs "github.com/matzehuels/graphize/pkg/errors"
	"github.com/matzehuels/graphize/pkg/observability"
	"github.com/matzehuels/graphize/pkg/tree"
)

// InvalidContentMessage is shown when a document is neither JSON nor YAML.
const InvalidContentMessage = "Not valid JSON/YAML content."

// Parse decodes opts.Text and builds its tree. Options must have passed
// ValidateForParse.
func Parse(ctx context.Context, opts Options) (*tree.State, error) {
	start := time.Now()
	observability.Pipeline().OnParseStart(ctx, opts.Format, len(opts.Text))

	s, err := parse(opts)

	nodes, depth := 0, 0
	if s != nil {
		nodes, depth = len(s.Nodes), s.Depth
	}
	observability.Pipeline().OnParseComplete(ctx, opts.Format, nodes, depth, time.Since(start), err)
	return s, err
}

func parse(opts Options) (*tree.State, error) {
	dec, err := decode.New(opts.DecodeOptions())
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid decode options")
	}

	s, err := tree.Parse(opts.Text,
		tree.WithDecoder(dec),
		tree.WithMaxLabel(opts.MaxLabel),
		tree.WithRootLabel(opts.RootLabel),
	)
	if errors.Is(err, decode.ErrDecode) {
		return nil, errs.Wrap(errs.ErrCodeInvalidContent, err, InvalidContentMessage)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "parse")
	}
	return s, nil
}
