package tree

import (
	"errors"

	"github.com/matzehuels/graphize/pkg/decode"
)

// Parse decodes text and builds its tree. Text that holds no document yields
// [Empty]. Invalid content yields exactly [decode.ErrDecode] and a nil State;
// there are no partial results.
func Parse(text string, opts ...Option) (*State, error) {
	cfg := newConfig(opts)

	decodeFn := decode.Decode
	if cfg.decoder != nil {
		decodeFn = cfg.decoder.Decode
	}

	v, err := decodeFn(text)
	if errors.Is(err, decode.ErrEmpty) {
		return Empty(), nil
	}
	if err != nil {
		return nil, err
	}
	return Build(v, opts...), nil
}
