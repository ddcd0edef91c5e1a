// Package charset provides the "byte stream with a named charset"
// convenience overload spec.md §6 mentions and explicitly keeps out of
// the core's scope: charset decoding is an input-acquisition concern,
// not part of the state machine.
package charset

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// NewReader wraps r with a decoder for the named charset (IANA name,
// e.g. "utf-8", "iso-8859-1", "shift_jis"), transcoding to UTF-8 as it
// is read. An empty name is treated as "utf-8" and returns r unchanged.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	if name == "" || isUTF8(name) {
		return r, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("charset: unknown charset %q: %w", name, err)
	}
	if enc == nil || enc == encoding.Nop {
		return r, nil
	}
	return enc.NewDecoder().Reader(r), nil
}

func isUTF8(name string) bool {
	switch name {
	case "utf-8", "UTF-8", "utf8", "UTF8":
		return true
	default:
		return false
	}
}
