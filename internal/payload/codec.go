// Package payload implements the text form of the helper executables that
// swissknife ships inside its own binary.
//
// A payload is the standard base64 encoding of the executable, cut into
// fixed-width lines terminated by CRLF so it can be stored and diffed as
// plain text. Decode accepts any line layout: all whitespace is dropped
// before the base64 alphabet is decoded.
package payload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// LineWidth is the column width used by Wrap.
const LineWidth = 100

// lineBreak terminates every chunked line.
const lineBreak = "\r\n"

// ErrInvalidWidth is returned by Chunk for a non-positive width.
var ErrInvalidWidth = errors.New("invalid argument: line width must be positive")

// Encode returns the base64 text of b.
func Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Decode reverses Encode. Line breaks and other ASCII whitespace inserted
// by Chunk are ignored.
func Decode(text string) ([]byte, error) {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case '\r', '\n', ' ', '\t':
			return -1
		}
		return r
	}, text)

	b, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return b, nil
}

// Chunk cuts text into lines of exactly width characters, the last line
// possibly shorter, each followed by CRLF. Empty text yields "".
func Chunk(text string, width int) (string, error) {
	if width <= 0 {
		return "", fmt.Errorf("%w (got %d)", ErrInvalidWidth, width)
	}

	lines := (len(text) + width - 1) / width

	var sb strings.Builder
	sb.Grow(len(text) + lines*len(lineBreak))
	for i := 0; i < lines; i++ {
		end := min((i+1)*width, len(text))
		sb.WriteString(text[i*width : end])
		sb.WriteString(lineBreak)
	}
	return sb.String(), nil
}

// Wrap encodes b and chunks the result at LineWidth.
func Wrap(b []byte) string {
	// LineWidth is positive, so Chunk cannot fail here.
	s, _ := Chunk(Encode(b), LineWidth)
	return s
}
