package atpack

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// charsetReader lets the XML decoder handle fragments that declare a
// non-UTF-8 encoding (older vendor files use ISO-8859-1 or windows-1252).
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

// newDecoder builds an XML decoder tolerant of encoding quirks.
func newDecoder(data []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader
	// Some fragments carry stray entities; don't fail hard on them.
	dec.Strict = false
	return dec
}

// decodeFragment unmarshals one XML fragment into v. The archive-relative
// path is included in the error for diagnostics.
func decodeFragment(data []byte, v any, path string) error {
	if err := newDecoder(data).Decode(v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrXMLParse, path, err)
	}
	return nil
}

// parseNum parses a numeric attribute that may be decimal or 0x-prefixed
// hexadecimal. An absent or unparsable attribute yields ok=false; the
// caller treats it as "not given", never as an error.
func parseNum(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseNumPtr is parseNum returning a pointer, nil when absent.
func parseNumPtr(s string) *uint64 {
	v, ok := parseNum(s)
	if !ok {
		return nil
	}
	return &v
}

// parseInt parses a signed decimal attribute, 0 when absent.
func parseInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

// parseFloat parses a float attribute, 0 when absent.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
