package seam

import (
	"bytes"
	"encoding/json"
)

// marshalInline serializes v as JSON safe to embed inside a <script>
// element.
//
// A plain serializer is insufficient here: a props string containing
// "</script>" would terminate the inline script early and hand markup
// injection to whoever controls the data. The encoder escapes <, >, and
// & to the \u003c, \u003e, and \u0026 escape forms, plus the Unicode
// line/paragraph separators U+2028/U+2029 that are valid JSON but illegal
// in JavaScript source.
func marshalInline(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	// Encode appends a trailing newline.
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
