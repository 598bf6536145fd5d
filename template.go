package seam

import (
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Placeholder markers in the shell template. Each is replaced exactly once
// per buffered render; the content marker additionally anchors the split
// used by the streaming renderer.
const (
	MarkerHead    = "<!--seam:head-->"
	MarkerStyles  = "<!--seam:styles-->"
	MarkerContent = "<!--seam:content-->"
	MarkerState   = "<!--seam:state-->"
	MarkerScripts = "<!--seam:scripts-->"
)

// rootAttr marks the single element the pipeline renders into.
const rootAttr = "data-seam-root"

// Template is the parsed static HTML shell.
//
// Loaded once per process and shared read-only across all requests. The
// split fields are the four ordered fragments the streaming renderer needs:
//
//	htmlStart | rootOpen | rootClose | htmlEnd
//
// with the content marker (which sits between rootOpen and rootClose in the
// raw text) removed.
type Template struct {
	raw       string
	htmlStart string
	rootOpen  string
	rootClose string
	htmlEnd   string
}

// ParseTemplate validates and splits a shell template.
//
// The shell must contain exactly one element carrying the data-seam-root
// attribute, the content marker comment immediately inside it, a matching
// closing tag, and the head, styles, state, and scripts markers. Absence of
// any of these is a configuration error raised here, at startup - never per
// request.
func ParseTemplate(raw string) (*Template, error) {
	for _, marker := range []string{MarkerHead, MarkerStyles, MarkerContent, MarkerState, MarkerScripts} {
		switch strings.Count(raw, marker) {
		case 1:
		case 0:
			return nil, fmt.Errorf("%w: missing %s marker (add it to the shell template)", ErrTemplateMalformed, marker)
		default:
			return nil, fmt.Errorf("%w: %s marker appears more than once", ErrTemplateMalformed, marker)
		}
	}

	switch strings.Count(raw, rootAttr) {
	case 1:
	case 0:
		return nil, fmt.Errorf("%w: no element carries the %s attribute", ErrTemplateMalformed, rootAttr)
	default:
		return nil, fmt.Errorf("%w: %s attribute appears on more than one element", ErrTemplateMalformed, rootAttr)
	}

	attrIdx := strings.Index(raw, rootAttr)
	openStart := strings.LastIndex(raw[:attrIdx], "<")
	if openStart < 0 {
		return nil, fmt.Errorf("%w: %s attribute is not inside a tag", ErrTemplateMalformed, rootAttr)
	}
	openEnd := strings.Index(raw[attrIdx:], ">")
	if openEnd < 0 {
		return nil, fmt.Errorf("%w: root element open tag is not closed", ErrTemplateMalformed)
	}
	openEnd += attrIdx + 1

	tag := tagName(raw[openStart:openEnd])
	if tag == "" {
		return nil, fmt.Errorf("%w: cannot determine root element tag name", ErrTemplateMalformed)
	}

	// The content marker must be the first thing inside the root element.
	if !strings.HasPrefix(strings.TrimLeftFunc(raw[openEnd:], unicode.IsSpace), MarkerContent) {
		return nil, fmt.Errorf("%w: %s marker must sit immediately inside the %s element", ErrTemplateMalformed, MarkerContent, rootAttr)
	}

	closeStart, closeEnd := matchingClose(raw, openEnd, tag)
	if closeStart < 0 {
		return nil, fmt.Errorf("%w: root element <%s> has no matching closing tag", ErrTemplateMalformed, tag)
	}

	markerIdx := strings.Index(raw, MarkerContent)
	if markerIdx > closeStart {
		return nil, fmt.Errorf("%w: %s marker is outside the root element", ErrTemplateMalformed, MarkerContent)
	}

	return &Template{
		raw:       raw,
		htmlStart: raw[:openStart],
		rootOpen:  raw[openStart:openEnd],
		rootClose: raw[closeStart:closeEnd],
		htmlEnd:   raw[closeEnd:],
	}, nil
}

// LoadTemplate reads and parses a shell template from disk.
func LoadTemplate(path string) (*Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrTemplateMalformed, path, err)
	}
	return ParseTemplate(string(raw))
}

// document assembles a complete buffered-render document by replacing each
// placeholder exactly once.
func (t *Template) document(head, styles, content, state, scripts string) string {
	out := t.raw
	out = strings.Replace(out, MarkerHead, head, 1)
	out = strings.Replace(out, MarkerStyles, styles, 1)
	out = strings.Replace(out, MarkerContent, content, 1)
	out = strings.Replace(out, MarkerState, state, 1)
	out = strings.Replace(out, MarkerScripts, scripts, 1)
	return out
}

// shell assembles the streaming prelude: everything up to and including the
// root open tag, with head and styles spliced in.
func (t *Template) shell(head, styles string) string {
	out := t.htmlStart
	out = strings.Replace(out, MarkerHead, head, 1)
	out = strings.Replace(out, MarkerStyles, styles, 1)
	return out + t.rootOpen
}

// tail assembles the streaming epilogue after the root close tag. The state
// and scripts markers are stripped because the streaming renderer writes
// those inline before the root close.
func (t *Template) tail() string {
	out := t.htmlEnd
	out = strings.Replace(out, MarkerState, "", 1)
	out = strings.Replace(out, MarkerScripts, "", 1)
	return out
}

// tagName extracts the element name from an open tag like `<div ...>`.
func tagName(openTag string) string {
	s := strings.TrimPrefix(openTag, "<")
	for i, r := range s {
		if unicode.IsSpace(r) || r == '>' || r == '/' {
			return strings.ToLower(s[:i])
		}
	}
	return ""
}

// matchingClose finds the closing tag for the element whose open tag ends
// at `from`, accounting for nested elements of the same name. Returns the
// start and end offsets of the closing tag, or (-1, -1).
func matchingClose(raw string, from int, tag string) (int, int) {
	depth := 1
	openTok := "<" + tag
	closeTok := "</" + tag
	lower := strings.ToLower(raw)
	i := from
	for i < len(lower) {
		nextOpen := strings.Index(lower[i:], openTok)
		nextClose := strings.Index(lower[i:], closeTok)
		if nextClose < 0 {
			return -1, -1
		}

		if nextOpen >= 0 && nextOpen < nextClose {
			at := i + nextOpen
			i = at + len(openTok)
			// Only count real open tags: `<divider>` is not a nested `<div>`.
			if isTagBoundary(lower, at+len(openTok)) {
				depth++
			}
			continue
		}

		at := i + nextClose
		i = at + len(closeTok)
		// `</divider>` is not a closing `</div>`.
		if !closeBoundary(lower, at+len(closeTok)) {
			continue
		}
		depth--
		if depth == 0 {
			gt := strings.Index(raw[at:], ">")
			if gt < 0 {
				return -1, -1
			}
			return at, at + gt + 1
		}
	}
	return -1, -1
}

// closeBoundary reports whether the byte at idx legally ends a closing tag
// name (whitespace or >).
func closeBoundary(s string, idx int) bool {
	if idx >= len(s) {
		return false
	}
	c := s[idx]
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '>'
}

// isTagBoundary reports whether the byte at idx terminates a tag name,
// so `<divider>` is not miscounted as an open `<div>`.
func isTagBoundary(s string, idx int) bool {
	if idx >= len(s) {
		return false
	}
	c := s[idx]
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '>' || c == '/'
}
