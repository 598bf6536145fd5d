package seam

import (
	"errors"
	"fmt"
	"html"
	"strings"
)

// Sentinel errors for pipeline operations.
var (
	ErrTemplateMalformed  = errors.New("seam: template malformed")
	ErrViewNotFound       = errors.New("seam: view not found")
	ErrLayoutMissing      = errors.New("seam: layout missing")
	ErrRenderTimeout      = errors.New("seam: render deadline exceeded")
	ErrMissingClientEntry = errors.New("seam: client entry script not configured")
)

// IsConfigError checks if err is a fatal configuration error (malformed
// template, missing client entry). Configuration errors surface at startup
// or first use and are never retried per request.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrTemplateMalformed) || errors.Is(err, ErrMissingClientEntry)
}

// IsTimeout checks if err is a render-budget timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrRenderTimeout)
}

// Phase identifies where in the render lifecycle an error occurred.
//
// The distinction matters for streaming: before the first byte is written
// (PhaseShell) the status code can still change and an error page can be
// sent; after (PhaseStream) the response is committed and the error can
// only be logged.
type Phase string

const (
	PhaseShell  Phase = "shell"
	PhaseStream Phase = "stream"
)

// RenderError wraps a failure with the view and phase it occurred in.
type RenderError struct {
	Phase Phase
	View  string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("seam: rendering %q (%s phase): %v", e.View, e.Phase, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// renderErr wraps err as a RenderError unless it already is one.
func renderErr(phase Phase, view string, err error) error {
	var re *RenderError
	if errors.As(err, &re) {
		return err
	}
	return &RenderError{Phase: phase, View: view, Err: err}
}

// errorPage renders a full HTML error document.
//
// Development builds show the error message, view, phase, and stack trace.
// Production builds show a generic page with zero internal detail.
func errorPage(err error, view string, phase Phase, stack []byte, dev bool) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head><title>")

	if !dev {
		sb.WriteString("Something went wrong</title></head>\n<body>")
		sb.WriteString("<h1>Something went wrong</h1>")
		sb.WriteString("<p>The page could not be rendered. Please try again later.</p>")
		sb.WriteString("</body>\n</html>")
		return sb.String()
	}

	sb.WriteString("Render error</title></head>\n<body>")
	sb.WriteString("<h1>Render error</h1>")
	sb.WriteString("<p><strong>Message:</strong> ")
	sb.WriteString(html.EscapeString(err.Error()))
	sb.WriteString("</p>")
	if view != "" {
		sb.WriteString("<p><strong>View:</strong> ")
		sb.WriteString(html.EscapeString(view))
		sb.WriteString("</p>")
	}
	if phase != "" {
		sb.WriteString("<p><strong>Phase:</strong> ")
		sb.WriteString(html.EscapeString(string(phase)))
		sb.WriteString("</p>")
	}
	if len(stack) > 0 {
		sb.WriteString("<pre>")
		sb.WriteString(html.EscapeString(string(stack)))
		sb.WriteString("</pre>")
	}
	sb.WriteString("</body>\n</html>")
	return sb.String()
}
