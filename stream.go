package seam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/a-h/templ"
)

// cancelWriter aborts component output once ctx is done. Client disconnect
// cancels the request context, so a render whose reader has gone away stops
// at its next write instead of running to completion for nobody.
type cancelWriter struct {
	ctx context.Context
	w   io.Writer
}

func (cw *cancelWriter) Write(b []byte) (int, error) {
	if err := cw.ctx.Err(); err != nil {
		return 0, err
	}
	return cw.w.Write(b)
}

// renderStream writes the document incrementally to the response.
//
// Three phases with distinct error contracts:
//
//  1. Shell: nothing written yet. Any failure here still controls the HTTP
//     status - a buffered error page is sent instead (detailed in dev,
//     generic in prod).
//  2. Streaming: the shell and root open tag are flushed, then component
//     output pipes through as produced. Headers are committed, so failures
//     are logged and the response is closed around whatever partial content
//     already stands; the status cannot change anymore.
//  3. Completion: the hydration script, script tags, root close tag, and
//     template tail are written and flushed.
//
// The method does not return until streaming has genuinely finished,
// including the final flush, so callers must not end the response
// themselves.
func (p *Pipeline) renderStream(w http.ResponseWriter, r *http.Request, view *View, rc *RenderContext, chain Chain, props Props, head HeadData) {
	// The request context already carries the render deadline (set by
	// Render) and is cancelled on client disconnect.
	ctx := r.Context()

	// Shell phase: everything that can fail is prepared before the first
	// byte goes out.
	shell := p.tmpl.shell(head.tags(), p.styleTags())
	token, err := p.stateToken(chain)
	if err != nil {
		p.shellError(w, view, err)
		return
	}
	state, err := stateScript(props, rc, view.Name, chain, token)
	if err != nil {
		p.shellError(w, view, err)
		return
	}
	composed := composeChain(rc, chain, view.Body(rc, props))

	w.Header().Set(HeaderContentType, ContentTypeHTML)
	w.Header().Set(HeaderVary, HeaderSegment)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, shell)
	flush(w)

	// Streaming phase.
	if err := pipeComponent(ctx, composed, &cancelWriter{ctx: ctx, w: w}); err != nil {
		p.streamError(r, view, err)
		// End the response so the client is not left hanging; the partial
		// content already sent stands as-is.
		io.WriteString(w, p.tmpl.rootClose)
		io.WriteString(w, p.tmpl.tail())
		flush(w)
		return
	}

	// Completion phase: hydration script arrives after the markup it
	// describes.
	io.WriteString(w, state)
	io.WriteString(w, p.scriptTags())
	io.WriteString(w, p.tmpl.rootClose)
	io.WriteString(w, p.tmpl.tail())
	flush(w)
}

// pipeComponent renders the component into w, converting panics to errors.
func pipeComponent(ctx context.Context, c templ.Component, w io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("component panicked: %v\n%s", r, debug.Stack())
		}
	}()
	return c.Render(ctx, w)
}

// shellError handles a failure before any byte was written: the status code
// is still ours to set.
func (p *Pipeline) shellError(w http.ResponseWriter, view *View, err error) {
	err = renderErr(PhaseShell, view.Name, err)
	p.log.Error("shell render failed",
		"view", view.Name,
		"phase", string(PhaseShell),
		"error", err)

	w.Header().Set(HeaderContentType, ContentTypeHTML)
	w.WriteHeader(http.StatusInternalServerError)
	io.WriteString(w, errorPage(err, view.Name, PhaseShell, nil, p.dev))
}

// streamError handles a failure after headers are committed: log only. A
// client disconnect and a render timeout both surface here when they strike
// mid-stream.
func (p *Pipeline) streamError(r *http.Request, view *View, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		p.log.Info("stream aborted: client disconnected",
			"view", view.Name,
			"path", r.URL.Path)
	case errors.Is(err, context.DeadlineExceeded):
		p.log.Error("stream render failed",
			"view", view.Name,
			"phase", string(PhaseStream),
			"error", renderErr(PhaseStream, view.Name, ErrRenderTimeout))
	default:
		p.log.Error("stream render failed",
			"view", view.Name,
			"phase", string(PhaseStream),
			"error", renderErr(PhaseStream, view.Name, err))
	}
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
