package seam

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"runtime/debug"
	"strings"

	"github.com/a-h/templ"
)

// Window globals the server emits for client bootstrap. The client runtime
// reads the same names; keep the two sides in sync.
const (
	globalProps   = "__SEAM_PROPS__"
	globalContext = "__SEAM_CONTEXT__"
	globalView    = "__SEAM_VIEW__"
	globalChain   = "__SEAM_CHAIN__"
	globalState   = "__SEAM_STATE__"
)

// composeChain nests the leaf component inside the chain, innermost first.
//
// Every layout boundary is marked with data-layout, and the children slot
// inside it with data-outlet. The client runtime walks these markers to
// read the currently rendered chain and to locate swap targets, so their
// order must mirror the chain exactly.
func composeChain(rc *RenderContext, chain Chain, leaf templ.Component) templ.Component {
	c := leaf
	for i := len(chain) - 1; i >= 0; i-- {
		entry := chain[i]
		inner := boundary("data-outlet", entry.Layout.Name, c)
		c = boundary("data-layout", entry.Layout.Name, entry.Layout.Body(rc, entry.Props, inner))
	}
	return c
}

// boundary wraps a component in a marker div.
func boundary(attr, name string, inner templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div %s="%s">`, attr, html.EscapeString(name)); err != nil {
			return err
		}
		if err := inner.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// renderToString renders a component to a buffer, converting panics in
// component code into errors so the phase contract holds for callers.
func renderToString(ctx context.Context, c templ.Component) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("component panicked: %v\n%s", r, debug.Stack())
		}
	}()
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// stateScript builds the inline hydration initializer. All payloads go
// through marshalInline so data containing "</script>" cannot break out of
// the element.
func stateScript(props Props, rc *RenderContext, viewName string, chain Chain, token string) (string, error) {
	if props == nil {
		props = Props{}
	}
	propsJSON, err := marshalInline(props)
	if err != nil {
		return "", fmt.Errorf("serializing props: %w", err)
	}
	ctxJSON, err := marshalInline(rc)
	if err != nil {
		return "", fmt.Errorf("serializing context: %w", err)
	}
	viewJSON, err := marshalInline(viewName)
	if err != nil {
		return "", fmt.Errorf("serializing view name: %w", err)
	}
	chainJSON, err := marshalInline(chain.meta())
	if err != nil {
		return "", fmt.Errorf("serializing layout chain: %w", err)
	}
	tokenJSON, err := marshalInline(token)
	if err != nil {
		return "", fmt.Errorf("serializing state token: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("<script>")
	fmt.Fprintf(&sb, "window.%s=%s;", globalProps, propsJSON)
	fmt.Fprintf(&sb, "window.%s=%s;", globalContext, ctxJSON)
	fmt.Fprintf(&sb, "window.%s=%s;", globalView, viewJSON)
	fmt.Fprintf(&sb, "window.%s=%s;", globalChain, chainJSON)
	fmt.Fprintf(&sb, "window.%s=%s;", globalState, tokenJSON)
	sb.WriteString("</script>")
	return sb.String(), nil
}

// scriptTags builds the runtime script tag plus the application entry, when
// configured.
func (p *Pipeline) scriptTags() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<script type="module" src="%s"></script>`, html.EscapeString(p.runtimePath+runtimeScript))
	if p.clientEntry != "" {
		fmt.Fprintf(&sb, `<script type="module" src="%s"></script>`, html.EscapeString(p.clientEntry))
	}
	return sb.String()
}

// styleTags builds stylesheet link tags for the styles marker.
func (p *Pipeline) styleTags() string {
	var sb strings.Builder
	for _, href := range p.stylesheets {
		fmt.Fprintf(&sb, `<link rel="stylesheet" href="%s">`, html.EscapeString(href))
	}
	return sb.String()
}

// renderBuffered produces the complete HTML document in memory.
//
// Failure mode: any error (component render, serialization, template) is
// returned with no bytes written anywhere, so the caller can still choose a
// status code and an error page.
func (p *Pipeline) renderBuffered(ctx context.Context, view *View, rc *RenderContext, chain Chain, props Props, head HeadData) (string, error) {
	composed := composeChain(rc, chain, view.Body(rc, props))
	body, err := renderToString(ctx, composed)
	if err != nil {
		return "", renderErr(PhaseShell, view.Name, err)
	}
	if err := ctx.Err(); err != nil {
		return "", renderErr(PhaseShell, view.Name, ErrRenderTimeout)
	}

	token, err := p.stateToken(chain)
	if err != nil {
		return "", renderErr(PhaseShell, view.Name, err)
	}
	state, err := stateScript(props, rc, view.Name, chain, token)
	if err != nil {
		return "", renderErr(PhaseShell, view.Name, err)
	}

	return p.tmpl.document(head.tags(), p.styleTags(), body, state, p.scriptTags()), nil
}
