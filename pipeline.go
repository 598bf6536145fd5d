package seam

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pthm/seam/lib/encoding"
)

// Pipeline is the render pipeline: it intercepts route handler output,
// resolves the layout chain, selects a rendering strategy, and negotiates
// segment swaps for client-side navigation.
//
// Construct one per process. The shell template, head defaults, and view
// registry are loaded once and shared read-only across all concurrent
// requests; nothing in the pipeline mutates after construction.
type Pipeline struct {
	views       map[string]*View
	root        *Layout
	tmpl        *Template
	head        HeadData
	enc         *encoding.Encoder
	log         *slog.Logger
	dev         bool
	stream      bool
	timeout     time.Duration
	clientEntry string
	stylesheets []string
	runtimePath string
	allowHeads  []string
	allowCooks  []string

	// OnError is called when a handler or the buffered renderer fails.
	// The default logs and sends an error page (detailed in dev, generic
	// in prod). Customize to integrate application error reporting.
	OnError func(http.ResponseWriter, *http.Request, error)
}

// Option configures New.
type Option func(*options)

type options struct {
	tmpl         *Template
	tmplErr      error
	root         *Layout
	head         HeadData
	key          []byte
	log          *slog.Logger
	dev          bool
	stream       bool
	timeout      time.Duration
	clientEntry  string
	stylesheets  []string
	runtimePath  string
	allowHeaders []string
	allowCookies []string
	onError      func(http.ResponseWriter, *http.Request, error)
}

// WithTemplate sets the shell template from a string.
func WithTemplate(raw string) Option {
	return func(o *options) {
		o.tmpl, o.tmplErr = ParseTemplate(raw)
	}
}

// WithTemplateFile loads the shell template from disk.
func WithTemplateFile(path string) Option {
	return func(o *options) {
		o.tmpl, o.tmplErr = LoadTemplate(path)
	}
}

// WithRootLayout sets the process-wide root layout. It wraps every view
// unless the view opts out via LayoutNone.
func WithRootLayout(l *Layout) Option {
	return func(o *options) {
		o.root = l
	}
}

// WithHead sets the process-wide head metadata defaults. Per-route head
// data merges over these: list fields concatenate, scalar fields win.
func WithHead(head HeadData) Option {
	return func(o *options) {
		o.head = head
	}
}

// WithKey sets the signing key for layout-state tokens.
// The key should be at least 32 bytes of cryptographically random data.
// If not provided, a random key is generated (suitable for development
// only - tokens do not survive restarts).
func WithKey(key []byte) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithLogger sets the structured logger. When nil, a discard logger is
// used.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithDevMode enables development diagnostics: error pages carry the error
// message, view, phase, and stack trace. Never enable in production - the
// generic production pages exist so internals cannot leak.
func WithDevMode(dev bool) Option {
	return func(o *options) {
		o.dev = dev
	}
}

// WithStreaming selects the progressive-streaming render strategy for full
// renders. The default is buffered.
func WithStreaming(stream bool) Option {
	return func(o *options) {
		o.stream = stream
	}
}

// WithTimeout bounds the duration of a single render. Exceeding it is a
// render failure, surfaced like any rendering error. Zero means unbounded.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithClientEntry sets the URL of the application's client bundle - the
// script that registers components for hydration. Required in production.
func WithClientEntry(src string) Option {
	return func(o *options) {
		o.clientEntry = src
	}
}

// WithStylesheets sets stylesheet URLs spliced at the styles marker.
func WithStylesheets(hrefs ...string) Option {
	return func(o *options) {
		o.stylesheets = hrefs
	}
}

// WithRuntimePath sets the URL prefix the runtime script is served under.
// Defaults to "/_seam/". Mount Runtime() at the same prefix.
func WithRuntimePath(path string) Option {
	return func(o *options) {
		o.runtimePath = path
	}
}

// WithAllowedHeaders sets the request headers copied into the
// RenderContext. Nothing outside this list reaches the client.
func WithAllowedHeaders(names ...string) Option {
	return func(o *options) {
		o.allowHeaders = names
	}
}

// WithAllowedCookies sets the cookies copied into the RenderContext.
// Nothing outside this list reaches the client.
func WithAllowedCookies(names ...string) Option {
	return func(o *options) {
		o.allowCookies = names
	}
}

// WithErrorHandler replaces the default error handler invoked when a route
// handler or the buffered renderer fails. Equivalent to assigning OnError
// after construction.
func WithErrorHandler(fn func(http.ResponseWriter, *http.Request, error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}

// New creates a pipeline.
//
// A shell template is mandatory; in production (dev mode off) a client
// entry is too. Both are configuration errors raised here, never per
// request.
func New(opts ...Option) (*Pipeline, error) {
	o := &options{runtimePath: "/_seam/"}
	for _, opt := range opts {
		opt(o)
	}

	if o.tmplErr != nil {
		return nil, o.tmplErr
	}
	if o.tmpl == nil {
		return nil, fmt.Errorf("%w: no shell template configured", ErrTemplateMalformed)
	}
	if !o.dev && o.clientEntry == "" {
		return nil, fmt.Errorf("%w: set WithClientEntry to the built bundle URL", ErrMissingClientEntry)
	}

	key := o.key
	if key == nil {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("seam: generating random key: %w", err)
		}
	}
	enc, err := encoding.NewEncoder(key)
	if err != nil {
		return nil, fmt.Errorf("seam: creating encoder: %w", err)
	}

	log := o.log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	p := &Pipeline{
		views:       make(map[string]*View),
		root:        o.root,
		tmpl:        o.tmpl,
		head:        o.head,
		enc:         enc,
		log:         log,
		dev:         o.dev,
		stream:      o.stream,
		timeout:     o.timeout,
		clientEntry: o.clientEntry,
		stylesheets: o.stylesheets,
		runtimePath: o.runtimePath,
		allowHeads:  o.allowHeaders,
		allowCooks:  o.allowCookies,
	}

	p.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		p.log.Error("render failed", "path", r.URL.Path, "error", err)
		w.Header().Set(HeaderContentType, ContentTypeHTML)
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, errorPage(err, "", "", nil, p.dev))
	}
	if o.onError != nil {
		p.OnError = o.onError
	}

	return p, nil
}

// Register adds views to the pipeline's name registry - the read-only
// mapping from logical identifier to component the renderers and the
// client hydration entry share. Panics on a name collision or a view
// without a body, at startup rather than at request time.
func (p *Pipeline) Register(views ...*View) {
	for _, v := range views {
		if v.Name == "" || v.Body == nil {
			panic(fmt.Sprintf("seam: view %q must have a name and a body", v.Name))
		}
		if _, exists := p.views[v.Name]; exists {
			panic(fmt.Sprintf("seam: view name collision for %q", v.Name))
		}
		p.views[v.Name] = v
	}
}

// View returns a registered view by name.
func (p *Pipeline) View(name string) (*View, bool) {
	v, ok := p.views[name]
	return v, ok
}

// RuntimePath returns the URL prefix the client runtime is served under.
func (p *Pipeline) RuntimePath() string {
	return p.runtimePath
}

// HandlerFunc is a route handler: it receives the request-scoped context
// and returns the data to render. Handler errors propagate through the
// pipeline unchanged - the pipeline never swallows them.
type HandlerFunc func(ctx context.Context, rc *RenderContext) (*Response, error)

// Render runs the pipeline for one request and reports the outcome as a
// tagged RenderResult.
//
// Full renders come back as Complete (buffered strategy) or Streamed
// (streaming strategy, response already written). Segment requests come
// back as Complete JSON. Errors from the handler or the buffered renderer
// are returned for the caller to map; streaming-phase failures never
// surface here - they are handled inside the streaming executor per its
// phase contract.
func (p *Pipeline) Render(w http.ResponseWriter, r *http.Request, view *View, group *Group, params map[string]string, h HandlerFunc) (RenderResult, error) {
	ctx := r.Context()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
		r = r.WithContext(ctx)
	}

	rc := newRenderContext(r, params, p.allowHeads, p.allowCooks)

	resp, err := h(ctx, rc)
	if err != nil {
		return RenderResult{}, err
	}
	if resp == nil {
		resp = &Response{}
	}

	head := mergeHead(p.head, resp.Head)
	chain := resolveChain(p.root, group, view, resp.LayoutProps)

	w.Header().Set(HeaderVary, HeaderSegment)

	if names, token, ok := segmentRequest(r); ok {
		seg, err := p.renderSegment(ctx, view, rc, chain, resp.Props, head, names, token)
		if err != nil {
			return RenderResult{}, err
		}
		body, err := json.Marshal(seg)
		if err != nil {
			return RenderResult{}, renderErr(PhaseShell, view.Name, err)
		}
		w.Header().Set(HeaderSeam, "true")
		return Complete(body, ContentTypeJSON, http.StatusOK), nil
	}

	if p.stream {
		p.renderStream(w, r, view, rc, chain, resp.Props, head)
		return Streamed(), nil
	}

	doc, err := p.renderBuffered(ctx, view, rc, chain, resp.Props, head)
	if err != nil {
		return RenderResult{}, err
	}
	return Complete([]byte(doc), ContentTypeHTML, http.StatusOK), nil
}

// Handler adapts a view + handler into an http.Handler.
//
// paramNames are the route pattern's wildcard names; their values are read
// via Request.PathValue and exposed in the RenderContext:
//
//	mux.Handle("GET /tasks/{id}", p.Handler(TaskView, appGroup, taskHandler, "id"))
func (p *Pipeline) Handler(view *View, group *Group, h HandlerFunc, paramNames ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := make(map[string]string, len(paramNames))
		for _, name := range paramNames {
			if v := r.PathValue(name); v != "" {
				params[name] = v
			}
		}

		res, err := p.Render(w, r, view, group, params, h)
		if err != nil {
			p.OnError(w, r, err)
			return
		}
		if res.IsStreamed() {
			return
		}
		w.Header().Set(HeaderContentType, res.ContentType())
		w.WriteHeader(res.Status())
		w.Write(res.Body())
	})
}
