package seam

import (
	"net/http"
	"net/url"
)

// RenderContext is the per-request value object handed to handlers, views,
// and layouts, and serialized verbatim to the client for hydration parity.
//
// Headers and cookies are copied through an explicit allow list - never the
// raw request sets - so server-only secrets (session cookies, auth headers)
// cannot leak into the hydration payload. Created once per request by the
// interception layer and read-only downstream.
type RenderContext struct {
	URL     string            `json:"url"`
	Path    string            `json:"path"`
	Method  string            `json:"method"`
	Params  map[string]string `json:"params"`
	Query   url.Values        `json:"query"`
	Headers map[string]string `json:"headers"`
	Cookies map[string]string `json:"cookies"`
}

// newRenderContext builds the context from a request, copying only the
// allow-listed headers and cookies.
func newRenderContext(r *http.Request, params map[string]string, allowHeaders, allowCookies []string) *RenderContext {
	if params == nil {
		params = map[string]string{}
	}

	headers := make(map[string]string, len(allowHeaders))
	for _, name := range allowHeaders {
		if v := r.Header.Get(name); v != "" {
			headers[http.CanonicalHeaderKey(name)] = v
		}
	}

	cookies := make(map[string]string, len(allowCookies))
	for _, name := range allowCookies {
		if c, err := r.Cookie(name); err == nil {
			cookies[name] = c.Value
		}
	}

	return &RenderContext{
		URL:     r.URL.String(),
		Path:    r.URL.Path,
		Method:  r.Method,
		Params:  params,
		Query:   r.URL.Query(),
		Headers: headers,
		Cookies: cookies,
	}
}
