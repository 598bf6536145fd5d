package seam

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
)

// TestResult holds the result of running a request through the pipeline
// for testing.
//
// Provides convenience methods for asserting on document content, status
// codes, and segment payloads.
type TestResult struct {
	HTML       string
	StatusCode int
	Headers    http.Header
}

// TestPage runs a full-render GET through the pipeline's Handler and
// returns testable output.
//
//	result := seam.TestPage(p, view, group, handler, "/dashboard")
//	if !result.HTMLContains("Hello") {
//	    t.Fatal("missing expected content")
//	}
func TestPage(p *Pipeline, view *View, group *Group, h HandlerFunc, target string) *TestResult {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	p.Handler(view, group, h).ServeHTTP(rec, req)
	return &TestResult{
		HTML:       rec.Body.String(),
		StatusCode: rec.Code,
		Headers:    rec.Header(),
	}
}

// TestSegment runs a segment-classified GET: the chain header carries the
// given layout names (outermost first) and the optional state token.
//
//	result := seam.TestSegment(p, view, group, handler, "/dashboard",
//	    []string{"Root", "Main"}, "")
//	seg, err := result.Segment()
func TestSegment(p *Pipeline, view *View, group *Group, h HandlerFunc, target string, clientChain []string, token string) *TestResult {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set(HeaderSegment, strings.Join(clientChain, ","))
	if token != "" {
		req.Header.Set(HeaderState, token)
	}
	rec := httptest.NewRecorder()
	p.Handler(view, group, h).ServeHTTP(rec, req)
	return &TestResult{
		HTML:       rec.Body.String(),
		StatusCode: rec.Code,
		Headers:    rec.Header(),
	}
}

// Segment parses the body as a SegmentResponse.
func (r *TestResult) Segment() (*SegmentResponse, error) {
	var seg SegmentResponse
	if err := json.Unmarshal([]byte(r.HTML), &seg); err != nil {
		return nil, err
	}
	return &seg, nil
}

// HTMLContains checks if the body contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the body contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// IsHTML checks if the response was a full HTML document.
func (r *TestResult) IsHTML() bool {
	return strings.HasPrefix(r.Headers.Get(HeaderContentType), "text/html")
}

// IsSegment checks if the response was a segment (JSON) response.
func (r *TestResult) IsSegment() bool {
	return r.Headers.Get(HeaderSeam) == "true"
}
