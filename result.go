package seam

// RenderResult is the tagged outcome the pipeline reports to the
// surrounding web framework.
//
// Two variants exist. Complete means the pipeline produced a body the
// framework should send (buffered full renders, segment JSON, buffered
// error pages). Streamed means the pipeline already wrote the response to
// the wire and the framework must not attempt to send another body.
//
// Modelling this as an explicit tag makes the framework seam a pattern
// match instead of a nil-body check:
//
//	res, err := p.Render(w, r, view, group, params, handler)
//	if err != nil { ... }
//	if res.IsStreamed() {
//	    return // response already on the wire
//	}
//	w.Header().Set("Content-Type", res.ContentType())
//	w.WriteHeader(res.Status())
//	w.Write(res.Body())
type RenderResult struct {
	streamed    bool
	body        []byte
	contentType string
	status      int
}

// Complete creates a result carrying a finished body for the framework to
// send.
func Complete(body []byte, contentType string, status int) RenderResult {
	return RenderResult{body: body, contentType: contentType, status: status}
}

// Streamed creates a result signaling the response was written directly and
// is already finished, including the final flush.
func Streamed() RenderResult {
	return RenderResult{streamed: true}
}

// IsStreamed returns whether the response has already been written.
func (r RenderResult) IsStreamed() bool {
	return r.streamed
}

// Body returns the response body for Complete results.
func (r RenderResult) Body() []byte {
	return r.body
}

// ContentType returns the body's content type for Complete results.
func (r RenderResult) ContentType() string {
	return r.contentType
}

// Status returns the HTTP status code for Complete results.
func (r RenderResult) Status() int {
	return r.status
}
