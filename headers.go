package seam

// Protocol headers for segment negotiation.
//
// A segment request is a GET carrying X-Seam-Segment with the layout chain
// the client currently has rendered, outermost first. The server answers
// with JSON (a SegmentResponse) instead of a full HTML document and marks
// the response with X-Seam so intermediaries and the client runtime can
// tell the two apart.
const (
	// HeaderSegment carries the client's current layout chain as a
	// comma-separated list of layout names, outermost first. client
	HeaderSegment = "X-Seam-Segment"

	// HeaderState carries the signed layout-state token the server embedded
	// on the previous render. Lets the negotiator detect layout-prop drift
	// that a name-only comparison would miss. client
	HeaderState = "X-Seam-State"

	// HeaderSeam marks a segment (JSON) response. server
	HeaderSeam = "X-Seam"

	HeaderVary        = "Vary"
	HeaderContentType = "Content-Type"
)

const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeJSON = "application/json; charset=utf-8"
)
