package seam

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSwapIndex(t *testing.T) {
	tests := []struct {
		name   string
		client []string
		server []string
		want   int
	}{
		{
			name:   "client one behind the server",
			client: []string{"Root", "Main"},
			server: []string{"Root", "Main", "Dashboard"},
			want:   1,
		},
		{
			name:   "divergence after the root",
			client: []string{"Root", "Other"},
			server: []string{"Root", "Main"},
			want:   0,
		},
		{
			name:   "no shared ancestor",
			client: []string{"A"},
			server: []string{"B"},
			want:   -1,
		},
		{
			name:   "identical chains",
			client: []string{"Root", "Main"},
			server: []string{"Root", "Main"},
			want:   1,
		},
		{
			name:   "client deeper than the server",
			client: []string{"Root", "Main", "Settings"},
			server: []string{"Root", "Main"},
			want:   1,
		},
		{
			name:   "empty client chain",
			client: nil,
			server: []string{"Root"},
			want:   -1,
		},
		{
			name:   "empty server chain",
			client: []string{"Root"},
			server: nil,
			want:   -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := swapIndex(tt.client, tt.server); got != tt.want {
				t.Errorf("swapIndex(%v, %v) = %d, want %d", tt.client, tt.server, got, tt.want)
			}
		})
	}
}

// segmentFixture builds a pipeline with the Root > Main > Dashboard chain
// used across the negotiation tests.
func segmentFixture(t *testing.T) (*Pipeline, *Group, *View) {
	t.Helper()
	p := newTestPipeline(t, WithRootLayout(namedLayout("Root", nil)))
	group := &Group{Layout: Use(namedLayout("Main", nil))}
	view := textView("Widgets", "WIDGET-LIST")
	view.Layout = Use(namedLayout("Dashboard", nil))
	p.Register(view)
	return p, group, view
}

func TestSegmentPartialSwap(t *testing.T) {
	p, group, view := segmentFixture(t)

	res := TestSegment(p, view, group, staticHandler(Data(Props{"n": 1})), "/dash/widgets",
		[]string{"Root", "Main"}, "")

	if !res.IsSegment() {
		t.Fatalf("response not classified as segment: %v", res.Headers)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	seg, err := res.Segment()
	if err != nil {
		t.Fatalf("parsing segment response: %v", err)
	}

	if seg.SwapTarget == nil || *seg.SwapTarget != "Main" {
		t.Fatalf("swap target = %v, want Main", seg.SwapTarget)
	}
	if seg.View != "Widgets" {
		t.Errorf("view = %q, want Widgets", seg.View)
	}

	// Only the subtree below the swap target renders: the Dashboard layout
	// and the leaf, never the layouts the client already has on screen.
	if !strings.Contains(seg.HTML, `data-layout="Dashboard"`) || !strings.Contains(seg.HTML, "WIDGET-LIST") {
		t.Errorf("segment HTML missing subtree:\n%s", seg.HTML)
	}
	if strings.Contains(seg.HTML, `data-layout="Root"`) || strings.Contains(seg.HTML, `data-layout="Main"`) {
		t.Errorf("segment HTML re-rendered retained layouts:\n%s", seg.HTML)
	}

	// Chain metadata covers the full server chain for rehydration.
	names := make([]string, len(seg.Chain))
	for i, m := range seg.Chain {
		names[i] = m.Name
	}
	if strings.Join(names, ",") != "Root,Main,Dashboard" {
		t.Errorf("chain metadata = %v", names)
	}
	if seg.State == "" {
		t.Errorf("segment response missing refreshed state token")
	}
	if seg.Props["n"] != float64(1) {
		t.Errorf("props = %v", seg.Props)
	}
}

func TestSegmentDivergentChain(t *testing.T) {
	p, group, view := segmentFixture(t)

	res := TestSegment(p, view, group, staticHandler(Data(nil)), "/dash/widgets",
		[]string{"Root", "Other"}, "")
	seg, err := res.Segment()
	if err != nil {
		t.Fatalf("parsing segment response: %v", err)
	}

	if seg.SwapTarget == nil || *seg.SwapTarget != "Root" {
		t.Fatalf("swap target = %v, want Root", seg.SwapTarget)
	}
	// Everything inside Root re-renders.
	if !strings.Contains(seg.HTML, `data-layout="Main"`) || !strings.Contains(seg.HTML, `data-layout="Dashboard"`) {
		t.Errorf("segment HTML missing re-rendered layouts:\n%s", seg.HTML)
	}
	if strings.Contains(seg.HTML, `data-layout="Root"`) {
		t.Errorf("segment HTML re-rendered the shared root:\n%s", seg.HTML)
	}
}

func TestSegmentNoSharedAncestor(t *testing.T) {
	p, group, view := segmentFixture(t)

	res := TestSegment(p, view, group, staticHandler(Data(nil)), "/dash/widgets",
		[]string{"Marketing"}, "")
	seg, err := res.Segment()
	if err != nil {
		t.Fatalf("parsing segment response: %v", err)
	}

	// Null swap target: the client must perform a full navigation. This is
	// a successful negotiation outcome, not an error.
	if res.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", res.StatusCode)
	}
	if seg.SwapTarget != nil {
		t.Errorf("swap target = %q, want null", *seg.SwapTarget)
	}
	if seg.HTML != "" {
		t.Errorf("no-ancestor response carries HTML:\n%s", seg.HTML)
	}
}

func TestSegmentClassification(t *testing.T) {
	p, group, view := segmentFixture(t)
	h := staticHandler(Data(nil))

	// No segment header: full HTML render.
	res := TestPage(p, view, group, h, "/dash/widgets")
	if res.IsSegment() || !res.IsHTML() {
		t.Errorf("request without header must render full HTML")
	}

	// Non-GET with the header: still a full render.
	req := httptest.NewRequest(http.MethodPost, "/dash/widgets", nil)
	req.Header.Set(HeaderSegment, "Root,Main")
	rec := httptest.NewRecorder()
	p.Handler(view, group, h).ServeHTTP(rec, req)
	if rec.Header().Get(HeaderSeam) == "true" {
		t.Errorf("POST with segment header must not negotiate a segment")
	}
	if !strings.HasPrefix(rec.Header().Get(HeaderContentType), "text/html") {
		t.Errorf("content type = %q, want HTML", rec.Header().Get(HeaderContentType))
	}
}

func TestSegmentHeaderParsing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderSegment, " Root , Main ,, Dashboard ")
	req.Header.Set(HeaderState, "tok")

	names, token, ok := segmentRequest(req)
	if !ok {
		t.Fatal("request not classified as segment")
	}
	if strings.Join(names, "|") != "Root|Main|Dashboard" {
		t.Errorf("names = %v", names)
	}
	if token != "tok" {
		t.Errorf("token = %q", token)
	}
}

func TestNegotiateIndexPropDrift(t *testing.T) {
	p := newTestPipeline(t)
	root := namedLayout("Root", nil)
	main := namedLayout("Main", nil)

	serverChain := Chain{
		{Layout: root, Props: Props{"badge": float64(3)}},
		{Layout: main, Props: Props{}},
	}
	staleChain := Chain{
		{Layout: root, Props: Props{"badge": float64(9)}},
		{Layout: main, Props: Props{}},
	}
	freshToken, err := p.stateToken(serverChain)
	if err != nil {
		t.Fatalf("stateToken failed: %v", err)
	}
	staleToken, err := p.stateToken(staleChain)
	if err != nil {
		t.Fatalf("stateToken failed: %v", err)
	}

	client := []string{"Root", "Main"}

	// Matching digests keep the name-based index.
	if got := p.negotiateIndex(client, freshToken, serverChain); got != 1 {
		t.Errorf("fresh token index = %d, want 1", got)
	}

	// Drift at the outermost entry shrinks past it: even the root must
	// re-render, so the client falls back to full navigation.
	if got := p.negotiateIndex(client, staleToken, serverChain); got != -1 {
		t.Errorf("stale token index = %d, want -1", got)
	}

	// Drift only at the inner entry re-renders from there.
	innerStale := Chain{
		{Layout: root, Props: Props{"badge": float64(3)}},
		{Layout: main, Props: Props{"tab": "old"}},
	}
	innerToken, err := p.stateToken(innerStale)
	if err != nil {
		t.Fatalf("stateToken failed: %v", err)
	}
	if got := p.negotiateIndex(client, innerToken, serverChain); got != 0 {
		t.Errorf("inner drift index = %d, want 0", got)
	}
}

func TestNegotiateIndexDegradesWithoutToken(t *testing.T) {
	p := newTestPipeline(t)
	chain := Chain{
		{Layout: namedLayout("Root", nil), Props: Props{"v": 1}},
		{Layout: namedLayout("Main", nil), Props: Props{}},
	}
	client := []string{"Root", "Main"}

	if got := p.negotiateIndex(client, "", chain); got != 1 {
		t.Errorf("no token index = %d, want name-only comparison", got)
	}
	if got := p.negotiateIndex(client, "garbage-token", chain); got != 1 {
		t.Errorf("unverifiable token index = %d, want name-only comparison", got)
	}

	// A token minted by a different key fails verification and degrades too.
	other := newTestPipeline(t, WithKey([]byte("another-32-byte-key-entirely-!!!")))
	foreign, err := other.stateToken(chain)
	if err != nil {
		t.Fatalf("stateToken failed: %v", err)
	}
	if got := p.negotiateIndex(client, foreign, chain); got != 1 {
		t.Errorf("foreign token index = %d, want name-only comparison", got)
	}
}

func TestPropsDigestStability(t *testing.T) {
	a := propsDigest(Props{"b": 2, "a": 1})
	b := propsDigest(Props{"a": 1, "b": 2})
	if a != b {
		t.Errorf("structurally equal props digest differently: %q vs %q", a, b)
	}
	if propsDigest(Props{"a": 1}) == propsDigest(Props{"a": 2}) {
		t.Errorf("different props share a digest")
	}
	if propsDigest(nil) != propsDigest(Props{}) {
		t.Errorf("nil and empty props must digest equally")
	}
	if got := propsDigest(Props{"f": func() {}}); got != "unserializable" {
		t.Errorf("unserializable digest = %q", got)
	}
}

func TestSegmentStaleTokenFullPage(t *testing.T) {
	p, group, view := segmentFixture(t)

	// The client's token reflects layout props from a previous render.
	stale := Chain{
		{Layout: namedLayout("Root", nil), Props: Props{"section": "old"}},
		{Layout: namedLayout("Main", nil), Props: Props{}},
		{Layout: namedLayout("Dashboard", nil), Props: Props{}},
	}
	token, err := p.stateToken(stale)
	if err != nil {
		t.Fatalf("stateToken failed: %v", err)
	}

	h := staticHandler(&Response{LayoutProps: Props{"section": "new"}})
	res := TestSegment(p, view, group, h, "/dash/widgets", []string{"Root", "Main", "Dashboard"}, token)
	seg, err := res.Segment()
	if err != nil {
		t.Fatalf("parsing segment response: %v", err)
	}

	// Root props drifted, so nothing on screen can be trusted.
	if seg.SwapTarget != nil {
		t.Errorf("swap target = %q, want null for outermost drift", *seg.SwapTarget)
	}
}
