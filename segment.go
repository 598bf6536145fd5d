package seam

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
)

// SegmentResponse is the wire format for partial navigation.
//
// A null SwapTarget tells the client no shared layout ancestor exists and a
// full page navigation is the only correct move. Otherwise HTML is the
// rendered subtree below the swap target, and Chain/State let the client
// update its record of what is on screen for the next negotiation.
type SegmentResponse struct {
	HTML       string         `json:"html"`
	Head       HeadData       `json:"head"`
	Props      Props          `json:"props"`
	Context    *RenderContext `json:"context"`
	SwapTarget *string        `json:"swapTarget"`
	View       string         `json:"view"`
	Chain      []ChainMeta    `json:"chain"`
	State      string         `json:"state,omitempty"`
}

// segmentRequest classifies a request. A segment request is a GET carrying
// the client's current layout chain in the segment header; anything else is
// a full render.
func segmentRequest(r *http.Request) (names []string, token string, ok bool) {
	if r.Method != http.MethodGet {
		return nil, "", false
	}
	header := r.Header.Get(HeaderSegment)
	if header == "" {
		return nil, "", false
	}
	for _, part := range strings.Split(header, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names, r.Header.Get(HeaderState), true
}

// swapIndex walks the client and server chains from index 0 and stops at
// the first mismatch. The return value is the last matching index - the
// deepest layout both sides still agree on - or -1 when even index 0
// differs (no common ancestor).
func swapIndex(client, server []string) int {
	idx := -1
	for i := 0; i < len(client) && i < len(server); i++ {
		if client[i] != server[i] {
			break
		}
		idx = i
	}
	return idx
}

// chainState is the signed payload behind the layout-state token: the chain
// names plus a digest of each entry's resolved props.
type chainState struct {
	Names   []string `msgpack:"n"`
	Digests []string `msgpack:"d"`
}

// propsDigest hashes the canonical JSON form of props. json.Marshal emits
// map keys sorted, so structurally equal props digest equally.
func propsDigest(props Props) string {
	if props == nil {
		props = Props{}
	}
	data, err := json.Marshal(props)
	if err != nil {
		// Unserializable props cannot round-trip anyway; an unstable digest
		// just forces a re-render of that layout.
		return "unserializable"
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// stateToken signs the chain's names and prop digests for the client to
// echo back on segment requests.
func (p *Pipeline) stateToken(chain Chain) (string, error) {
	st := chainState{
		Names:   chain.Names(),
		Digests: make([]string, len(chain)),
	}
	for i, e := range chain {
		st.Digests[i] = propsDigest(e.Props)
	}
	return p.enc.Encode(st, false)
}

// negotiateIndex computes the swap index, shrinking it when the state token
// reveals prop drift.
//
// The name comparison alone cannot tell that a layout shared by two routes
// was rendered with different props; the token's digests can. A shared name
// whose digest no longer matches the server's resolved props is treated as
// a mismatch, so that layout gets re-rendered instead of left stale. An
// absent or unverifiable token degrades to the name-only comparison.
func (p *Pipeline) negotiateIndex(clientNames []string, token string, chain Chain) int {
	serverNames := chain.Names()
	idx := swapIndex(clientNames, serverNames)
	if idx < 0 || token == "" {
		return idx
	}

	var st chainState
	if err := p.enc.Decode(token, false, &st); err != nil {
		return idx
	}
	if len(st.Names) != len(clientNames) || len(st.Digests) != len(st.Names) {
		return idx
	}
	for i, n := range clientNames {
		if st.Names[i] != n {
			return idx
		}
	}

	for i := 0; i <= idx; i++ {
		if st.Digests[i] != propsDigest(chain[i].Props) {
			return i - 1
		}
	}
	return idx
}

// renderSegment produces the partial-navigation response.
//
// The swap target layout itself is not re-rendered - it already stands
// unchanged in the client DOM - so only the chain strictly below it plus
// the view composes into HTML.
func (p *Pipeline) renderSegment(ctx context.Context, view *View, rc *RenderContext, chain Chain, props Props, head HeadData, clientNames []string, token string) (*SegmentResponse, error) {
	if props == nil {
		props = Props{}
	}

	resp := &SegmentResponse{
		Head:    head,
		Props:   props,
		Context: rc,
		View:    view.Name,
		Chain:   chain.meta(),
	}

	idx := p.negotiateIndex(clientNames, token, chain)
	if idx < 0 {
		// No shared ancestor: the client must fall back to a full page
		// navigation. Not an error.
		return resp, nil
	}

	sub := chain.below(idx)
	composed := composeChain(rc, sub, view.Body(rc, props))
	html, err := renderToString(ctx, composed)
	if err != nil {
		return nil, renderErr(PhaseShell, view.Name, err)
	}

	newToken, err := p.stateToken(chain)
	if err != nil {
		return nil, renderErr(PhaseShell, view.Name, err)
	}

	target := chain[idx].Layout.Name
	resp.SwapTarget = &target
	resp.HTML = html
	resp.State = newToken
	return resp, nil
}
