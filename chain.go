package seam

// ChainEntry is one resolved layout in a chain: the layout plus its fully
// merged props for this request.
type ChainEntry struct {
	Layout *Layout
	Props  Props
}

// Chain is the ordered list of layouts wrapping a view, outermost first.
// Built once per request and never mutated afterwards; both renderers and
// the segment negotiator consume it, and its name+props projection is what
// the client receives for rehydration.
type Chain []ChainEntry

// Names returns the layout names in chain order, outermost first.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, e := range c {
		names[i] = e.Layout.Name
	}
	return names
}

// below returns the sub-chain strictly inside the entry at idx. Used by the
// segment negotiator: the swap target itself is not re-rendered, only the
// content inside its outlet.
func (c Chain) below(idx int) Chain {
	if idx < 0 || idx+1 >= len(c) {
		return Chain{}
	}
	return c[idx+1:]
}

// resolveChain computes the layout chain for a view.
//
// Nesting order, outermost to innermost: the pipeline-wide root layout, the
// group layout, the view's own layout. The view's Mode overrides:
//
//	LayoutNone     -> empty chain (nothing wraps the view)
//	LayoutRootOnly -> root layout only (group layout suppressed)
//	LayoutInherit  -> root + group + view layouts, present ones only
//
// Per-entry props merge in increasing priority: the layout's own declared
// props, then the use-site props, then the dynamic props the handler
// returned for this request. Dynamic props merge into every entry, not just
// the innermost, so a handler can feed values rendered by outer layouts.
//
// Absent declarations degrade gracefully: no root layout means the chain
// starts at the group layout; no declarations at all mean an empty chain
// and an unwrapped render.
func resolveChain(root *Layout, group *Group, view *View, dynamic Props) Chain {
	if view.Mode == LayoutNone {
		return Chain{}
	}

	chain := make(Chain, 0, 3)
	if root != nil {
		chain = append(chain, ChainEntry{
			Layout: root,
			Props:  root.Props.merged(dynamic),
		})
	}
	if view.Mode == LayoutRootOnly {
		return chain
	}

	if group != nil && group.Layout != nil {
		chain = append(chain, resolveUse(group.Layout, dynamic))
	}
	if view.Layout != nil {
		chain = append(chain, resolveUse(view.Layout, dynamic))
	}
	return chain
}

func resolveUse(use *LayoutUse, dynamic Props) ChainEntry {
	props := use.Layout.Props.merged(use.Props).merged(dynamic)
	return ChainEntry{Layout: use.Layout, Props: props}
}

// ChainMeta is the serializable projection of a chain entry: name and props
// only, never the component reference. This is what full renders embed in
// the hydration script and what segment responses carry.
type ChainMeta struct {
	Name  string `json:"name"`
	Props Props  `json:"props"`
}

// meta returns the serializable projection of the chain.
func (c Chain) meta() []ChainMeta {
	out := make([]ChainMeta, len(c))
	for i, e := range c {
		out[i] = ChainMeta{Name: e.Layout.Name, Props: e.Props}
	}
	return out
}
