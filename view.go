package seam

import (
	"github.com/a-h/templ"
)

// Props carries the data a view or layout renders with.
//
// Props cross the wire twice: serialized into the hydration script on full
// renders and into the SegmentResponse on partial navigations. Keep them
// JSON-serializable and lean - IDs and display data, not rich objects.
type Props map[string]any

// merged returns a shallow merge of p with over, over winning on conflicts.
// Neither input is mutated.
func (p Props) merged(over Props) Props {
	if len(p) == 0 && len(over) == 0 {
		return Props{}
	}
	out := make(Props, len(p)+len(over))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// ViewFunc builds the component tree for a view (the leaf of a page).
type ViewFunc func(rc *RenderContext, props Props) templ.Component

// LayoutFunc builds a layout around already-composed children.
//
// The children component is the outlet content: the next layout inward, or
// the view itself for the innermost layout. Layouts must render children
// exactly once.
type LayoutFunc func(rc *RenderContext, props Props, children templ.Component) templ.Component

// Layout is a reusable wrapper component declared once and attached to
// groups or views.
//
// The Name must be stable across builds - it is what the client echoes back
// during segment negotiation, so renaming a layout invalidates in-flight
// sessions (they fall back to full navigation, nothing breaks).
//
//	var Shell = &seam.Layout{
//	    Name:  "Shell",
//	    Body:  shellLayout,
//	    Props: seam.Props{"brand": "Acme"},
//	}
type Layout struct {
	Name  string
	Body  LayoutFunc
	Props Props // static defaults declared with the layout itself
}

// LayoutUse attaches a layout at a group or view level, optionally with
// static props for that use site. Use-site props override the layout's own
// defaults; dynamic props returned by the handler override both.
type LayoutUse struct {
	Layout *Layout
	Props  Props
}

// Use declares a layout attachment with optional static props.
//
//	Group := &seam.Group{Layout: seam.Use(AdminShell, seam.Props{"section": "admin"})}
func Use(l *Layout, props ...Props) *LayoutUse {
	u := &LayoutUse{Layout: l}
	if len(props) > 0 {
		u.Props = props[0]
	}
	return u
}

// LayoutMode controls which declared layouts apply to a view.
type LayoutMode int

const (
	// LayoutInherit nests the view inside root, group, and view layouts,
	// outermost to innermost. This is the default.
	LayoutInherit LayoutMode = iota

	// LayoutRootOnly suppresses the group layout but keeps the root layout.
	LayoutRootOnly

	// LayoutNone suppresses every layout, including the root. The view
	// renders unwrapped.
	LayoutNone
)

// View declares a route's render target: which component tree to render and
// how it nests into layouts.
//
// Views are constructed explicitly and registered once at startup - there is
// no reflection or annotation scanning. The Name doubles as the client-side
// component identifier, so it must match a key in the component map the
// application bundle publishes.
//
//	var Dashboard = &seam.View{
//	    Name:   "Dashboard",
//	    Body:   dashboardView,
//	    Layout: seam.Use(DashboardShell),
//	}
type View struct {
	Name   string
	Body   ViewFunc
	Layout *LayoutUse
	Mode   LayoutMode
}

// Group declares route-group (controller) level configuration shared by all
// views registered under it. Currently that is the group layout.
type Group struct {
	Layout *LayoutUse
}

// Response is the value a route handler returns: props for the view plus
// optional per-request head metadata and dynamic layout props.
//
// Constructed by application code, consumed once by the pipeline, discarded
// after rendering.
type Response struct {
	Props Props

	// Head overrides the pipeline-wide head defaults for this request.
	// List fields concatenate, scalar fields win.
	Head *HeadData

	// LayoutProps are shallow-merged into every layout's resolved props,
	// letting a handler update values that outer layouts render (a page
	// title in the root layout, a badge count in a sidebar).
	LayoutProps Props
}

// Data wraps a flat props map in a Response. The implicit form for handlers
// that have no head or layout-prop overrides:
//
//	return seam.Data(seam.Props{"message": "Hello"}), nil
func Data(props Props) *Response {
	return &Response{Props: props}
}
