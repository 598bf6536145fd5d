// Package seam is a server-side rendering pipeline that plugs templ
// components into a request/response web framework, with layout
// composition and partial client-side navigation.
//
// seam intercepts a route handler's returned data, resolves the route's
// layout chain, renders the view inside it (buffered or streamed), and -
// for client navigations - negotiates which part of the already-rendered
// page actually changed so only that subtree crosses the wire.
//
// # Views and Layouts
//
// Views and layouts are declared explicitly as descriptor structs; there is
// no reflection or annotation scanning:
//
//	var Shell = &seam.Layout{Name: "Shell", Body: shellLayout}
//
//	var Dashboard = &seam.View{
//	    Name:   "Dashboard",
//	    Body:   dashboardView,
//	    Layout: seam.Use(DashboardNav),
//	}
//
// Layouts nest root -> group -> view, outermost to innermost. A view can
// opt out with Mode: LayoutRootOnly (suppress the group layout) or
// LayoutNone (render unwrapped).
//
// # The pipeline
//
// One Pipeline per process holds the shell template, head defaults, and
// render configuration:
//
//	p, err := seam.New(
//	    seam.WithTemplateFile("shell.html"),
//	    seam.WithRootLayout(Shell),
//	    seam.WithClientEntry("/static/app.js"),
//	)
//
//	mux.Handle("/_seam/", p.Runtime())
//	mux.Handle("GET /dashboard", p.Handler(Dashboard, appGroup, dashboardHandler))
//
// Handlers return data, not markup:
//
//	func dashboardHandler(ctx context.Context, rc *seam.RenderContext) (*seam.Response, error) {
//	    return seam.Data(seam.Props{"message": "Hello"}), nil
//	}
//
// # Segment navigation
//
// The embedded client runtime intercepts same-origin link clicks and sends
// the layout chain currently in the DOM in the X-Seam-Segment header. The
// server compares it against the destination route's chain, finds the
// deepest shared layout, and returns JSON carrying only the subtree below
// it. The client swaps that subtree inside the matching outlet and updates
// history and head metadata. Whenever negotiation cannot succeed - no
// shared layout, missing outlet, network failure - the client falls back
// to a full page navigation.
//
// # Rendering strategies
//
// Buffered mode (default) produces the whole document in memory; any error
// leaves the response untouched so the caller still controls the status
// code. Streaming mode writes the shell immediately and pipes component
// output as produced; errors before the first byte still yield a proper
// error page, errors after it can only be logged. See WithStreaming.
package seam
