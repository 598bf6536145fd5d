package main

import (
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
	"github.com/pthm/seam"
)

// Shell is the root layout: site chrome around every page.
var Shell = &seam.Layout{
	Name: "Shell",
	Body: shellLayout,
	Props: seam.Props{
		"brand": "Seam Demo",
	},
}

// Dash is the group layout shared by all dashboard routes.
var Dash = &seam.Layout{
	Name: "Dash",
	Body: dashLayout,
}

// Home is the landing page view, wrapped by the root layout only.
var Home = &seam.View{
	Name: "Home",
	Body: homeView,
}

// Overview and Reports live in the dashboard group. Navigating between
// them swaps only the content inside the Dash outlet.
var Overview = &seam.View{
	Name: "Overview",
	Body: overviewView,
}

var Reports = &seam.View{
	Name: "Reports",
	Body: reportsView,
}

func shellLayout(rc *seam.RenderContext, props seam.Props, children templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		brand, _ := props["brand"].(string)
		fmt.Fprintf(w, `<header><a href="/">%s</a> <a href="/dash">Dashboard</a></header>`, html.EscapeString(brand))
		if err := children.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<footer>rendered by seam</footer>`)
		return err
	})
}

func dashLayout(rc *seam.RenderContext, props seam.Props, children templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<nav><a href="/dash">Overview</a> <a href="/dash/reports">Reports</a></nav>`)
		if err != nil {
			return err
		}
		return children.Render(ctx, w)
	})
}

func homeView(rc *seam.RenderContext, props seam.Props) templ.Component {
	return text(func() string {
		msg, _ := props["message"].(string)
		return "<h1>" + html.EscapeString(msg) + "</h1>"
	})
}

func overviewView(rc *seam.RenderContext, props seam.Props) templ.Component {
	return text(func() string {
		count, _ := props["count"].(int)
		return fmt.Sprintf("<h1>Overview</h1><p>%d widgets</p>", count)
	})
}

func reportsView(rc *seam.RenderContext, props seam.Props) templ.Component {
	return text(func() string {
		return "<h1>Reports</h1><p>Nothing to report.</p>"
	})
}

func text(f func() string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, f())
		return err
	})
}
