// Package seamecho provides Echo framework integration for the seam render
// pipeline.
//
// Mount the runtime and register view handlers on an Echo instance:
//
//	e := echo.New()
//	seamecho.Mount(e, p)
//	e.GET("/dashboard", seamecho.Handler(p, Dashboard, appGroup, dashboardHandler))
package seamecho

import (
	"github.com/labstack/echo/v4"

	"github.com/pthm/seam"
)

// Mount registers the client runtime route on an Echo instance, under the
// pipeline's configured runtime path.
func Mount(e *echo.Echo, p *seam.Pipeline) {
	e.GET(p.RuntimePath()+"*", echo.WrapHandler(p.Runtime()))
}

// MountGroup registers the client runtime route on an Echo group, so the
// runtime shares the group's middleware.
func MountGroup(g *echo.Group, p *seam.Pipeline) {
	g.GET(p.RuntimePath()+"*", echo.WrapHandler(p.Runtime()))
}

// Handler adapts a view + handler into an echo.HandlerFunc.
//
// Route parameters are read from the Echo context and exposed in the
// RenderContext. The pipeline's tagged result drives the response: a
// Complete body is sent through Echo, a Streamed result means the pipeline
// already wrote the response and Echo must not send another body.
func Handler(p *seam.Pipeline, view *seam.View, group *seam.Group, h seam.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		names := c.ParamNames()
		params := make(map[string]string, len(names))
		for _, name := range names {
			params[name] = c.Param(name)
		}

		res, err := p.Render(c.Response(), c.Request(), view, group, params, h)
		if err != nil {
			p.OnError(c.Response(), c.Request(), err)
			return nil
		}
		if res.IsStreamed() {
			return nil
		}
		return c.Blob(res.Status(), res.ContentType(), res.Body())
	}
}
