package seam

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/a-h/templ"
)

const testShell = `<!DOCTYPE html>
<html>
<head><!--seam:head--><!--seam:styles--></head>
<body>
<div id="app" data-seam-root>
<!--seam:content-->
</div>
<!--seam:state-->
<!--seam:scripts-->
</body>
</html>`

// namedLayout builds a layout that frames its children in recognizable
// markers, so tests can assert on nesting order with substring checks.
func namedLayout(name string, props Props) *Layout {
	return &Layout{
		Name:  name,
		Props: props,
		Body: func(rc *RenderContext, props Props, children templ.Component) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				if _, err := fmt.Fprintf(w, "{%s|", name); err != nil {
					return err
				}
				if err := children.Render(ctx, w); err != nil {
					return err
				}
				_, err := fmt.Fprintf(w, "|%s}", name)
				return err
			})
		},
	}
}

// textView builds a view that renders a fixed format string against its
// props.
func textView(name, format string, keys ...string) *View {
	return &View{
		Name: name,
		Body: func(rc *RenderContext, props Props) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				args := make([]any, len(keys))
				for i, k := range keys {
					args[i] = props[k]
				}
				_, err := fmt.Fprintf(w, format, args...)
				return err
			})
		},
	}
}

// failingView builds a view whose component writes partial output and then
// fails.
func failingView(name, partial string, err error) *View {
	return &View{
		Name: name,
		Body: func(rc *RenderContext, props Props) templ.Component {
			return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
				if partial != "" {
					if _, werr := io.WriteString(w, partial); werr != nil {
						return werr
					}
				}
				return err
			})
		},
	}
}

func newTestPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	base := []Option{
		WithTemplate(testShell),
		WithDevMode(true),
		WithKey([]byte("test-key-32-bytes-long-for-aes!!")),
	}
	p, err := New(append(base, opts...)...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func staticHandler(resp *Response) HandlerFunc {
	return func(ctx context.Context, rc *RenderContext) (*Response, error) {
		return resp, nil
	}
}
