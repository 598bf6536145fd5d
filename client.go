package seam

import (
	"embed"
	"net/http"
	"strings"
)

//go:embed assets/seam.js
var runtimeAssets embed.FS

// runtimeScript is the file name the runtime is served under, below the
// configured runtime path.
const runtimeScript = "seam.js"

// Runtime returns a handler serving the embedded client runtime - the
// navigation controller that intercepts link clicks, negotiates segments,
// and swaps outlets. Mount it at the configured runtime path:
//
//	mux.Handle("/_seam/", p.Runtime())
//
// The runtime is immutable per build, so it is served with long-lived
// caching in production.
func (p *Pipeline) Runtime() http.Handler {
	js, err := runtimeAssets.ReadFile("assets/" + runtimeScript)
	if err != nil {
		// The asset is compiled into the binary; absence is a build defect.
		panic("seam: embedded runtime missing: " + err.Error())
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, runtimeScript) {
			http.NotFound(w, r)
			return
		}
		w.Header().Set(HeaderContentType, "text/javascript; charset=utf-8")
		if p.dev {
			w.Header().Set("Cache-Control", "no-store")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		}
		w.Write(js)
	})
}
