package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/pthm/seam"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	p, err := seam.New(
		seam.WithTemplateFile("shell.html"),
		seam.WithRootLayout(Shell),
		seam.WithHead(seam.HeadData{Title: "Seam Demo"}),
		seam.WithLogger(logger),
		seam.WithDevMode(true),
	)
	if err != nil {
		log.Fatal(err)
	}
	p.Register(Home, Overview, Reports)

	dashGroup := &seam.Group{Layout: seam.Use(Dash)}

	mux := http.NewServeMux()
	mux.Handle("/_seam/", p.Runtime())
	mux.Handle("GET /{$}", p.Handler(Home, nil, handleHome))
	mux.Handle("GET /dash", p.Handler(Overview, dashGroup, handleOverview))
	mux.Handle("GET /dash/reports", p.Handler(Reports, dashGroup, handleReports))

	addr := ":8080"
	fmt.Printf("Starting server at http://localhost%s\n", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}

func handleHome(ctx context.Context, rc *seam.RenderContext) (*seam.Response, error) {
	return seam.Data(seam.Props{"message": "Welcome"}), nil
}

func handleOverview(ctx context.Context, rc *seam.RenderContext) (*seam.Response, error) {
	return &seam.Response{
		Props:       seam.Props{"count": 42},
		Head:        &seam.HeadData{Title: "Overview"},
		LayoutProps: seam.Props{"section": "dashboard"},
	}, nil
}

func handleReports(ctx context.Context, rc *seam.RenderContext) (*seam.Response, error) {
	return &seam.Response{
		Props: seam.Props{},
		Head:  &seam.HeadData{Title: "Reports"},
	}, nil
}
