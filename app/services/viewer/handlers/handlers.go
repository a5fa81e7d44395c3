// Package handlers contains the full set of handler functions and routes
// supported by the viewer.
package handlers

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"os"

	"github.com/conscoin/blockchain/business/web/mid"
	"github.com/conscoin/blockchain/foundation/web"
	"go.uber.org/zap"
)

//go:embed assets
var assets embed.FS

// UIMux constructs an http.Handler with all application routes defined. The
// page streams events from the node at the specified websocket url.
func UIMux(build string, eventsURL string, shutdown chan os.Signal, log *zap.SugaredLogger) (*web.App, error) {
	app := web.NewApp(
		shutdown,
		mid.Logger(log),
		mid.Errors(log),
		mid.Panics(),
	)

	// Register the index page for the website.
	ig, err := newIndex(build, eventsURL)
	if err != nil {
		return nil, fmt.Errorf("loading index template: %w", err)
	}
	app.Handle(http.MethodGet, "", "/", ig.handler)

	return app, nil
}

// =============================================================================

type index struct {
	tmpl *template.Template
	data any
}

func newIndex(build string, eventsURL string) (*index, error) {
	tmpl, err := template.ParseFS(assets, "assets/index.html")
	if err != nil {
		return nil, err
	}

	ig := index{
		tmpl: tmpl,
		data: struct {
			Build     string
			EventsURL string
		}{
			Build:     build,
			EventsURL: eventsURL,
		},
	}

	return &ig, nil
}

func (ig *index) handler(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := web.SetStatusCode(ctx, http.StatusOK); err != nil {
		return err
	}

	if err := ig.tmpl.Execute(w, ig.data); err != nil {
		return fmt.Errorf("executing index template: %w", err)
	}

	return nil
}
