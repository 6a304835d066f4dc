package menu

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"iter"
	"log/slog"
	"net/http"

	"github.com/mchmarny/copilot/pkg/navbar"
)

const (
	// DefaultHref is the link rendered for placeholder entries.
	DefaultHref = "#"

	// ContextKey is the name the visible entries are exposed under in templates.
	ContextKey = "navbar"
)

// NavTemplate renders the visible tree as nested lists.
const NavTemplate = `{{define "navbar-level"}}<ul>{{range .}}<li><a href="{{.URL "#"}}">{{.Label}}</a>{{template "navbar-level" .VisibleChildren}}</li>{{end}}</ul>{{end}}` +
	`{{define "navbar"}}<nav>{{template "navbar-level" .navbar}}</nav>{{end}}`

// Menu is a snapshot of the visible navbar.
type Menu struct {
	// Title of the menu
	Title string `json:"title"`

	// Version of the site
	Version string `json:"version,omitempty"`

	// Items are the visible root entries
	Items []Item `json:"items,omitempty"`
}

// Build snapshots the visible entries, resolving every link. Resolution errors
// are returned as they are.
func Build(title, version string, entries iter.Seq[*navbar.Entry]) (*Menu, error) {
	items, err := build(entries)
	if err != nil {
		return nil, err
	}

	return &Menu{
		Title:   title,
		Version: version,
		Items:   items,
	}, nil
}

func build(entries iter.Seq[*navbar.Entry]) ([]Item, error) {
	var items []Item

	for e := range entries {
		u, err := e.URL(DefaultHref)
		if err != nil {
			return nil, err
		}

		children, err := build(e.VisibleChildren())
		if err != nil {
			return nil, err
		}

		items = append(items, Item{
			Title:    e.Label(),
			URL:      u,
			Endpoint: e.Endpoint(),
			Items:    children,
		})
	}

	return items, nil
}

// Handler responds with the visible menu of nb as JSON, computed per request.
func Handler(nb *navbar.Navbar, title, version string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("handling menu request",
			"method", r.Method,
			"url", r.URL.Path,
		)

		m, err := Build(title, version, nb.Entries())
		if err != nil {
			slog.Error("failed to build menu", "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		var b bytes.Buffer
		if err := json.NewEncoder(&b).Encode(m); err != nil {
			slog.Error("failed to encode menu", "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = b.WriteTo(w)
	})
}

// Context returns the template data holding the visible entries of nb under
// ContextKey, merged with data.
func Context(nb *navbar.Navbar, data map[string]any) map[string]any {
	ctx := make(map[string]any, len(data)+1)
	for k, v := range data {
		ctx[k] = v
	}
	ctx[ContextKey] = nb.Entries()
	return ctx
}

// Templates parses NavTemplate so pages can {{template "navbar" .}}.
func Templates(name string) *template.Template {
	return template.Must(template.New(name).Parse(NavTemplate))
}

// Render executes tmpl with the navbar context.
func Render(w io.Writer, tmpl *template.Template, nb *navbar.Navbar, data map[string]any) error {
	if err := tmpl.Execute(w, Context(nb, data)); err != nil {
		return fmt.Errorf("rendering %q: %w", tmpl.Name(), err)
	}
	return nil
}
