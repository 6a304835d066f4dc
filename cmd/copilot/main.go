package main

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mchmarny/copilot/pkg/logger"
	"github.com/mchmarny/copilot/pkg/menu"
	"github.com/mchmarny/copilot/pkg/route"
	"github.com/mchmarny/copilot/pkg/server"
)

var version = "v0.0.0" // Set at build time via -ldflags "-X main.version=version"

const page = `<!doctype html>
<html>
<head><title>{{.title}}</title></head>
<body>
{{template "navbar" .}}
<main><h1>{{.title}}</h1></main>
</body>
</html>
`

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		port     int
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "copilot",
		Short: "Serves an example site whose navbar is built from its routes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger.SetDefaultLoggerWithLevel("copilot", version, logLevel)

			reg := prometheus.NewRegistry()
			r, err := makeSite(reg)
			if err != nil {
				return fmt.Errorf("building site: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return menu.Run(ctx, r, "Copilot",
				server.WithPort(port),
				server.WithRegistry(reg),
				server.WithPrometheusMetrics(),
				server.WithSimpleHealth(),
				server.WithErrorLog(logger.NewLogLogger(slog.LevelError, false)),
			)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", server.DefaultPort, "Port to run the server on")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to $"+logger.EnvVarLogLevel)
	cmd.SetContext(context.Background())

	return cmd
}

// site holds the state the example pages depend on.
type site struct {
	router *route.Router
	tmpl   *template.Template
	admin  atomic.Bool
}

// makeSite declares the example routes. "About" has no route of its own and
// stays a placeholder; "Admin" only shows once enabled with a POST to /admin/toggle.
func makeSite(reg prometheus.Registerer) (*route.Router, error) {
	s := &site{
		router: route.New(route.WithRegistry(reg)),
	}
	s.tmpl = template.Must(menu.Templates("page").Parse(page))

	declarations := []struct {
		path    string
		title   string
		options []route.RouteOption
	}{
		// "" sorts before any other label so Home comes first
		{"/", "Home", []route.RouteOption{route.Name("index"), route.Nav(route.Meta{Path: "Home", Order: ""})}},
		{"/about/go/", "About Go", []route.RouteOption{route.Name("about_go"), route.Nav(route.Meta{Path: []string{"About", "Go"}})}},
		{"/about/copilot/", "About Copilot", []route.RouteOption{route.Name("about_copilot"), route.Nav(route.Meta{Path: []string{"About", "Copilot"}})}},
		{"/users/{id}", "Profile", []route.RouteOption{route.Name("profile"), route.Nav(route.Meta{
			Path:      []string{"Account", "Profile"},
			URLParams: map[string]string{"id": "me"},
		})}},
		{"/admin/", "Admin", []route.RouteOption{route.Name("admin"), route.Nav(route.Meta{Path: "Admin", When: s.admin.Load})}},
	}

	for _, d := range declarations {
		if _, err := s.router.Handle(d.path, s.render(d.title), d.options...); err != nil {
			return nil, err
		}
	}

	if _, err := s.router.HandleFunc("/admin/toggle", s.toggle, route.Methods(http.MethodPost)); err != nil {
		return nil, err
	}

	return s.router, nil
}

func (s *site) render(title string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var b bytes.Buffer
		if err := menu.Render(&b, s.tmpl, s.router.Navbar(), map[string]any{"title": title}); err != nil {
			slog.Error("failed to render page", "url", r.URL.Path, "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = b.WriteTo(w)
	})
}

func (s *site) toggle(w http.ResponseWriter, _ *http.Request) {
	enabled := !s.admin.Load()
	for !s.admin.CompareAndSwap(!enabled, enabled) {
		enabled = !s.admin.Load()
	}
	slog.Info("admin toggled", "enabled", enabled)
	w.WriteHeader(http.StatusNoContent)
}
