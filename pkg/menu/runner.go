package menu

import (
	"context"
	"log/slog"

	"github.com/mchmarny/copilot/pkg/route"
	"github.com/mchmarny/copilot/pkg/server"
)

// JSONPath is where Run exposes the visible menu as JSON.
const JSONPath = "/_navbar"

var (
	version = "dev"     // Set at build time via -ldflags "-X github.com/mchmarny/copilot/pkg/menu.version=version"
	commit  = "none"    // Set at build time via -ldflags "-X github.com/mchmarny/copilot/pkg/menu.commit=commit"
	date    = "unknown" // Set at build time via -ldflags "-X github.com/mchmarny/copilot/pkg/menu.date=date"
)

// Options returns the server options serving r on "/" and its visible menu on
// JSONPath.
func Options(r *route.Router, title string) []server.Option {
	return []server.Option{
		server.WithHandler(JSONPath, Handler(r.Navbar(), title, version)),
		server.WithHandler("/", r),
	}
}

// Run serves r together with its menu and blocks until ctx is canceled.
func Run(ctx context.Context, r *route.Router, title string, opt ...server.Option) error {
	slog.Info("starting copilot", "version", version, "commit", commit, "date", date, "entries", r.Navbar().Len())

	opt = append(opt, Options(r, title)...)

	return server.New(opt...).Serve(ctx)
}
