// Package route declares HTTP routes on a gorilla/mux router and feeds the
// navbar metadata attached to each declaration into the router's Navbar.
//
// Every route is named after its endpoint, which is what entries resolve
// their links against:
//
//	r := route.New()
//	r.HandleFunc("/", index, route.Nav(route.Meta{Path: "Home"}))
//	r.HandleFunc("/about/go/", aboutGo, route.Nav(route.Meta{Path: []string{"About", "Go"}}))
package route

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"runtime"
	"slices"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mchmarny/copilot/pkg/metric"
	"github.com/mchmarny/copilot/pkg/navbar"
)

var (
	// ErrUnknownEndpoint is returned by URL for endpoints no route was declared with.
	ErrUnknownEndpoint = errors.New("route: unknown endpoint")

	// ErrDuplicateEndpoint is returned when a route is declared with an
	// endpoint another route already uses.
	ErrDuplicateEndpoint = errors.New("route: duplicate endpoint")
)

// Meta is the navbar metadata a route can be declared with.
type Meta struct {
	// Path is a label or a slice of labels. Non string values are converted
	// to their string representation.
	Path any

	// Order is the optional sort key among siblings.
	Order any

	// When is the optional visibility predicate.
	When func() bool

	// URLParams are passed to URL generation for the entry's link.
	URLParams map[string]string
}

// Router is a mux router that observes navbar metadata of declared routes.
type Router struct {
	mux    *mux.Router
	navbar *navbar.Navbar
	routes metric.IncrementalCounter
	logger *slog.Logger

	navOpts []navbar.Option
}

// Option configures a Router.
type Option func(*Router)

// WithMuxRouter attaches to an existing mux router instead of a new one.
func WithMuxRouter(m *mux.Router) Option {
	return func(r *Router) { r.mux = m }
}

// WithRegistry reports route and entry counters to reg.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(r *Router) {
		r.routes = metric.NewRoutesCounter(reg)
		r.navOpts = append(r.navOpts, navbar.WithCounter(metric.NewEntriesCounter(reg)))
	}
}

// WithLogger sets the logger of the router and its navbar.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		r.logger = l
		r.navOpts = append(r.navOpts, navbar.WithLogger(l))
	}
}

// New creates a Router with its own, empty Navbar.
func New(opts ...Option) *Router {
	r := &Router{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.mux == nil {
		r.mux = mux.NewRouter()
	}

	r.navbar = navbar.New(append(r.navOpts, navbar.WithResolver(r))...)

	return r
}

// Navbar returns the navbar built from the routes declared so far.
func (r *Router) Navbar() *navbar.Navbar {
	return r.navbar
}

// Mux returns the underlying mux router.
func (r *Router) Mux() *mux.Router {
	return r.mux
}

// ServeHTTP dispatches to the underlying mux router.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

type routeConfig struct {
	name    string
	methods []string
	meta    *Meta
}

// RouteOption configures a single route declaration.
type RouteOption func(*routeConfig)

// Name sets the endpoint of the route.
func Name(endpoint string) RouteOption {
	return func(c *routeConfig) { c.name = endpoint }
}

// Methods restricts the route to the given HTTP methods.
func Methods(methods ...string) RouteOption {
	return func(c *routeConfig) { c.methods = append(c.methods, methods...) }
}

// Nav attaches navbar metadata to the route.
func Nav(m Meta) RouteOption {
	return func(c *routeConfig) { c.meta = &m }
}

// Handle declares a route for handler. Without Name the path template is
// the endpoint.
func (r *Router) Handle(path string, handler http.Handler, opts ...RouteOption) (*mux.Route, error) {
	return r.declare(path, handler, path, opts)
}

// HandleFunc declares a route for f. Without Name the endpoint is the name
// of f, without its package.
func (r *Router) HandleFunc(path string, f func(http.ResponseWriter, *http.Request), opts ...RouteOption) (*mux.Route, error) {
	return r.declare(path, http.HandlerFunc(f), funcName(f), opts)
}

func (r *Router) declare(path string, h http.Handler, endpoint string, opts []RouteOption) (*mux.Route, error) {
	cfg := &routeConfig{name: endpoint}
	for _, opt := range opts {
		opt(cfg)
	}

	if r.mux.Get(cfg.name) != nil {
		return nil, fmt.Errorf("declaring route %q: %w: %q", path, ErrDuplicateEndpoint, cfg.name)
	}

	route := r.mux.Handle(path, h).Name(cfg.name)
	if len(cfg.methods) > 0 {
		route = route.Methods(cfg.methods...)
	}
	if err := route.GetError(); err != nil {
		return route, fmt.Errorf("declaring route %q: %w", path, err)
	}

	r.logger.Debug("route declared", "path", path, "endpoint", cfg.name, "navbar", cfg.meta != nil)

	if r.routes != nil {
		r.routes.Increment(fmt.Sprint(cfg.meta != nil))
	}

	if err := r.Observe(cfg.meta, cfg.name); err != nil {
		return route, fmt.Errorf("declaring route %q: %w", path, err)
	}

	return route, nil
}

// Observe registers the navbar metadata of a route declared with endpoint.
// Nil metadata is ignored. Hosts that declare routes by other means call it
// once per declared route.
func (r *Router) Observe(m *Meta, endpoint string) error {
	if m == nil {
		return nil
	}

	path, err := navbar.NormalizePath(m.Path)
	if err != nil {
		return err
	}

	return r.navbar.Register(navbar.Declaration{
		Path:     path,
		Endpoint: endpoint,
		Params:   m.URLParams,
		Order:    m.Order,
		When:     m.When,
	})
}

// URL builds the URL of the route named endpoint, filling its variables from
// params. It implements navbar.Resolver.
func (r *Router) URL(endpoint string, params map[string]string) (string, error) {
	route := r.mux.Get(endpoint)
	if route == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownEndpoint, endpoint)
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, params[k])
	}

	u, err := route.URL(pairs...)
	if err != nil {
		return "", fmt.Errorf("building url for %q: %w", endpoint, err)
	}

	return u.String(), nil
}

func funcName(f any) string {
	fn := runtime.FuncForPC(reflect.ValueOf(f).Pointer())
	if fn == nil {
		return ""
	}

	name := fn.Name()
	name = strings.TrimSuffix(name, "-fm")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
