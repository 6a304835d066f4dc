package route

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mchmarny/copilot/pkg/metric"
	"github.com/mchmarny/copilot/pkg/navbar"
)

func index(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("index"))
}

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func mustHandle(t *testing.T, r *Router, path string, opts ...RouteOption) {
	t.Helper()
	if _, err := r.HandleFunc(path, ok, opts...); err != nil {
		t.Fatalf("HandleFunc(%q) = %v", path, err)
	}
}

func TestDefaultRoutingBehavior(t *testing.T) {
	r := New()
	if _, err := r.HandleFunc("/", index); err != nil {
		t.Fatal(err)
	}

	if r.Navbar().Len() != 0 {
		t.Fatal("a route without metadata must not create entries")
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "index" {
		t.Fatalf("GET / = %d %q", rec.Code, rec.Body.String())
	}
}

func TestRuleRegistration(t *testing.T) {
	tests := []struct {
		name string
		path any
	}{
		{"sequence", []string{"Home"}},
		{"string", "Home"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			if _, err := r.HandleFunc("/", index, Nav(Meta{Path: tt.path})); err != nil {
				t.Fatal(err)
			}

			if r.Navbar().Len() != 1 {
				t.Fatalf("Len() = %d, want 1", r.Navbar().Len())
			}
			if got := r.Navbar().Roots().Find("Home").Endpoint(); got != "index" {
				t.Fatalf("Endpoint() = %q, want the handler name", got)
			}
		})
	}
}

type foo struct{}

func (foo) String() string { return "Foo" }

func TestLabelStringConversion(t *testing.T) {
	r := New()
	mustHandle(t, r, "/", Nav(Meta{Path: []any{foo{}}}))

	if diff := cmp.Diff([]string{"Foo"}, r.Navbar().Roots().Labels()); diff != "" {
		t.Fatalf("unexpected labels (-want +got):\n%s", diff)
	}
}

func TestDescendantRegistration(t *testing.T) {
	r := New()
	mustHandle(t, r, "/", Name("home"), Nav(Meta{Path: "Home"}))
	mustHandle(t, r, "/foo/bar/baz/", Name("baz"), Nav(Meta{Path: []string{"Foo", "Bar", "Baz"}}))
	mustHandle(t, r, "/foo/bar/quux/", Name("quux"), Nav(Meta{Path: []string{"Foo", "Bar", "Quux"}}))

	roots := r.Navbar().Roots()
	if diff := cmp.Diff([]string{"Foo", "Home"}, roots.Labels()); diff != "" {
		t.Fatalf("unexpected roots (-want +got):\n%s", diff)
	}

	bar := roots.Find("Foo").Children().Find("Bar")
	if diff := cmp.Diff([]string{"Baz", "Quux"}, bar.Children().Labels()); diff != "" {
		t.Fatalf("unexpected children (-want +got):\n%s", diff)
	}
}

func TestEndpointReplacement(t *testing.T) {
	r := New()
	mustHandle(t, r, "/foo/bar/", Name("bar"), Nav(Meta{Path: []string{"Foo", "Bar"}}))

	foo := r.Navbar().Roots().Find("Foo")
	if !foo.IsPlaceholder() {
		t.Fatal("Foo should be a placeholder")
	}

	mustHandle(t, r, "/foo/", Name("foo"), Nav(Meta{Path: []string{"Foo"}}))
	if foo.Endpoint() != "foo" {
		t.Fatalf("Endpoint() = %q, want foo", foo.Endpoint())
	}
}

func TestDuplicateEndpoint(t *testing.T) {
	r := New()
	mustHandle(t, r, "/", Name("index"), Nav(Meta{Path: "Home"}))

	route, err := r.HandleFunc("/other/", ok, Name("index"), Nav(Meta{Path: "Other"}))
	if !errors.Is(err, ErrDuplicateEndpoint) {
		t.Fatalf("HandleFunc() error = %v, want %v", err, ErrDuplicateEndpoint)
	}
	if route != nil {
		t.Fatal("a rejected declaration must not return a route")
	}

	if diff := cmp.Diff([]string{"Home"}, r.Navbar().Roots().Labels()); diff != "" {
		t.Fatalf("unexpected roots (-want +got):\n%s", diff)
	}

	got, err := r.URL("index", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "/" {
		t.Fatalf("URL(index) = %q, want /", got)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET /other/ = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestURL(t *testing.T) {
	r := New()
	mustHandle(t, r, "/", Name("index"), Nav(Meta{Path: "Home"}))
	mustHandle(t, r, "/users/{id}", Name("profile"), Nav(Meta{
		Path:      []string{"Account", "Profile"},
		URLParams: map[string]string{"id": "me"},
	}))

	tests := []struct {
		endpoint string
		params   map[string]string
		want     string
	}{
		{"index", nil, "/"},
		{"profile", map[string]string{"id": "42"}, "/users/42"},
	}
	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			got, err := r.URL(tt.endpoint, tt.params)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("URL() = %q, want %q", got, tt.want)
			}
		})
	}

	profile := r.Navbar().Roots().Find("Account").Children().Find("Profile")
	got, err := profile.URL("#")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/users/me" {
		t.Fatalf("entry URL = %q, want /users/me", got)
	}
}

func TestURLErrors(t *testing.T) {
	r := New()
	mustHandle(t, r, "/users/{id}", Name("profile"))

	if _, err := r.URL("missing", nil); !errors.Is(err, ErrUnknownEndpoint) {
		t.Fatalf("URL(missing) error = %v, want %v", err, ErrUnknownEndpoint)
	}
	if _, err := r.URL("profile", nil); err == nil {
		t.Fatal("URL(profile) without id should fail")
	}
}

func TestUnknownEndpointReachesTheCaller(t *testing.T) {
	r := New()
	if err := r.Observe(&Meta{Path: "Ghost"}, "ghost"); err != nil {
		t.Fatal(err)
	}

	ghost := r.Navbar().Roots().Find("Ghost")
	if _, err := ghost.URL("#"); !errors.Is(err, ErrUnknownEndpoint) {
		t.Fatalf("URL() error = %v, want %v", err, ErrUnknownEndpoint)
	}
}

func TestMalformedMetadata(t *testing.T) {
	r := New()
	route, err := r.HandleFunc("/", index, Nav(Meta{Path: []string{}}))
	if !errors.Is(err, navbar.ErrEmptyPath) {
		t.Fatalf("HandleFunc() error = %v, want %v", err, navbar.ErrEmptyPath)
	}
	if route == nil {
		t.Fatal("the route is declared even when its metadata is rejected")
	}
}

func TestMethods(t *testing.T) {
	r := New()
	mustHandle(t, r, "/submit", Name("submit"), Methods(http.MethodPost))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/submit", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /submit = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestAttachToExistingMux(t *testing.T) {
	m := mux.NewRouter()
	r := New(WithMuxRouter(m))
	mustHandle(t, r, "/", Name("index"), Nav(Meta{Path: "Home"}))

	if m.Get("index") == nil {
		t.Fatal("route should be declared on the given mux router")
	}
}

func TestRoutersAreIsolated(t *testing.T) {
	a, b := New(), New()
	mustHandle(t, a, "/", Name("index"), Nav(Meta{Path: "Home"}))

	if b.Navbar().Len() != 0 {
		t.Fatalf("second router sees %v", b.Navbar().Roots().Labels())
	}
	if _, err := b.URL("index", nil); !errors.Is(err, ErrUnknownEndpoint) {
		t.Fatalf("URL() error = %v, want %v", err, ErrUnknownEndpoint)
	}
}

func TestRegistryCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(WithRegistry(reg))
	mustHandle(t, r, "/a/b/", Name("b"), Nav(Meta{Path: []string{"A", "B"}}))
	mustHandle(t, r, "/a/", Name("a"), Nav(Meta{Path: "A"}))
	mustHandle(t, r, "/plain", Name("plain"))

	entries := metric.NewEntriesCounter(reg).Vec()
	if got := testutil.ToFloat64(entries.WithLabelValues(navbar.ActionCreated)); got != 2 {
		t.Fatalf("created = %v, want 2", got)
	}
	if got := testutil.ToFloat64(entries.WithLabelValues(navbar.ActionUpgraded)); got != 1 {
		t.Fatalf("upgraded = %v, want 1", got)
	}

	routes := metric.NewRoutesCounter(reg).Vec()
	if got := testutil.ToFloat64(routes.WithLabelValues("true")); got != 2 {
		t.Fatalf("navbar routes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(routes.WithLabelValues("false")); got != 1 {
		t.Fatalf("plain routes = %v, want 1", got)
	}
}

func TestFuncName(t *testing.T) {
	if got := funcName(index); got != "index" {
		t.Fatalf("funcName(index) = %q", got)
	}
}
