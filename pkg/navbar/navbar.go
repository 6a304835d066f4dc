package navbar

import (
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"sync"

	"github.com/mchmarny/copilot/pkg/metric"
)

const (
	// ActionCreated labels a new entry, placeholder or not.
	ActionCreated = "created"

	// ActionUpgraded labels a placeholder that received its endpoint.
	ActionUpgraded = "upgraded"

	// ActionUpdated labels an entry whose endpoint was overwritten.
	ActionUpdated = "updated"
)

// Declaration is the navigation metadata of one declared route.
type Declaration struct {
	// Path is the list of labels from the root down to the entry.
	Path []string

	// Endpoint identifies the route the last segment links to.
	Endpoint string

	// Params are passed to the resolver together with Endpoint.
	Params map[string]string

	// Order is the optional sort key of the last segment. The label is used when nil.
	Order any

	// When is the optional visibility predicate of the last segment.
	When func() bool
}

// Navbar owns the forest of navigation entries built from route declarations.
type Navbar struct {
	mu       sync.RWMutex
	roots    *Group
	resolver Resolver
	counter  metric.IncrementalCounter
	logger   *slog.Logger
}

// Option configures a Navbar.
type Option func(*Navbar)

// WithResolver sets the resolver entries use to build their links.
func WithResolver(r Resolver) Option {
	return func(n *Navbar) { n.resolver = r }
}

// WithCounter counts registrations per action (created, upgraded, updated).
func WithCounter(c metric.IncrementalCounter) Option {
	return func(n *Navbar) { n.counter = c }
}

// WithLogger sets the logger used for registration events.
func WithLogger(l *slog.Logger) Option {
	return func(n *Navbar) { n.logger = l }
}

// New creates an empty Navbar.
func New(opts ...Option) *Navbar {
	n := &Navbar{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}

	n.roots = newGroup(&n.mu, n.resolver)

	return n
}

// Register adds the declaration to the tree, creating placeholder entries for
// missing ancestors and upgrading an existing entry that matches the full path.
// A failing call leaves the tree untouched.
func (n *Navbar) Register(d Declaration) error {
	if err := validatePath(d.Path); err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.check(d); err != nil {
		return fmt.Errorf("registering %q: %w", d.Path, err)
	}

	group := n.roots
	for i, label := range d.Path {
		last := i == len(d.Path)-1

		e := group.find(label)
		switch {
		case e == nil:
			e = newEntry(&n.mu, n.resolver, label)
			if last {
				e.assign(d)
			}
			if err := group.insert(e); err != nil {
				return fmt.Errorf("registering %q: %w", d.Path, err)
			}
			n.record(ActionCreated, e)
		case last:
			action := ActionUpdated
			if e.endpoint == "" {
				action = ActionUpgraded
			}

			old := e.sortKey()
			e.assign(d)
			if c, err := compareOrder(old, e.sortKey()); err != nil || c != 0 {
				group.reorder(e)
			}
			n.record(action, e)
		}

		group = e.children
	}

	return nil
}

// check walks the part of the path that already exists and verifies every
// order comparison Register would make.
func (n *Navbar) check(d Declaration) error {
	group := n.roots
	for i, label := range d.Path {
		last := i == len(d.Path)-1

		e := group.find(label)
		if e == nil {
			key := any(label)
			if last && d.Order != nil {
				key = d.Order
			}
			// everything below a new entry is new as well
			return group.check(key, nil)
		}

		if last && d.Order != nil {
			return group.check(d.Order, e)
		}

		group = e.children
	}

	return nil
}

func (e *Entry) assign(d Declaration) {
	e.endpoint = d.Endpoint
	e.params = maps.Clone(d.Params)
	if e.params == nil {
		e.params = map[string]string{}
	}
	if d.Order != nil {
		e.order = d.Order
	}
	e.when = d.When
}

func (n *Navbar) record(action string, e *Entry) {
	if n.counter != nil {
		n.counter.Increment(action)
	}
	n.logger.Debug("navbar entry registered",
		"label", e.label,
		"endpoint", e.endpoint,
		"action", action,
	)
}

// Entries yields the visible root entries in sort order. Every iteration takes
// a fresh snapshot and evaluates visibility again.
func (n *Navbar) Entries() iter.Seq[*Entry] {
	return visible(n.roots)
}

// Roots returns the root group, visible or not.
func (n *Navbar) Roots() *Group {
	return n.roots
}

// Len returns the number of root entries.
func (n *Navbar) Len() int {
	return n.roots.Len()
}

// Walk calls fn for every entry depth first, in sort order, with the entry's
// depth starting at zero for roots. It stops when fn returns false.
func (n *Navbar) Walk(fn func(depth int, e *Entry) bool) {
	walk(n.roots, 0, fn)
}

func walk(g *Group, depth int, fn func(int, *Entry) bool) bool {
	for _, e := range g.Entries() {
		if !fn(depth, e) || !walk(e.children, depth+1, fn) {
			return false
		}
	}
	return true
}
