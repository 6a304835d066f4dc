package navbar

import (
	"iter"
	"maps"
	"sync"
	"sync/atomic"
)

// Resolver turns an endpoint and its parameters into a link.
type Resolver interface {
	URL(endpoint string, params map[string]string) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(endpoint string, params map[string]string) (string, error)

// URL calls f(endpoint, params).
func (f ResolverFunc) URL(endpoint string, params map[string]string) (string, error) {
	return f(endpoint, params)
}

// Entry is a single node of the navigation tree.
//
// All entries of one tree share the lock of the Navbar that owns them, so the
// accessors are safe to call while routes are still being declared.
type Entry struct {
	lock     treeLock
	attached atomic.Bool // set once the entry has a parent group
	resolver Resolver

	label    string
	endpoint string
	params   map[string]string
	order    any // nil means the label is the sort key
	when     func() bool
	children *Group
}

// EntryOption configures an Entry created with NewEntry.
type EntryOption func(*Entry)

// WithEndpoint sets the endpoint the entry links to.
func WithEndpoint(endpoint string) EntryOption {
	return func(e *Entry) { e.endpoint = endpoint }
}

// WithParams sets the parameters passed to the resolver with the endpoint.
func WithParams(params map[string]string) EntryOption {
	return func(e *Entry) { e.params = maps.Clone(params) }
}

// WithOrder sets an explicit sort key. Siblings must have mutually comparable keys.
func WithOrder(order any) EntryOption {
	return func(e *Entry) { e.order = order }
}

// WithWhen sets the visibility predicate. It is evaluated on every call to Visible.
func WithWhen(when func() bool) EntryOption {
	return func(e *Entry) { e.when = when }
}

// WithEntryResolver sets the resolver used by URL.
func WithEntryResolver(r Resolver) EntryOption {
	return func(e *Entry) { e.resolver = r }
}

// NewEntry creates a detached entry. It can be inserted into one Group, whose
// tree lock and resolver it adopts; WithEntryResolver takes precedence.
func NewEntry(label string, opts ...EntryOption) *Entry {
	e := newEntry(&sync.RWMutex{}, nil, label)
	for _, opt := range opts {
		opt(e)
	}
	e.children.resolver = e.resolver
	return e
}

func newEntry(mu *sync.RWMutex, r Resolver, label string) *Entry {
	e := &Entry{
		resolver: r,
		label:    label,
		params:   map[string]string{},
		children: newGroup(mu, r),
	}
	e.lock.set(mu)
	return e
}

// Label returns the display text of the entry.
func (e *Entry) Label() string {
	return e.label
}

// Endpoint returns the endpoint of the entry, empty for placeholders.
func (e *Entry) Endpoint() string {
	mu := e.lock.rlock()
	defer mu.RUnlock()
	return e.endpoint
}

// IsPlaceholder reports whether the entry exists only to group its children.
func (e *Entry) IsPlaceholder() bool {
	return e.Endpoint() == ""
}

// Params returns a copy of the link parameters.
func (e *Entry) Params() map[string]string {
	mu := e.lock.rlock()
	defer mu.RUnlock()
	return maps.Clone(e.params)
}

// Order returns the sort key of the entry: the explicit order if one was
// given, the label otherwise.
func (e *Entry) Order() any {
	mu := e.lock.rlock()
	defer mu.RUnlock()
	return e.sortKey()
}

func (e *Entry) sortKey() any {
	if e.order != nil {
		return e.order
	}
	return e.label
}

// Children returns the group holding the entry's children.
func (e *Entry) Children() *Group {
	return e.children
}

// VisibleChildren yields the visible children in sort order.
func (e *Entry) VisibleChildren() iter.Seq[*Entry] {
	return visible(e.children)
}

// Visible reports whether the entry should be shown:
//
//  1. if the entry has a predicate, its result;
//  2. if it has no endpoint but has children, whether any child is visible;
//  3. true otherwise.
//
// The predicate runs under the tree's read lock and must not declare routes.
func (e *Entry) Visible() bool {
	mu := e.lock.rlock()
	defer mu.RUnlock()
	return e.visible()
}

func (e *Entry) visible() bool {
	if e.when != nil {
		return e.when()
	}

	if e.endpoint == "" && len(e.children.entries) > 0 {
		for _, c := range e.children.entries {
			if c.visible() {
				return true
			}
		}
		return false
	}

	return true
}

// URL returns the link of the entry. Placeholders return defaultHref; errors
// from the resolver are returned as is.
func (e *Entry) URL(defaultHref string) (string, error) {
	mu := e.lock.rlock()
	endpoint, params, r := e.endpoint, maps.Clone(e.params), e.resolver
	mu.RUnlock()

	if endpoint == "" {
		return defaultHref, nil
	}

	if r == nil {
		return "", ErrNoResolver
	}

	return r.URL(endpoint, params)
}

// adopt moves the entry and its subtree under mu, filling in r where no
// resolver was set. The caller holds both the old and the new tree lock.
func (e *Entry) adopt(mu *sync.RWMutex, r Resolver) {
	if e.resolver == nil {
		e.resolver = r
	}

	e.lock.set(mu)
	e.children.lock.set(mu)
	e.children.resolver = e.resolver
	for _, c := range e.children.entries {
		c.adopt(mu, e.resolver)
	}
}
