package navbar

import (
	"fmt"
	"iter"
	"slices"
	"sync"
)

// inserting serializes Insert, which holds two tree locks at once.
var inserting sync.Mutex

// Group is an ordered set of sibling entries, sorted by their sort key.
// Entries with equal keys keep their insertion order.
type Group struct {
	lock     treeLock
	resolver Resolver // handed to entries inserted without one
	entries  []*Entry
}

// NewGroup creates an empty detached group.
func NewGroup() *Group {
	return newGroup(&sync.RWMutex{}, nil)
}

func newGroup(mu *sync.RWMutex, r Resolver) *Group {
	g := &Group{resolver: r}
	g.lock.set(mu)
	return g
}

// Insert adds the detached entry e, with its subtree, at its sorted position.
// It fails without modifying anything when e already has a parent, when a
// sibling has the same label or when e's sort key cannot be compared with the
// key of every sibling.
func (g *Group) Insert(e *Entry) error {
	if !e.attached.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: %q", ErrAttached, e.label)
	}

	inserting.Lock()
	defer inserting.Unlock()

	mu := g.lock.lock()
	defer mu.Unlock()

	// only groups inside e's own subtree share its mutex
	if e.lock.p.Load() == mu {
		e.attached.Store(false)
		return fmt.Errorf("%w: %q into its own subtree", ErrAttached, e.label)
	}

	old := e.lock.lock()
	defer old.Unlock()

	if err := g.admit(e); err != nil {
		e.attached.Store(false)
		return err
	}

	e.adopt(mu, g.resolver)
	g.place(e)
	return nil
}

// Find returns the first entry labeled label, or nil.
func (g *Group) Find(label string) *Entry {
	mu := g.lock.rlock()
	defer mu.RUnlock()
	return g.find(label)
}

// Len returns the number of entries in the group.
func (g *Group) Len() int {
	mu := g.lock.rlock()
	defer mu.RUnlock()
	return len(g.entries)
}

// Entries returns a snapshot of the group in sort order.
func (g *Group) Entries() []*Entry {
	mu := g.lock.rlock()
	defer mu.RUnlock()
	return slices.Clone(g.entries)
}

// All yields a snapshot of the group in sort order.
func (g *Group) All() iter.Seq[*Entry] {
	return slices.Values(g.Entries())
}

// Labels returns the labels of the group in sort order.
func (g *Group) Labels() []string {
	mu := g.lock.rlock()
	defer mu.RUnlock()

	labels := make([]string, 0, len(g.entries))
	for _, e := range g.entries {
		labels = append(labels, e.label)
	}
	return labels
}

func (g *Group) find(label string) *Entry {
	for _, e := range g.entries {
		if e.label == label {
			return e
		}
	}
	return nil
}

// check reports whether key can be ordered against every entry but skip.
func (g *Group) check(key any, skip *Entry) error {
	for _, e := range g.entries {
		if e == skip {
			continue
		}
		if _, err := compareOrder(key, e.sortKey()); err != nil {
			return fmt.Errorf("ordering %v against sibling %q: %w", key, e.label, err)
		}
		if _, err := compareOrder(e.sortKey(), key); err != nil {
			return fmt.Errorf("ordering sibling %q against %v: %w", e.label, key, err)
		}
	}
	return nil
}

func (g *Group) insert(e *Entry) error {
	if err := g.admit(e); err != nil {
		return err
	}
	g.place(e)
	return nil
}

// admit reports whether e can join the group.
func (g *Group) admit(e *Entry) error {
	if g.find(e.label) != nil {
		return fmt.Errorf("%w: %q", ErrDuplicateLabel, e.label)
	}
	return g.check(e.sortKey(), nil)
}

// place inserts e at its sorted position. The caller admitted e.
func (g *Group) place(e *Entry) {
	key := e.sortKey()
	i, _ := slices.BinarySearchFunc(g.entries, key, func(sibling *Entry, k any) int {
		c, _ := compareOrder(sibling.sortKey(), k)
		if c == 0 {
			// equal keys go after existing siblings
			return -1
		}
		return c
	})

	g.entries = slices.Insert(g.entries, i, e)
	e.attached.Store(true)
}

// reorder moves e after its sort key changed. The key was checked already.
func (g *Group) reorder(e *Entry) {
	i := slices.Index(g.entries, e)
	if i < 0 {
		return
	}

	g.entries = slices.Delete(g.entries, i, i+1)
	g.place(e)
}

func visible(g *Group) iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for _, e := range g.Entries() {
			if e.Visible() && !yield(e) {
				return
			}
		}
	}
}
