package novelconv

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
)

// Item names a registered rule and carries its sort key.
// Higher priorities sort first.
type Item struct {
	Name     string
	Priority int
}

// Registry is a priority-ordered collection of named rules.
//
// Rules are looked up by name, by sorted position, or iterated in
// priority-descending order. Entries with equal priority keep their
// registration order. Sorting is deferred until a read needs it.
//
// A Registry is not safe for concurrent use.
type Registry[T any] struct {
	rules  map[string]T
	order  []Item
	sorted bool
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		rules:  make(map[string]T),
		sorted: true,
	}
}

// Add registers rule under name with the given priority.
// An existing entry with the same name is removed first.
func (r *Registry[T]) Add(rule T, name string, priority int) {
	if r.Has(name) {
		_ = r.Delete(name, false)
	}
	r.rules[name] = rule
	r.order = append(r.order, Item{Name: name, Priority: priority})
	r.sorted = false
}

// Delete removes the rule registered under name.
// When strict is true a missing name returns ErrNotFound; otherwise it is a no-op.
func (r *Registry[T]) Delete(name string, strict bool) error {
	idx := slices.IndexFunc(r.order, func(it Item) bool { return it.Name == name })
	if idx < 0 {
		if strict {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil
	}
	// Removing an element keeps the relative order, so the sorted flag stays valid.
	r.order = slices.Delete(r.order, idx, idx+1)
	delete(r.rules, name)
	return nil
}

// Index returns the sorted position of name.
func (r *Registry[T]) Index(name string) (int, error) {
	if !r.Has(name) {
		return -1, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	r.sort()
	return slices.IndexFunc(r.order, func(it Item) bool { return it.Name == name }), nil
}

// Has reports whether a rule is registered under name.
func (r *Registry[T]) Has(name string) bool {
	_, ok := r.rules[name]
	return ok
}

// Contains reports whether any registered rule satisfies match.
// It is the value-side counterpart of Has.
func (r *Registry[T]) Contains(match func(T) bool) bool {
	for _, rule := range r.rules {
		if match(rule) {
			return true
		}
	}
	return false
}

// Get returns the rule registered under name.
func (r *Registry[T]) Get(name string) (T, bool) {
	rule, ok := r.rules[name]
	return rule, ok
}

// At returns the rule at sorted position i.
func (r *Registry[T]) At(i int) (T, error) {
	r.sort()
	if i < 0 || i >= len(r.order) {
		var zero T
		return zero, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(r.order))
	}
	return r.rules[r.order[i].Name], nil
}

// Slice returns a new registry holding the sorted entries in [start, end).
// Names and priorities are preserved.
func (r *Registry[T]) Slice(start, end int) (*Registry[T], error) {
	r.sort()
	if start < 0 || end > len(r.order) || start > end {
		return nil, fmt.Errorf("%w: [%d:%d] (len %d)", ErrIndexOutOfRange, start, end, len(r.order))
	}
	out := NewRegistry[T]()
	for _, it := range r.order[start:end] {
		out.Add(r.rules[it.Name], it.Name, it.Priority)
	}
	return out, nil
}

// All yields the registered rules in priority order.
// The order is fixed when iteration starts; mutations during iteration
// are not observed by the running loop.
func (r *Registry[T]) All() iter.Seq[T] {
	r.sort()
	items := slices.Clone(r.order)
	return func(yield func(T) bool) {
		for _, it := range items {
			rule, ok := r.rules[it.Name]
			if !ok {
				continue
			}
			if !yield(rule) {
				return
			}
		}
	}
}

// Items returns the priority items in sorted order.
func (r *Registry[T]) Items() []Item {
	r.sort()
	return slices.Clone(r.order)
}

// Len returns the number of registered rules.
func (r *Registry[T]) Len() int {
	return len(r.order)
}

// Clone returns an independent copy of the registry.
func (r *Registry[T]) Clone() *Registry[T] {
	out := &Registry[T]{
		rules:  make(map[string]T, len(r.rules)),
		order:  slices.Clone(r.order),
		sorted: r.sorted,
	}
	for k, v := range r.rules {
		out.rules[k] = v
	}
	return out
}

// sort orders items by descending priority when the registry is dirty.
func (r *Registry[T]) sort() {
	if r.sorted {
		return
	}
	slices.SortStableFunc(r.order, func(a, b Item) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
	r.sorted = true
}
