package trace

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Registry maps the identity of traced objects to their names in the log.
//
// Names are allocated per prefix, with a counter starting at 0 for each prefix: "tensor_0", "tensor_1", ...
// Entries are never removed: the registry keeps the identities (the wrappers) alive for the lifetime of the
// session, so an identity is never reused for a different object.
//
// It is not safe for concurrent use, the owning Session serializes access to it.
type Registry struct {
	entries  *orderedmap.OrderedMap[any, string]
	counters map[string]int
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		entries:  orderedmap.New[any, string](),
		counters: make(map[string]int),
	}
}

// AllocateName returns prefix followed by the next counter for the prefix.
func (r *Registry) AllocateName(prefix string) string {
	count := r.counters[prefix]
	r.counters[prefix] = count + 1
	return fmt.Sprintf("%s%d", prefix, count)
}

// Register identity under name. Registering an identity again overwrites its name.
//
// The identity must be comparable, usually the pointer to a wrapper.
func (r *Registry) Register(identity any, name string) {
	r.entries.Set(identity, name)
}

// NameOf returns the name registered for identity, or false if it was never registered.
func (r *Registry) NameOf(identity any) (string, bool) {
	return r.entries.Get(identity)
}

// Names returns the registered names, in order of registration.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.entries.Len())
	for pair := r.entries.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Value)
	}
	return names
}

// Len returns the number of registered objects.
func (r *Registry) Len() int { return r.entries.Len() }
