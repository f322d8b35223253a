package pwhash

import (
	"strings"
	"sync"
)

// backendEntry names one candidate implementation registered for a scheme
// under RegisterBackend, in the order it was added.
type backendEntry struct {
	name    string
	factory func() (Hasher, error)
}

// Registry is a process-wide name-to-Hasher resolver with case-insensitive
// lookup and alias support. Entries are factories rather than values so a
// scheme with a heavy backend (argon2's compression function, an external
// binding) is not built until first use; a factory failing surfaces as
// *MissingBackendError only when that scheme is actually exercised.
//
// Registry is safe for concurrent use: Register is a publish, Lookup a
// read; aliasing is guarded by a mutex since it touches two maps together.
type Registry struct {
	factories sync.Map // map[string]func() (Hasher, error)
	mu        sync.Mutex
	aliases   map[string]string
	backends  map[string][]backendEntry // scheme -> candidate implementations, registration order
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{aliases: make(map[string]string)}
}

// DefaultRegistry is the package-level registry populated by each
// schemes/* package's init(), mirroring the crypt package's RegisterHash
// side-effect-import convention, generalized from raw check functions to
// full Hasher factories.
var DefaultRegistry = NewRegistry()

// Register publishes a Hasher factory under name. Subsequent calls with the
// same name replace the prior factory.
func (r *Registry) Register(name string, factory func() (Hasher, error)) {
	r.factories.Store(strings.ToLower(name), factory)
}

// RegisterAlias makes alias resolve to the same factory as name. name must
// already be registered, or later registrations of name still apply since
// aliases are resolved at Lookup time, not at RegisterAlias time.
func (r *Registry) RegisterAlias(alias, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[strings.ToLower(alias)] = strings.ToLower(name)
}

// RegisterBackend records that scheme has a candidate implementation named
// backend, per spec.md 4.4's "a hasher may declare multiple backends ...
// backend selection is: policy-pinned > first available". The first call
// for a given scheme establishes the "first available" default; actual
// per-call selection is left to the scheme's own Hasher (its Hash/GenConfig
// read a "backend" Settings key), since — unlike rounds or salt — which
// backend runs is usually a per-call knob, not a value baked into the
// Hasher returned by Lookup. RegisterBackend exists so Registry.Backends
// can answer "what backends does this scheme have" for introspection and
// validation, without forcing every scheme to restructure its Hasher.
func (r *Registry) RegisterBackend(scheme, backend string, factory func() (Hasher, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backends == nil {
		r.backends = make(map[string][]backendEntry)
	}
	key := strings.ToLower(scheme)
	r.backends[key] = append(r.backends[key], backendEntry{name: backend, factory: factory})
}

// Backends returns the names of backends registered for scheme via
// RegisterBackend, in registration order (index 0 is "first available").
// A scheme with a single implementation and no RegisterBackend calls
// returns nil.
func (r *Registry) Backends(scheme string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.backends[strings.ToLower(scheme)]
	if len(list) == 0 {
		return nil
	}
	names := make([]string, len(list))
	for i, b := range list {
		names[i] = b.name
	}
	return names
}

// Lookup resolves name (or one of its aliases) to a Hasher, building it via
// its factory. It returns *MissingBackendError if the name is registered
// but its factory fails, or *UnknownHashError-shaped nil/false via ok when
// name is not registered at all.
func (r *Registry) Lookup(name string) (Hasher, error, bool) {
	key := strings.ToLower(name)
	r.mu.Lock()
	if canon, ok := r.aliases[key]; ok {
		key = canon
	}
	r.mu.Unlock()
	v, ok := r.factories.Load(key)
	if !ok {
		return nil, nil, false
	}
	h, err := v.(func() (Hasher, error))()
	if err != nil {
		return nil, &MissingBackendError{Scheme: name, Reason: err.Error()}, true
	}
	return h, nil, true
}

// Names returns the canonical (non-alias) scheme names currently registered.
func (r *Registry) Names() []string {
	var names []string
	r.factories.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	return names
}
