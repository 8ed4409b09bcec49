package audit

import (
	"fmt"
	"sort"
)

// Registry keeps audits in registration order.
type Registry struct {
	audits []Audit
	byID   map[string]Audit
}

// NewRegistry returns a registry holding the given audits. It fails on
// duplicate ids.
func NewRegistry(audits ...Audit) (*Registry, error) {
	r := &Registry{byID: make(map[string]Audit, len(audits))}
	for _, a := range audits {
		if err := r.Register(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an audit to the registry.
func (r *Registry) Register(a Audit) error {
	id := a.Meta().ID
	if id == "" {
		return fmt.Errorf("audit %T has no id", a)
	}
	if _, ok := r.byID[id]; ok {
		return fmt.Errorf("audit %q is already registered", id)
	}
	r.byID[id] = a
	r.audits = append(r.audits, a)
	return nil
}

// Get returns the audit with the given id.
func (r *Registry) Get(id string) (Audit, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// All returns the registered audits in registration order.
func (r *Registry) All() []Audit {
	return append([]Audit(nil), r.audits...)
}

// IDs returns the sorted ids of all registered audits.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Select returns the audits with the given ids, in the order given. An empty
// list selects every audit.
func (r *Registry) Select(ids []string) ([]Audit, error) {
	if len(ids) == 0 {
		return r.All(), nil
	}
	selected := make([]Audit, 0, len(ids))
	for _, id := range ids {
		a, ok := r.byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown audit %q, available audits are %v", id, r.IDs())
		}
		selected = append(selected, a)
	}
	return selected, nil
}
