// Package roster keeps the registry of named forces taking part in a
// campaign. A Roster is created per campaign and must be initialized before
// use and closed at session end.
package roster

import (
	"sync"

	"github.com/starshatter/campaign/internal/combat"
	"github.com/starshatter/campaign/internal/util"
)

type entry struct {
	key   string
	group *combat.Group
}

// Roster maps normalized force names to the root group of each force and
// remembers registration order. Every key in the map appears exactly once
// in the ordered list.
type Roster struct {
	mu     sync.RWMutex
	forces map[string]*combat.Group
	order  []entry
}

// New returns an uninitialized roster. Call Init before registering forces.
func New() *Roster {
	return &Roster{}
}

// Init allocates the registry. Calling Init on an open roster is a no-op.
func (r *Roster) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forces == nil {
		r.forces = make(map[string]*combat.Group)
		r.order = nil
	}
	return nil
}

// Close tears the registry down. Lookups afterwards return nil until Init
// is called again.
func (r *Roster) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forces = nil
	r.order = nil
	return nil
}

// IsOpen reports whether Init has been called since the last Close.
func (r *Roster) IsOpen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.forces != nil
}

// RegisterForce stores group under the normalized name. A nil group or a
// blank name is ignored. Re-registering a name replaces the group in place.
func (r *Roster) RegisterForce(name string, group *combat.Group) {
	key := util.NormalizeKey(name)
	if group == nil || key == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forces == nil {
		return
	}

	if _, exists := r.forces[key]; exists {
		r.forces[key] = group
		for i := range r.order {
			if r.order[i].key == key {
				r.order[i].group = group
				return
			}
		}
		r.order = append(r.order, entry{key: key, group: group})
		return
	}

	r.forces[key] = group
	r.order = append(r.order, entry{key: key, group: group})
}

// UnregisterForce removes the force registered under name, if any.
func (r *Roster) UnregisterForce(name string) {
	key := util.NormalizeKey(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.forces[key]; !ok {
		return
	}
	delete(r.forces, key)
	for i := range r.order {
		if r.order[i].key == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// GetForce returns the root group registered under name, or nil.
func (r *Roster) GetForce(name string) *combat.Group {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.forces[util.NormalizeKey(name)]
}

// GetForces returns the registered groups in registration order.
func (r *Roster) GetForces() []*combat.Group {
	r.mu.RLock()
	defer r.mu.RUnlock()
	groups := make([]*combat.Group, 0, len(r.order))
	for _, e := range r.order {
		groups = append(groups, e.group)
	}
	return groups
}

// Len returns the number of registered forces.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.forces)
}

// Clear removes every force but leaves the roster open.
func (r *Roster) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forces == nil {
		return
	}
	r.forces = make(map[string]*combat.Group)
	r.order = nil
}
