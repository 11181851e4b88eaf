package cache

import (
	"sync"

	"github.com/starshatter/campaign/internal/combat"
)

// ActionIndex maps scripted action ids to their actions.
type ActionIndex struct {
	mu      sync.RWMutex
	actions map[int]*combat.Action
}

func NewActionIndex() *ActionIndex {
	return &ActionIndex{
		actions: make(map[int]*combat.Action),
	}
}

func (c *ActionIndex) Get(id int) (*combat.Action, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.actions[id]
	return a, ok
}

// Set stores a, replacing any action with the same id.
func (c *ActionIndex) Set(a *combat.Action) {
	if a == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actions[a.ID] = a
}

func (c *ActionIndex) Delete(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.actions, id)
}

func (c *ActionIndex) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actions = make(map[int]*combat.Action)
}
