package cache

import (
	"sync"

	"github.com/starshatter/campaign/internal/combat"
)

// GroupKey identifies a combat group across all forces.
type GroupKey struct {
	IFF  int
	Type combat.GroupType
	ID   int
}

// GroupCache indexes the order of battle so scripted actions can resolve
// their asset and target groups without walking every force tree.
type GroupCache struct {
	mu     sync.RWMutex
	groups map[GroupKey]*combat.Group
}

func NewGroupCache() *GroupCache {
	return &GroupCache{
		groups: make(map[GroupKey]*combat.Group),
	}
}

func (c *GroupCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups = make(map[GroupKey]*combat.Group)
}

// Add stores g under its own key. The first group stored for a key wins.
func (c *GroupCache) Add(g *combat.Group) {
	if g == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	key := GroupKey{IFF: g.IFF, Type: g.Type, ID: g.ID}
	if _, ok := c.groups[key]; !ok {
		c.groups[key] = g
	}
}

// Index adds force and every group below it.
func (c *GroupCache) Index(force *combat.Group) {
	if force == nil {
		return
	}
	force.Walk(c.Add)
}

func (c *GroupCache) Get(iff int, t combat.GroupType, id int) (*combat.Group, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.groups[GroupKey{IFF: iff, Type: t, ID: id}]
	return g, ok
}

func (c *GroupCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.groups)
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int64
}

func (c *SafeCounter) Value() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int64) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

// Add increases the counter by n and returns the new value.
func (c *SafeCounter) Add(n int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v += n
	return c.v
}
