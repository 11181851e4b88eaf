package combat

import "strings"

// Combatant is a faction owning a force of combat groups.
type Combatant struct {
	Name  string
	IFF   int
	Force *Group
	Score int

	// TargetList and DefendList are rebuilt by the strategic planner each
	// tick, highest priority first.
	TargetList []*Group
	DefendList []*Group

	// LockedUntil suppresses statistical events before this campaign time.
	LockedUntil int64
}

// NewCombatant creates a combatant owning force.
func NewCombatant(name string, iff int, force *Group) *Combatant {
	return &Combatant{Name: name, IFF: iff, Force: force}
}

// FindGroup searches the combatant's force.
func (c *Combatant) FindGroup(t GroupType, id int) *Group {
	if c.Force == nil {
		return nil
	}
	return c.Force.FindGroup(t, id)
}

// Groups lists every group in the force in pre-order.
func (c *Combatant) Groups() []*Group {
	if c.Force == nil {
		return nil
	}
	var groups []*Group
	c.Force.Walk(func(g *Group) { groups = append(groups, g) })
	return groups
}

func (c *Combatant) AddScore(points int) {
	c.Score += points
}

func (c *Combatant) IsLocked(t int64) bool {
	return t < c.LockedUntil
}

// Zone is a contested area made of one or more regions.
type Zone struct {
	Name    string
	Regions []string
}

// HasRegion reports whether region belongs to the zone, ignoring case.
func (z *Zone) HasRegion(region string) bool {
	for _, r := range z.Regions {
		if strings.EqualFold(r, region) {
			return true
		}
	}
	return false
}

// Player is the human commander whose name and rank appear in event text.
type Player struct {
	Name string
	Rank int
}

var rankNames = []string{
	"Ensign",
	"Lieutenant JG",
	"Lieutenant",
	"Lt Commander",
	"Commander",
	"Captain",
	"Commodore",
	"Fleet Admiral",
}

// RankName returns the title for rank, clamped to the known range.
func RankName(rank int) string {
	if rank < 0 {
		rank = 0
	}
	if rank >= len(rankNames) {
		rank = len(rankNames) - 1
	}
	return rankNames[rank]
}
