package planner

import (
	"context"
	"io/fs"
	"testing/fstest"

	"github.com/starshatter/campaign/internal/combat"
)

// fakeCampaign is an in-memory Campaign for planner tests.
type fakeCampaign struct {
	now         int64
	combatants  []*combat.Combatant
	zones       []*combat.Zone
	actions     []*combat.Action
	assignments []*combat.Assignment
	events      []*combat.Event
	requests    []*MissionRequest
	player      *combat.Player
	playerGroup *combat.Group
	content     fstest.MapFS
}

var _ Campaign = (*fakeCampaign)(nil)

func (c *fakeCampaign) Time() int64                { return c.now }
func (c *fakeCampaign) PlayerGroup() *combat.Group { return c.playerGroup }
func (c *fakeCampaign) Player() *combat.Player     { return c.player }
func (c *fakeCampaign) Content() fs.FS             { return c.content }

func (c *fakeCampaign) FindAction(id int) *combat.Action {
	for _, a := range c.actions {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (c *fakeCampaign) Combatants() []*combat.Combatant { return c.combatants }
func (c *fakeCampaign) Zones() []*combat.Zone           { return c.zones }
func (c *fakeCampaign) Actions() []*combat.Action       { return c.actions }

func (c *fakeCampaign) FindGroup(iff int, t combat.GroupType, id int) *combat.Group {
	if t == combat.GroupNone {
		return nil
	}
	if cmb := c.FindCombatant(iff); cmb != nil {
		return cmb.FindGroup(t, id)
	}
	return nil
}

func (c *fakeCampaign) FindCombatant(iff int) *combat.Combatant {
	for _, cmb := range c.combatants {
		if cmb.IFF == iff {
			return cmb
		}
	}
	return nil
}

func (c *fakeCampaign) Assignments() []*combat.Assignment        { return c.assignments }
func (c *fakeCampaign) SetAssignments(list []*combat.Assignment) { c.assignments = list }
func (c *fakeCampaign) AddEvent(e *combat.Event)                 { c.events = append(c.events, e) }
func (c *fakeCampaign) AddMissionRequest(r *MissionRequest)      { c.requests = append(c.requests, r) }
func (c *fakeCampaign) MissionRequests() []*MissionRequest       { return c.requests }

// theater holds handles to the groups of the standard test campaign.
type theater struct {
	campaign *fakeCampaign
	alliance *combat.Combatant
	marakan  *combat.Combatant

	kalon, ostara *combat.Zone

	taskForce *combat.Group // alliance battle group, value 100
	desron    *combat.Group // alliance destroyers, value 80
	raptors   *combat.Group // alliance fighters, value 40
	station   *combat.Group // alliance station, value 200

	hegemony *combat.Group // marakan battle group, value 150
	starbase *combat.Group // marakan starbase in Ostara, value 300
	works    *combat.Group // marakan factory, value 120
}

func unit(name string, count, value int) *combat.Unit {
	return &combat.Unit{Name: name, Design: name, Count: count, UnitValue: value}
}

func group(t combat.GroupType, id int, name string, iff int, region string, units ...*combat.Unit) *combat.Group {
	g := combat.NewGroup(t, id, name, iff)
	g.Region = region
	for _, u := range units {
		g.AddUnit(u)
	}
	return g
}

func newTheater() *theater {
	th := &theater{
		kalon:  &combat.Zone{Name: "Kalon", Regions: []string{"Kalon"}},
		ostara: &combat.Zone{Name: "Ostara", Regions: []string{"Ostara"}},
	}

	allied := combat.NewGroup(combat.GroupForce, 1, "Alliance Force", 1)
	fleet := group(combat.GroupFleet, 10, "Third Fleet", 1, "Kalon")
	th.taskForce = group(combat.GroupBattleGroup, 11, "Task Force Nine", 1, "Kalon", unit("Cruiser", 1, 100))
	th.desron = group(combat.GroupDestroyerSquadron, 12, "DESRON 5", 1, "Kalon", unit("Destroyer", 2, 40))
	th.raptors = group(combat.GroupFighterSquadron, 13, "Raptors", 1, "Kalon", unit("Viper", 8, 5))
	th.station = group(combat.GroupStation, 20, "Kalon Station", 1, "Kalon", unit("Station", 1, 200))
	fleet.AddChild(th.taskForce)
	fleet.AddChild(th.desron)
	fleet.AddChild(th.raptors)
	allied.AddChild(fleet)
	allied.AddChild(th.station)

	hostile := combat.NewGroup(combat.GroupForce, 1, "Marakan Force", 2)
	th.hegemony = group(combat.GroupBattleGroup, 11, "Hegemony Strike Group", 2, "Kalon", unit("Battleship", 1, 150))
	th.starbase = group(combat.GroupStarbase, 30, "Ostara Starbase", 2, "Ostara", unit("Starbase", 1, 300))
	th.works = group(combat.GroupFactory, 31, "Kalon Works", 2, "Kalon", unit("Factory", 1, 120))
	hostile.AddChild(th.hegemony)
	hostile.AddChild(th.starbase)
	hostile.AddChild(th.works)

	for _, g := range []*combat.Group{th.hegemony, th.starbase, th.works, th.taskForce, th.station} {
		g.IntelLevel = combat.IntelKnown
	}

	th.alliance = combat.NewCombatant("Alliance", 1, allied)
	th.marakan = combat.NewCombatant("Marakan Hegemony", 2, hostile)

	th.campaign = &fakeCampaign{
		combatants: []*combat.Combatant{th.alliance, th.marakan},
		zones:      []*combat.Zone{th.kalon, th.ostara},
		player:     &combat.Player{Name: "Halsey", Rank: 2},
		content:    fstest.MapFS{},
	}
	return th
}

// plainOptions scores groups by raw value and leaves timing knobs at zero.
func plainOptions() Options {
	return Options{
		Formula:           "value",
		MissionMaxPending: 3,
		Seed:              7,
	}
}

// plan runs the strategic and assignment stages.
func (th *theater) plan(opts Options) {
	s, err := NewStrategic(th.campaign, opts)
	if err != nil {
		panic(err)
	}
	s.ExecFrame(context.Background())
	NewAssignment(th.campaign, opts).ExecFrame(context.Background())
}
