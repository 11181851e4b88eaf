package combat

import (
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
)

// GroupType is the kind of node in an order of battle.
type GroupType int

const (
	GroupNone GroupType = iota
	GroupForce
	GroupWing
	GroupInterceptSquadron
	GroupFighterSquadron
	GroupAttackSquadron
	GroupLCASquadron
	GroupFleet
	GroupDestroyerSquadron
	GroupBattleGroup
	GroupCarrierGroup
	GroupBattalion
	GroupMinefield
	GroupBattery
	GroupMissile
	GroupStation
	GroupStarbase
	GroupC3I
	GroupCommRelay
	GroupEarlyWarning
	GroupFwdControlCenter
	GroupECM
	GroupSupport
	GroupCourier
	GroupMedical
	GroupSupply
	GroupRepair
	GroupCivilian
	GroupWarProduction
	GroupFactory
	GroupRefinery
	GroupResource
	GroupInfrastructure
	GroupTransport
	GroupNetwork
	GroupHabitat
	GroupStorage
	GroupNonCom
)

var groupTypeInfo = map[GroupType]struct{ name, display string }{
	GroupForce:             {"force", "Force"},
	GroupWing:              {"wing", "Wing"},
	GroupInterceptSquadron: {"intercept_squadron", "Intercept Squadron"},
	GroupFighterSquadron:   {"fighter_squadron", "Fighter Squadron"},
	GroupAttackSquadron:    {"attack_squadron", "Attack Squadron"},
	GroupLCASquadron:       {"lca_squadron", "LCA Squadron"},
	GroupFleet:             {"fleet", "Fleet"},
	GroupDestroyerSquadron: {"destroyer_squadron", "DESRON"},
	GroupBattleGroup:       {"battle_group", "Battle Group"},
	GroupCarrierGroup:      {"carrier_group", "Carrier Group"},
	GroupBattalion:         {"battalion", "Battalion"},
	GroupMinefield:         {"minefield", "Minefield"},
	GroupBattery:           {"battery", "Battery"},
	GroupMissile:           {"missile", "Missile Battery"},
	GroupStation:           {"station", "Station"},
	GroupStarbase:          {"starbase", "Starbase"},
	GroupC3I:               {"c3i", "C3I"},
	GroupCommRelay:         {"comm_relay", "Comm Relay"},
	GroupEarlyWarning:      {"early_warning", "Early Warning"},
	GroupFwdControlCenter:  {"fwd_control_ctr", "Forward Control Center"},
	GroupECM:               {"ecm", "ECM"},
	GroupSupport:           {"support", "Support"},
	GroupCourier:           {"courier", "Courier"},
	GroupMedical:           {"medical", "Medical"},
	GroupSupply:            {"supply", "Supply"},
	GroupRepair:            {"repair", "Repair"},
	GroupCivilian:          {"civilian", "Civilian"},
	GroupWarProduction:     {"war_production", "War Production"},
	GroupFactory:           {"factory", "Factory"},
	GroupRefinery:          {"refinery", "Refinery"},
	GroupResource:          {"resource", "Resource"},
	GroupInfrastructure:    {"infrastructure", "Infrastructure"},
	GroupTransport:         {"transport", "Transport"},
	GroupNetwork:           {"network", "Network"},
	GroupHabitat:           {"habitat", "Habitat"},
	GroupStorage:           {"storage", "Storage"},
	GroupNonCom:            {"non_com", "Non-Combatant"},
}

// GroupTypeFromName parses a group type mnemonic, ignoring case.
// Unknown names yield GroupNone.
func GroupTypeFromName(name string) GroupType {
	for t, info := range groupTypeInfo {
		if strings.EqualFold(name, info.name) {
			return t
		}
	}
	return GroupNone
}

func (t GroupType) String() string {
	if info, ok := groupTypeInfo[t]; ok {
		return info.name
	}
	return "none"
}

// DisplayName returns the human readable name of the type.
func (t GroupType) DisplayName() string {
	return groupTypeInfo[t].display
}

// Intel is how much the opposing side knows about a group.
type Intel int

const (
	IntelUnknown Intel = iota
	IntelReserve
	IntelSecret
	IntelKnown
	IntelLocated
	IntelTracked
)

var intelNames = []string{"unknown", "reserve", "secret", "known", "located", "tracked"}

// IntelFromName parses an intel mnemonic, defaulting to IntelUnknown.
func IntelFromName(name string) Intel {
	for i, n := range intelNames {
		if strings.EqualFold(name, n) {
			return Intel(i)
		}
	}
	return IntelUnknown
}

func (i Intel) String() string {
	if i < 0 || int(i) >= len(intelNames) {
		return intelNames[0]
	}
	return intelNames[i]
}

// Group is a node in a faction's order of battle.
type Group struct {
	ID         int
	Type       GroupType
	IFF        int
	Name       string
	Region     string
	Location   geom.XY
	PlanValue  int
	IntelLevel Intel

	Parent   *Group
	Children []*Group
	Units    []*Unit
	Zone     *Zone

	assignments []*Assignment
}

// NewGroup creates a detached group.
func NewGroup(t GroupType, id int, name string, iff int) *Group {
	return &Group{ID: id, Type: t, Name: name, IFF: iff}
}

// AddChild attaches c below g.
func (g *Group) AddChild(c *Group) {
	c.Parent = g
	g.Children = append(g.Children, c)
}

// AddUnit attaches a unit to the group.
func (g *Group) AddUnit(u *Unit) {
	g.Units = append(g.Units, u)
}

// Walk visits g and all of its descendants in pre-order.
func (g *Group) Walk(fn func(*Group)) {
	fn(g)
	for _, c := range g.Children {
		c.Walk(fn)
	}
}

// Value is the live combat value of the group and its children.
func (g *Group) Value() int {
	v := 0
	for _, u := range g.Units {
		v += u.Value()
	}
	for _, c := range g.Children {
		v += c.Value()
	}
	return v
}

// LiveCount is the number of live units in the group and its children.
func (g *Group) LiveCount() int {
	n := 0
	for _, u := range g.Units {
		n += u.LiveCount()
	}
	for _, c := range g.Children {
		n += c.LiveCount()
	}
	return n
}

// FindGroup returns the first group of type t with the given id. A negative
// id matches any group of that type.
func (g *Group) FindGroup(t GroupType, id int) *Group {
	if g.Type == t && (id < 0 || g.ID == id) {
		return g
	}
	for _, c := range g.Children {
		if found := c.FindGroup(t, id); found != nil {
			return found
		}
	}
	return nil
}

// FindUnit returns the first unit with the given name, ignoring case.
func (g *Group) FindUnit(name string) *Unit {
	for _, u := range g.Units {
		if strings.EqualFold(u.Name, name) {
			return u
		}
	}
	for _, c := range g.Children {
		if u := c.FindUnit(name); u != nil {
			return u
		}
	}
	return nil
}

// Description is the display name used in briefings and event text.
func (g *Group) Description() string {
	display := g.Type.DisplayName()
	if display == "" || strings.Contains(strings.ToLower(g.Name), strings.ToLower(display)) {
		return g.Name
	}
	return g.Name + " " + display
}

func (g *Group) IsFighterGroup() bool {
	switch g.Type {
	case GroupWing, GroupInterceptSquadron, GroupFighterSquadron, GroupAttackSquadron, GroupLCASquadron:
		return true
	}
	return false
}

func (g *Group) IsStarshipGroup() bool {
	switch g.Type {
	case GroupDestroyerSquadron, GroupBattleGroup, GroupCarrierGroup:
		return true
	}
	return false
}

// IsStatic reports installations that cannot move.
func (g *Group) IsStatic() bool {
	switch g.Type {
	case GroupBattalion, GroupMinefield, GroupBattery, GroupMissile, GroupStation,
		GroupStarbase, GroupC3I, GroupCommRelay, GroupEarlyWarning, GroupFwdControlCenter,
		GroupECM, GroupCivilian, GroupWarProduction, GroupFactory, GroupRefinery,
		GroupResource, GroupInfrastructure, GroupNetwork, GroupHabitat, GroupStorage:
		return true
	}
	return false
}

func (g *Group) IsMovable() bool {
	return g.IsStarshipGroup() || g.IsFighterGroup() || g.Type == GroupFleet
}

func (g *Group) IsReserve() bool {
	return g.IntelLevel == IntelReserve
}

// IsTargetable reports whether the group can be the objective of an attack.
func (g *Group) IsTargetable() bool {
	switch g.Type {
	case GroupNone, GroupForce, GroupWing, GroupFleet:
		return false
	}
	return !g.IsReserve() && g.LiveCount() > 0
}

// IsDefensible reports whether the group is an installation worth defending.
func (g *Group) IsDefensible() bool {
	return g.IsStatic() && g.LiveCount() > 0
}

// IsAssignable reports whether the group can be tasked as a resource.
func (g *Group) IsAssignable() bool {
	if g.IsReserve() || g.LiveCount() == 0 {
		return false
	}
	return g.IsStarshipGroup() || (g.IsFighterGroup() && g.Type != GroupWing)
}

// Assignments returns the assignments bound to the group this tick.
func (g *Group) Assignments() []*Assignment {
	return g.assignments
}

// AddAssignment records a tasking for the current tick.
func (g *Group) AddAssignment(a *Assignment) {
	g.assignments = append(g.assignments, a)
}

// ClearAssignments drops the previous tick's taskings.
func (g *Group) ClearAssignments() {
	g.assignments = nil
}

// IsIdle reports whether the group has no active tasking.
func (g *Group) IsIdle() bool {
	for _, a := range g.assignments {
		if a.IsActive() {
			return false
		}
	}
	return true
}

// Unit is a set of identical ships or installations inside a group.
type Unit struct {
	Name      string
	Design    string
	Count     int
	DeadCount int
	UnitValue int
}

// LiveCount is the number of surviving members.
func (u *Unit) LiveCount() int {
	if u.DeadCount >= u.Count {
		return 0
	}
	return u.Count - u.DeadCount
}

// Value is the combat value of the surviving members.
func (u *Unit) Value() int {
	return u.LiveCount() * u.UnitValue
}

// Kill destroys up to n live members and returns the value destroyed.
func (u *Unit) Kill(n int) int {
	k := min(n, u.LiveCount())
	if k <= 0 {
		return 0
	}
	u.DeadCount += k
	return k * u.UnitValue
}
