package combat

import (
	"math"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
)

// ActionType identifies what a scripted action does when it fires.
type ActionType int

const (
	ActionUnknown ActionType = iota
	ActionIntelEvent
	ActionCombatEvent
	ActionMissionTemplate
	ActionMoveGroup
	ActionSetIntel
)

// each type accepts its canonical mnemonic and a short alias
var actionTypeNames = []struct {
	typ   ActionType
	name  string
	alias string
}{
	{ActionIntelEvent, "INTEL_EVENT", "intel"},
	{ActionCombatEvent, "COMBAT_EVENT", "combat"},
	{ActionMissionTemplate, "MISSION_TEMPLATE", "mission_template"},
	{ActionMoveGroup, "MOVE_GROUP", "move"},
	{ActionSetIntel, "SET_INTEL", "set_intel"},
}

// ActionTypeFromName maps a campaign definition mnemonic to an ActionType.
// Unknown names yield ActionUnknown.
func ActionTypeFromName(name string) ActionType {
	for _, n := range actionTypeNames {
		if strings.EqualFold(name, n.name) || strings.EqualFold(name, n.alias) {
			return n.typ
		}
	}
	return ActionUnknown
}

func (t ActionType) String() string {
	for _, n := range actionTypeNames {
		if n.typ == t {
			return n.name
		}
	}
	return "UNKNOWN_ACTION"
}

// ActionStatus is the lifecycle state of a scripted action.
type ActionStatus int

const (
	StatusIncomplete ActionStatus = iota
	StatusActive
	StatusComplete
	StatusFailed
)

var actionStatusNames = []string{"INCOMPLETE", "ACTIVE", "COMPLETE", "FAILED"}

// ActionStatusFromName maps a status mnemonic to an ActionStatus.
// Unknown names yield StatusIncomplete.
func ActionStatusFromName(name string) ActionStatus {
	for i, n := range actionStatusNames {
		if strings.EqualFold(name, n) {
			return ActionStatus(i)
		}
	}
	return StatusIncomplete
}

func (s ActionStatus) String() string {
	if s < 0 || int(s) >= len(actionStatusNames) {
		return actionStatusNames[StatusIncomplete]
	}
	return actionStatusNames[s]
}

// IsTerminal reports whether no further transition is possible.
func (s ActionStatus) IsTerminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// Action is a unit of scripted campaign content. It becomes eligible inside
// its time window once every requirement passes; the event planner drives
// its status from INCOMPLETE through ACTIVE to COMPLETE or FAILED.
type Action struct {
	ID      int
	Type    ActionType
	Subtype int
	Team    int
	Source  EventSource

	Location geom.XY
	System   string
	Region   string

	Text      string
	File      string
	ImageFile string
	SceneFile string

	Probability int
	Delay       int64
	StartAfter  int64
	StartBefore int64
	MinRank     int
	MaxRank     int

	AssetID     int
	AssetType   GroupType
	AssetIFF    int
	AssetKills  []string
	TargetID    int
	TargetType  GroupType
	TargetIFF   int
	TargetKills []string

	Requirements []Requirement

	Status      ActionStatus
	ActivatedAt int64
	Time        int64

	probabilityResolved bool
}

// NewAction returns an action that is always available, fires with
// certainty and has no requirements.
func NewAction(id int, t ActionType, subtype, team int) *Action {
	return &Action{
		ID:          id,
		Type:        t,
		Subtype:     subtype,
		Team:        team,
		Probability: 100,
		StartBefore: math.MaxInt64,
		Status:      StatusIncomplete,
	}
}

// AddRequirement appends a requirement to the conjunction.
func (a *Action) AddRequirement(r Requirement) {
	if r != nil {
		a.Requirements = append(a.Requirements, r)
	}
}

// IsAvailable reports whether t lies within [StartAfter, StartBefore].
func (a *Action) IsAvailable(t int64) bool {
	return a.StartAfter <= t && t <= a.StartBefore
}

// Available checks the time window against the campaign clock.
func (a *Action) Available(c Context) bool {
	if c == nil {
		return false
	}
	return a.IsAvailable(c.Time())
}

// IsActive reports whether the action may fire now.
func (a *Action) IsActive(c Context) bool {
	return a.Available(c) && !a.Status.IsTerminal() && a.RequirementsMet(c)
}

// RequirementsMet evaluates every requirement. A nil campaign, or any
// requirement that cannot be resolved, fails the whole check.
func (a *Action) RequirementsMet(c Context) bool {
	if c == nil {
		return false
	}
	for _, r := range a.Requirements {
		if !r.met(c) {
			return false
		}
	}
	return true
}

// RankAllowed applies the rank gate. MaxRank 0 means no upper bound.
func (a *Action) RankAllowed(rank int) bool {
	if rank < a.MinRank {
		return false
	}
	return a.MaxRank == 0 || rank <= a.MaxRank
}

// ResolveProbability settles the probability gate once using roll in
// [0,100). Later calls return the settled outcome.
func (a *Action) ResolveProbability(roll int) bool {
	if !a.probabilityResolved {
		a.probabilityResolved = true
		if a.Probability < 100 {
			if roll < a.Probability {
				a.Probability = 100
			} else {
				a.Probability = 0
			}
		}
	}
	return a.Probability > 0
}

// Activate moves an incomplete action to ACTIVE.
func (a *Action) Activate(t int64) bool {
	if a.Status != StatusIncomplete {
		return false
	}
	a.Status = StatusActive
	a.ActivatedAt = t
	return true
}

// Due reports whether an active action has waited out its delay.
func (a *Action) Due(t int64) bool {
	return a.Status == StatusActive && t-a.ActivatedAt >= a.Delay
}

// Complete marks the action COMPLETE unless it already finished.
func (a *Action) Complete(t int64) bool {
	return a.finish(StatusComplete, t)
}

// Fail marks the action FAILED unless it already finished.
func (a *Action) Fail(t int64) bool {
	return a.finish(StatusFailed, t)
}

func (a *Action) finish(s ActionStatus, t int64) bool {
	if a.Status.IsTerminal() {
		return false
	}
	a.Status = s
	a.Time = t
	return true
}
