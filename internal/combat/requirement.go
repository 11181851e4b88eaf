package combat

import (
	"fmt"
	"strings"
)

// Comparator is a relational operator used by group and score requirements.
type Comparator int

const (
	CompLT Comparator = -2
	CompLE Comparator = -1
	CompEQ Comparator = 0
	CompGE Comparator = 1
	CompGT Comparator = 2
	CompNE Comparator = 3
)

var comparatorNames = []struct {
	name string
	comp Comparator
}{
	{"LT", CompLT},
	{"LE", CompLE},
	{"EQ", CompEQ},
	{"GE", CompGE},
	{"GT", CompGT},
	{"NE", CompNE},
}

// CompFromName maps a comparator mnemonic to its code. Unrecognized input
// yields CompEQ.
func CompFromName(name string) Comparator {
	for _, c := range comparatorNames {
		if strings.EqualFold(name, c.name) {
			return c.comp
		}
	}
	return CompEQ
}

func (c Comparator) String() string {
	for _, n := range comparatorNames {
		if n.comp == c {
			return n.name
		}
	}
	return "EQ"
}

// Compare evaluates lhs <comp> rhs. Unknown comparator codes behave as EQ.
func Compare(lhs int, comp Comparator, rhs int) bool {
	switch comp {
	case CompLT:
		return lhs < rhs
	case CompLE:
		return lhs <= rhs
	case CompGE:
		return lhs >= rhs
	case CompGT:
		return lhs > rhs
	case CompNE:
		return lhs != rhs
	default:
		return lhs == rhs
	}
}

// Requirement gates the activation of an Action. The set of implementations
// is closed: ActionRequirement, GroupRequirement and ScoreRequirement.
type Requirement interface {
	fmt.Stringer
	met(c Context) bool
}

// ActionRequirement depends on the status of another scripted action.
type ActionRequirement struct {
	ActionID int
	Status   ActionStatus
	Negate   bool
}

func (r ActionRequirement) met(c Context) bool {
	if c == nil {
		return false
	}
	dep := c.FindAction(r.ActionID)
	match := dep != nil && dep.Status == r.Status
	if r.Negate {
		return !match
	}
	return match
}

func (r ActionRequirement) String() string {
	not := ""
	if r.Negate {
		not = "not "
	}
	return fmt.Sprintf("action %d %s%s", r.ActionID, not, r.Status)
}

// GroupRequirement depends on the score or intel of a combat group.
// It evaluates false until a combatant scoring subsystem exists.
type GroupRequirement struct {
	Combatant int
	GroupType GroupType
	GroupID   int
	Comp      Comparator
	Score     int
	Intel     Intel
}

func (r GroupRequirement) met(Context) bool { return false }

func (r GroupRequirement) String() string {
	return fmt.Sprintf("group %d:%s:%d %s %d intel %s",
		r.Combatant, r.GroupType, r.GroupID, r.Comp, r.Score, r.Intel)
}

// ScoreRequirement compares the scores of two combatants.
// It evaluates false until a combatant scoring subsystem exists.
type ScoreRequirement struct {
	CombatantA int
	CombatantB int
	Comp       Comparator
	Score      int
}

func (r ScoreRequirement) met(Context) bool { return false }

func (r ScoreRequirement) String() string {
	return fmt.Sprintf("score %d-%d %s %d", r.CombatantA, r.CombatantB, r.Comp, r.Score)
}
