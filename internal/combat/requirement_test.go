package combat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompFromName_KnownMnemonics(t *testing.T) {
	expected := map[string]Comparator{
		"LT": -2, "LE": -1, "EQ": 0, "GE": 1, "GT": 2, "NE": 3,
	}
	for name, code := range expected {
		assert.Equal(t, code, CompFromName(name), name)
		assert.Equal(t, code, CompFromName(strings.ToLower(name)), name)
		mixed := strings.ToLower(name[:1]) + name[1:]
		assert.Equal(t, code, CompFromName(mixed), mixed)
	}
}

func TestCompFromName_UnknownDefaultsToEQ(t *testing.T) {
	for _, name := range []string{"", "lte", "==", "greater", " LT", "NEQ"} {
		assert.Equal(t, CompEQ, CompFromName(name), "input %q", name)
	}
}

func TestComparator_String(t *testing.T) {
	assert.Equal(t, "LT", CompLT.String())
	assert.Equal(t, "NE", CompNE.String())
	assert.Equal(t, "EQ", Comparator(42).String())
}

func TestCompare(t *testing.T) {
	values := []int{-3, 0, 1, 5}
	for _, l := range values {
		for _, r := range values {
			assert.Equal(t, l < r, Compare(l, CompLT, r))
			assert.Equal(t, l <= r, Compare(l, CompLE, r))
			assert.Equal(t, l == r, Compare(l, CompEQ, r))
			assert.Equal(t, l >= r, Compare(l, CompGE, r))
			assert.Equal(t, l > r, Compare(l, CompGT, r))
			assert.Equal(t, l != r, Compare(l, CompNE, r))
		}
	}
}

func TestCompare_OutOfRangeBehavesAsEQ(t *testing.T) {
	for _, comp := range []Comparator{-3, 4, 99} {
		assert.True(t, Compare(7, comp, 7))
		assert.False(t, Compare(7, comp, 8))
	}
}

func TestActionRequirement(t *testing.T) {
	dep := NewAction(5, ActionIntelEvent, 0, 1)
	c := newTestCampaign(0, dep)

	req := ActionRequirement{ActionID: 5, Status: StatusComplete}
	assert.False(t, req.met(c), "dependency not complete yet")

	dep.Status = StatusComplete
	assert.True(t, req.met(c))

	negated := ActionRequirement{ActionID: 5, Status: StatusComplete, Negate: true}
	assert.False(t, negated.met(c))

	missing := ActionRequirement{ActionID: 6, Status: StatusComplete}
	assert.False(t, missing.met(c))

	missingNegated := ActionRequirement{ActionID: 6, Status: StatusComplete, Negate: true}
	assert.True(t, missingNegated.met(c))

	assert.False(t, req.met(nil))
}

func TestGroupAndScoreRequirements_FailClosed(t *testing.T) {
	c := newTestCampaign(0)

	group := GroupRequirement{Combatant: 1, GroupType: GroupFleet, GroupID: 2, Comp: CompGE, Score: 0}
	score := ScoreRequirement{CombatantA: 1, CombatantB: 2, Comp: CompGE, Score: -1000}

	assert.False(t, group.met(c))
	assert.False(t, score.met(c))
	assert.Contains(t, group.String(), "fleet")
	assert.Contains(t, score.String(), "GE")
}
