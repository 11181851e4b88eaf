package planner

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/starshatter/campaign/internal/combat"
	"github.com/starshatter/campaign/internal/util"
)

// DefaultFormula scores a group by weighted value plus an intel bonus.
const DefaultFormula = "value * weight + intel * 10"

// ScoreEnv is the environment a scoring formula is evaluated against.
type ScoreEnv struct {
	Value  float64 `expr:"value"`
	Weight float64 `expr:"weight"`
	Intel  float64 `expr:"intel"`
	Live   float64 `expr:"live"`
	Static bool    `expr:"static"`
}

// Strategic ranks enemy targets and friendly installations for every
// combatant.
type Strategic struct {
	campaign Campaign
	weights  map[string]float64
	program  *vm.Program
	log      *slog.Logger
}

// NewStrategic compiles the scoring formula. An empty formula selects
// DefaultFormula.
func NewStrategic(c Campaign, opts Options) (*Strategic, error) {
	formula := opts.Formula
	if formula == "" {
		formula = DefaultFormula
	}
	prog, err := expr.Compile(formula, expr.Env(ScoreEnv{}), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("compile strategy formula %q: %w", formula, err)
	}

	weights := make(map[string]float64, len(opts.Weights))
	for k, v := range opts.Weights {
		weights[util.NormalizeKey(k)] = v
	}

	return &Strategic{
		campaign: c,
		weights:  weights,
		program:  prog,
		log:      opts.logger().With("planner", "strategic"),
	}, nil
}

func (p *Strategic) Name() string { return "Strategic" }

func (p *Strategic) ExecFrame(ctx context.Context) {
	if p.campaign == nil {
		return
	}
	recordFrame(ctx, p.Name())

	combatants := p.campaign.Combatants()
	for _, c := range combatants {
		p.ScoreCombatant(c)
		p.AssignZones(c)
	}
	for _, c := range combatants {
		c.TargetList = p.BuildTargetList(c, combatants)
		c.DefendList = p.BuildDefendList(c)
	}
}

// Weight returns the strategic weight of a group type.
func (p *Strategic) Weight(t combat.GroupType) float64 {
	if w, ok := p.weights[t.String()]; ok {
		return w
	}
	return 1
}

// ScoreCombatant sets the plan value of every group in the combatant's
// force. Destroyed groups are worth nothing.
func (p *Strategic) ScoreCombatant(c *combat.Combatant) {
	for _, g := range c.Groups() {
		g.PlanValue = p.Score(g)
	}
}

// Score evaluates the formula for one group. Evaluation errors fall back
// to the raw combat value.
func (p *Strategic) Score(g *combat.Group) int {
	live := g.LiveCount()
	if live == 0 && len(g.Units) > 0 {
		return 0
	}
	env := ScoreEnv{
		Value:  float64(g.Value()),
		Weight: p.Weight(g.Type),
		Intel:  float64(g.IntelLevel),
		Live:   float64(live),
		Static: g.IsStatic(),
	}
	out, err := expr.Run(p.program, env)
	if err != nil {
		p.log.Debug("score formula failed", "group", g.Name, "error", err)
		return g.Value()
	}
	v, ok := out.(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return g.Value()
	}
	return int(math.Round(v))
}

// AssignZones binds each group to the zone holding its region. Groups
// without a region inherit the zone of their parent.
func (p *Strategic) AssignZones(c *combat.Combatant) {
	zones := p.campaign.Zones()
	for _, g := range c.Groups() {
		g.Zone = nil
		if g.Region == "" {
			if g.Parent != nil {
				g.Zone = g.Parent.Zone
			}
			continue
		}
		for _, z := range zones {
			if z.HasRegion(g.Region) {
				g.Zone = z
				break
			}
		}
	}
}

// BuildTargetList collects the enemy groups c knows about, highest plan
// value first.
func (p *Strategic) BuildTargetList(c *combat.Combatant, all []*combat.Combatant) []*combat.Group {
	var targets []*combat.Group
	for _, enemy := range all {
		if enemy == c || enemy.IFF == c.IFF {
			continue
		}
		for _, g := range enemy.Groups() {
			if g.IsTargetable() && g.IntelLevel >= combat.IntelKnown {
				targets = append(targets, g)
			}
		}
	}
	sortByPlanValue(targets)
	return targets
}

// BuildDefendList collects c's own installations, highest plan value first.
func (p *Strategic) BuildDefendList(c *combat.Combatant) []*combat.Group {
	var defend []*combat.Group
	for _, g := range c.Groups() {
		if g.IsDefensible() {
			defend = append(defend, g)
		}
	}
	sortByPlanValue(defend)
	return defend
}

func sortByPlanValue(groups []*combat.Group) {
	slices.SortStableFunc(groups, func(a, b *combat.Group) int {
		return b.PlanValue - a.PlanValue
	})
}
