package planner

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/starshatter/campaign/internal/combat"
)

// Success probability bounds for statistical engagements.
const (
	MinSuccess = 0.1
	MaxSuccess = 0.9
)

// Event realizes scripted actions and generates statistical combat events
// from the current assignments.
type Event struct {
	campaign Campaign
	interval int64
	lockout  int64
	rng      *rand.Rand
	log      *slog.Logger

	ran         bool
	lastExec    int64
	lockedUntil int64
}

func NewEvent(c Campaign, opts Options) *Event {
	return &Event{
		campaign: c,
		interval: max(opts.EventInterval, 0),
		lockout:  max(opts.EventLockout, 0),
		rng:      opts.rng(streamEvent),
		log:      opts.logger().With("planner", "event"),
	}
}

func (p *Event) Name() string { return "Event" }

// ExecFrame runs at most once per interval and not during a lockout.
// Statistical events are only generated on frames where no scripted
// action fired.
func (p *Event) ExecFrame(ctx context.Context) {
	if p.campaign == nil {
		return
	}
	now := p.campaign.Time()
	if now < p.lockedUntil {
		return
	}
	if p.ran && now-p.lastExec < p.interval {
		return
	}
	p.ran = true
	p.lastExec = now
	recordFrame(ctx, p.Name())

	if n := p.ExecScriptedEvents(ctx); n > 0 {
		return
	}
	p.ExecStatisticalEvents(ctx)
}

// SetLockout suppresses the planner for the given number of seconds.
func (p *Event) SetLockout(seconds int64) {
	if p.campaign == nil {
		return
	}
	p.lockedUntil = p.campaign.Time() + seconds
}

// LockedUntil returns the end of the planner-wide lockout.
func (p *Event) LockedUntil() int64 {
	return p.lockedUntil
}

// ExecScriptedEvents walks the scripted actions, activating those whose
// gates pass and executing the ones whose delay has run out. It returns
// the number of actions completed.
func (p *Event) ExecScriptedEvents(ctx context.Context) int {
	now := p.campaign.Time()
	rank := 0
	if player := p.campaign.Player(); player != nil {
		rank = player.Rank
	}

	fired := 0
	for _, a := range p.campaign.Actions() {
		if a.Status == combat.StatusIncomplete {
			if !a.IsActive(p.campaign) || !a.RankAllowed(rank) {
				continue
			}
			if !a.ResolveProbability(p.rng.IntN(100)) {
				a.Fail(now)
				p.log.Debug("action failed probability gate", "action", a.ID)
				continue
			}
			a.Activate(now)
		}
		if !a.Due(now) {
			continue
		}
		if p.execAction(ctx, a) {
			a.Complete(now)
			fired++
			p.log.Info("action complete", "action", a.ID, "type", a.Type.String())
		} else {
			a.Fail(now)
			p.log.Warn("action failed", "action", a.ID, "type", a.Type.String())
		}
	}
	return fired
}

func (p *Event) execAction(ctx context.Context, a *combat.Action) bool {
	switch a.Type {
	case combat.ActionIntelEvent, combat.ActionCombatEvent:
		p.scriptedEvent(ctx, a)
		if a.Type == combat.ActionCombatEvent {
			p.ProsecuteKills(a)
		}
		return true

	case combat.ActionMoveGroup:
		g := p.campaign.FindGroup(a.AssetIFF, a.AssetType, a.AssetID)
		if g == nil {
			return false
		}
		g.Location = a.Location
		if a.Region != "" {
			g.Region = a.Region
		}
		return true

	case combat.ActionSetIntel:
		g := p.campaign.FindGroup(a.AssetIFF, a.AssetType, a.AssetID)
		if g == nil {
			return false
		}
		g.IntelLevel = combat.Intel(min(max(a.Subtype, int(combat.IntelUnknown)), int(combat.IntelTracked)))
		return true

	case combat.ActionMissionTemplate:
		req := &MissionRequest{
			Archetype: ArchetypeTemplate,
			Type:      combat.MissionType(a.Subtype),
			Combatant: p.campaign.FindCombatant(a.Team),
			Primary:   p.campaign.FindGroup(a.AssetIFF, a.AssetType, a.AssetID),
			Region:    a.Region,
			StartTime: p.campaign.Time() + a.Delay,
			Script:    a.File,
			ActionID:  a.ID,
		}
		if a.TargetType != combat.GroupNone {
			req.Objective = p.campaign.FindGroup(a.TargetIFF, a.TargetType, a.TargetID)
		}
		if req.Primary == nil {
			req.Primary = p.campaign.PlayerGroup()
		}
		p.campaign.AddMissionRequest(req)
		return true
	}
	return false
}

func (p *Event) scriptedEvent(ctx context.Context, a *combat.Action) {
	typ := combat.EventType(a.Subtype)
	if combat.TypeName(typ) == "Unknown" {
		typ = combat.EventStory
		if a.Type == combat.ActionCombatEvent {
			typ = combat.EventAttack
		}
	}
	spec := combat.EventSpec{
		Type:      typ,
		Time:      p.campaign.Time(),
		Team:      a.Team,
		Source:    a.Source,
		Region:    a.Region,
		Title:     a.Text,
		File:      a.File,
		ImageFile: a.ImageFile,
		SceneFile: a.SceneFile,
	}
	if a.File == "" {
		spec.Info = a.Text
	}
	ev := combat.NewEvent(p.campaign, spec)
	ev.Load()
	p.campaign.AddEvent(ev)
	recordEvents(ctx, "scripted", 1)
}

// ExecStatisticalEvents gives every unlocked combatant a chance to resolve
// one of its active assignments. A combatant that produces an event is
// locked out for the configured period. It returns the number of events
// created.
func (p *Event) ExecStatisticalEvents(ctx context.Context) int {
	now := p.campaign.Time()
	created := 0
	for _, c := range p.campaign.Combatants() {
		if c.IsLocked(now) {
			continue
		}
		var busy []*combat.Group
		for _, g := range c.Groups() {
			if !g.IsIdle() {
				busy = append(busy, g)
			}
		}
		if len(busy) == 0 {
			continue
		}
		g := busy[p.rng.IntN(len(busy))]
		if p.CreateEvent(ctx, p.ChooseAssignment(g)) {
			created++
			c.LockedUntil = now + p.lockout
		}
	}
	return created
}

// ChooseAssignment returns the highest priority active assignment of g.
func (p *Event) ChooseAssignment(g *combat.Group) *combat.Assignment {
	if g == nil {
		return nil
	}
	active := make([]*combat.Assignment, 0, len(g.Assignments()))
	for _, a := range g.Assignments() {
		if a.IsActive() {
			active = append(active, a)
		}
	}
	if len(active) == 0 {
		return nil
	}
	combat.SortAssignments(active)
	return active[0]
}

// CreateEvent resolves a by the kind of engagement it describes.
func (p *Event) CreateEvent(ctx context.Context, a *combat.Assignment) bool {
	if !a.IsActive() {
		return false
	}
	res := a.Resource()
	switch {
	case a.Type == combat.MissionDefend:
		return p.CreateEventDefend(ctx, a)
	case res.IsStarshipGroup():
		return p.CreateEventStarship(ctx, a)
	case res.IsFighterGroup():
		switch a.Type {
		case combat.MissionAssault:
			return p.CreateEventFighterAssault(ctx, a)
		case combat.MissionStrike:
			return p.CreateEventFighterStrike(ctx, a)
		}
		return p.CreateEventFighterSweep(ctx, a)
	}
	return false
}

// engagement describes how a statistical event is reported and scored.
type engagement struct {
	typ     combat.EventType
	source  combat.EventSource
	verb    string
	hit     int // units the objective loses on success
	penalty int // units the resource loses on failure
}

func (p *Event) CreateEventDefend(ctx context.Context, a *combat.Assignment) bool {
	return p.engage(ctx, a, engagement{combat.EventDefend, combat.SourceForcom, "defended", 0, 1})
}

func (p *Event) CreateEventFighterAssault(ctx context.Context, a *combat.Assignment) bool {
	return p.engage(ctx, a, engagement{combat.EventAttack, combat.SourceTacnet, "assaulted", 1, 2})
}

func (p *Event) CreateEventFighterStrike(ctx context.Context, a *combat.Assignment) bool {
	return p.engage(ctx, a, engagement{combat.EventAttack, combat.SourceTacnet, "struck", 2, 1})
}

func (p *Event) CreateEventFighterSweep(ctx context.Context, a *combat.Assignment) bool {
	return p.engage(ctx, a, engagement{combat.EventAttack, combat.SourceTacnet, "swept", 1, 1})
}

func (p *Event) CreateEventStarship(ctx context.Context, a *combat.Assignment) bool {
	return p.engage(ctx, a, engagement{combat.EventAttack, combat.SourceForcom, "engaged", 2, 1})
}

func (p *Event) engage(ctx context.Context, a *combat.Assignment, e engagement) bool {
	res, obj := a.Resource(), a.Objective()
	if res == nil {
		return false
	}

	success := p.Success(a)
	points := 0
	outcome := "without result"

	switch {
	case success && obj != nil && e.hit > 0:
		points = p.inflict(obj, e.hit, res.IFF)
		outcome = "successfully"
	case success:
		outcome = "successfully"
	case e.typ == combat.EventDefend && obj != nil:
		points = p.inflict(obj, e.penalty, -1)
		outcome = "but the objective was damaged"
	default:
		points = p.inflict(res, e.penalty, opposing(obj))
		outcome = "and was driven off"
	}

	target := "its sector"
	if obj != nil {
		target = obj.Description()
	}
	region := res.Region
	if obj != nil && obj.Region != "" {
		region = obj.Region
	}

	ev := combat.NewEvent(p.campaign, combat.EventSpec{
		Type:   e.typ,
		Time:   p.campaign.Time(),
		Team:   res.IFF,
		Source: e.source,
		Region: region,
		Title:  a.Description(),
		Info:   fmt.Sprintf("%s %s %s %s.", res.Description(), e.verb, target, outcome),
		Points: points,
	})
	p.campaign.AddEvent(ev)
	recordEvents(ctx, "statistical", 1)
	return true
}

// inflict kills up to n units of g, spread across its unit list, and
// credits the destroyed value to the combatant with IFF creditIFF.
func (p *Event) inflict(g *combat.Group, n, creditIFF int) int {
	var units []*combat.Unit
	g.Walk(func(sub *combat.Group) {
		for _, u := range sub.Units {
			if u.LiveCount() > 0 {
				units = append(units, u)
			}
		}
	})

	value := 0
	for ; n > 0 && len(units) > 0; n-- {
		i := p.rng.IntN(len(units))
		value += units[i].Kill(1)
		if units[i].LiveCount() == 0 {
			units = slices.Delete(units, i, i+1)
		}
	}
	p.credit(creditIFF, value)
	return value
}

func (p *Event) credit(iff, value int) {
	if value <= 0 || iff < 0 {
		return
	}
	if c := p.campaign.FindCombatant(iff); c != nil {
		c.AddScore(value)
	}
}

func opposing(obj *combat.Group) int {
	if obj == nil {
		return -1
	}
	return obj.IFF
}

// Success rolls the outcome of a, weighted by the live value of the
// resource against the objective and clamped to [MinSuccess, MaxSuccess].
// Without a resource the assignment fails; without an objective it
// succeeds.
func (p *Event) Success(a *combat.Assignment) bool {
	if a == nil || a.Resource() == nil {
		return false
	}
	if a.Objective() == nil {
		return true
	}
	return p.rng.Float64() < SuccessChance(a)
}

// SuccessChance is the probability Success uses for a.
func SuccessChance(a *combat.Assignment) float64 {
	res := float64(a.Resource().Value())
	obj := float64(a.Objective().Value())
	chance := 0.5
	if res+obj > 0 {
		chance = res / (res + obj)
	}
	return min(max(chance, MinSuccess), MaxSuccess)
}

// ProsecuteKills applies the kill lists of a resolved combat action. Each
// named entry destroys one member of that unit, and the value destroyed
// is credited to the opposing side.
func (p *Event) ProsecuteKills(a *combat.Action) {
	if p.campaign == nil || a == nil {
		return
	}
	p.killNamed(a.AssetIFF, a.AssetType, a.AssetID, a.AssetKills, a.TargetIFF)
	p.killNamed(a.TargetIFF, a.TargetType, a.TargetID, a.TargetKills, a.AssetIFF)
}

func (p *Event) killNamed(iff int, t combat.GroupType, id int, names []string, creditIFF int) {
	if len(names) == 0 {
		return
	}
	root := p.campaign.FindGroup(iff, t, id)
	if root == nil {
		if c := p.campaign.FindCombatant(iff); c != nil {
			root = c.Force
		}
	}
	if root == nil {
		p.log.Debug("kill list without group", "iff", iff, "type", t.String(), "id", id)
		return
	}

	value := 0
	for _, name := range names {
		if u := root.FindUnit(name); u != nil {
			value += u.Kill(1)
		}
	}
	if creditIFF != iff {
		p.credit(creditIFF, value)
	}
}
