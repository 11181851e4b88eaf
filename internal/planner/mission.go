package planner

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/starshatter/campaign/internal/combat"
)

// MissionStartStep is the granularity of mission start times, in seconds.
const MissionStartStep = 300

// Archetype is the kind of situation a mission request is built from.
type Archetype int

const (
	ArchetypeStrategic Archetype = iota
	ArchetypeStarship
	ArchetypeFighter
	ArchetypeRandomStarship
	ArchetypeRandomFighter
	ArchetypeTemplate
)

var archetypeNames = [...]string{
	"STRATEGIC", "STARSHIP", "FIGHTER", "RANDOM_STARSHIP", "RANDOM_FIGHTER", "TEMPLATE",
}

func (a Archetype) String() string {
	if a < 0 || int(a) >= len(archetypeNames) {
		return "UNKNOWN"
	}
	return archetypeNames[a]
}

// MissionRequest asks the mission builder for a player mission.
type MissionRequest struct {
	Archetype Archetype
	Type      combat.MissionType
	Combatant *combat.Combatant
	Primary   *combat.Group
	Objective *combat.Group
	Region    string
	StartTime int64

	// Script and ActionID are set for requests raised by a scripted
	// mission template.
	Script   string
	ActionID int
}

// Pending reports whether the mission has not started by t.
func (r *MissionRequest) Pending(t int64) bool {
	return r.StartTime > t
}

// mission slots, visited in rotation
const (
	slotStrategic = iota
	slotTargeted
	slotRandom
	slotCount
)

// Mission generates at most one player mission request per frame.
type Mission struct {
	campaign   Campaign
	lead       int64
	window     int64
	maxPending int
	rng        *rand.Rand
	log        *slog.Logger

	slot      int
	lastStart int64
}

func NewMission(c Campaign, opts Options) *Mission {
	return &Mission{
		campaign:   c,
		lead:       max(opts.MissionLead, 0),
		window:     max(opts.MissionWindow, 0),
		maxPending: opts.MissionMaxPending,
		rng:        opts.rng(streamMission),
		log:        opts.logger().With("planner", "mission"),
	}
}

func (p *Mission) Name() string { return "Mission" }

func (p *Mission) ExecFrame(ctx context.Context) {
	if p.campaign == nil {
		return
	}
	recordFrame(ctx, p.Name())

	player := p.campaign.PlayerGroup()
	if player == nil {
		return
	}
	if p.maxPending > 0 && p.pending() >= p.maxPending {
		return
	}

	for i := 0; i < slotCount; i++ {
		slot := (p.slot + i) % slotCount
		req := p.build(slot, player)
		if req == nil {
			continue
		}
		p.slot = (slot + 1) % slotCount
		req.StartTime = p.SelectStartTime()
		p.campaign.AddMissionRequest(req)

		metrics().missions.Add(ctx, 1,
			metric.WithAttributes(attribute.String("archetype", req.Archetype.String())))
		p.log.Debug("mission requested",
			"archetype", req.Archetype.String(),
			"role", req.Type.String(),
			"start", req.StartTime)
		return
	}
}

// SelectStartTime picks the next mission start: now plus the lead time
// plus a random share of the window, rounded down to MissionStartStep.
// Successive results strictly increase.
func (p *Mission) SelectStartTime() int64 {
	t := p.campaign.Time() + p.lead
	if p.window > 0 {
		t += p.rng.Int64N(p.window + 1)
	}
	t -= t % MissionStartStep
	if t <= p.lastStart {
		t = p.lastStart + MissionStartStep
	}
	p.lastStart = t
	return t
}

func (p *Mission) pending() int {
	now := p.campaign.Time()
	n := 0
	for _, r := range p.campaign.MissionRequests() {
		if r.Pending(now) {
			n++
		}
	}
	return n
}

func (p *Mission) build(slot int, player *combat.Group) *MissionRequest {
	switch slot {
	case slotStrategic:
		return p.CreateStrategicMission(player)
	case slotTargeted:
		if player.IsStarshipGroup() {
			return p.CreateTargetedMission(player, ArchetypeStarship)
		}
		return p.CreateTargetedMission(player, ArchetypeFighter)
	case slotRandom:
		if player.IsStarshipGroup() {
			return p.CreateRandomMission(player, ArchetypeRandomStarship)
		}
		return p.CreateRandomMission(player, ArchetypeRandomFighter)
	}
	return nil
}

// CreateStrategicMission builds on the highest priority assignment the
// player group serves in.
func (p *Mission) CreateStrategicMission(player *combat.Group) *MissionRequest {
	var best *combat.Assignment
	for _, a := range p.campaign.Assignments() {
		if a.IsActive() && a.Resource() == player && (best == nil || a.Less(best)) {
			best = a
		}
	}
	if best == nil {
		return nil
	}
	return &MissionRequest{
		Archetype: ArchetypeStrategic,
		Type:      best.Type,
		Combatant: p.campaign.FindCombatant(player.IFF),
		Primary:   player,
		Objective: best.Objective(),
		Region:    regionOf(best.Objective(), player),
	}
}

// CreateTargetedMission sends the player against the most valuable target
// of its combatant inside the player's zone.
func (p *Mission) CreateTargetedMission(player *combat.Group, kind Archetype) *MissionRequest {
	c := p.campaign.FindCombatant(player.IFF)
	if c == nil {
		return nil
	}
	for _, t := range c.TargetList {
		if player.Zone != nil && t.Zone != player.Zone {
			continue
		}
		return &MissionRequest{
			Archetype: kind,
			Type:      roleFor(c, t),
			Combatant: c,
			Primary:   player,
			Objective: t,
			Region:    regionOf(t, player),
		}
	}
	return nil
}

// CreateRandomMission patrols the player's own region.
func (p *Mission) CreateRandomMission(player *combat.Group, kind Archetype) *MissionRequest {
	role := combat.MissionPatrol
	if kind == ArchetypeRandomFighter {
		role = combat.MissionSweep
	}
	return &MissionRequest{
		Archetype: kind,
		Type:      role,
		Combatant: p.campaign.FindCombatant(player.IFF),
		Primary:   player,
		Region:    player.Region,
	}
}

func regionOf(objective, fallback *combat.Group) string {
	if objective != nil && objective.Region != "" {
		return objective.Region
	}
	return fallback.Region
}
