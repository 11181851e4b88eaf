package planner

import (
	"context"
	"log/slog"
	"math/rand/v2"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/starshatter/campaign/internal/combat"
)

// Movement drifts idle starship groups around their station so they do
// not sit in one spot for the whole campaign. It touches nothing but the
// positions of idle groups and may run beside the mission stage.
type Movement struct {
	campaign Campaign
	drift    float64
	rng      *rand.Rand
	log      *slog.Logger
}

func NewMovement(c Campaign, opts Options) *Movement {
	return &Movement{
		campaign: c,
		drift:    opts.MovementDrift,
		rng:      opts.rng(streamMovement),
		log:      opts.logger().With("planner", "movement"),
	}
}

func (p *Movement) Name() string { return "Movement" }

func (p *Movement) ExecFrame(ctx context.Context) {
	if p.campaign == nil || p.drift <= 0 {
		return
	}
	recordFrame(ctx, p.Name())

	moved := 0
	for _, c := range p.campaign.Combatants() {
		for _, g := range c.Groups() {
			if p.Drifts(g) {
				g.Location = p.displace(g.Location)
				moved++
			}
		}
	}
	p.log.Debug("idle groups drifted", "count", moved)
}

// Drifts reports whether g is an idle movable starship group.
func (p *Movement) Drifts(g *combat.Group) bool {
	return g.IsStarshipGroup() && g.IsMovable() && !g.IsReserve() && g.LiveCount() > 0 && g.IsIdle()
}

func (p *Movement) displace(at geom.XY) geom.XY {
	return geom.XY{
		X: at.X + (p.rng.Float64()*2-1)*p.drift,
		Y: at.Y + (p.rng.Float64()*2-1)*p.drift,
	}
}
