package planner

import (
	"context"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/starshatter/campaign/internal/combat"
)

// assetPreferences lists, per role, the group types able to serve it in
// order of preference.
var assetPreferences = map[combat.MissionType][]combat.GroupType{
	combat.MissionAssault: {
		combat.GroupBattleGroup,
		combat.GroupCarrierGroup,
		combat.GroupDestroyerSquadron,
		combat.GroupAttackSquadron,
	},
	combat.MissionStrike: {
		combat.GroupAttackSquadron,
		combat.GroupLCASquadron,
		combat.GroupFighterSquadron,
		combat.GroupDestroyerSquadron,
		combat.GroupBattleGroup,
	},
	combat.MissionSweep: {
		combat.GroupFighterSquadron,
		combat.GroupInterceptSquadron,
		combat.GroupAttackSquadron,
	},
	combat.MissionDefend: {
		combat.GroupInterceptSquadron,
		combat.GroupFighterSquadron,
		combat.GroupDestroyerSquadron,
		combat.GroupBattleGroup,
		combat.GroupCarrierGroup,
	},
	combat.MissionPatrol: {
		combat.GroupDestroyerSquadron,
		combat.GroupFighterSquadron,
		combat.GroupInterceptSquadron,
	},
}

// Preferences returns the asset preference array of a role.
func Preferences(role combat.MissionType) []combat.GroupType {
	return assetPreferences[role]
}

// Assignment tasks each combatant's forces against its objectives, zone by
// zone. Objectives are served in priority order and each asset is used at
// most once per tick.
type Assignment struct {
	campaign Campaign
	log      *slog.Logger
}

func NewAssignment(c Campaign, opts Options) *Assignment {
	return &Assignment{
		campaign: c,
		log:      opts.logger().With("planner", "assignment"),
	}
}

func (p *Assignment) Name() string { return "Assignment" }

func (p *Assignment) ExecFrame(ctx context.Context) {
	if p.campaign == nil {
		return
	}
	recordFrame(ctx, p.Name())

	combatants := p.campaign.Combatants()
	for _, c := range combatants {
		for _, g := range c.Groups() {
			g.ClearAssignments()
		}
	}

	var published []*combat.Assignment
	for _, c := range combatants {
		for _, z := range p.campaign.Zones() {
			if !contests(c, z) {
				continue
			}
			published = append(published, p.AssignZone(c, z)...)
		}
	}

	combat.SortAssignments(published)
	p.campaign.SetAssignments(published)

	metrics().assignments.Add(ctx, int64(len(published)),
		metric.WithAttributes(attribute.String("planner", p.Name())))
	p.log.Debug("assignments published", "count", len(published))
}

// AssignZone matches c's assets in zone z to its objectives there and
// returns the assignments that received a resource.
func (p *Assignment) AssignZone(c *combat.Combatant, z *combat.Zone) []*combat.Assignment {
	zoneList := p.BuildZoneList(c, z)
	if len(zoneList) == 0 {
		return nil
	}

	var tasks []*combat.Assignment
	for _, g := range c.TargetList {
		if g.Zone == z {
			tasks = append(tasks, combat.NewAssignment(roleFor(c, g), g, nil))
		}
	}
	for _, g := range c.DefendList {
		if g.Zone == z {
			tasks = append(tasks, combat.NewAssignment(roleFor(c, g), g, nil))
		}
	}
	combat.SortAssignments(tasks)

	used := make(map[*combat.Group]bool, len(zoneList))
	var matched []*combat.Assignment
	for _, a := range tasks {
		for _, asset := range p.BuildAssetList(Preferences(a.Type), zoneList) {
			if used[asset] {
				continue
			}
			used[asset] = true
			a.SetResource(asset)
			asset.AddAssignment(a)
			matched = append(matched, a)
			break
		}
	}
	return matched
}

// BuildZoneList returns c's groups in zone z that can take an assignment.
func (p *Assignment) BuildZoneList(c *combat.Combatant, z *combat.Zone) []*combat.Group {
	var list []*combat.Group
	for _, g := range c.Groups() {
		if g.Zone == z && g.IsAssignable() {
			list = append(list, g)
		}
	}
	return list
}

// BuildAssetList orders zoneList by the preference array, dropping groups
// whose type is not listed. Within a type the stronger group comes first.
func (p *Assignment) BuildAssetList(prefs []combat.GroupType, zoneList []*combat.Group) []*combat.Group {
	var assets []*combat.Group
	for _, t := range prefs {
		start := len(assets)
		for _, g := range zoneList {
			if g.Type == t {
				assets = append(assets, g)
			}
		}
		sortByValue(assets[start:])
	}
	return assets
}

func sortByValue(groups []*combat.Group) {
	slices.SortStableFunc(groups, func(a, b *combat.Group) int {
		return b.Value() - a.Value()
	})
}

// contests reports whether c has any group bound to zone z.
func contests(c *combat.Combatant, z *combat.Zone) bool {
	for _, g := range c.Groups() {
		if g.Zone == z {
			return true
		}
	}
	return false
}
