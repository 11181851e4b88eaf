package convert

import (
	"encoding/json"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/starshatter/campaign/internal/model"
	"github.com/starshatter/campaign/pkg/core"
)

// pointToXY converts a geom.Point back to sector coordinates. An empty
// point yields the origin.
func pointToXY(p geom.Point) (float64, float64) {
	coord, ok := p.Coordinates()
	if !ok {
		return 0, 0
	}
	return coord.XY.X, coord.XY.Y
}

// CampaignToCore converts a GORM Campaign to a core.Campaign.
func CampaignToCore(c model.Campaign) core.Campaign {
	var combatants []string
	if len(c.Combatants) > 0 {
		_ = json.Unmarshal(c.Combatants, &combatants)
	}
	return core.Campaign{
		ID:          c.ID,
		Name:        c.Name,
		Seed:        c.Seed,
		TickSeconds: c.TickSeconds,
		StartedAt:   c.StartedAt,
		Combatants:  combatants,
	}
}

// EventToCore converts a GORM CampaignEvent to a core.Event.
func EventToCore(e model.CampaignEvent) core.Event {
	return core.Event{
		EventID:      e.EventID,
		CampaignTime: e.CampaignTime,
		Type:         e.Type,
		Source:       e.Source,
		Team:         e.Team,
		Region:       e.Region,
		Title:        e.Title,
		Info:         e.Info,
		Points:       e.Points,
		RecordedAt:   e.RecordedAt,
	}
}

// ActionChangeToCore converts a GORM ActionChange to a core.ActionChange.
func ActionChangeToCore(a model.ActionChange) core.ActionChange {
	return core.ActionChange{
		ActionID:     a.ActionID,
		Type:         a.Type,
		Status:       a.Status,
		CampaignTime: a.CampaignTime,
		RecordedAt:   a.RecordedAt,
	}
}

// ForceSnapshotToCore converts a GORM ForceSnapshot to a core.ForceSnapshot.
func ForceSnapshotToCore(s model.ForceSnapshot) core.ForceSnapshot {
	var groups []core.GroupState
	if len(s.Groups) > 0 {
		_ = json.Unmarshal(s.Groups, &groups)
	}
	return core.ForceSnapshot{
		CampaignTime: s.CampaignTime,
		Combatant:    s.Combatant,
		IFF:          s.IFF,
		Score:        s.Score,
		Value:        s.Value,
		LiveUnits:    s.LiveUnits,
		Groups:       groups,
	}
}

// GroupPositionToCore converts a GORM GroupPosition to a core.GroupState.
func GroupPositionToCore(p model.GroupPosition) core.GroupState {
	x, y := pointToXY(p.Location)
	return core.GroupState{
		GroupID:   p.GroupID,
		Type:      p.Type,
		Name:      p.Name,
		Region:    p.Region,
		X:         x,
		Y:         y,
		PlanValue: p.PlanValue,
		Intel:     p.Intel,
		Value:     p.Value,
	}
}
