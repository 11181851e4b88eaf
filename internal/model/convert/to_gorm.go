// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/starshatter/campaign/internal/geo"
	"github.com/starshatter/campaign/internal/model"
	"github.com/starshatter/campaign/pkg/core"
	"gorm.io/datatypes"
)

// xyToPoint converts sector coordinates to a geom.Point.
func xyToPoint(x, y float64) geom.Point {
	return geo.Point(geom.XY{X: x, Y: y})
}

// toJSON marshals v for a JSON column, falling back to an empty array.
func toJSON[T any](v []T) datatypes.JSON {
	if len(v) == 0 {
		return datatypes.JSON("[]")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(data)
}

// CoreToCampaign converts a core.Campaign to a GORM model.Campaign.
func CoreToCampaign(c core.Campaign) model.Campaign {
	m := model.Campaign{
		Name:        c.Name,
		Seed:        c.Seed,
		TickSeconds: c.TickSeconds,
		StartedAt:   c.StartedAt,
		Combatants:  toJSON(c.Combatants),
	}
	m.ID = c.ID
	return m
}

// CoreToEvent converts a core.Event to a GORM model.CampaignEvent.
func CoreToEvent(e core.Event, campaignID uint) model.CampaignEvent {
	return model.CampaignEvent{
		CampaignID:   campaignID,
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

// CoreToActionChange converts a core.ActionChange to a GORM model.ActionChange.
func CoreToActionChange(a core.ActionChange, campaignID uint) model.ActionChange {
	return model.ActionChange{
		CampaignID:   campaignID,
		ActionID:     a.ActionID,
		Type:         a.Type,
		Status:       a.Status,
		CampaignTime: a.CampaignTime,
		RecordedAt:   a.RecordedAt,
	}
}

// CoreToForceSnapshot converts a core.ForceSnapshot to a GORM model.ForceSnapshot.
func CoreToForceSnapshot(s core.ForceSnapshot, campaignID uint) model.ForceSnapshot {
	return model.ForceSnapshot{
		CampaignID:   campaignID,
		CampaignTime: s.CampaignTime,
		Combatant:    s.Combatant,
		IFF:          s.IFF,
		Score:        s.Score,
		Value:        s.Value,
		LiveUnits:    s.LiveUnits,
		Groups:       toJSON(s.Groups),
	}
}

// CoreToGroupPositions flattens the groups of a snapshot into position rows.
func CoreToGroupPositions(s core.ForceSnapshot, campaignID uint) []model.GroupPosition {
	out := make([]model.GroupPosition, 0, len(s.Groups))
	for _, g := range s.Groups {
		out = append(out, model.GroupPosition{
			CampaignID:   campaignID,
			CampaignTime: s.CampaignTime,
			IFF:          s.IFF,
			GroupID:      g.GroupID,
			Type:         g.Type,
			Name:         g.Name,
			Region:       g.Region,
			Location:     xyToPoint(g.X, g.Y),
			PlanValue:    g.PlanValue,
			Intel:        g.Intel,
			Value:        g.Value,
		})
	}
	return out
}
