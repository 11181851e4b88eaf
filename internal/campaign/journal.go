package campaign

import (
	"errors"
	"fmt"

	"github.com/starshatter/campaign/internal/combat"
	"github.com/starshatter/campaign/internal/geo"
	"github.com/starshatter/campaign/pkg/core"
)

// journal records the events published and the action statuses changed
// since the previous call, then the strength of every force.
func (c *Campaign) journal() error {
	var errs []error

	c.mu.RLock()
	fresh := append([]*combat.Event(nil), c.events[c.journaled:]...)
	c.mu.RUnlock()
	c.journaled += len(fresh)

	for _, e := range fresh {
		rec := EventRecord(e)
		rec.RecordedAt = c.deps.Now()
		if c.deps.Storage != nil {
			if err := c.deps.Storage.RecordEvent(rec); err != nil {
				errs = append(errs, fmt.Errorf("record event %s: %w", rec.EventID, err))
			}
		}
		if c.deps.Telemetry != nil {
			if err := c.deps.Telemetry.WriteEvent(c.name, rec); err != nil {
				errs = append(errs, err)
			}
		}
		c.log.Info("event", "type", rec.Type, "source", rec.Source, "team", rec.Team, "title", rec.Title)
	}

	for _, a := range c.actionList {
		if c.statuses[a.ID] == a.Status {
			continue
		}
		c.statuses[a.ID] = a.Status
		if c.deps.Storage == nil {
			continue
		}
		err := c.deps.Storage.RecordAction(&core.ActionChange{
			ActionID:     a.ID,
			Type:         a.Type.String(),
			Status:       a.Status.String(),
			CampaignTime: c.Time(),
			RecordedAt:   c.deps.Now(),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("record action %d: %w", a.ID, err))
		}
	}

	if err := c.recordForces(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c *Campaign) recordForces() error {
	var errs []error
	at := c.deps.Now()
	for _, cmb := range c.combatants {
		snap := ForceSnapshot(cmb, c.Time())
		if c.deps.Storage != nil {
			if err := c.deps.Storage.RecordForce(snap); err != nil {
				errs = append(errs, fmt.Errorf("record force %s: %w", cmb.Name, err))
			}
		}
		if c.deps.Telemetry != nil {
			if err := c.deps.Telemetry.WriteForce(c.name, snap, at); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if c.playerGroup != nil {
		c.log.Debug("player group", "group", c.playerGroup.Name, "at", geo.WKT(c.playerGroup.Location))
	}
	return errors.Join(errs...)
}

// EventRecord converts a published event into its journal record.
func EventRecord(e *combat.Event) *core.Event {
	return &core.Event{
		EventID:      e.ID(),
		CampaignTime: e.Time(),
		Type:         e.Type().String(),
		Source:       e.Source().String(),
		Team:         e.Team(),
		Region:       e.Region(),
		Title:        e.Title(),
		Info:         e.Info(),
		Points:       e.Points,
	}
}

// ForceSnapshot captures the standing of a combatant at campaign time t.
func ForceSnapshot(cmb *combat.Combatant, t int64) *core.ForceSnapshot {
	snap := &core.ForceSnapshot{
		CampaignTime: t,
		Combatant:    cmb.Name,
		IFF:          cmb.IFF,
		Score:        cmb.Score,
	}
	if cmb.Force == nil {
		return snap
	}
	snap.Value = cmb.Force.Value()
	snap.LiveUnits = cmb.Force.LiveCount()
	for _, g := range cmb.Groups() {
		if g == cmb.Force {
			continue
		}
		snap.Groups = append(snap.Groups, core.GroupState{
			GroupID:   g.ID,
			Type:      g.Type.String(),
			Name:      g.Name,
			Region:    g.Region,
			X:         g.Location.X,
			Y:         g.Location.Y,
			PlanValue: g.PlanValue,
			Intel:     g.IntelLevel.String(),
			Value:     g.Value(),
		})
	}
	return snap
}
