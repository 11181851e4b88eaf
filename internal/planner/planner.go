// Package planner holds the stages of the campaign pipeline. Each stage
// reads and mutates the shared campaign graph once per tick, in the fixed
// order Strategic, Assignment, Mission and Movement, then Event.
package planner

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/starshatter/campaign/internal/combat"
)

// Planner is one stage of the campaign pipeline.
type Planner interface {
	Name() string
	ExecFrame(ctx context.Context)
}

// Campaign is the state the planners operate on.
type Campaign interface {
	combat.Context

	Combatants() []*combat.Combatant
	Zones() []*combat.Zone
	Actions() []*combat.Action
	FindGroup(iff int, t combat.GroupType, id int) *combat.Group
	FindCombatant(iff int) *combat.Combatant

	Assignments() []*combat.Assignment
	SetAssignments(list []*combat.Assignment)

	AddEvent(e *combat.Event)
	AddMissionRequest(r *MissionRequest)
	MissionRequests() []*MissionRequest
}

// Options tunes the planners.
type Options struct {
	// Formula scores a group from value, weight, intel and live.
	Formula string
	// Weights maps group type mnemonics to strategic weight. Missing
	// types weigh 1.
	Weights map[string]float64

	EventInterval int64
	EventLockout  int64

	MissionLead       int64
	MissionWindow     int64
	MissionMaxPending int

	MovementDrift float64

	// Seed feeds every planner's random source. Each planner derives its
	// own stream so stages running side by side never share one.
	Seed uint64

	Logger *slog.Logger
}

// DefaultOptions returns the built-in tuning.
func DefaultOptions() Options {
	return Options{
		Formula:           DefaultFormula,
		EventInterval:     300,
		EventLockout:      1800,
		MissionLead:       1800,
		MissionWindow:     3600,
		MissionMaxPending: 3,
		MovementDrift:     5000,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Stream ids for the per-planner random sources.
const (
	streamMission uint64 = iota + 1
	streamMovement
	streamEvent
)

func (o Options) rng(stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(o.Seed, stream))
}

// Pipeline is the closed set of planners of one campaign.
type Pipeline struct {
	Strategic  *Strategic
	Assignment *Assignment
	Mission    *Mission
	Movement   *Movement
	Event      *Event
}

// NewPipeline builds every planner against c.
func NewPipeline(c Campaign, opts Options) (*Pipeline, error) {
	strategic, err := NewStrategic(c, opts)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		Strategic:  strategic,
		Assignment: NewAssignment(c, opts),
		Mission:    NewMission(c, opts),
		Movement:   NewMovement(c, opts),
		Event:      NewEvent(c, opts),
	}, nil
}

// Planners lists the stages in execution order.
func (p *Pipeline) Planners() []Planner {
	return []Planner{p.Strategic, p.Assignment, p.Mission, p.Movement, p.Event}
}

// roleFor picks the mission role used against an objective.
func roleFor(owner *combat.Combatant, objective *combat.Group) combat.MissionType {
	if owner != nil && objective.IFF == owner.IFF {
		if objective.IsDefensible() {
			return combat.MissionDefend
		}
		return combat.MissionPatrol
	}
	switch {
	case objective.IsStarshipGroup():
		return combat.MissionAssault
	case objective.IsFighterGroup():
		return combat.MissionSweep
	case objective.IsStatic():
		return combat.MissionStrike
	}
	return combat.MissionPatrol
}
