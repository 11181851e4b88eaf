// Package campaign runs a dynamic campaign: it owns the clock and the
// state graph, drives the planner pipeline once per tick and journals what
// changed to the storage backend and the telemetry sink.
package campaign

import (
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/starshatter/campaign/internal/cache"
	"github.com/starshatter/campaign/internal/combat"
	"github.com/starshatter/campaign/internal/logging"
	"github.com/starshatter/campaign/internal/planner"
	"github.com/starshatter/campaign/internal/roster"
	"github.com/starshatter/campaign/internal/storage"
	"github.com/starshatter/campaign/pkg/core"
)

// DefaultTickSeconds is used when neither the definition nor the caller
// sets a tick length.
const DefaultTickSeconds = 300

// Telemetry receives force strength and events as they are journaled.
// influx.Manager implements it.
type Telemetry interface {
	WriteForce(campaign string, s *core.ForceSnapshot, at time.Time) error
	WriteEvent(campaign string, e *core.Event) error
}

// Dependencies holds the collaborators of a campaign. Every field is
// optional.
type Dependencies struct {
	Roster     *roster.Roster
	Storage    storage.Backend
	Telemetry  Telemetry
	Content    fs.FS
	LogManager *logging.SlogManager
	// Now stamps journal records. Defaults to time.Now.
	Now func() time.Time
}

// Campaign is a running campaign. It satisfies planner.Campaign.
type Campaign struct {
	name        string
	seed        int64
	tickSeconds int64

	clock   cache.SafeCounter
	groups  *cache.GroupCache
	actions *cache.ActionIndex

	mu          sync.RWMutex
	combatants  []*combat.Combatant
	zones       []*combat.Zone
	actionList  []*combat.Action
	assignments []*combat.Assignment
	events      []*combat.Event
	requests    []*planner.MissionRequest
	player      *combat.Player
	playerGroup *combat.Group
	content     fs.FS

	pipeline *planner.Pipeline
	deps     Dependencies
	log      *slog.Logger

	record    *core.Campaign
	journaled int
	statuses  map[int]combat.ActionStatus
}

var _ planner.Campaign = (*Campaign)(nil)

// New builds a campaign from def. opts.Seed is taken from the definition
// when the caller leaves it zero.
func New(def *Definition, opts planner.Options, deps Dependencies) (*Campaign, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	c := &Campaign{
		name:        def.Name,
		seed:        def.Seed,
		tickSeconds: def.TickSeconds,
		groups:      cache.NewGroupCache(),
		actions:     cache.NewActionIndex(),
		content:     deps.Content,
		deps:        deps,
		statuses:    make(map[int]combat.ActionStatus),
	}
	if c.tickSeconds <= 0 {
		c.tickSeconds = DefaultTickSeconds
	}
	c.log = slog.Default()
	if deps.LogManager != nil {
		c.log = deps.LogManager.Component("campaign")
	}
	c.log = c.log.With("campaign", c.name)

	for _, z := range def.Zones {
		c.zones = append(c.zones, &combat.Zone{Name: z.Name, Regions: z.Regions})
	}
	for _, cd := range def.Combatants {
		force := cd.Force.build(cd.IFF, "")
		cmb := combat.NewCombatant(cd.Name, cd.IFF, force)
		cmb.Score = cd.Score
		c.combatants = append(c.combatants, cmb)
		c.groups.Index(force)
		if deps.Roster != nil {
			deps.Roster.RegisterForce(cd.Name, force)
		}
	}
	for i := range def.Actions {
		a := def.Actions[i].build()
		c.actionList = append(c.actionList, a)
		c.actions.Set(a)
		c.statuses[a.ID] = a.Status
	}
	if def.Player != nil {
		c.player = &combat.Player{Name: def.Player.Name, Rank: def.Player.Rank}
		if def.Player.Group != nil {
			c.playerGroup = c.FindGroup(def.Player.Group.resolve())
			if c.playerGroup == nil {
				c.log.Warn("player group not found", "group", *def.Player.Group)
			}
		}
	}

	if opts.Seed == 0 {
		opts.Seed = uint64(def.Seed)
	}
	if opts.Logger == nil {
		opts.Logger = c.log
	}
	pipeline, err := planner.NewPipeline(c, opts)
	if err != nil {
		return nil, err
	}
	c.pipeline = pipeline
	return c, nil
}

func (c *Campaign) Name() string { return c.name }

// TickSeconds is the default clock step of Run.
func (c *Campaign) TickSeconds() int64 { return c.tickSeconds }

// Pipeline exposes the planners, mainly for tuning such as SetLockout.
func (c *Campaign) Pipeline() *planner.Pipeline { return c.pipeline }

// Time returns the campaign clock in seconds.
func (c *Campaign) Time() int64 { return c.clock.Value() }

// SetTime moves the clock without running the planners.
func (c *Campaign) SetTime(t int64) { c.clock.Set(t) }

func (c *Campaign) FindAction(id int) *combat.Action {
	a, _ := c.actions.Get(id)
	return a
}

func (c *Campaign) PlayerGroup() *combat.Group { return c.playerGroup }
func (c *Campaign) Player() *combat.Player     { return c.player }
func (c *Campaign) Content() fs.FS             { return c.content }

func (c *Campaign) Combatants() []*combat.Combatant { return c.combatants }
func (c *Campaign) Zones() []*combat.Zone           { return c.zones }
func (c *Campaign) Actions() []*combat.Action       { return c.actionList }

// FindGroup looks a group up by combatant IFF, type and id. GroupNone
// never matches.
func (c *Campaign) FindGroup(iff int, t combat.GroupType, id int) *combat.Group {
	if t == combat.GroupNone {
		return nil
	}
	g, _ := c.groups.Get(iff, t, id)
	return g
}

func (c *Campaign) FindCombatant(iff int) *combat.Combatant {
	for _, cmb := range c.combatants {
		if cmb.IFF == iff {
			return cmb
		}
	}
	return nil
}

func (c *Campaign) Assignments() []*combat.Assignment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.assignments
}

func (c *Campaign) SetAssignments(list []*combat.Assignment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assignments = list
}

func (c *Campaign) AddEvent(e *combat.Event) {
	if e == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

// Events returns a copy of the event log in publication order.
func (c *Campaign) Events() []*combat.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*combat.Event(nil), c.events...)
}

func (c *Campaign) AddMissionRequest(r *planner.MissionRequest) {
	if r == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, r)
}

func (c *Campaign) MissionRequests() []*planner.MissionRequest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*planner.MissionRequest(nil), c.requests...)
}
