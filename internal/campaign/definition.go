package campaign

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starshatter/campaign/internal/combat"
	"github.com/starshatter/campaign/internal/geo"
)

// Definition is the declarative source of a campaign: forces, zones, the
// player and the scripted actions. Mnemonic fields never fail to parse;
// unknown values fall back to the defaults of the combat package.
type Definition struct {
	Name        string         `yaml:"name"`
	Seed        int64          `yaml:"seed"`
	TickSeconds int64          `yaml:"tickSeconds"`
	Player      *PlayerDef     `yaml:"player"`
	Zones       []ZoneDef      `yaml:"zones"`
	Combatants  []CombatantDef `yaml:"combatants"`
	Actions     []ActionDef    `yaml:"actions"`
}

type PlayerDef struct {
	Name  string    `yaml:"name"`
	Rank  int       `yaml:"rank"`
	Group *GroupRef `yaml:"group"`
}

type ZoneDef struct {
	Name    string   `yaml:"name"`
	Regions []string `yaml:"regions"`
}

type CombatantDef struct {
	Name  string   `yaml:"name"`
	IFF   int      `yaml:"iff"`
	Score int      `yaml:"score"`
	Force GroupDef `yaml:"force"`
}

// GroupDef is one node of a force tree. Location is "x,y".
type GroupDef struct {
	Type      string     `yaml:"type"`
	ID        int        `yaml:"id"`
	Name      string     `yaml:"name"`
	Region    string     `yaml:"region"`
	Location  string     `yaml:"loc"`
	Intel     string     `yaml:"intel"`
	PlanValue int        `yaml:"planValue"`
	Units     []UnitDef  `yaml:"units"`
	Groups    []GroupDef `yaml:"groups"`
}

type UnitDef struct {
	Name   string `yaml:"name"`
	Design string `yaml:"design"`
	Count  int    `yaml:"count"`
	Dead   int    `yaml:"dead"`
	Value  int    `yaml:"value"`
}

// GroupRef names a group by combatant IFF, type mnemonic and id.
type GroupRef struct {
	IFF  int    `yaml:"iff"`
	Type string `yaml:"type"`
	ID   int    `yaml:"id"`
}

func (r *GroupRef) resolve() (iff int, t combat.GroupType, id int) {
	if r == nil {
		return 0, combat.GroupNone, 0
	}
	return r.IFF, combat.GroupTypeFromName(r.Type), r.ID
}

// ActionDef is one scripted action. Subtype is read according to Type:
// an event type for intel and combat events, an intel level for
// SET_INTEL and a mission role for MISSION_TEMPLATE. Plain integers are
// taken as is.
type ActionDef struct {
	ID          int              `yaml:"id"`
	Type        string           `yaml:"type"`
	Subtype     string           `yaml:"subtype"`
	Team        int              `yaml:"team"`
	Source      string           `yaml:"source"`
	Location    string           `yaml:"loc"`
	System      string           `yaml:"system"`
	Region      string           `yaml:"region"`
	Text        string           `yaml:"text"`
	File        string           `yaml:"file"`
	Image       string           `yaml:"image"`
	Scene       string           `yaml:"scene"`
	Probability *int             `yaml:"probability"`
	Delay       int64            `yaml:"delay"`
	StartAfter  int64            `yaml:"startAfter"`
	StartBefore *int64           `yaml:"startBefore"`
	MinRank     int              `yaml:"minRank"`
	MaxRank     int              `yaml:"maxRank"`
	Asset       *GroupRef        `yaml:"asset"`
	AssetKills  []string         `yaml:"assetKills"`
	Target      *GroupRef        `yaml:"target"`
	TargetKills []string         `yaml:"targetKills"`
	Status      string           `yaml:"status"`
	Requires    []RequirementDef `yaml:"requires"`
}

// RequirementDef holds exactly one of Action, Group or Combatants.
type RequirementDef struct {
	Action     *int      `yaml:"action"`
	Status     string    `yaml:"status"`
	Not        bool      `yaml:"not"`
	Group      *GroupRef `yaml:"group"`
	Combatants []int     `yaml:"combatants"`
	Comp       string    `yaml:"comp"`
	Score      int       `yaml:"score"`
	Intel      string    `yaml:"intel"`
}

var (
	ErrNoCombatants    = errors.New("campaign defines no combatants")
	ErrDuplicateIFF    = errors.New("duplicate combatant iff")
	ErrDuplicateAction = errors.New("duplicate action id")
	ErrBadRequirement  = errors.New("requirement must name one of action, group or combatants")
)

// Parse decodes a YAML campaign definition and validates it.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("decode campaign definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadFile reads and parses name from fsys.
func LoadFile(fsys fs.FS, name string) (*Definition, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read campaign definition: %w", err)
	}
	return Parse(data)
}

// Validate reports structural problems. Unknown mnemonics are not errors.
func (d *Definition) Validate() error {
	var errs []error
	if len(d.Combatants) == 0 {
		errs = append(errs, ErrNoCombatants)
	}

	iffs := make(map[int]bool)
	for _, c := range d.Combatants {
		if iffs[c.IFF] {
			errs = append(errs, fmt.Errorf("%w: %d", ErrDuplicateIFF, c.IFF))
		}
		iffs[c.IFF] = true
		errs = append(errs, c.Force.validate(c.Name)...)
	}

	ids := make(map[int]bool)
	for _, a := range d.Actions {
		if ids[a.ID] {
			errs = append(errs, fmt.Errorf("%w: %d", ErrDuplicateAction, a.ID))
		}
		ids[a.ID] = true
		if a.Location != "" {
			if _, err := geo.ParseXY(a.Location); err != nil {
				errs = append(errs, fmt.Errorf("action %d: %w", a.ID, err))
			}
		}
		for i, r := range a.Requires {
			if r.kinds() != 1 || (r.Combatants != nil && len(r.Combatants) != 2) {
				errs = append(errs, fmt.Errorf("action %d requirement %d: %w", a.ID, i, ErrBadRequirement))
			}
		}
	}
	return errors.Join(errs...)
}

func (g *GroupDef) validate(owner string) []error {
	var errs []error
	if g.Location != "" {
		if _, err := geo.ParseXY(g.Location); err != nil {
			errs = append(errs, fmt.Errorf("%s group %q: %w", owner, g.Name, err))
		}
	}
	for i := range g.Groups {
		errs = append(errs, g.Groups[i].validate(owner)...)
	}
	return errs
}

func (r *RequirementDef) kinds() int {
	n := 0
	if r.Action != nil {
		n++
	}
	if r.Group != nil {
		n++
	}
	if r.Combatants != nil {
		n++
	}
	return n
}

// build creates the group tree. Groups without a region inherit their
// parent's. Locations were checked by Validate.
func (g *GroupDef) build(iff int, region string) *combat.Group {
	group := combat.NewGroup(combat.GroupTypeFromName(g.Type), g.ID, g.Name, iff)
	group.Region = g.Region
	if group.Region == "" {
		group.Region = region
	}
	group.PlanValue = g.PlanValue
	group.IntelLevel = combat.IntelFromName(g.Intel)
	if g.Location != "" {
		group.Location, _ = geo.ParseXY(g.Location)
	}
	for _, u := range g.Units {
		design := u.Design
		if design == "" {
			design = u.Name
		}
		group.AddUnit(&combat.Unit{
			Name:      u.Name,
			Design:    design,
			Count:     u.Count,
			DeadCount: u.Dead,
			UnitValue: u.Value,
		})
	}
	for i := range g.Groups {
		group.AddChild(g.Groups[i].build(iff, group.Region))
	}
	return group
}

func (a *ActionDef) build() *combat.Action {
	typ := combat.ActionTypeFromName(a.Type)
	action := combat.NewAction(a.ID, typ, subtype(typ, a.Subtype), a.Team)

	action.Source = max(combat.SourceFromName(a.Source), combat.SourceForcom)
	if a.Location != "" {
		action.Location, _ = geo.ParseXY(a.Location)
	}
	action.System = a.System
	action.Region = a.Region
	action.Text = a.Text
	action.File = a.File
	action.ImageFile = a.Image
	action.SceneFile = a.Scene

	if a.Probability != nil {
		action.Probability = min(max(*a.Probability, 0), 100)
	}
	action.Delay = max(a.Delay, 0)
	action.StartAfter = a.StartAfter
	if a.StartBefore != nil {
		action.StartBefore = *a.StartBefore
	} else {
		action.StartBefore = math.MaxInt64
	}
	action.MinRank = a.MinRank
	action.MaxRank = a.MaxRank

	action.AssetIFF, action.AssetType, action.AssetID = a.Asset.resolve()
	action.AssetKills = a.AssetKills
	action.TargetIFF, action.TargetType, action.TargetID = a.Target.resolve()
	action.TargetKills = a.TargetKills
	if a.Status != "" {
		action.Status = combat.ActionStatusFromName(a.Status)
	}

	for _, r := range a.Requires {
		action.AddRequirement(r.build())
	}
	return action
}

func (r *RequirementDef) build() combat.Requirement {
	comp := combat.CompFromName(r.Comp)
	switch {
	case r.Action != nil:
		return combat.ActionRequirement{
			ActionID: *r.Action,
			Status:   combat.ActionStatusFromName(r.Status),
			Negate:   r.Not,
		}
	case r.Group != nil:
		iff, t, id := r.Group.resolve()
		return combat.GroupRequirement{
			Combatant: iff,
			GroupType: t,
			GroupID:   id,
			Comp:      comp,
			Score:     r.Score,
			Intel:     combat.IntelFromName(r.Intel),
		}
	case len(r.Combatants) == 2:
		return combat.ScoreRequirement{
			CombatantA: r.Combatants[0],
			CombatantB: r.Combatants[1],
			Comp:       comp,
			Score:      r.Score,
		}
	}
	return nil
}

func subtype(t combat.ActionType, text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	if n, err := strconv.Atoi(text); err == nil {
		return n
	}
	switch t {
	case combat.ActionIntelEvent, combat.ActionCombatEvent:
		return int(combat.TypeFromName(text))
	case combat.ActionSetIntel:
		return int(combat.IntelFromName(text))
	case combat.ActionMissionTemplate:
		return int(combat.MissionTypeFromName(text))
	}
	return 0
}
