package planner

import (
	"context"
	"testing"
	"testing/fstest"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starshatter/campaign/internal/combat"
)

func eventOptions() Options {
	opts := plainOptions()
	opts.EventInterval = 300
	opts.EventLockout = 1800
	return opts
}

func intelAction(id int, text string) *combat.Action {
	a := combat.NewAction(id, combat.ActionIntelEvent, int(combat.EventStory), 1)
	a.Source = combat.SourceIntel
	a.Region = "Kalon"
	a.Text = text
	return a
}

func TestEvent_ScriptedIntelEvent(t *testing.T) {
	th := newTheater()
	th.campaign.now = 3600
	th.campaign.actions = []*combat.Action{intelAction(1, "Contact reported at $TIME")}

	p := NewEvent(th.campaign, eventOptions())
	p.ExecFrame(context.Background())

	require.Len(t, th.campaign.events, 1)
	ev := th.campaign.events[0]
	assert.Equal(t, combat.EventStory, ev.Type())
	assert.Equal(t, combat.SourceIntel, ev.Source())
	assert.Equal(t, "Contact reported at 01/01:00:00", ev.Info())
	assert.Equal(t, int64(3600), ev.Time())

	a := th.campaign.actions[0]
	assert.Equal(t, combat.StatusComplete, a.Status)
	assert.Equal(t, int64(3600), a.Time)
}

func TestEvent_ScriptedEventReadsFile(t *testing.T) {
	th := newTheater()
	th.campaign.content = fstest.MapFS{
		"Campaigns/01/brief.txt": {Data: []byte("Report to $GROUP")},
	}
	th.campaign.playerGroup = th.raptors
	a := intelAction(1, "Orders")
	a.File = `Campaigns\01\brief.txt`
	th.campaign.actions = []*combat.Action{a}

	NewEvent(th.campaign, eventOptions()).ExecFrame(context.Background())

	require.Len(t, th.campaign.events, 1)
	assert.Equal(t, "Orders", th.campaign.events[0].Title())
	assert.Equal(t, "Report to Raptors Fighter Squadron", th.campaign.events[0].Info())
}

func TestEvent_ScriptedSuppressesStatistical(t *testing.T) {
	th := newTheater()
	th.plan(plainOptions())
	th.campaign.actions = []*combat.Action{intelAction(1, "News")}

	NewEvent(th.campaign, eventOptions()).ExecFrame(context.Background())

	assert.Len(t, th.campaign.events, 1)
	assert.Zero(t, th.alliance.LockedUntil)
	assert.Zero(t, th.marakan.LockedUntil)
}

func TestEvent_StatisticalWhenNothingScripted(t *testing.T) {
	th := newTheater()
	th.plan(plainOptions())

	NewEvent(th.campaign, eventOptions()).ExecFrame(context.Background())

	assert.Len(t, th.campaign.events, 2, "one per combatant")
	assert.Equal(t, int64(1800), th.alliance.LockedUntil)
	assert.Equal(t, int64(1800), th.marakan.LockedUntil)
}

func TestEvent_ProbabilityFailureIsSticky(t *testing.T) {
	th := newTheater()
	a := intelAction(1, "never")
	a.Probability = 0
	th.campaign.actions = []*combat.Action{a}

	p := NewEvent(th.campaign, eventOptions())
	p.ExecScriptedEvents(context.Background())

	assert.Equal(t, combat.StatusFailed, a.Status)
	assert.Empty(t, th.campaign.events)
}

func TestEvent_RankGate(t *testing.T) {
	th := newTheater()
	a := intelAction(1, "for captains")
	a.MinRank = 5
	th.campaign.actions = []*combat.Action{a}

	p := NewEvent(th.campaign, eventOptions())
	assert.Zero(t, p.ExecScriptedEvents(context.Background()))
	assert.Equal(t, combat.StatusIncomplete, a.Status)

	th.campaign.player.Rank = 5
	assert.Equal(t, 1, p.ExecScriptedEvents(context.Background()))
}

func TestEvent_Delay(t *testing.T) {
	th := newTheater()
	a := intelAction(1, "later")
	a.Delay = 600
	th.campaign.actions = []*combat.Action{a}
	p := NewEvent(th.campaign, eventOptions())

	assert.Zero(t, p.ExecScriptedEvents(context.Background()))
	assert.Equal(t, combat.StatusActive, a.Status)

	th.campaign.now = 599
	assert.Zero(t, p.ExecScriptedEvents(context.Background()))

	th.campaign.now = 600
	assert.Equal(t, 1, p.ExecScriptedEvents(context.Background()))
	assert.Equal(t, combat.StatusComplete, a.Status)
}

func TestEvent_RequirementChain(t *testing.T) {
	th := newTheater()
	first := intelAction(1, "first")
	second := intelAction(2, "second")
	second.AddRequirement(combat.ActionRequirement{ActionID: 1, Status: combat.StatusComplete})
	th.campaign.actions = []*combat.Action{second, first}

	p := NewEvent(th.campaign, eventOptions())
	assert.Equal(t, 1, p.ExecScriptedEvents(context.Background()))
	assert.Equal(t, combat.StatusIncomplete, second.Status)

	assert.Equal(t, 1, p.ExecScriptedEvents(context.Background()))
	assert.Equal(t, combat.StatusComplete, second.Status)
}

func TestEvent_MoveGroup(t *testing.T) {
	th := newTheater()
	a := combat.NewAction(1, combat.ActionMoveGroup, 0, 1)
	a.AssetIFF, a.AssetType, a.AssetID = 1, combat.GroupDestroyerSquadron, 12
	a.Location = geom.XY{X: 5e5, Y: 2e5}
	a.Region = "Ostara"
	th.campaign.actions = []*combat.Action{a}

	NewEvent(th.campaign, eventOptions()).ExecScriptedEvents(context.Background())

	assert.Equal(t, combat.StatusComplete, a.Status)
	assert.Equal(t, geom.XY{X: 5e5, Y: 2e5}, th.desron.Location)
	assert.Equal(t, "Ostara", th.desron.Region)
}

func TestEvent_MissingGroupFails(t *testing.T) {
	th := newTheater()
	a := combat.NewAction(1, combat.ActionSetIntel, int(combat.IntelTracked), 1)
	a.AssetIFF, a.AssetType, a.AssetID = 2, combat.GroupCarrierGroup, 99
	th.campaign.actions = []*combat.Action{a}

	NewEvent(th.campaign, eventOptions()).ExecScriptedEvents(context.Background())
	assert.Equal(t, combat.StatusFailed, a.Status)
}

func TestEvent_SetIntel(t *testing.T) {
	th := newTheater()
	a := combat.NewAction(1, combat.ActionSetIntel, int(combat.IntelTracked), 1)
	a.AssetIFF, a.AssetType, a.AssetID = 2, combat.GroupStarbase, 30
	th.campaign.actions = []*combat.Action{a}

	NewEvent(th.campaign, eventOptions()).ExecScriptedEvents(context.Background())
	assert.Equal(t, combat.IntelTracked, th.starbase.IntelLevel)
}

func TestEvent_MissionTemplate(t *testing.T) {
	th := newTheater()
	th.campaign.now = 1000
	th.campaign.playerGroup = th.raptors
	a := combat.NewAction(7, combat.ActionMissionTemplate, int(combat.MissionStrike), 1)
	a.File = "Missions/strike.yaml"
	a.Region = "Kalon"
	a.TargetIFF, a.TargetType, a.TargetID = 2, combat.GroupFactory, 31
	th.campaign.actions = []*combat.Action{a}

	NewEvent(th.campaign, eventOptions()).ExecScriptedEvents(context.Background())

	require.Len(t, th.campaign.requests, 1)
	req := th.campaign.requests[0]
	assert.Equal(t, ArchetypeTemplate, req.Archetype)
	assert.Equal(t, combat.MissionStrike, req.Type)
	assert.Same(t, th.works, req.Objective)
	assert.Same(t, th.raptors, req.Primary)
	assert.Same(t, th.alliance, req.Combatant)
	assert.Equal(t, "Missions/strike.yaml", req.Script)
	assert.Equal(t, 7, req.ActionID)
	assert.Equal(t, int64(1000), req.StartTime)
}

func TestEvent_UnknownActionFails(t *testing.T) {
	th := newTheater()
	a := combat.NewAction(1, combat.ActionUnknown, 0, 1)
	th.campaign.actions = []*combat.Action{a}

	NewEvent(th.campaign, eventOptions()).ExecScriptedEvents(context.Background())
	assert.Equal(t, combat.StatusFailed, a.Status)
}

func TestEvent_CombatEventProsecutesKills(t *testing.T) {
	th := newTheater()
	a := combat.NewAction(1, combat.ActionCombatEvent, int(combat.EventAttack), 1)
	a.Text = "Battle of Kalon"
	a.AssetIFF, a.AssetType, a.AssetID = 1, combat.GroupDestroyerSquadron, 12
	a.AssetKills = []string{"Destroyer"}
	a.TargetIFF, a.TargetType, a.TargetID = 2, combat.GroupBattleGroup, 11
	a.TargetKills = []string{"battleship"}
	th.campaign.actions = []*combat.Action{a}

	NewEvent(th.campaign, eventOptions()).ExecScriptedEvents(context.Background())

	require.Len(t, th.campaign.events, 1)
	assert.Equal(t, combat.EventAttack, th.campaign.events[0].Type())
	assert.Equal(t, 1, th.desron.Units[0].DeadCount)
	assert.Equal(t, 0, th.hegemony.LiveCount())
	assert.Equal(t, 150, th.alliance.Score)
	assert.Equal(t, 40, th.marakan.Score)
}

func TestEvent_ProsecuteKillsWithoutGroupUsesForce(t *testing.T) {
	th := newTheater()
	a := combat.NewAction(1, combat.ActionCombatEvent, 0, 1)
	a.TargetIFF = 2
	a.TargetKills = []string{"Factory", "No Such Unit"}
	a.AssetIFF = 1

	NewEvent(th.campaign, eventOptions()).ProsecuteKills(a)

	assert.Equal(t, 0, th.works.LiveCount())
	assert.Equal(t, 120, th.alliance.Score)
}

func TestEvent_IntervalThrottle(t *testing.T) {
	th := newTheater()
	p := NewEvent(th.campaign, eventOptions())
	p.ExecFrame(context.Background())

	th.campaign.now = 100
	th.campaign.actions = []*combat.Action{intelAction(1, "late")}
	p.ExecFrame(context.Background())
	assert.Empty(t, th.campaign.events)

	th.campaign.now = 300
	p.ExecFrame(context.Background())
	assert.Len(t, th.campaign.events, 1)
}

func TestEvent_SetLockout(t *testing.T) {
	th := newTheater()
	th.campaign.now = 500
	th.campaign.actions = []*combat.Action{intelAction(1, "held")}

	p := NewEvent(th.campaign, eventOptions())
	p.SetLockout(1000)
	assert.Equal(t, int64(1500), p.LockedUntil())

	p.ExecFrame(context.Background())
	assert.Empty(t, th.campaign.events)

	th.campaign.now = 1500
	p.ExecFrame(context.Background())
	assert.Len(t, th.campaign.events, 1)
}

func TestEvent_CombatantLockout(t *testing.T) {
	th := newTheater()
	th.plan(plainOptions())
	p := NewEvent(th.campaign, eventOptions())

	assert.Equal(t, 2, p.ExecStatisticalEvents(context.Background()))
	assert.Zero(t, p.ExecStatisticalEvents(context.Background()))

	th.campaign.now = 1800
	assert.Equal(t, 2, p.ExecStatisticalEvents(context.Background()))
}

func TestEvent_ChooseAssignment(t *testing.T) {
	th := newTheater()
	th.plan(plainOptions())
	p := NewEvent(th.campaign, eventOptions())

	low := combat.NewAssignment(combat.MissionStrike, th.works, th.desron)
	high := combat.NewAssignment(combat.MissionStrike, th.starbase, th.desron)
	idle := combat.NewAssignment(combat.MissionStrike, th.starbase, nil)
	g := group(combat.GroupDestroyerSquadron, 50, "Spare", 1, "Kalon")
	g.AddAssignment(low)
	g.AddAssignment(idle)
	g.AddAssignment(high)

	assert.Same(t, high, p.ChooseAssignment(g))
	assert.Nil(t, p.ChooseAssignment(nil))
	assert.Nil(t, p.ChooseAssignment(th.station))
}

func TestEvent_CreateEventDispatch(t *testing.T) {
	tests := []struct {
		name     string
		build    func(th *theater) *combat.Assignment
		wantType combat.EventType
		wantSrc  combat.EventSource
	}{
		{
			name: "defend",
			build: func(th *theater) *combat.Assignment {
				return combat.NewAssignment(combat.MissionDefend, th.station, th.raptors)
			},
			wantType: combat.EventDefend,
			wantSrc:  combat.SourceForcom,
		},
		{
			name: "starship",
			build: func(th *theater) *combat.Assignment {
				return combat.NewAssignment(combat.MissionAssault, th.hegemony, th.taskForce)
			},
			wantType: combat.EventAttack,
			wantSrc:  combat.SourceForcom,
		},
		{
			name: "fighter assault",
			build: func(th *theater) *combat.Assignment {
				return combat.NewAssignment(combat.MissionAssault, th.hegemony, th.raptors)
			},
			wantType: combat.EventAttack,
			wantSrc:  combat.SourceTacnet,
		},
		{
			name: "fighter strike",
			build: func(th *theater) *combat.Assignment {
				return combat.NewAssignment(combat.MissionStrike, th.works, th.raptors)
			},
			wantType: combat.EventAttack,
			wantSrc:  combat.SourceTacnet,
		},
		{
			name: "fighter sweep",
			build: func(th *theater) *combat.Assignment {
				return combat.NewAssignment(combat.MissionSweep, nil, th.raptors)
			},
			wantType: combat.EventAttack,
			wantSrc:  combat.SourceTacnet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := newTheater()
			p := NewEvent(th.campaign, eventOptions())

			require.True(t, p.CreateEvent(context.Background(), tt.build(th)))
			require.Len(t, th.campaign.events, 1)
			ev := th.campaign.events[0]
			assert.Equal(t, tt.wantType, ev.Type())
			assert.Equal(t, tt.wantSrc, ev.Source())
			assert.Equal(t, 1, ev.Team())
			assert.NotEmpty(t, ev.Info())
		})
	}
}

func TestEvent_CreateEventRejectsInactive(t *testing.T) {
	th := newTheater()
	p := NewEvent(th.campaign, eventOptions())

	assert.False(t, p.CreateEvent(context.Background(), nil))
	assert.False(t, p.CreateEvent(context.Background(), combat.NewAssignment(combat.MissionStrike, th.works, nil)))
	assert.False(t, p.CreateEvent(context.Background(),
		combat.NewAssignment(combat.MissionStrike, th.works, th.station)), "installations do not sortie")
	assert.Empty(t, th.campaign.events)
}

func TestEvent_SweepWithoutObjectiveCostsNothing(t *testing.T) {
	th := newTheater()
	p := NewEvent(th.campaign, eventOptions())

	p.CreateEvent(context.Background(), combat.NewAssignment(combat.MissionSweep, nil, th.raptors))
	assert.Equal(t, 40, th.raptors.Value())
	assert.Zero(t, th.campaign.events[0].Points)
}

func TestSuccess(t *testing.T) {
	th := newTheater()
	p := NewEvent(th.campaign, eventOptions())

	assert.False(t, p.Success(nil))
	assert.False(t, p.Success(combat.NewAssignment(combat.MissionStrike, th.works, nil)))
	assert.False(t, p.Success(combat.NewAssignment(combat.MissionStrike, nil, nil)))
	assert.True(t, p.Success(combat.NewAssignment(combat.MissionPatrol, nil, th.desron)))
}

func TestSuccessChance(t *testing.T) {
	th := newTheater()
	big := group(combat.GroupBattleGroup, 60, "Armada", 1, "", unit("Dreadnought", 10, 1000))
	tiny := group(combat.GroupBattery, 61, "Outpost", 2, "", unit("Gun", 1, 1))
	empty := group(combat.GroupBattery, 62, "Ruin", 2, "")

	assert.Equal(t, MaxSuccess, SuccessChance(combat.NewAssignment(combat.MissionStrike, tiny, big)))
	assert.Equal(t, MinSuccess, SuccessChance(combat.NewAssignment(combat.MissionStrike, big, tiny)))
	assert.InDelta(t, 120.0/(120+120), SuccessChance(combat.NewAssignment(combat.MissionStrike, th.works, group(combat.GroupAttackSquadron, 63, "Eq", 1, "", unit("Bomber", 4, 30)))), 1e-9)

	zero := group(combat.GroupBattery, 64, "Husk", 1, "")
	assert.Equal(t, 0.5, SuccessChance(combat.NewAssignment(combat.MissionStrike, empty, zero)))
}

func TestSuccess_FollowsChance(t *testing.T) {
	th := newTheater()
	p := NewEvent(th.campaign, eventOptions())
	big := group(combat.GroupBattleGroup, 60, "Armada", 1, "", unit("Dreadnought", 10, 1000))
	tiny := group(combat.GroupBattery, 61, "Outpost", 2, "", unit("Gun", 1, 1))
	a := combat.NewAssignment(combat.MissionStrike, tiny, big)

	wins := 0
	for i := 0; i < 1000; i++ {
		if p.Success(a) {
			wins++
		}
	}
	assert.InDelta(t, 900, wins, 50)
}

func TestEvent_NilCampaign(t *testing.T) {
	p := NewEvent(nil, eventOptions())
	assert.NotPanics(t, func() {
		p.ExecFrame(context.Background())
		p.SetLockout(10)
		p.ProsecuteKills(combat.NewAction(1, combat.ActionCombatEvent, 0, 1))
	})
}
