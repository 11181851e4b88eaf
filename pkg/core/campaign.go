// Package core holds the backend-neutral records a running campaign
// journals: the campaign itself, its events, scripted action status
// changes and periodic force snapshots.
package core

import "time"

// Campaign describes one simulation run.
type Campaign struct {
	ID          uint
	Name        string
	Seed        int64
	TickSeconds int64
	StartedAt   time.Time
	Combatants  []string
}

// Event is a combat event as it was published to the campaign log.
type Event struct {
	EventID      string
	CampaignTime int64
	Type         string
	Source       string
	Team         int
	Region       string
	Title        string
	Info         string
	Points       int
	RecordedAt   time.Time
}

// ActionChange is a scripted action reaching a new status.
type ActionChange struct {
	ActionID     int
	Type         string
	Status       string
	CampaignTime int64
	RecordedAt   time.Time
}

// ForceSnapshot is the strength of one combatant at a point in campaign time.
type ForceSnapshot struct {
	CampaignTime int64
	Combatant    string
	IFF          int
	Score        int
	Value        int
	LiveUnits    int
	Groups       []GroupState
}

// GroupState is the position and standing of one combat group.
type GroupState struct {
	GroupID   int
	Type      string
	Name      string
	Region    string
	X         float64
	Y         float64
	PlanValue int
	Intel     string
	Value     int
}
