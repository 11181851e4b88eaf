package model

import (
	"database/sql"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Campaign{},
	&CampaignEvent{},
	&ActionChange{},
	&ForceSnapshot{},
	&GroupPosition{},
}

////////////////////////
// CAMPAIGN MODELS
////////////////////////

// Campaign is one simulation run. Every journal row hangs off it.
type Campaign struct {
	gorm.Model
	Name        string         `json:"name" gorm:"size:127"`
	Seed        int64          `json:"seed"`
	TickSeconds int64          `json:"tickSeconds"`
	StartedAt   time.Time      `json:"startedAt"`
	EndedAt     sql.NullTime   `json:"endedAt" gorm:"default:NULL"`
	Combatants  datatypes.JSON `json:"combatants"`
}

func (*Campaign) TableName() string {
	return "campaigns"
}

// CampaignEvent is a published combat event.
type CampaignEvent struct {
	ID           uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	CampaignID   uint      `json:"campaignId" gorm:"index:idx_campaignevent_campaign_id"`
	Campaign     Campaign  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:CampaignID;"`
	EventID      string    `json:"eventId" gorm:"size:36;index:idx_campaignevent_event_id"`
	CampaignTime int64     `json:"campaignTime" gorm:"index:idx_campaignevent_time"`
	Type         string    `json:"type" gorm:"size:32"`
	Source       string    `json:"source" gorm:"size:16"`
	Team         int       `json:"team"`
	Region       string    `json:"region" gorm:"size:64"`
	Title        string    `json:"title" gorm:"size:255"`
	Info         string    `json:"info"`
	Points       int       `json:"points"`
	RecordedAt   time.Time `json:"recordedAt"`
}

func (*CampaignEvent) TableName() string {
	return "campaign_events"
}

// ActionChange records a scripted action reaching a new status.
type ActionChange struct {
	ID           uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	CampaignID   uint      `json:"campaignId" gorm:"index:idx_actionchange_campaign_id"`
	Campaign     Campaign  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:CampaignID;"`
	ActionID     int       `json:"actionId" gorm:"index:idx_actionchange_action_id"`
	Type         string    `json:"type" gorm:"size:32"`
	Status       string    `json:"status" gorm:"size:16"`
	CampaignTime int64     `json:"campaignTime"`
	RecordedAt   time.Time `json:"recordedAt"`
}

func (*ActionChange) TableName() string {
	return "action_changes"
}

// ForceSnapshot is the standing of one combatant at a campaign time.
// Group detail is kept both as JSON and as GroupPosition rows.
type ForceSnapshot struct {
	ID           uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	CampaignID   uint           `json:"campaignId" gorm:"index:idx_forcesnapshot_campaign_id"`
	Campaign     Campaign       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:CampaignID;"`
	CampaignTime int64          `json:"campaignTime" gorm:"index:idx_forcesnapshot_time"`
	Combatant    string         `json:"combatant" gorm:"size:64"`
	IFF          int            `json:"iff"`
	Score        int            `json:"score"`
	Value        int            `json:"value"`
	LiveUnits    int            `json:"liveUnits"`
	Groups       datatypes.JSON `json:"groups"`
}

func (*ForceSnapshot) TableName() string {
	return "force_snapshots"
}

// GroupPosition is where a combat group stood at a campaign time.
type GroupPosition struct {
	ID           uint       `json:"id" gorm:"primarykey;autoIncrement;"`
	CampaignID   uint       `json:"campaignId" gorm:"index:idx_groupposition_campaign_id"`
	Campaign     Campaign   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:CampaignID;"`
	CampaignTime int64      `json:"campaignTime" gorm:"index:idx_groupposition_time"`
	IFF          int        `json:"iff"`
	GroupID      int        `json:"groupId"`
	Type         string     `json:"type" gorm:"size:32"`
	Name         string     `json:"name" gorm:"size:64"`
	Region       string     `json:"region" gorm:"size:64"`
	Location     geom.Point `json:"location"`
	PlanValue    int        `json:"planValue"`
	Intel        string     `json:"intel" gorm:"size:16"`
	Value        int        `json:"value"`
}

func (*GroupPosition) TableName() string {
	return "group_positions"
}
