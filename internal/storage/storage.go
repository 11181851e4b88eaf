// Package storage defines the campaign journal: the sink every published
// event, scripted action status change and force snapshot is recorded to.
package storage

import "github.com/starshatter/campaign/pkg/core"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Campaign management (StartCampaign assigns c.ID)
	StartCampaign(c *core.Campaign) error
	EndCampaign() error

	// Journal recording
	RecordEvent(e *core.Event) error
	RecordAction(a *core.ActionChange) error
	RecordForce(s *core.ForceSnapshot) error
}

// Exportable is an optional interface for backends that write the journal
// out as a file when the campaign ends.
type Exportable interface {
	GetExportedFilePath() string
}
