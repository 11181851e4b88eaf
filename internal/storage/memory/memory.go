// Package memory keeps the campaign journal in memory and exports it as
// JSON when the campaign ends.
package memory

import (
	"errors"
	"slices"
	"sync"

	"github.com/starshatter/campaign/internal/config"
	"github.com/starshatter/campaign/pkg/core"
)

// ErrNoCampaign is returned when recording before StartCampaign.
var ErrNoCampaign = errors.New("no campaign started")

// CombatantRecord groups the snapshots of one combatant in time order.
type CombatantRecord struct {
	Name      string
	IFF       int
	Snapshots []core.ForceSnapshot
}

// Backend stores the journal in memory and exports to JSON
type Backend struct {
	cfg      config.MemoryConfig
	campaign *core.Campaign

	events     []core.Event
	actions    []core.ActionChange
	combatants map[int]*CombatantRecord // keyed by IFF

	exportPath string
	idCounter  uint
	mu         sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:        cfg,
		combatants: make(map[int]*CombatantRecord),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartCampaign begins a new journal, dropping anything recorded before.
func (b *Backend) StartCampaign(c *core.Campaign) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	c.ID = b.idCounter
	b.campaign = c

	b.events = nil
	b.actions = nil
	b.combatants = make(map[int]*CombatantRecord)
	b.exportPath = ""

	return nil
}

// EndCampaign exports the journal. Without an output directory nothing is
// written.
func (b *Backend) EndCampaign() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.campaign == nil {
		return ErrNoCampaign
	}
	if b.cfg.OutputDir == "" {
		return nil
	}
	return b.exportJSON()
}

// RecordEvent appends a published event.
func (b *Backend) RecordEvent(e *core.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.campaign == nil {
		return ErrNoCampaign
	}
	b.events = append(b.events, *e)
	return nil
}

// RecordAction appends an action status change.
func (b *Backend) RecordAction(a *core.ActionChange) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.campaign == nil {
		return ErrNoCampaign
	}
	b.actions = append(b.actions, *a)
	return nil
}

// RecordForce appends a force snapshot to its combatant's record.
func (b *Backend) RecordForce(s *core.ForceSnapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.campaign == nil {
		return ErrNoCampaign
	}
	record, ok := b.combatants[s.IFF]
	if !ok {
		record = &CombatantRecord{Name: s.Combatant, IFF: s.IFF}
		b.combatants[s.IFF] = record
	}
	snap := *s
	snap.Groups = slices.Clone(s.Groups)
	record.Snapshots = append(record.Snapshots, snap)
	return nil
}

// Events returns a copy of the recorded events.
func (b *Backend) Events() []core.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.events)
}

// Actions returns a copy of the recorded action changes.
func (b *Backend) Actions() []core.ActionChange {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.actions)
}

// Snapshots returns the snapshots of the combatant with the given IFF.
func (b *Backend) Snapshots(iff int) []core.ForceSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if record, ok := b.combatants[iff]; ok {
		return slices.Clone(record.Snapshots)
	}
	return nil
}

// GetExportedFilePath returns the path of the last export, or "".
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.exportPath
}
