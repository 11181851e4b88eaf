package memory

import (
	"cmp"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/starshatter/campaign/pkg/core"
)

// CampaignExport is the root JSON structure
type CampaignExport struct {
	Name        string          `json:"name"`
	Seed        int64           `json:"seed"`
	TickSeconds int64           `json:"tickSeconds"`
	StartedAt   time.Time       `json:"startedAt"`
	EndTime     int64           `json:"endTime"`
	Events      []EventJSON     `json:"events"`
	Actions     []ActionJSON    `json:"actions"`
	Combatants  []CombatantJSON `json:"combatants"`
}

// EventJSON is one published event
type EventJSON struct {
	ID     string `json:"id"`
	Time   int64  `json:"time"`
	Type   string `json:"type"`
	Source string `json:"source"`
	Team   int    `json:"team"`
	Region string `json:"region,omitempty"`
	Title  string `json:"title"`
	Info   string `json:"info,omitempty"`
	Points int    `json:"points"`
}

// ActionJSON is one action status change
type ActionJSON struct {
	ID     int    `json:"id"`
	Time   int64  `json:"time"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// CombatantJSON is a combatant with its strength over time. Each entry of
// Strength is [time, score, value, liveUnits].
type CombatantJSON struct {
	Name     string            `json:"name"`
	IFF      int               `json:"iff"`
	Strength [][]int64         `json:"strength"`
	Groups   []core.GroupState `json:"groups"`
}

// exportJSON writes the journal to OutputDir, gzipped when configured.
func (b *Backend) exportJSON() error {
	export := b.buildExport()

	name := strings.ReplaceAll(b.campaign.Name, " ", "_")
	name = strings.ReplaceAll(name, ":", "_")
	if name == "" {
		name = "campaign"
	}
	timestamp := b.campaign.StartedAt.Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.json.gz", name, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.json", name, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	if b.cfg.CompressOutput {
		err = writeGzipJSON(outputPath, export)
	} else {
		err = writeJSON(outputPath, export)
	}
	if err != nil {
		return err
	}

	b.exportPath = outputPath
	return nil
}

func (b *Backend) buildExport() CampaignExport {
	export := CampaignExport{
		Name:        b.campaign.Name,
		Seed:        b.campaign.Seed,
		TickSeconds: b.campaign.TickSeconds,
		StartedAt:   b.campaign.StartedAt,
		Events:      make([]EventJSON, 0, len(b.events)),
		Actions:     make([]ActionJSON, 0, len(b.actions)),
		Combatants:  make([]CombatantJSON, 0, len(b.combatants)),
	}

	for _, e := range b.events {
		export.Events = append(export.Events, EventJSON{
			ID:     e.EventID,
			Time:   e.CampaignTime,
			Type:   e.Type,
			Source: e.Source,
			Team:   e.Team,
			Region: e.Region,
			Title:  e.Title,
			Info:   e.Info,
			Points: e.Points,
		})
		export.EndTime = max(export.EndTime, e.CampaignTime)
	}

	for _, a := range b.actions {
		export.Actions = append(export.Actions, ActionJSON{
			ID:     a.ActionID,
			Time:   a.CampaignTime,
			Type:   a.Type,
			Status: a.Status,
		})
		export.EndTime = max(export.EndTime, a.CampaignTime)
	}

	for _, record := range b.combatants {
		c := CombatantJSON{
			Name:     record.Name,
			IFF:      record.IFF,
			Strength: make([][]int64, 0, len(record.Snapshots)),
		}
		for _, s := range record.Snapshots {
			c.Strength = append(c.Strength, []int64{s.CampaignTime, int64(s.Score), int64(s.Value), int64(s.LiveUnits)})
			export.EndTime = max(export.EndTime, s.CampaignTime)
		}
		// group positions are only exported as of the last snapshot
		if n := len(record.Snapshots); n > 0 {
			c.Groups = record.Snapshots[n-1].Groups
		}
		export.Combatants = append(export.Combatants, c)
	}
	slices.SortFunc(export.Combatants, func(a, b CombatantJSON) int {
		return cmp.Compare(a.IFF, b.IFF)
	})

	return export
}

func writeJSON(path string, data CampaignExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func writeGzipJSON(path string, data CampaignExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}
