package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starshatter/campaign/internal/config"
	"github.com/starshatter/campaign/internal/planner"
)

var highland = filepath.Join("..", "..", "internal", "campaign", "testdata", "highland.yaml")

// execute runs the root command with a config directory holding cfg.
func execute(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	if cfg != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(cfg), 0o644))
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", dir))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "", "validate", highland)
	require.NoError(t, err)

	assert.Contains(t, out, "Operation Highland: 2 combatants, 2 zones, 6 actions")
	assert.Contains(t, out, "[2] Marakan Hegemony value=570")
	assert.Contains(t, out, "POINT(40000 10000)")
	assert.Contains(t, out, "player group: ")
}

func TestValidate_MissingFile(t *testing.T) {
	_, err := execute(t, "", "validate", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate_BadFormula(t *testing.T) {
	_, err := execute(t, `{"strategy": {"formula": "value *"}}`, "validate", highland)
	assert.ErrorContains(t, err, "formula")
}

func TestRun_ExportsJournal(t *testing.T) {
	journal := t.TempDir()
	cfg := `{
		"logLevel": "warn",
		"event": {"interval": 0, "lockout": 0},
		"storage": {"type": "memory", "memory": {"outputDir": "` + filepath.ToSlash(journal) + `", "compressOutput": false}}
	}`

	_, err := execute(t, cfg, "run", highland, "--ticks", "4", "--seed", "11")
	require.NoError(t, err)

	files, err := filepath.Glob(filepath.Join(journal, "*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Raid on Kalon Works")
}

func TestPlannerOptions(t *testing.T) {
	opts := plannerOptions(config.PlannerConfig{
		Seed:              5,
		Weights:           map[string]float64{"starbase": 2},
		EventInterval:     60,
		MissionMaxPending: 1,
		MovementDrift:     10,
	})

	assert.Equal(t, planner.DefaultFormula, opts.Formula)
	assert.EqualValues(t, 5, opts.Seed)
	assert.Equal(t, 2.0, opts.Weights["starbase"])
	assert.EqualValues(t, 60, opts.EventInterval)
	assert.Equal(t, 1, opts.MissionMaxPending)
	assert.Equal(t, 10.0, opts.MovementDrift)
}

func TestContentDir(t *testing.T) {
	t.Cleanup(viper.Reset)
	assert.Equal(t, filepath.Join("defs", "highland"), contentDir(filepath.Join("defs", "highland", "campaign.yaml")))

	viper.Set("campaign.contentDir", "/srv/content")
	assert.Equal(t, "/srv/content", contentDir("campaign.yaml"))
}
