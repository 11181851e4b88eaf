package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/starshatter/campaign/internal/campaign"
	"github.com/starshatter/campaign/internal/config"
	"github.com/starshatter/campaign/internal/influx"
	"github.com/starshatter/campaign/internal/logging"
	"github.com/starshatter/campaign/internal/monitor"
	intOtel "github.com/starshatter/campaign/internal/otel"
	"github.com/starshatter/campaign/internal/planner"
	"github.com/starshatter/campaign/internal/roster"
	"github.com/starshatter/campaign/internal/storage"
)

var (
	ticks       int
	tickSeconds int64
	seed        int64
)

var runCmd = &cobra.Command{
	Use:   "run <definition.yaml>",
	Short: "Run a campaign for a number of ticks",
	Args:  cobra.ExactArgs(1),
	RunE:  runCampaign,
}

func init() {
	runCmd.Flags().IntVarP(&ticks, "ticks", "n", 288, "number of ticks to run")
	runCmd.Flags().Int64Var(&tickSeconds, "tick", 0, "seconds per tick, overrides the definition and config")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed, overrides the definition and config")
}

// plannerOptions maps the planner config onto planner.Options.
func plannerOptions(cfg config.PlannerConfig) planner.Options {
	opts := planner.DefaultOptions()
	if cfg.Formula != "" {
		opts.Formula = cfg.Formula
	}
	opts.Weights = cfg.Weights
	opts.EventInterval = cfg.EventInterval
	opts.EventLockout = cfg.EventLockout
	opts.MissionLead = cfg.MissionLead
	opts.MissionWindow = cfg.MissionWindow
	opts.MissionMaxPending = cfg.MissionMaxPending
	opts.MovementDrift = cfg.MovementDrift
	opts.Seed = uint64(cfg.Seed)
	return opts
}

func runCampaign(cmd *cobra.Command, args []string) (err error) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	def, err := loadDefinition(args[0])
	if err != nil {
		return err
	}

	plannerCfg := config.GetPlannerConfig()
	if tickSeconds > 0 {
		def.TickSeconds = tickSeconds
	} else if def.TickSeconds <= 0 {
		def.TickSeconds = plannerCfg.TickSeconds
	}
	if seed != 0 {
		plannerCfg.Seed = seed
	}
	opts := plannerOptions(plannerCfg)
	opts.Logger = SlogManager.Component("planner")

	// metrics
	otelCfg := config.GetOTelConfig()
	provider, err := intOtel.New(intOtel.Config{
		Enabled:        otelCfg.Enabled,
		ServiceName:    otelCfg.ServiceName,
		ExportInterval: otelCfg.ExportInterval,
	})
	if err != nil {
		return fmt.Errorf("init otel: %w", err)
	}
	defer func() {
		if shutdownErr := provider.Shutdown(context.Background()); shutdownErr != nil {
			Logger.Warn("OTel shutdown failed", "error", shutdownErr)
		}
	}()

	// journal
	backend, err := storage.NewBackend(config.GetStorageConfig(), SlogManager)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer func() {
		err = errors.Join(err, backend.Close())
	}()

	// telemetry
	deps := campaign.Dependencies{
		Storage:    backend,
		Content:    os.DirFS(contentDir(args[0])),
		LogManager: SlogManager,
	}
	influxManager := influx.NewManager(
		logging.NewZerolog(os.Stderr, "influx", viper.GetString("logLevel")),
		config.GetInfluxConfig(),
	)
	switch err := influxManager.Connect(ctx); {
	case err == nil:
		deps.Telemetry = influxManager
		defer influxManager.Close()
	case errors.Is(err, influx.ErrDisabled):
	default:
		Logger.Warn("Telemetry unavailable", "error", err)
		_ = influxManager.Close()
	}

	r := roster.New()
	if err := r.Init(); err != nil {
		return err
	}
	defer r.Close()
	deps.Roster = r

	c, err := campaign.New(def, opts, deps)
	if err != nil {
		return err
	}
	now := c.Time
	campaignClock.Store(&now)
	defer campaignClock.Store(nil)

	if err := c.Start(ctx); err != nil {
		return err
	}

	monDeps := monitor.Dependencies{
		Campaign:   c,
		LogManager: SlogManager,
		Interval:   viper.GetDuration("monitor.interval"),
	}
	if q, ok := backend.(monitor.QueueReporter); ok {
		monDeps.Queues = q
	}
	mon := monitor.NewService(monDeps)
	if err := mon.Start(ctx); err != nil {
		return errors.Join(err, c.Close())
	}
	defer mon.Stop()

	runErr := c.Run(ctx, ticks)
	closeErr := c.Close()

	if exp, ok := backend.(storage.Exportable); ok && exp.GetExportedFilePath() != "" {
		Logger.Info("Journal exported", "path", exp.GetExportedFilePath())
	}
	st := mon.Report()
	Logger.Info("Campaign finished",
		"time", st.CampaignTime,
		"events", st.Events,
		"missionRequests", st.MissionRequests)

	if errors.Is(runErr, context.Canceled) {
		Logger.Warn("Campaign interrupted", "time", c.Time())
		runErr = nil
	}
	return errors.Join(runErr, closeErr)
}

func loadDefinition(path string) (*campaign.Definition, error) {
	return campaign.LoadFile(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// contentDir is campaign.contentDir when set, otherwise the directory of
// the definition.
func contentDir(definition string) string {
	if dir := viper.GetString("campaign.contentDir"); dir != "" && dir != "." {
		return dir
	}
	return filepath.Dir(definition)
}
