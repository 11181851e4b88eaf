// Command campaign_sim runs dynamic campaigns from a YAML definition and
// journals the results.
package main

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/starshatter/campaign/internal/config"
	"github.com/starshatter/campaign/internal/logging"
)

const AppName = "campaign_sim"

var (
	// flags
	configDir string
	logToFile bool

	SessionStartTime = time.Now()

	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager
	Logger      *slog.Logger

	// campaignClock feeds the log context once a campaign is running.
	campaignClock atomic.Pointer[func() int64]

	logFile io.Closer
)

var rootCmd = &cobra.Command{
	Use:   AppName,
	Short: "Dynamic campaign simulator",
	Long: `campaign_sim drives a campaign definition through the planner
pipeline (strategic, assignment, mission, movement and event) and writes
the event journal to the configured storage backend.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logFile != nil {
			return logFile.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "directory holding "+config.ConfigFileName)
	rootCmd.PersistentFlags().BoolVar(&logToFile, "log-file", false, "write logs to a file in logsDir")

	rootCmd.AddCommand(runCmd, validateCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration and initializes logging. A missing config
// file is not fatal; the defaults apply.
func setup() error {
	SlogManager = logging.NewSlogManager()

	cfgErr := config.Load(configDir)

	var out io.Writer
	if logToFile {
		f, err := logging.OpenLogFile(viper.GetString("logsDir"), AppName, SessionStartTime)
		if err != nil {
			return err
		}
		out, logFile = f, f
	}

	SlogManager.Setup(out, viper.GetString("logLevel"), logging.CampaignClock(func() int64 {
		if now := campaignClock.Load(); now != nil {
			return (*now)()
		}
		return 0
	}))
	Logger = SlogManager.Logger()

	if cfgErr != nil {
		Logger.Warn("Using default configuration", "error", cfgErr, "dir", configDir)
	}
	return nil
}
