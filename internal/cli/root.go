// Package cli wires the symstream commands together.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/seba2390/SymMediaStreamer/internal/config"
	"github.com/seba2390/SymMediaStreamer/internal/logger"
)

// App carries the state shared by every command: configuration resolved
// from file, environment and flags, plus the logger built from it.
type App struct {
	Cfg *config.Config
	Log logger.Logger

	configPath string
	logLevel   string
	pretty     bool
}

// Execute builds the command tree and runs it. The returned error is
// already logged; callers only translate it into an exit code.
func Execute(ctx context.Context, version string) error {
	app := &App{}

	root := &cobra.Command{
		Use:           "symstream",
		Short:         "Stream local media files to DLNA/UPnP renderers",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(app.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = app.logLevel
			}
			if cmd.Flags().Changed("pretty") {
				cfg.PrettyLog = app.pretty
			}
			app.Cfg = cfg
			app.Log = logger.New(cfg.LogLevel, cfg.PrettyLog)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Log != nil {
				app.Log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&app.configPath, "config", "", "config file (default ~/.config/symstream/config.yaml)")
	pf.StringVar(&app.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.BoolVar(&app.pretty, "pretty", true, "human-readable log output")

	root.AddCommand(
		newDiscoverCmd(app),
		newPlayCmd(app),
		newVolumeCmd(app),
		newMuteCmd(app),
		newProbeCmd(app),
		newDoctorCmd(app),
	)

	return root.ExecuteContext(ctx)
}
