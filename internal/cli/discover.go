package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/seba2390/SymMediaStreamer/internal/discovery"
)

func newDiscoverCmd(app *App) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List DLNA renderers on the local network",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := discovery.Options{
				Timeout: app.Cfg.DiscoverTimeout,
				MX:      app.Cfg.DiscoverMX,
			}
			if cmd.Flags().Changed("timeout") {
				opts.Timeout = timeout
			}

			svc := discovery.NewService(app.Log)
			renderers, err := svc.ListRenderers(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if len(renderers) == 0 {
				fmt.Println("no renderers found")
				return nil
			}
			for i, r := range renderers {
				fmt.Printf("%d. %s\n", i+1, r.Name())
				fmt.Printf("   avtransport:      %s\n", r.Description.AVTransportControlURL)
				if rc := r.Description.RenderingControlControlURL; rc != "" {
					fmt.Printf("   renderingcontrol: %s\n", rc)
				}
				if r.Device.Server != "" {
					fmt.Printf("   server:           %s\n", r.Device.Server)
				}
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-target listen window (overrides config)")
	return cmd
}
