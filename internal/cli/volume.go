package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seba2390/SymMediaStreamer/internal/soapcalls"
)

func newVolumeCmd(app *App) *cobra.Command {
	var renderer string

	cmd := &cobra.Command{
		Use:   "volume [0-100]",
		Short: "Get or set a renderer's volume",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := selectRenderer(cmd.Context(), app, renderer)
			if err != nil {
				return err
			}
			controlURL := target.Description.RenderingControlControlURL
			if controlURL == "" {
				return fmt.Errorf("%s exposes no RenderingControl service", target.Name())
			}
			rc, err := soapcalls.NewRenderingControl(controlURL)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				volume, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("volume %q: not a number", args[0])
				}
				if err := rc.SetVolume(cmd.Context(), volume); err != nil {
					return err
				}
				fmt.Printf("volume set to %d on %s\n", volume, target.Name())
				return nil
			}

			resp, err := rc.GetVolume(cmd.Context())
			if err != nil {
				return err
			}
			raw := strings.TrimSpace(soapcalls.ExtractTag(resp, "CurrentVolume"))
			if raw == "" {
				return fmt.Errorf("%s did not report a volume", target.Name())
			}
			fmt.Printf("%s volume: %s\n", target.Name(), raw)
			return nil
		},
	}

	cmd.Flags().StringVar(&renderer, "renderer", "", "renderer name substring")
	return cmd
}
