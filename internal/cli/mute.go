package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/seba2390/SymMediaStreamer/internal/soapcalls"
)

func newMuteCmd(app *App) *cobra.Command {
	var renderer string

	cmd := &cobra.Command{
		Use:   "mute [on|off]",
		Short: "Get or set a renderer's mute state",
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
				mute, err := parseOnOff(args[0])
				if err != nil {
					return err
				}
				if err := rc.SetMute(cmd.Context(), mute); err != nil {
					return err
				}
				fmt.Printf("mute %s on %s\n", args[0], target.Name())
				return nil
			}

			resp, err := rc.GetMute(cmd.Context())
			if err != nil {
				return err
			}
			state := "off"
			if soapcalls.ExtractTag(resp, "CurrentMute") == "1" {
				state = "on"
			}
			fmt.Printf("%s mute: %s\n", target.Name(), state)
			return nil
		},
	}

	cmd.Flags().StringVar(&renderer, "renderer", "", "renderer name substring")
	return cmd
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b, nil
	}
	return false, fmt.Errorf("mute state %q: want on or off", s)
}
