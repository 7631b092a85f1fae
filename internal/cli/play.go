package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/seba2390/SymMediaStreamer/internal/session"
	"github.com/seba2390/SymMediaStreamer/internal/soapcalls"
)

const statusPollInterval = time.Second

func newPlayCmd(app *App) *cobra.Command {
	var (
		renderer      string
		subtitleFile  string
		subtitleTrack int
		port          int
	)

	cmd := &cobra.Command{
		Use:   "play <file>",
		Short: "Stream a media file to a renderer until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaPath := args[0]
			if _, err := os.Stat(mediaPath); err != nil {
				return fmt.Errorf("media file: %w", err)
			}

			target, err := selectRenderer(cmd.Context(), app, renderer)
			if err != nil {
				return err
			}
			fmt.Printf("playing on %s\n", target.Name())

			req := session.StartRequest{
				ControlURL:          target.Description.AVTransportControlURL,
				MediaPath:           mediaPath,
				RenderingControlURL: target.Description.RenderingControlControlURL,
				SubtitleFile:        subtitleFile,
				Port:                port,
			}
			if cmd.Flags().Changed("subtitle-track") {
				req.SubtitleTrack = &subtitleTrack
			}
			if req.Port == 0 {
				req.Port = app.Cfg.HTTPPort
			}

			sess := session.New(app.Log)
			streamURL, err := sess.Start(cmd.Context(), req)
			if err != nil {
				return err
			}
			defer sess.Stop(cmd.Context())
			fmt.Printf("streaming from %s\n", streamURL)
			fmt.Println("press Ctrl-C to stop")

			ticker := time.NewTicker(statusPollInterval)
			defer ticker.Stop()
			for {
				select {
				case <-cmd.Context().Done():
					fmt.Println()
					return nil
				case <-ticker.C:
					printStatus(cmd, sess)
				}
			}
		},
	}

	cmd.Flags().StringVar(&renderer, "renderer", "", "renderer name substring")
	cmd.Flags().StringVar(&subtitleFile, "subtitle", "", "external subtitle file to serve alongside")
	cmd.Flags().IntVar(&subtitleTrack, "subtitle-track", 0, "embedded subtitle track index")
	cmd.Flags().IntVar(&port, "port", 0, "media server port (0 = ephemeral)")
	return cmd
}

func printStatus(cmd *cobra.Command, sess *session.Session) {
	state := sess.State()
	if state != session.StatePlaying && state != session.StatePaused {
		return
	}
	elapsed, total, err := sess.Position(cmd.Context())
	if err != nil || total == 0 {
		fmt.Printf("\r%-8s", state)
		return
	}
	fmt.Printf("\r%-8s %s / %s ", state,
		soapcalls.FormatClock(elapsed), soapcalls.FormatClock(total))
}
