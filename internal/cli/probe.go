package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seba2390/SymMediaStreamer/internal/media"
)

func newProbeCmd(app *App) *cobra.Command {
	var showCommand bool

	cmd := &cobra.Command{
		Use:   "probe <file>",
		Short: "Analyze a media file for streaming compatibility",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("media file: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), app.Cfg.ProbeTimeout)
			defer cancel()

			rec, err := media.Recommend(ctx, path)
			if err != nil {
				return err
			}

			fmt.Printf("container: %s\n", rec.Container)
			if rec.Codec != "" {
				fmt.Printf("codec:     %s\n", rec.Codec)
			}
			if rec.BitrateKbps > 0 {
				fmt.Printf("bitrate:   %d kbps\n", rec.BitrateKbps)
			}
			fmt.Printf("mime:      %s\n", media.DetectMIME(path))
			for _, s := range rec.Suggestions {
				fmt.Printf("  - %s\n", s)
			}

			subs := media.Subtitles(ctx, path)
			for _, track := range subs.EmbeddedTracks {
				flags := ""
				if track.Default {
					flags += " default"
				}
				if track.Forced {
					flags += " forced"
				}
				fmt.Printf("subtitle track %d: %s (%s)%s\n",
					track.Index, track.Codec, track.Language, flags)
			}
			for _, f := range subs.ExternalFiles {
				fmt.Printf("external subtitle: %s\n", f.Name)
			}

			if showCommand && !rec.Optimal {
				argv, mode, err := media.BuildOptimizeCommand(ctx, path, media.OptimizeOptions{})
				if err != nil {
					return err
				}
				if argv != nil {
					fmt.Printf("suggested %s command:\n  %s\n", mode, strings.Join(argv, " "))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showCommand, "optimize-command", false, "print an ffmpeg command for problematic files")
	return cmd
}
