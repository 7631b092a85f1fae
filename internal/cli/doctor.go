package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seba2390/SymMediaStreamer/internal/diagnostics"
	"github.com/seba2390/SymMediaStreamer/internal/netutil"
)

func newDoctorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the local environment for streaming",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("outbound ip: %s\n", netutil.OutboundIP())

			report := diagnostics.Check()
			printBinary("ffmpeg", report.FFmpeg)
			printBinary("ffprobe", report.FFprobe)
			if report.Ready {
				fmt.Println("probing and optimization available")
			} else {
				fmt.Println("streaming works; install ffmpeg/ffprobe for probing and optimization")
			}
			return nil
		},
	}
}

func printBinary(name string, status diagnostics.BinaryStatus) {
	if status.Found {
		fmt.Printf("%-8s %s\n", name+":", status.Path)
		return
	}
	fmt.Printf("%-8s not found\n", name+":")
}
