package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/seba2390/SymMediaStreamer/internal/buildinfo"
	"github.com/seba2390/SymMediaStreamer/internal/cli"
	"github.com/seba2390/SymMediaStreamer/internal/lifecycle"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), lifecycle.TerminationSignals()...)
	defer stop()

	if err := cli.Execute(ctx, buildinfo.Version); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
