// Command gex profiles dealer gamma exposure from delayed option chains.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gamma-profiler/internal/cli"
	"gamma-profiler/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Config is loaded from --config once flags are parsed.
	rootCmd := cli.NewRootCmd(nil, logging.NewLogger())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%sError:%s %v\n", cli.ColorRed, cli.ColorReset, err)
		stop()
		os.Exit(1)
	}
}
