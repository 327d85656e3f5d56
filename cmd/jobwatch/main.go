package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/altuslabsxyz/jobwatch/cmd/jobwatch/commands"
	"github.com/altuslabsxyz/jobwatch/cmd/jobwatch/shared"
	"github.com/altuslabsxyz/jobwatch/internal/output"
)

func main() {
	// Ctrl+C stops the monitor instead of killing the process mid-render.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := commands.NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	stop()

	os.Exit(shared.HandleError(output.DefaultLogger, err))
}
