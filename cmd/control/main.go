// Command control builds, starts, stops, and restarts container-based
// services described by a Controlfile.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/PetroDE/control/internal/dispatch"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := rootCommand().ExecuteContext(ctx)
	os.Exit(dispatch.ExitCode(err))
}
