package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/galaxygarden/nbody-datagen/internal/generator"
	"github.com/galaxygarden/nbody-datagen/internal/storage"
)

// module defs - set at build time via ldflags
var (
	Version   string = "0.0.1"
	BuildDate string = "unknown"

	BinaryName string = "generate_2d"
)

// exit codes
const (
	exitOK              = 0
	exitFailure         = 1
	exitUnknownScenario = 2
	exitIO              = 3
	exitUsage           = 64
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := newApp()
	err := a.rootCmd().ExecuteContext(ctx)
	a.close()
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", BinaryName, err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps the error taxonomy onto process exit statuses.
func exitCode(err error) int {
	var ioErr *storage.IOError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, generator.ErrUsage):
		return exitUsage
	case errors.Is(err, generator.ErrUnknownScenario):
		return exitUnknownScenario
	case errors.As(err, &ioErr):
		return exitIO
	default:
		return exitFailure
	}
}
