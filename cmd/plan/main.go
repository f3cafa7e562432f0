package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/barhop/internal/plancli"
	"github.com/okian/barhop/pkg/logger"
)

func main() {
	cfg, err := plancli.ParseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	// Logs go to stderr so stdout stays clean for -format json.
	if err := logger.InitWithFormat(logger.FormatText, os.Stderr); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	level := "warn"
	if cfg.Verbose {
		level = "debug"
	}
	_ = logger.SetLevelString(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := plancli.Run(ctx, cfg, os.Stdout, logger.Named("plan")); err != nil {
		os.Stderr.WriteString("plan failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
