package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"llvmmgmt/pkg/cli"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "llvmmgmt",
		Level:           log.InfoLevel,
	})
	slog.SetDefault(slog.New(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	res := cli.Run(ctx, os.Args[1:], cli.Options{
		SetLogLevel: func(level string) {
			lvl, err := log.ParseLevel(level)
			if err != nil {
				logger.Warn("Unknown log level, keeping info", "level", level)
				return
			}
			logger.SetLevel(lvl)
		},
	})
	stop()
	os.Exit(res.ExitCode)
}
