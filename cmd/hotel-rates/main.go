package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/hotel-rates/internal/common"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// a missing .env is fine; real environment wins either way
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	os.Exit(common.ExitCode(err))
}

type rootOptions struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "hotel-rates",
		Short:         "Extract hotel rate sheets from PDFs into a rates table",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err.Error())
	})

	root.AddCommand(
		newExtractCmd(opts),
		newClassifyCmd(opts),
		newDBHealthCmd(opts),
		newVersionCmd(),
	)
	return root
}

// newLogger builds the process logger. LOG_LEVEL picks the level; --verbose forces debug.
func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func usageError(msg string) error {
	return common.NewAppError(common.CodeConfig, msg, common.ErrInvalidInput)
}

func exactArgs(n int, what string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError(fmt.Sprintf("expected %s", what))
		}
		return nil
	}
}

// loadConfig reads the environment and sets up the default logger.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*common.Config, *slog.Logger, error) {
	cfg, err := common.LoadConfig()
	if err != nil {
		var appErr *common.AppError
		if !errors.As(err, &appErr) {
			err = common.NewAppError(common.CodeConfig, "load config", err)
		}
		return nil, nil, err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, opts.verbose)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
