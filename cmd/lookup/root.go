package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/vanshika/osintportal/internal/config"
	"github.com/vanshika/osintportal/internal/domain"
	"github.com/vanshika/osintportal/internal/generator"
	"github.com/vanshika/osintportal/internal/logging"
	"github.com/vanshika/osintportal/internal/service"
	"github.com/vanshika/osintportal/internal/store"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	v          *viper.Viper
	configPath string

	// isTerminal reports whether w is an interactive terminal.
	isTerminal func(w io.Writer) bool
}

// runtime is the lookup pipeline built from the resolved configuration.
type runtime struct {
	cfg     config.Config
	logger  *zap.Logger
	store   *store.Store
	service *service.LookupService
}

func (rt *runtime) Close() {
	rt.service.Close()
	if err := rt.store.Close(); err != nil {
		rt.logger.Warn("closing lookup store failed", zap.Error(err))
	}
	_ = rt.logger.Sync()
}

func newRootCmd() *cobra.Command {
	a := &app{
		v:          viper.New(),
		isTerminal: isTerminal,
	}

	cmd := &cobra.Command{
		Use:           "lookup",
		Short:         "Run OSINT portal lookups from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", os.Getenv("OSINT_CONFIG"), "config file (YAML)")
	flags.Int64("seed", 0, "random seed for result generation (0 = time based)")
	flags.Duration("delay", 0, "simulated lookup delay (overrides both configured delays)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	_ = a.v.BindPFlag("lookup.seed", flags.Lookup("seed"))
	_ = a.v.BindPFlag("lookup.username_delay", flags.Lookup("delay"))
	_ = a.v.BindPFlag("lookup.analysis_delay", flags.Lookup("delay"))
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))

	for _, kind := range domain.Kinds() {
		cmd.AddCommand(a.newKindCmd(kind))
	}
	cmd.AddCommand(a.newBatchCmd())
	return cmd
}

// build resolves configuration and wires the lookup pipeline. Logs go to
// stderr so stdout only carries results.
func (a *app) build(stderr io.Writer) (*runtime, error) {
	cfg, err := config.LoadWith(a.v, a.configPath)
	if err != nil {
		return nil, err
	}

	logger := logging.NewWithWriter(cfg.Logging, zapcore.AddSync(stderr)).Named("cli")
	st := store.New(store.Options{
		TTL:             cfg.Store.TTL,
		CleanupInterval: cfg.Store.CleanupInterval,
	}, logger)
	svc := service.NewLookupService(
		st,
		generator.New(generator.Config{Seed: cfg.Lookup.Seed}),
		service.Options{
			UsernameDelay: cfg.Lookup.UsernameDelay,
			AnalysisDelay: cfg.Lookup.AnalysisDelay,
		},
		logger,
	)

	return &runtime{cfg: cfg, logger: logger, store: st, service: svc}, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// openOutput returns the file named by path, or fallback when path is empty.
func openOutput(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return fallback, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, f.Close, nil
}
