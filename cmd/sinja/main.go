// Command sinja registers, looks up and deletes students against the
// student API, and can run a local stub of that API.
//
//	sinja register --id 1001 --name Luis --last-name Pérez ...
//	sinja lookup 1001
//	sinja delete 1001 --yes
//	sinja serve --config=config/local.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/sinja/internal/config"
	"github.com/aanand-mishra/sinja/internal/presentation"
	"github.com/aanand-mishra/sinja/internal/remote"
	"github.com/aanand-mishra/sinja/internal/tracing"
	"github.com/aanand-mishra/sinja/internal/workflow"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// errUnsuccessful makes the process exit non-zero after an outcome that
// was already printed.
var errUnsuccessful = errors.New("operation did not succeed")

// app is what every subcommand gets after the root pre-run.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	tracer *tracing.Provider
	out    *presentation.Formatter
}

func main() {
	root, a := newRootCmd()
	root.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()

	if shutdownErr := a.shutdown(); shutdownErr != nil {
		fmt.Fprintln(os.Stderr, "Error: flush traces:", shutdownErr)
	}

	if err != nil {
		if !errors.Is(err, errUnsuccessful) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. The returned app is filled in by
// the root pre-run, so it is only usable once a subcommand has started.
func newRootCmd() (*cobra.Command, *app) {
	var (
		cfgFile string
		asJSON  bool
		a       = &app{}
	)

	root := &cobra.Command{
		Use:           "sinja",
		Short:         "Register and look up students against the student API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = setupLogger(cfg.Env, cmd.ErrOrStderr())
			a.out = presentation.NewFormatter(cmd.OutOrStdout(), asJSON)

			a.tracer, err = tracing.NewProvider(cfg.Tracing)
			if err != nil {
				return fmt.Errorf("init tracing: %w", err)
			}
			a.log.Debug("config loaded",
				slog.String("env", cfg.Env),
				slog.Bool("tracing", a.tracer.Enabled()))
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: $CONFIG_PATH, then environment only)")
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "print outcomes as JSON")

	root.AddCommand(
		newRegisterCmd(a),
		newLookupCmd(a),
		newDeleteCmd(a),
		newServeCmd(a),
	)
	return root, a
}

// client builds the remote API client from the loaded config.
func (a *app) client() (*remote.Client, error) {
	c, err := remote.New(a.cfg.Remote.BaseURL,
		remote.WithHTTPClient(newHTTPClient(a.cfg.Remote.Timeout)),
		remote.WithLogger(a.log),
		remote.WithTracer(a.tracer.Tracer()))
	if err != nil {
		return nil, fmt.Errorf("remote client: %w", err)
	}
	a.log.Debug("using student api",
		slog.String("base_url", c.BaseURL()),
		slog.Duration("timeout", a.cfg.Remote.Timeout))
	return c, nil
}

func (a *app) workflowOptions() []workflow.Option {
	return []workflow.Option{
		workflow.WithLogger(a.log),
		workflow.WithResetDelay(a.cfg.Workflow.ResetDelay),
	}
}

// report prints an outcome and maps unsuccessful ones to errUnsuccessful.
func (a *app) report(out workflow.Outcome) error {
	if err := a.out.Outcome(out); err != nil {
		return err
	}
	switch out.Kind {
	case workflow.Succeeded, workflow.Present:
		return nil
	default:
		return errUnsuccessful
	}
}

func (a *app) shutdown() error {
	if a.tracer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.tracer.Shutdown(ctx)
}
