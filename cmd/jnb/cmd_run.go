package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/dhamidi/jnb/config"
	"github.com/dhamidi/jnb/java/completion"
	"github.com/dhamidi/jnb/jshell"
	"github.com/dhamidi/jnb/notebook"
	"github.com/dhamidi/jnb/workspace"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

// errFailures makes the process exit non-zero in strict mode. It has
// already been reported line by line, so main does not print it.
var errFailures = errors.New("evaluation failures")

type runFlags struct {
	configPath string
	jshell     string
	classPath  []string
	startup    []string
	timeout    time.Duration
	strict     bool
}

func newRunCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate stdin in a jshell session",
		Long: `Read all of stdin, then evaluate it unit by unit in one jshell session.

Output of the evaluated code goes to stdout. Every failed evaluation and
the category of input that cannot be split into units go to stderr; the
first such category ends the run and the rest of the input is ignored.

Settings come from jnb.yaml (or --config), the JNB_JSHELL and
JNB_CLASS_PATH environment variables, and the flags below, later sources
winning. Class path entries from all sources are combined, followed by
the compiled modules and jars of the workspace.

Examples:
  echo 'System.out.println(1 + 1);' | jnb
  jnb run --class-path lib/gson.jar --strict < cells.jsh`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			flags.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return runNotebook(ctx, cfg, flags.strict, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "settings file (default ./"+config.DefaultFile+" if present)")
	cmd.Flags().StringVar(&flags.jshell, "jshell", "", "jshell executable")
	cmd.Flags().StringSliceVar(&flags.classPath, "class-path", nil, "additional class path entries")
	cmd.Flags().StringSliceVar(&flags.startup, "startup", nil, "jshell startup scripts, replacing the configured ones")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "per-unit evaluation timeout, 0 for none")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit 1 if any evaluation fails or input cannot be split")

	return cmd
}

func (f runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("jshell") {
		cfg.JShell = f.jshell
	}
	cfg.ClassPath = append(cfg.ClassPath, f.classPath...)
	if cmd.Flags().Changed("startup") {
		cfg.Startup = f.startup
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = f.timeout
	}
}

func runNotebook(ctx context.Context, cfg config.Config, strict bool, stdin io.Reader, stdout, stderr io.Writer) error {
	log := commonlog.GetLogger("jnb")

	classPath := cfg.ClassPath
	if cfg.Workspace != "" {
		ws, err := workspace.Load(cfg.Workspace)
		if err != nil {
			return err
		}
		entries, err := ws.ClassPath()
		if err != nil {
			return err
		}
		classPath = append(classPath, entries...)
	}
	log.Debugf("class path: %v", classPath)

	input, err := notebook.ReadInput(stdin)
	if err != nil {
		return err
	}

	session, err := jshell.Start(ctx, jshell.Options{
		Path:          cfg.JShell,
		Args:          cfg.JShellArgs,
		ClassPath:     classPath,
		Startup:       cfg.Startup,
		RemoteOptions: cfg.RemoteOptions,
		Output:        stdout,
		Timeout:       cfg.Timeout,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	runner := &notebook.Runner{
		Classifier: completion.Analyzer{},
		Session:    session,
		Errors:     stderr,
	}
	res, err := runner.Run(ctx, input)
	if err != nil {
		return err
	}
	log.Infof("evaluated %d units, %d failed, stopped on %s", res.Evaluated, res.Failed, res.Final)

	if err := session.Close(); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	if strict && (res.Failed > 0 || res.Anomaly()) {
		return errFailures
	}
	return nil
}
