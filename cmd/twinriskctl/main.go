package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/twinrisk/twinrisk/internal/infrastructure/config"
	"github.com/twinrisk/twinrisk/pkg/observability"
)

var version = "v0.0.1-default"

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// app holds state resolved from global flags before any command runs.
type app struct {
	out        io.Writer
	logger     *slog.Logger
	format     string
	modelPaths []string
	dbURL      string
	policy     config.Policy
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newApp(os.Stdout, os.Stderr).Run(ctx, os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func newApp(out, logOut io.Writer) *cli.Command {
	a := &app{out: out}

	return &cli.Command{
		Name:    "twinriskctl",
		Usage:   "Operate the twin-pregnancy risk model: predict, inspect, and manage artifacts",
		Version: version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Prints verbose logs",
			},
			&cli.StringFlag{
				Name:    "model",
				Usage:   "Comma-separated artifact paths tried in order",
				Value:   strings.Join(config.DefaultModelPaths, ","),
				Sources: cli.EnvVars("MODEL_PATHS"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "PostgreSQL artifact store (optional)",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format [json, yaml]",
				Value: formatJSON,
			},
			&cli.StringFlag{
				Name:    "policy",
				Usage:   "YAML policy file overriding domain policy and thresholds",
				Sources: cli.EnvVars("POLICY_FILE"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := "warn"
			if cmd.Bool("debug") {
				level = "debug"
			}
			a.logger = observability.NewLogger(observability.LogConfig{Level: level, Format: "text", Output: logOut})

			switch f := strings.ToLower(cmd.String("format")); f {
			case formatJSON:
				a.format = formatJSON
			case formatYAML, "yml":
				a.format = formatYAML
			default:
				return ctx, fmt.Errorf("unsupported format %q", f)
			}

			a.modelPaths = splitPaths(cmd.String("model"))
			a.dbURL = cmd.String("database-url")

			policy, err := config.LoadPolicy(cmd.String("policy"))
			if err != nil {
				return ctx, err
			}
			a.policy = policy
			return ctx, nil
		},
		Commands: []*cli.Command{
			a.predictCmd(),
			a.infoCmd(),
			a.artifactCmd(),
			a.migrateCmd(),
			a.devCmd(),
		},
	}
}

func splitPaths(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
