package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v3"

	"github.com/twinrisk/twinrisk/internal/application/dto"
	"github.com/twinrisk/twinrisk/internal/application/usecase"
	"github.com/twinrisk/twinrisk/internal/bootstrap"
	"github.com/twinrisk/twinrisk/internal/domain/model"
	pgutil "github.com/twinrisk/twinrisk/pkg/postgres"
)

func (a *app) predictCmd() *cli.Command {
	return &cli.Command{
		Name:  "predict",
		Usage: "Score one patient record and print the explained prediction",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "record",
				Usage:    "JSON record file, or - for stdin. Either a flat object or {\"features\": {...}}",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "score against a running server at host:port instead of loading the model locally",
				Sources: cli.EnvVars("TWINRISK_ADDR"),
			},
			&cli.StringFlag{
				Name:  "ca",
				Usage: "CA certificate for a TLS connection to --addr",
			},
			&cli.StringFlag{
				Name:  "server-name",
				Usage: "TLS server name override",
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "bearer token sent to --addr",
				Sources: cli.EnvVars("TWINRISK_TOKEN"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			features, err := readRecord(cmd.String("record"), cmd.Root().Reader)
			if err != nil {
				return err
			}

			if addr := cmd.String("addr"); addr != "" {
				resp, err := predictRemote(ctx, remoteOptions{
					addr:       addr,
					caFile:     cmd.String("ca"),
					serverName: cmd.String("server-name"),
					token:      cmd.String("token"),
				}, features)
				if err != nil {
					return err
				}
				return a.print(resp)
			}

			mc, err := a.modelContext(ctx)
			if err != nil {
				return err
			}
			validator, interpreter, err := bootstrap.Services(mc.Schema, a.policy)
			if err != nil {
				return err
			}

			uc := usecase.NewPredictRisk(mc, validator, interpreter, nil, nil, a.logger)
			resp, err := uc.Execute(ctx, dto.PredictRequest{Features: features})
			if err != nil {
				return err
			}
			return a.print(resp)
		},
	}
}

func (a *app) infoCmd() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Print the model that would be loaded and the active policy",
		Action: func(ctx context.Context, _ *cli.Command) error {
			mc, err := a.modelContext(ctx)
			if err != nil {
				return err
			}
			validator, interpreter, err := bootstrap.Services(mc.Schema, a.policy)
			if err != nil {
				return err
			}
			return a.print(usecase.NewGetModelInfo(mc, validator, interpreter).Execute(ctx))
		},
	}
}

// modelContext loads the model the same way the server does.
func (a *app) modelContext(ctx context.Context) (usecase.ModelContext, error) {
	var pool *pgxpool.Pool
	if a.dbURL != "" {
		p, err := pgutil.NewPool(ctx, pgutil.Config{URL: a.dbURL, MaxConns: 2})
		if err != nil {
			a.logger.Warn("artifact store unavailable", "error", err)
		} else {
			defer p.Close()
			pool = p
		}
	}
	return bootstrap.LoadModelContext(ctx, model.DefaultSchema(), a.logger, bootstrap.ArtifactSources(pool, a.modelPaths)...), nil
}

func readRecord(path string, stdin io.Reader) (map[string]any, error) {
	var data []byte
	var err error
	if path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	if nested, ok := raw["features"].(map[string]any); ok {
		return nested, nil
	}
	return raw, nil
}
