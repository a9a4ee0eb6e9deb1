package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v3"

	"github.com/twinrisk/twinrisk/internal/domain/model"
	"github.com/twinrisk/twinrisk/internal/infrastructure/ml"
	"github.com/twinrisk/twinrisk/internal/infrastructure/postgres"
	pgutil "github.com/twinrisk/twinrisk/pkg/postgres"
)

// artifactSummary describes a decoded artifact without its trees.
type artifactSummary struct {
	ModelVersion string         `json:"model_version" yaml:"model_version"`
	Checksum     string         `json:"checksum" yaml:"checksum"`
	Compressed   bool           `json:"compressed" yaml:"compressed"`
	Stages       []string       `json:"stages" yaml:"stages"`
	ModelType    string         `json:"model_type" yaml:"model_type"`
	Fitted       bool           `json:"fitted" yaml:"fitted"`
	Explainable  bool           `json:"explainable" yaml:"explainable"`
	Trees        int            `json:"trees,omitempty" yaml:"trees,omitempty"`
	Nodes        int            `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	MaxDepth     int            `json:"max_depth,omitempty" yaml:"max_depth,omitempty"`
	Params       map[string]any `json:"params" yaml:"params"`
}

type storedArtifact struct {
	ID           string    `json:"id" yaml:"id"`
	ModelVersion string    `json:"model_version" yaml:"model_version"`
	Checksum     string    `json:"checksum" yaml:"checksum"`
	Active       bool      `json:"active" yaml:"active"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

func summarize(a *ml.Artifact) artifactSummary {
	est := a.Pipeline.PredictiveEstimator()
	s := artifactSummary{
		ModelVersion: a.ModelVersion,
		Checksum:     a.Checksum,
		Compressed:   a.Compressed,
		Stages:       a.Pipeline.StageTypes(),
		ModelType:    est.Type(),
		Fitted:       est.Fitted(),
		Params:       est.Params(),
	}
	if ens, ok := est.(ml.TreeEnsemble); ok {
		s.Explainable = true
		s.Trees = len(ens.Trees())
		for i := range ens.Trees() {
			t := &ens.Trees()[i]
			s.Nodes += t.NodeCount()
			s.MaxDepth = max(s.MaxDepth, t.MaxDepth())
		}
	}
	return s
}

func (a *app) artifactCmd() *cli.Command {
	fileFlag := &cli.StringFlag{Name: "file", Usage: "Artifact file (JSON, optionally gzip)", Required: true}

	return &cli.Command{
		Name:  "artifact",
		Usage: "Verify and manage model artifacts",
		Commands: []*cli.Command{
			{
				Name:  "verify",
				Usage: "Decode and validate an artifact file",
				Flags: []cli.Flag{fileFlag},
				Action: func(_ context.Context, cmd *cli.Command) error {
					art, _, err := readArtifact(cmd.String("file"))
					if err != nil {
						return err
					}
					return a.print(summarize(art))
				},
			},
			{
				Name:  "import",
				Usage: "Validate an artifact file and store it in the database",
				Flags: []cli.Flag{
					fileFlag,
					&cli.StringFlag{Name: "model-version", Usage: "Model version; defaults to the artifact's own"},
					&cli.BoolFlag{Name: "activate", Usage: "Make this the active model"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					art, payload, err := readArtifact(cmd.String("file"))
					if err != nil {
						return err
					}
					version := cmd.String("model-version")
					if version == "" {
						version = art.ModelVersion
					}
					if version == "" {
						return errors.New("artifact has no model_version; pass --version")
					}

					return a.withRepository(ctx, func(repo *postgres.ArtifactRepository) error {
						rec := &model.ArtifactRecord{
							ModelVersion: version,
							Checksum:     art.Checksum,
							Payload:      payload,
							Active:       cmd.Bool("activate"),
						}
						if err := repo.Save(ctx, rec); err != nil {
							return err
						}
						a.logger.Info("artifact imported", "model_version", version, "active", rec.Active)
						return a.print(toStored(rec))
					})
				},
			},
			{
				Name:  "list",
				Usage: "List stored artifacts, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "Maximum rows", Value: 20},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.withRepository(ctx, func(repo *postgres.ArtifactRepository) error {
						recs, err := repo.List(ctx, int(cmd.Int("limit")))
						if err != nil {
							return err
						}
						out := make([]storedArtifact, 0, len(recs))
						for _, r := range recs {
							out = append(out, toStored(r))
						}
						return a.print(out)
					})
				},
			},
			{
				Name:  "activate",
				Usage: "Mark a stored artifact as the active model",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "model-version", Usage: "Model version to activate", Required: true},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.withRepository(ctx, func(repo *postgres.ArtifactRepository) error {
						return repo.Activate(ctx, cmd.String("model-version"))
					})
				},
			},
		},
	}
}

func readArtifact(path string) (*ml.Artifact, []byte, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading artifact: %w", err)
	}
	art, err := ml.DecodeArtifact(payload, model.DefaultSchema())
	if err != nil {
		return nil, nil, fmt.Errorf("invalid artifact %s: %w", path, err)
	}
	return art, payload, nil
}

func (a *app) withRepository(ctx context.Context, fn func(*postgres.ArtifactRepository) error) error {
	pool, err := a.pool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(postgres.NewArtifactRepository(pool))
}

func (a *app) pool(ctx context.Context) (*pgxpool.Pool, error) {
	if a.dbURL == "" {
		return nil, errors.New("--database-url (or DATABASE_URL) is required")
	}
	return pgutil.NewPool(ctx, pgutil.Config{URL: a.dbURL, MaxConns: 2})
}

func toStored(r *model.ArtifactRecord) storedArtifact {
	return storedArtifact{
		ID:           r.ID.String(),
		ModelVersion: r.ModelVersion,
		Checksum:     r.Checksum,
		Active:       r.Active,
		CreatedAt:    r.CreatedAt,
	}
}
