package main

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/twinrisk/twinrisk/migrations"
	pgutil "github.com/twinrisk/twinrisk/pkg/postgres"
)

type migrationState struct {
	Version uint `json:"version" yaml:"version"`
	Dirty   bool `json:"dirty" yaml:"dirty"`
}

func (a *app) migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply the artifact store schema migrations",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "down", Usage: "Roll back all migrations"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if a.dbURL == "" {
				return errors.New("--database-url (or DATABASE_URL) is required")
			}
			var err error
			if cmd.Bool("down") {
				err = pgutil.RunMigrationsDown(a.dbURL, migrations.FS)
			} else {
				err = pgutil.RunMigrations(a.dbURL, migrations.FS)
			}
			if err != nil {
				return err
			}
			v, dirty, err := pgutil.MigrationVersion(a.dbURL, migrations.FS)
			if err != nil {
				return err
			}
			return a.print(migrationState{Version: v, Dirty: dirty})
		},
	}
}
