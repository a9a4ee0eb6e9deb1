package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/twinrisk/twinrisk/pkg/auth"
	"github.com/twinrisk/twinrisk/pkg/tlsutil"
)

func (a *app) devCmd() *cli.Command {
	return &cli.Command{
		Name:  "dev",
		Usage: "Development helpers: certificates and tokens",
		Commands: []*cli.Command{
			{
				Name:  "certs",
				Usage: "Write a self-signed CA and server certificate",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "hosts", Usage: "Comma-separated DNS names or IPs", Value: "localhost,127.0.0.1"},
					&cli.StringFlag{Name: "out", Usage: "Output directory", Value: "certs"},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					return tlsutil.GenerateDevCertificates(splitPaths(cmd.String("hosts")), cmd.String("out"))
				},
			},
			{
				Name:  "token",
				Usage: "Issue an HS256 bearer token for the gRPC API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "secret", Usage: "Shared secret", Sources: cli.EnvVars("JWT_SECRET")},
					&cli.StringFlag{Name: "issuer", Value: "twinrisk", Sources: cli.EnvVars("JWT_ISSUER")},
					&cli.StringFlag{Name: "subject", Value: "dev"},
					&cli.StringFlag{Name: "facility", Usage: "Clinical site"},
					&cli.StringFlag{Name: "roles", Value: auth.RoleClinician},
					&cli.DurationFlag{Name: "ttl", Value: time.Hour},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					if cmd.String("secret") == "" {
						return errors.New("--secret (or JWT_SECRET) is required")
					}
					svc, err := auth.NewJWTService(auth.JWTConfig{
						Secret:     cmd.String("secret"),
						Issuer:     cmd.String("issuer"),
						Expiration: cmd.Duration("ttl"),
					})
					if err != nil {
						return err
					}
					token, err := svc.GenerateToken(cmd.String("subject"), cmd.String("facility"), strings.Split(cmd.String("roles"), ","))
					if err != nil {
						return err
					}
					return a.print(map[string]string{"token": token})
				},
			},
		},
	}
}
