package main

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	riskgrpc "github.com/twinrisk/twinrisk/internal/presentation/grpc"
	"github.com/twinrisk/twinrisk/pkg/tlsutil"
)

type remoteOptions struct {
	addr       string
	caFile     string
	serverName string
	token      string
}

// dialRemote connects to a running twinriskd. Without a CA file the
// connection is plaintext.
func dialRemote(opts remoteOptions) (riskgrpc.RiskServiceClient, func() error, error) {
	var creds credentials.TransportCredentials
	if opts.caFile != "" {
		c, err := tlsutil.ClientCredentials(opts.caFile, opts.serverName)
		if err != nil {
			return nil, nil, err
		}
		creds = c
	} else {
		creds = insecure.NewCredentials()
	}

	conn, err := grpc.NewClient(opts.addr, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, nil, fmt.Errorf("dialing %s: %w", opts.addr, err)
	}
	return riskgrpc.NewRiskServiceClient(conn), conn.Close, nil
}

func withToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

func predictRemote(ctx context.Context, opts remoteOptions, features map[string]any) (*riskgrpc.PredictRiskResponse, error) {
	client, closeFn, err := dialRemote(opts)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	return client.PredictRisk(withToken(ctx, opts.token), &riskgrpc.PredictRiskRequest{Features: features})
}
