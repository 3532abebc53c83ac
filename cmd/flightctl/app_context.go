package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"

	"flightsurety-relay/internal/infrastructure/config"
	"flightsurety-relay/internal/interface/chain"
	"flightsurety-relay/internal/usecase"
	"flightsurety-relay/pkg/logger"
)

// appContext bundles the wiring every subcommand needs: a dialed chain
// client, the rebuilder and the command service over it
type appContext struct {
	ctx       context.Context
	cancel    context.CancelFunc
	client    *chain.Client
	rebuilder *usecase.StateRebuilder
	commands  *usecase.CommandService
	log       *logger.ZapLogger
}

// commonFlags are shared by every subcommand; environment variables carry
// the same settings as the relay server
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "keys",
			Usage:   "File with hex private keys, one per line, for command senders",
			EnvVars: []string{"KEYS_FILE", "ORACLE_KEYS_FILE"},
		},
	}
}

// setup loads configuration, dials the node and rebuilds state once so the
// command guards see the current collections
func setup(c *cli.Context) (*appContext, error) {
	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt)

	log := logger.NewLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	keysFile := c.String("keys")
	if keysFile == "" {
		keysFile = cfg.OracleKeysFile
	}
	keys, err := chain.LoadKeys(keysFile)
	if err != nil {
		cancel()
		return nil, err
	}

	client, err := chain.Dial(ctx, cfg.RPCURL, cfg.WSURL, common.HexToAddress(cfg.AppAddress), keys, log)
	if err != nil {
		cancel()
		return nil, err
	}

	rebuilder := usecase.NewStateRebuilder(client, nil, log, nil)
	if err := rebuilder.Rebuild(ctx); err != nil {
		client.Close()
		cancel()
		return nil, err
	}

	return &appContext{
		ctx:       ctx,
		cancel:    cancel,
		client:    client,
		rebuilder: rebuilder,
		commands:  usecase.NewCommandService(client, rebuilder, log),
		log:       log,
	}, nil
}

func (a *appContext) close() {
	a.client.Close()
	a.cancel()
}
