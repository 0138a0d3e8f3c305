package main

import (
	"fmt"
	"io"

	"github.com/hashgraph-online/wallet-facades-go/pkg/command"
	"github.com/hashgraph-online/wallet-facades-go/pkg/dialog"
	"github.com/hashgraph-online/wallet-facades-go/pkg/facade"
	"github.com/hashgraph-online/wallet-facades-go/pkg/logging"
	"github.com/hashgraph-online/wallet-facades-go/pkg/mirror"
	"github.com/hashgraph-online/wallet-facades-go/pkg/shared"
	"github.com/hashgraph-online/wallet-facades-go/pkg/state"
)

// app holds the flags and the services built from them.
type app struct {
	configPath  string
	network     string
	dataDir     string
	logLevel    string
	autoApprove bool

	in  io.Reader
	out io.Writer

	config  shared.WalletConfig
	logger  *logging.Logger
	store   *state.Storage
	clients *command.KeyedClientFactory
	facade  *facade.Facade
}

func (a *app) open() error {
	config, err := shared.LoadWalletConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.network != "" {
		network, err := shared.NormalizeNetwork(a.network)
		if err != nil {
			return err
		}
		if config.Mirror.BaseURL == shared.MirrorBaseURL(config.Network) {
			config.Mirror.BaseURL = shared.MirrorBaseURL(network)
		}
		config.Network = network
	}
	if a.dataDir != "" {
		config.DataDir = a.dataDir
	}
	if a.logLevel != "" {
		config.LogLevel = a.logLevel
	}
	a.config = config
	a.logger = logging.New(&logging.Config{Level: config.LogLevel, Prefix: "hwallet"})

	store, err := state.New(state.Config{DataDir: config.DataDir})
	if err != nil {
		return err
	}
	a.store = store

	mirrorClient, err := mirror.NewClient(mirror.Config{
		Network: config.Network,
		BaseURL: config.Mirror.BaseURL,
		APIKey:  config.Mirror.APIKey,
	})
	if err != nil {
		return err
	}

	clients, err := command.NewKeyedClientFactory()
	if err != nil {
		return err
	}
	a.clients = clients
	if operator, err := shared.OperatorConfigForNetwork(config.Network); err == nil {
		if err := clients.Add(operator); err != nil {
			return fmt.Errorf("invalid operator credentials: %w", err)
		}
	} else {
		a.logger.Debug("no operator credentials loaded", "err", err)
	}

	runner, err := command.NewRunner(clients, a.logger)
	if err != nil {
		return err
	}

	a.facade, err = facade.New(facade.Config{
		Network:  config.Network,
		Store:    store,
		Mirror:   mirrorClient,
		Commands: runner,
		Dialog:   dialog.NewTerminal(a.in, a.out, a.autoApprove),
		Logger:   a.logger,
		ServiceFee: facade.ServiceFee{
			PercentageCut: config.ServiceFee.PercentageCut,
			ToAddress:     config.ServiceFee.ToAddress,
		},
		SwapWindow: config.SwapWindow,
		MaxFeeHbar: config.MaxFeeHbar,
	})
	return err
}

func (a *app) close() {
	if a.clients != nil {
		a.clients.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
}
