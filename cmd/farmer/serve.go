// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/farming/api"
	"github.com/vechain/farming/cmd/farmer/httpserver"
	"github.com/vechain/farming/distribution"
	"github.com/vechain/farming/farming"
	"github.com/vechain/farming/metrics"
	"github.com/vechain/farming/transfer"
)

const (
	transferQueueSize   = 1024
	transferStopTimeout = 5 * time.Second
)

// confirmAll is the executor of auto-confirm mode: every transfer succeeds.
func confirmAll(_ context.Context, req transfer.Request) transfer.Outcome {
	log.Info("transfer auto-confirmed", "op", req.OpID, "kind", req.Kind.String(), "asset", req.Asset, "recipient", req.Recipient)
	return transfer.Success
}

func serveAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	if err := setupLogger(ctx); err != nil {
		return err
	}
	exitSignal := handleExitSignal()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return errors.WithMessage(err, "start metrics server")
		}
		defer func() { log.Info("stopping metrics server..."); closeFunc() }()
		log.Info("metrics server started", "url", url)
	}

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing ledger database..."); db.Close() }()

	sessions, err := distribution.NewSessions(sessionCacheSize)
	if err != nil {
		return err
	}

	var (
		port       transfer.Port = &transfer.Journal{}
		dispatcher *transfer.Dispatcher
	)
	if ctx.Bool(autoConfirmFlag.Name) {
		workers, err := readIntFromUInt64Flag(ctx.Uint64(transferWorkersFlag.Name))
		if err != nil {
			return errors.Wrap(err, "parse transfer-workers flag")
		}
		dispatcher = transfer.NewDispatcher(confirmAll, workers, transferQueueSize)
		port = dispatcher
	}

	ledger := farming.New(db, sessions, port, farming.SystemClock)
	if dispatcher != nil {
		dispatcher.Start(ledger)
		defer func() { log.Info("stopping transfer workers..."); dispatcher.Stop(transferStopTimeout) }()
	}

	if ctx.Bool(replayFlag.Name) {
		if _, err := ledger.Replay(exitSignal); err != nil {
			return errors.WithMessage(err, "replay pending transfers")
		}
	}

	timeout, err := readIntFromUInt64Flag(ctx.Uint64(apiTimeoutFlag.Name))
	if err != nil {
		return errors.Wrap(err, "parse api-timeout flag")
	}
	handler := api.New(ledger, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})
	url, closeFunc, err := httpserver.StartAPIServer(ctx.String(apiAddrFlag.Name), handler, time.Duration(timeout)*time.Millisecond)
	if err != nil {
		return err
	}
	defer func() { log.Info("stopping API server..."); closeFunc() }()
	log.Info("API server started", "url", url)

	<-exitSignal.Done()
	return nil
}
