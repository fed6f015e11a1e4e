// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

// legacyLevelInfo is the info level on the 0-5 verbosity scale.
const legacyLevelInfo = 3

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the ledger database",
	}
	cacheFlag = cli.Uint64Flag{
		Name:  "cache",
		Value: 64,
		Usage: "megabytes of ram allocated to the database read cache",
	}
	verbosityFlag = cli.Uint64Flag{
		Name:  "verbosity",
		Value: legacyLevelInfo,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}

	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8680",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.Uint64Flag{
		Name:  "api-timeout",
		Value: 10000,
		Usage: "API request timeout value in milliseconds",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	autoConfirmFlag = cli.BoolFlag{
		Name:  "auto-confirm",
		Usage: "confirm every transfer as successful (dev only)",
	}
	transferWorkersFlag = cli.Uint64Flag{
		Name:  "transfer-workers",
		Value: 4,
		Usage: "number of workers executing transfers when auto-confirm is on",
	}
	replayFlag = cli.BoolFlag{
		Name:  "replay",
		Usage: "re-request pending transfers at startup",
	}

	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a YAML file describing the farms to create",
	}
	accountFlag = cli.StringFlag{
		Name:  "account",
		Usage: "farmer account",
	}
	seedFlag = cli.StringFlag{
		Name:  "seed",
		Usage: "seed id (token, token$index or contract@pool)",
	}
	depositSeedFlag = cli.StringFlag{
		Name:  "deposit-seed",
		Usage: "plain seed receiving compounded rewards",
	}
	farmFlag = cli.StringFlag{
		Name:  "farm",
		Usage: "farm id (seed#index)",
	}
	tokenFlag = cli.StringFlag{
		Name:  "token",
		Usage: "reward token",
	}
	amountFlag = cli.StringFlag{
		Name:  "amount",
		Usage: "decimal amount in the smallest unit",
	}
	nftFlag = cli.StringFlag{
		Name:  "nft",
		Usage: "nft id (contract@token)",
	}
	durationFlag = cli.Uint64Flag{
		Name:  "duration",
		Usage: "lock duration in seconds",
	}
	opFlag = cli.Uint64Flag{
		Name:  "op",
		Usage: "pending operation id",
	}
	outcomeFlag = cli.StringFlag{
		Name:  "outcome",
		Usage: "transfer outcome (success|failure)",
	}
	withdrawFlag = cli.BoolFlag{
		Name:  "withdraw",
		Usage: "withdraw the claimed reward",
	}
	offsetFlag = cli.IntFlag{
		Name:  "offset",
		Usage: "number of entries to skip",
	}
	limitFlag = cli.IntFlag{
		Name:  "limit",
		Value: 100,
		Usage: "maximum number of entries (0 for all)",
	}
)
