// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// farmer runs the seed-farming ledger: an HTTP service plus one-shot ledger operations.
package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	version       string
	gitCommit     string
	gitTag        string
	copyrightYear string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "Farmer"
	app.Usage = "Seed farming ledger"
	app.Copyright = fmt.Sprintf("2025-%s VeChain Foundation <https://vechain.org/>", copyrightYear)
	app.Flags = []cli.Flag{
		dataDirFlag,
		cacheFlag,
		verbosityFlag,
		jsonLogsFlag,
	}
	app.Commands = []cli.Command{
		{
			Name:  "serve",
			Usage: "serve the ledger API",
			Flags: []cli.Flag{
				apiAddrFlag,
				apiCorsFlag,
				apiTimeoutFlag,
				enableAPILogsFlag,
				enableMetricsFlag,
				metricsAddrFlag,
				autoConfirmFlag,
				transferWorkersFlag,
				replayFlag,
			},
			Action: serveAction,
		},
		{
			Name:   "bootstrap",
			Usage:  "create and fund the farms described in a YAML file",
			Flags:  []cli.Flag{configFlag},
			Action: withLedger(bootstrapAction),
		},
		{
			Name:   "deposit-reward",
			Usage:  "fund a farm",
			Flags:  []cli.Flag{farmFlag, amountFlag},
			Action: withLedger(depositRewardAction),
		},
		{
			Name:   "clear-farm",
			Usage:  "detach an ended farm from its seed",
			Flags:  []cli.Flag{farmFlag},
			Action: withLedger(clearFarmAction),
		},
		{
			Name:   "register",
			Usage:  "register a farmer",
			Flags:  []cli.Flag{accountFlag},
			Action: withLedger(registerAction),
		},
		{
			Name:   "unregister",
			Usage:  "remove an empty farmer",
			Flags:  []cli.Flag{accountFlag},
			Action: withLedger(unregisterAction),
		},
		{
			Name:   "deposit",
			Usage:  "stake fungible seed",
			Flags:  []cli.Flag{accountFlag, seedFlag, amountFlag},
			Action: withLedger(depositAction),
		},
		{
			Name:   "deposit-nft",
			Usage:  "stake an nft into an nft seed or a boosted seed",
			Flags:  []cli.Flag{accountFlag, seedFlag, nftFlag},
			Action: withLedger(depositNFTAction),
		},
		{
			Name:   "deposit-base",
			Usage:  "stake base amount of a boosted seed",
			Flags:  []cli.Flag{accountFlag, seedFlag, amountFlag},
			Action: withLedger(depositBaseAction),
		},
		{
			Name:   "withdraw",
			Usage:  "withdraw fungible seed",
			Flags:  []cli.Flag{accountFlag, seedFlag, amountFlag},
			Action: withLedger(withdrawAction),
		},
		{
			Name:   "withdraw-nft",
			Usage:  "withdraw a staked nft",
			Flags:  []cli.Flag{accountFlag, seedFlag, nftFlag},
			Action: withLedger(withdrawNFTAction),
		},
		{
			Name:   "withdraw-base",
			Usage:  "withdraw base amount of a boosted seed",
			Flags:  []cli.Flag{accountFlag, seedFlag, amountFlag},
			Action: withLedger(withdrawBaseAction),
		},
		{
			Name:   "withdraw-reward",
			Usage:  "withdraw claimed reward, all of it unless -amount is set",
			Flags:  []cli.Flag{accountFlag, tokenFlag, amountFlag},
			Action: withLedger(withdrawRewardAction),
		},
		{
			Name:   "claim",
			Usage:  "claim reward of a farm or of every farm on a seed",
			Flags:  []cli.Flag{accountFlag, farmFlag, seedFlag, withdrawFlag},
			Action: withLedger(claimAction),
		},
		{
			Name:   "compound",
			Usage:  "claim reward and stake it into a plain seed of the reward token",
			Flags:  []cli.Flag{accountFlag, seedFlag, depositSeedFlag},
			Action: withLedger(compoundAction),
		},
		{
			Name:   "lock",
			Usage:  "lock staked seed",
			Flags:  []cli.Flag{accountFlag, seedFlag, amountFlag, durationFlag},
			Action: withLedger(lockAction),
		},
		{
			Name:   "unlock",
			Usage:  "release locked seed",
			Flags:  []cli.Flag{accountFlag, seedFlag, amountFlag},
			Action: withLedger(unlockAction),
		},
		{
			Name:   "resolve",
			Usage:  "confirm the outcome of a pending transfer",
			Flags:  []cli.Flag{opFlag, outcomeFlag},
			Action: withLedger(resolveAction),
		},
		{
			Name:   "show",
			Usage:  "show a farmer",
			Flags:  []cli.Flag{accountFlag},
			Action: withLedger(showAction),
		},
		{
			Name:   "farm",
			Usage:  "show a farm",
			Flags:  []cli.Flag{farmFlag},
			Action: withLedger(farmAction),
		},
		{
			Name:   "seeds",
			Usage:  "list seeds",
			Flags:  []cli.Flag{offsetFlag, limitFlag},
			Action: withLedger(seedsAction),
		},
		{
			Name:   "pending",
			Usage:  "list pending transfers",
			Flags:  []cli.Flag{offsetFlag, limitFlag},
			Action: withLedger(pendingAction),
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
