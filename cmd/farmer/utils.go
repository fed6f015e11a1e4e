// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/farming/farming/amount"
	"github.com/vechain/farming/farming/asset"
	"github.com/vechain/farming/lvldb"
)

func initLogger(lvl int, jsonLogs bool) {
	level := log.FromLegacyLevel(lvl)
	var handler slog.Handler
	if jsonLogs {
		handler = log.JSONHandlerWithLevel(os.Stderr, level)
	} else {
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, level, useColor(os.Stderr))
	}
	log.SetDefault(log.NewLogger(handler))
}

func useColor(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) && os.Getenv("TERM") != "dumb"
}

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, fmt.Errorf("invalid value %d: exceeds max int", val)
	}
	return int(val), nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func homeDir() (string, error) {
	// try to get HOME env
	if home := os.Getenv("HOME"); home != "" {
		return home, nil
	}

	user, err := user.Current()
	if err != nil {
		return "", err
	}
	if user.HomeDir != "" {
		return user.HomeDir, nil
	}

	return os.Getwd()
}

func defaultDataDir() string {
	home, err := homeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".farming")
}

func openDB(ctx *cli.Context) (*lvldb.LevelDB, error) {
	dataDir := ctx.GlobalString(dataDirFlag.Name)
	if dataDir == "" {
		return nil, errors.New("unable to infer default data dir, use -data-dir to specify")
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	cacheMB, err := readIntFromUInt64Flag(ctx.GlobalUint64(cacheFlag.Name))
	if err != nil {
		return nil, errors.Wrap(err, "parse cache flag")
	}
	path := filepath.Join(dataDir, "ledger.db")
	db, err := lvldb.Open(path, lvldb.Options{ReadCacheMB: cacheMB})
	if err != nil {
		return nil, errors.Wrapf(err, "open ledger database [%v]", path)
	}
	return db, nil
}

func requireString(ctx *cli.Context, flag cli.StringFlag) (string, error) {
	s := ctx.String(flag.Name)
	if s == "" {
		return "", errors.Errorf("-%s is required", flag.Name)
	}
	return s, nil
}

func parseSeedFlag(ctx *cli.Context, flag cli.StringFlag) (asset.SeedID, error) {
	s, err := requireString(ctx, flag)
	if err != nil {
		return asset.SeedID{}, err
	}
	id, err := asset.ParseSeedID(s)
	if err != nil {
		return asset.SeedID{}, errors.WithMessagef(err, "-%s", flag.Name)
	}
	return id, nil
}

func parseAmountFlag(ctx *cli.Context) (*uint256.Int, error) {
	s, err := requireString(ctx, amountFlag)
	if err != nil {
		return nil, err
	}
	v, err := amount.Parse(s)
	if err != nil {
		return nil, errors.WithMessagef(err, "-%s", amountFlag.Name)
	}
	return v, nil
}

// parseOptionalAmountFlag returns nil when the flag is unset.
func parseOptionalAmountFlag(ctx *cli.Context) (*uint256.Int, error) {
	if ctx.String(amountFlag.Name) == "" {
		return nil, nil
	}
	return parseAmountFlag(ctx)
}

func parseNFTFlag(ctx *cli.Context) (asset.NFTID, error) {
	s, err := requireString(ctx, nftFlag)
	if err != nil {
		return asset.NFTID{}, err
	}
	nft, err := asset.ParseNFTID(s)
	if err != nil {
		return asset.NFTID{}, errors.WithMessagef(err, "-%s", nftFlag.Name)
	}
	return nft, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
