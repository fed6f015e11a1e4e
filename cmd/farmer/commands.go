// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"os"

	"github.com/holiman/uint256"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/farming/api/farmers"
	"github.com/vechain/farming/api/farms"
	"github.com/vechain/farming/api/seeds"
	"github.com/vechain/farming/api/transfers"
	"github.com/vechain/farming/distribution"
	"github.com/vechain/farming/farming"
	"github.com/vechain/farming/farming/amount"
	"github.com/vechain/farming/farming/settlement"
	"github.com/vechain/farming/transfer"
)

// sessionCacheSize is the number of farms whose distribution state is cached.
const sessionCacheSize = 256

type ledgerAction func(ctx *cli.Context, ledger *farming.Farming) error

// withLedger runs action on the ledger in the data dir. Withdrawals made by one-shot
// commands are journaled and stay pending until resolved.
func withLedger(action ledgerAction) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		if err := setupLogger(ctx); err != nil {
			return err
		}
		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		sessions, err := distribution.NewSessions(sessionCacheSize)
		if err != nil {
			return err
		}
		return action(ctx, farming.New(db, sessions, &transfer.Journal{}, farming.SystemClock))
	}
}

func setupLogger(ctx *cli.Context) error {
	lvl, err := readIntFromUInt64Flag(ctx.GlobalUint64(verbosityFlag.Name))
	if err != nil {
		return errors.Wrap(err, "parse verbosity flag")
	}
	initLogger(lvl, ctx.GlobalBool(jsonLogsFlag.Name))
	return nil
}

func output(ctx *cli.Context, v any) error {
	return printJSON(ctx.App.Writer, v)
}

type opsResult struct {
	Ops []uint64 `json:"ops"`
}

func ops(ids ...uint64) *opsResult {
	res := &opsResult{Ops: []uint64{}}
	for _, id := range ids {
		if id != 0 {
			res.Ops = append(res.Ops, id)
		}
	}
	return res
}

type compoundResult struct {
	Staked string   `json:"staked"`
	Ops    []uint64 `json:"ops"`
}

type claimResult struct {
	Farm   string `json:"farm"`
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

func convertClaims(claims []settlement.Claim) []*claimResult {
	out := make([]*claimResult, 0, len(claims))
	for _, c := range claims {
		out = append(out, &claimResult{Farm: c.Farm, Token: c.Token, Amount: c.Amount.Dec()})
	}
	return out
}

func bootstrapAction(ctx *cli.Context, ledger *farming.Farming) error {
	path, err := requireString(ctx, configFlag)
	if err != nil {
		return err
	}
	cfg, err := loadBootstrapConfig(path)
	if err != nil {
		return err
	}
	ids, err := bootstrap(ledger, cfg, isatty.IsTerminal(os.Stdout.Fd()))
	if err != nil {
		return err
	}
	return output(ctx, map[string][]string{"farms": ids})
}

func depositRewardAction(ctx *cli.Context, ledger *farming.Farming) error {
	farmID, err := requireString(ctx, farmFlag)
	if err != nil {
		return err
	}
	value, err := parseAmountFlag(ctx)
	if err != nil {
		return err
	}
	farm, err := ledger.DepositReward(farmID, value)
	if err != nil {
		return err
	}
	return output(ctx, farms.ConvertFarm(farm))
}

func clearFarmAction(ctx *cli.Context, ledger *farming.Farming) error {
	farmID, err := requireString(ctx, farmFlag)
	if err != nil {
		return err
	}
	return ledger.ClearFarm(farmID)
}

func registerAction(ctx *cli.Context, ledger *farming.Farming) error {
	account, err := requireString(ctx, accountFlag)
	if err != nil {
		return err
	}
	created, err := ledger.Register(account)
	if err != nil {
		return err
	}
	return output(ctx, map[string]bool{"registered": created})
}

func unregisterAction(ctx *cli.Context, ledger *farming.Farming) error {
	account, err := requireString(ctx, accountFlag)
	if err != nil {
		return err
	}
	return ledger.Unregister(account)
}

func depositAction(ctx *cli.Context, ledger *farming.Farming) error {
	account, err := requireString(ctx, accountFlag)
	if err != nil {
		return err
	}
	seedID, err := parseSeedFlag(ctx, seedFlag)
	if err != nil {
		return err
	}
	value, err := parseAmountFlag(ctx)
	if err != nil {
		return err
	}
	return ledger.DepositSeed(account, seedID, value)
}

func depositNFTAction(ctx *cli.Context, ledger *farming.Farming) error {
	account, err := requireString(ctx, accountFlag)
	if err != nil {
		return err
	}
	seedID, err := parseSeedFlag(ctx, seedFlag)
	if err != nil {
		return err
	}
	nft, err := parseNFTFlag(ctx)
	if err != nil {
		return err
	}
	return ledger.DepositNFT(account, seedID, nft)
}

func depositBaseAction(ctx *cli.Context, ledger *farming.Farming) error {
	account, err := requireString(ctx, accountFlag)
	if err != nil {
		return err
	}
	seedID, err := parseSeedFlag(ctx, seedFlag)
	if err != nil {
		return err
	}
	value, err := parseAmountFlag(ctx)
	if err != nil {
		return err
	}
	return ledger.DepositBase(account, seedID, value)
}

func withdrawAction(ctx *cli.Context, ledger *farming.Farming) error {
	account, err := requireString(ctx, accountFlag)
	if err != nil {
		return err
	}
	seedID, err := parseSeedFlag(ctx, seedFlag)
	if err != nil {
		return err
	}
	value, err := parseAmountFlag(ctx)
	if err != nil {
		return err
	}
	op, err := ledger.WithdrawSeed(context.Background(), account, seedID, value)
	if err != nil {
		return err
	}
	return output(ctx, ops(op))
}

func withdrawNFTAction(ctx *cli.Context, ledger *farming.Farming) error {
	account, err := requireString(ctx, accountFlag)
	if err != nil {
		return err
	}
	seedID, err := parseSeedFlag(ctx, seedFlag)
	if err != nil {
		return err
	}
	nft, err := parseNFTFlag(ctx)
	if err != nil {
		return err
	}
	op, err := ledger.WithdrawNFT(context.Background(), account, seedID, nft)
	if err != nil {
		return err
	}
	return output(ctx, ops(op))
}

func withdrawBaseAction(ctx *cli.Context, ledger *farming.Farming) error {
	account, err := requireString(ctx, accountFlag)
	if err != nil {
		return err
	}
	seedID, err := parseSeedFlag(ctx, seedFlag)
	if err != nil {
		return err
	}
	value, err := parseAmountFlag(ctx)
	if err != nil {
		return err
	}
	op, err := ledger.WithdrawBase(context.Background(), account, seedID, value)
	if err != nil {
		return err
	}
	return output(ctx, ops(op))
}

func withdrawRewardAction(ctx *cli.Context, ledger *farming.Farming) error {
	account, err := requireString(ctx, accountFlag)
	if err != nil {
		return err
	}
	token, err := requireString(ctx, tokenFlag)
	if err != nil {
		return err
	}
	value, err := parseOptionalAmountFlag(ctx)
	if err != nil {
		return err
	}
	op, err := ledger.WithdrawReward(context.Background(), account, token, value)
	if err != nil {
		return err
	}
	return output(ctx, ops(op))
}

func claimAction(ctx *cli.Context, ledger *farming.Farming) error {
	account, err := requireString(ctx, accountFlag)
	if err != nil {
		return err
	}
	withdraw := ctx.Bool(withdrawFlag.Name)

	if farmID := ctx.String(farmFlag.Name); farmID != "" {
		if withdraw {
			op, err := ledger.ClaimByFarmAndWithdraw(context.Background(), account, farmID)
			if err != nil {
				return err
			}
			return output(ctx, ops(op))
		}
		claim, err := ledger.ClaimByFarm(account, farmID)
		if err != nil {
			return err
		}
		return output(ctx, convertClaims([]settlement.Claim{*claim}))
	}

	seedID, err := parseSeedFlag(ctx, seedFlag)
	if err != nil {
		return errors.WithMessage(err, "either -farm or -seed")
	}
	if withdraw {
		ids, err := ledger.ClaimBySeedAndWithdraw(context.Background(), account, seedID)
		if err != nil {
			return err
		}
		return output(ctx, ops(ids...))
	}
	claims, err := ledger.ClaimBySeed(account, seedID)
	if err != nil {
		return err
	}
	return output(ctx, convertClaims(claims))
}

func compoundAction(ctx *cli.Context, ledger *farming.Farming) error {
	account, err := requireString(ctx, accountFlag)
	if err != nil {
		return err
	}
	depositSeed, err := parseSeedFlag(ctx, depositSeedFlag)
	if err != nil {
		return err
	}
	var (
		staked *uint256.Int
		ids    []uint64
	)
	if ctx.String(seedFlag.Name) == "" {
		if staked, ids, err = ledger.ClaimByAllSeedsAndDeposit(context.Background(), account, depositSeed); err != nil {
			return err
		}
	} else {
		seedID, err := parseSeedFlag(ctx, seedFlag)
		if err != nil {
			return err
		}
		if staked, ids, err = ledger.ClaimBySeedAndDeposit(context.Background(), account, seedID, depositSeed); err != nil {
			return err
		}
	}
	return output(ctx, &compoundResult{Staked: amount.OrZero(staked).Dec(), Ops: ops(ids...).Ops})
}

func lockAction(ctx *cli.Context, ledger *farming.Farming) error {
	account, err := requireString(ctx, accountFlag)
	if err != nil {
		return err
	}
	seedID, err := parseSeedFlag(ctx, seedFlag)
	if err != nil {
		return err
	}
	value, err := parseAmountFlag(ctx)
	if err != nil {
		return err
	}
	if _, err := ledger.Lock(account, seedID, value, ctx.Uint64(durationFlag.Name)); err != nil {
		return err
	}
	lock, err := ledger.GetLocked(account, seedID)
	if err != nil {
		return err
	}
	return output(ctx, farmers.ConvertLock(lock))
}

func unlockAction(ctx *cli.Context, ledger *farming.Farming) error {
	account, err := requireString(ctx, accountFlag)
	if err != nil {
		return err
	}
	seedID, err := parseSeedFlag(ctx, seedFlag)
	if err != nil {
		return err
	}
	value, err := parseAmountFlag(ctx)
	if err != nil {
		return err
	}
	remain, err := ledger.Unlock(account, seedID, value)
	if err != nil {
		return err
	}
	return output(ctx, map[string]string{"locked": remain.Dec()})
}

// resolveAction confirms a pending transfer as it was requested.
func resolveAction(ctx *cli.Context, ledger *farming.Farming) error {
	outcome, ok := transfer.ParseOutcome(ctx.String(outcomeFlag.Name))
	if !ok {
		return errors.Errorf("-%s: must be success or failure", outcomeFlag.Name)
	}
	e, err := ledger.PendingTransfer(ctx.Uint64(opFlag.Name))
	if err != nil {
		return err
	}
	return ledger.Resolve(context.Background(), e.Transfer.Confirm(outcome))
}

func showAction(ctx *cli.Context, ledger *farming.Farming) error {
	account, err := requireString(ctx, accountFlag)
	if err != nil {
		return err
	}
	info, err := ledger.GetFarmer(account)
	if err != nil {
		return err
	}
	if info == nil {
		return errors.Errorf("farmer %s not registered", account)
	}
	return output(ctx, farmers.ConvertFarmer(info))
}

func farmAction(ctx *cli.Context, ledger *farming.Farming) error {
	farmID, err := requireString(ctx, farmFlag)
	if err != nil {
		return err
	}
	farm, err := ledger.GetFarm(farmID)
	if err != nil {
		return err
	}
	if farm == nil {
		return errors.Errorf("farm %s not found", farmID)
	}
	return output(ctx, farms.ConvertFarm(farm))
}

func seedsAction(ctx *cli.Context, ledger *farming.Farming) error {
	list, err := ledger.ListSeeds(ctx.Int(offsetFlag.Name), ctx.Int(limitFlag.Name))
	if err != nil {
		return err
	}
	out := make([]*seeds.Seed, 0, len(list))
	for _, sd := range list {
		out = append(out, seeds.ConvertSeed(sd))
	}
	return output(ctx, out)
}

func pendingAction(ctx *cli.Context, ledger *farming.Farming) error {
	entries, err := ledger.PendingTransfers(ctx.Int(offsetFlag.Name), ctx.Int(limitFlag.Name))
	if err != nil {
		return err
	}
	out := make([]*transfers.Pending, 0, len(entries))
	for _, e := range entries {
		out = append(out, transfers.ConvertPending(e))
	}
	return output(ctx, out)
}
