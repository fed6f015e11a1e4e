// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/farming/farming"
	"github.com/vechain/farming/farming/amount"
	"github.com/vechain/farming/farming/asset"
)

// farmConfig describes one farm to create and optionally fund.
type farmConfig struct {
	Seed             string            `yaml:"seed"`
	MinDeposit       string            `yaml:"minDeposit"`
	NFTBalance       map[string]string `yaml:"nftBalance"`
	Multipliers      map[string]uint64 `yaml:"multipliers"`
	Title            string            `yaml:"title"`
	Media            string            `yaml:"media"`
	RewardToken      string            `yaml:"rewardToken"`
	StartAt          uint64            `yaml:"startAt"`
	RewardPerSession string            `yaml:"rewardPerSession"`
	SessionInterval  uint64            `yaml:"sessionInterval"`
	Reward           string            `yaml:"reward"`
}

type bootstrapConfig struct {
	Farms []farmConfig `yaml:"farms"`
}

func loadBootstrapConfig(path string) (*bootstrapConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	return parseBootstrapConfig(data)
}

func parseBootstrapConfig(data []byte) (*bootstrapConfig, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg bootstrapConfig
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if len(cfg.Farms) == 0 {
		return nil, errors.New("config: no farms")
	}
	return &cfg, nil
}

// params converts c into creation parameters and the initial reward, nil if unfunded.
func (c *farmConfig) params() (farming.FarmParams, *uint256.Int, error) {
	seedID, err := asset.ParseSeedID(c.Seed)
	if err != nil {
		return farming.FarmParams{}, nil, errors.WithMessage(err, "seed")
	}
	p := farming.FarmParams{
		Seed:            seedID,
		Multipliers:     c.Multipliers,
		Title:           c.Title,
		Media:           c.Media,
		RewardToken:     c.RewardToken,
		StartAt:         c.StartAt,
		SessionInterval: c.SessionInterval,
	}
	if p.MinDeposit, err = optionalAmount(c.MinDeposit); err != nil {
		return farming.FarmParams{}, nil, errors.WithMessage(err, "minDeposit")
	}
	if p.RewardPerSession, err = amount.Parse(c.RewardPerSession); err != nil {
		return farming.FarmParams{}, nil, errors.WithMessage(err, "rewardPerSession")
	}
	if len(c.NFTBalance) > 0 {
		p.NFTBalance = make(map[string]*uint256.Int, len(c.NFTBalance))
		for k, v := range c.NFTBalance {
			if p.NFTBalance[k], err = amount.Parse(v); err != nil {
				return farming.FarmParams{}, nil, errors.WithMessagef(err, "nftBalance %s", k)
			}
		}
	}
	reward, err := optionalAmount(c.Reward)
	if err != nil {
		return farming.FarmParams{}, nil, errors.WithMessage(err, "reward")
	}
	return p, reward, nil
}

func optionalAmount(s string) (*uint256.Int, error) {
	if s == "" {
		return nil, nil
	}
	return amount.Parse(s)
}

// bootstrap creates and funds the configured farms, returning their ids in order.
func bootstrap(ledger *farming.Farming, cfg *bootstrapConfig, progress bool) ([]string, error) {
	var bar *pb.ProgressBar
	if progress {
		bar = pb.New(len(cfg.Farms)).SetMaxWidth(90).Start()
		defer bar.Finish()
	}

	ids := make([]string, 0, len(cfg.Farms))
	for i := range cfg.Farms {
		c := &cfg.Farms[i]
		p, reward, err := c.params()
		if err != nil {
			return ids, errors.WithMessagef(err, "farm %d", i)
		}
		id, err := ledger.CreateFarm(p)
		if err != nil {
			return ids, errors.WithMessagef(err, "create farm %d", i)
		}
		if !amount.IsZero(reward) {
			if _, err := ledger.DepositReward(id, reward); err != nil {
				return ids, errors.WithMessagef(err, "fund farm %s", id)
			}
		}
		log.Debug("farm bootstrapped", "farm", id, "reward", amount.OrZero(reward).Dec())
		ids = append(ids, id)
		if bar != nil {
			bar.Increment()
		}
	}
	return ids, nil
}
