// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package distribution

import (
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/farming/cache"
	"github.com/vechain/farming/farming/amount"
	"github.com/vechain/farming/farming/reverts"
	"github.com/vechain/farming/farming/store"
	"github.com/vechain/farming/kv"
)

var logger = log.New("pkg", "distribution")

const (
	termsBucket = kv.Bucket("farm_terms:")
	farmsBucket = kv.Bucket("farm:")
)

// RPSDenominator scales reward-per-share.
var RPSDenominator = new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(24))

// state is the mutable part of a farm.
type state struct {
	Status        Status
	TotalReward   *uint256.Int
	Undistributed *uint256.Int
	Claimed       *uint256.Int
	Beneficiary   *uint256.Int
	RPS           *uint256.Int
	Rounds        uint64
}

// Sessions emits a fixed reward per elapsed session, shared pro rata among the staked weight.
type Sessions struct {
	terms *cache.LRU[string, Terms]
}

// NewSessions creates the engine, caching up to cacheSize farm terms.
func NewSessions(cacheSize int) (*Sessions, error) {
	terms, err := cache.NewLRU[string, Terms](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "terms cache")
	}
	return &Sessions{terms: terms}, nil
}

func (s *Sessions) Open(rw kv.ReadWriter, now uint64) Engine {
	return &sessionEngine{
		cache:  s.terms,
		terms:  store.NewMapping[store.StrKey, *Terms](rw, termsBucket),
		states: store.NewMapping[store.StrKey, *state](rw, farmsBucket),
		now:    now,
	}
}

// CacheStats returns the hits and misses of the terms cache.
func (s *Sessions) CacheStats() (hit, miss int64) {
	return s.terms.Stats()
}

type sessionEngine struct {
	cache  *cache.LRU[string, Terms]
	terms  *store.Mapping[store.StrKey, *Terms]
	states *store.Mapping[store.StrKey, *state]
	now    uint64
}

func (e *sessionEngine) load(id string) (Terms, *state, error) {
	st, err := e.states.Get(store.StrKey(id))
	if err != nil {
		return Terms{}, nil, err
	}
	if st == nil {
		return Terms{}, nil, reverts.New(reverts.KindUnknownFarmOrSeed, "farm %s", id)
	}
	// terms are only cached once the farm row is visible
	terms, ok, err := e.cache.GetOrLoad(id, func(id string) (Terms, bool, error) {
		t, err := e.terms.Get(store.StrKey(id))
		if err != nil || t == nil {
			return Terms{}, false, err
		}
		return *t, true, nil
	})
	if err != nil {
		return Terms{}, nil, err
	}
	if !ok {
		return Terms{}, nil, errors.Errorf("farm %s: missing terms", id)
	}
	return terms, st, nil
}

// distribute releases every session elapsed since the last distribution.
func (e *sessionEngine) distribute(id string, terms Terms, st *state, total *uint256.Int) error {
	if st.Status != StatusRunning || e.now < terms.StartAt {
		return nil
	}
	rounds := (e.now - terms.StartAt) / terms.SessionInterval
	if rounds <= st.Rounds {
		return nil
	}
	emitted, overflow := new(uint256.Int).MulOverflow(terms.RewardPerSession, uint256.NewInt(rounds-st.Rounds))
	if overflow || emitted.Gt(st.Undistributed) {
		emitted = st.Undistributed.Clone()
	}
	st.Rounds = rounds

	if amount.IsZero(total) {
		st.Beneficiary = new(uint256.Int).Add(st.Beneficiary, emitted)
	} else {
		added, err := amount.MulDiv(emitted, RPSDenominator, total)
		if err != nil {
			return errors.Wrapf(err, "farm %s rps", id)
		}
		if st.RPS, err = amount.Add(st.RPS, added); err != nil {
			return errors.Wrapf(err, "farm %s rps", id)
		}
	}
	st.Undistributed = new(uint256.Int).Sub(st.Undistributed, emitted)
	if st.Undistributed.IsZero() {
		st.Status = StatusEnded
		logger.Debug("farm ended", "farm", id, "rounds", rounds)
	}
	return nil
}

func (e *sessionEngine) view(id string, terms Terms, st *state) *Farm {
	return &Farm{
		ID:            id,
		Terms:         terms,
		Status:        st.Status,
		TotalReward:   st.TotalReward,
		Undistributed: st.Undistributed,
		Claimed:       st.Claimed,
		Beneficiary:   st.Beneficiary,
		RPS:           st.RPS,
		Rounds:        st.Rounds,
	}
}

func (e *sessionEngine) Farm(id string, total *uint256.Int) (*Farm, error) {
	exists, err := e.states.Has(store.StrKey(id))
	if err != nil || !exists {
		return nil, err
	}
	terms, st, err := e.load(id)
	if err != nil {
		return nil, err
	}
	if err := e.distribute(id, terms, st, total); err != nil {
		return nil, err
	}
	return e.view(id, terms, st), nil
}

func (e *sessionEngine) Create(id string, terms Terms) error {
	if terms.SessionInterval == 0 {
		return reverts.New(reverts.KindInvalidDuration, "farm %s: zero session interval", id)
	}
	if amount.IsZero(terms.RewardPerSession) {
		return reverts.New(reverts.KindBelowMinDeposit, "farm %s: zero reward per session", id)
	}
	exists, err := e.states.Has(store.StrKey(id))
	if err != nil {
		return err
	}
	if exists {
		return reverts.New(reverts.KindAlreadyRegistered, "farm %s", id)
	}
	if terms.StartAt == 0 {
		terms.StartAt = e.now
	}
	// a discarded transaction may have cached terms under the same id
	e.cache.Remove(id)
	if err := e.terms.Set(store.StrKey(id), &terms); err != nil {
		return err
	}
	return e.states.Set(store.StrKey(id), &state{
		Status:        StatusCreated,
		TotalReward:   amount.Zero(),
		Undistributed: amount.Zero(),
		Claimed:       amount.Zero(),
		Beneficiary:   amount.Zero(),
		RPS:           amount.Zero(),
	})
}

func (e *sessionEngine) AddReward(id string, value, total *uint256.Int) (*Farm, error) {
	terms, st, err := e.load(id)
	if err != nil {
		return nil, err
	}
	if err := e.distribute(id, terms, st, total); err != nil {
		return nil, err
	}
	switch st.Status {
	case StatusCreated:
		st.Status = StatusRunning
	case StatusRunning:
	default:
		return nil, reverts.New(reverts.KindInvalidFarmStatus, "farm %s is %s", id, st.Status)
	}
	if st.TotalReward, err = amount.Add(st.TotalReward, value); err != nil {
		return nil, err
	}
	if st.Undistributed, err = amount.Add(st.Undistributed, value); err != nil {
		return nil, err
	}
	if err := e.states.Set(store.StrKey(id), st); err != nil {
		return nil, err
	}
	return e.view(id, terms, st), nil
}

func owed(rps, prior, weight *uint256.Int) (*uint256.Int, error) {
	prior = amount.OrZero(prior)
	if !rps.Gt(prior) || amount.IsZero(weight) {
		return amount.Zero(), nil
	}
	return amount.MulDiv(weight, new(uint256.Int).Sub(rps, prior), RPSDenominator)
}

func (e *sessionEngine) Settle(id string, prior, weight, total *uint256.Int) (*uint256.Int, *uint256.Int, error) {
	terms, st, err := e.load(id)
	if err != nil {
		return nil, nil, err
	}
	if err := e.distribute(id, terms, st, total); err != nil {
		return nil, nil, err
	}
	value, err := owed(st.RPS, prior, weight)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "farm %s owed", id)
	}
	if st.Claimed, err = amount.Add(st.Claimed, value); err != nil {
		return nil, nil, err
	}
	if err := e.states.Set(store.StrKey(id), st); err != nil {
		return nil, nil, err
	}
	return st.RPS.Clone(), value, nil
}

func (e *sessionEngine) PeekUnclaimed(id string, snapshot, weight, total *uint256.Int) (*uint256.Int, error) {
	terms, st, err := e.load(id)
	if err != nil {
		return nil, err
	}
	if err := e.distribute(id, terms, st, total); err != nil {
		return nil, err
	}
	return owed(st.RPS, snapshot, weight)
}

// Clear retires an Ended farm once nothing staked can still claim from it.
func (e *sessionEngine) Clear(id string, total *uint256.Int) error {
	terms, st, err := e.load(id)
	if err != nil {
		return err
	}
	if err := e.distribute(id, terms, st, total); err != nil {
		return err
	}
	if st.Status != StatusEnded {
		return reverts.New(reverts.KindInvalidFarmStatus, "farm %s is %s", id, st.Status)
	}
	if !amount.IsZero(total) && !e.view(id, terms, st).Unclaimed().IsZero() {
		return reverts.New(reverts.KindInvalidFarmStatus, "farm %s still has unclaimed reward", id)
	}
	st.Status = StatusCleared
	return e.states.Set(store.StrKey(id), st)
}
