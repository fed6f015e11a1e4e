// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package asset holds the structured identifiers of seeds, farms and staked NFTs.
// Composite string forms are only parsed and formatted here.
package asset

import (
	"strconv"
	"strings"

	"github.com/vechain/farming/farming/reverts"
)

const (
	poolTag      = "@"
	indexTag     = "$"
	nftDelimiter = "@"
	seriesTag    = ":"
	farmTag      = "#"
)

// Kind is the asset kind of a seed.
type Kind uint8

const (
	KindPlain Kind = iota
	KindPoolShare
	KindNFT
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindPoolShare:
		return "pool"
	case KindNFT:
		return "nft"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// SeedID identifies a seed. Plain seeds are a token contract with an optional index,
// pool-share seeds are an exchange contract with a pool index. NFT seeds share the plain form;
// their kind comes from the registry.
type SeedID struct {
	Contract string
	Index    string
	Pool     bool
}

func Plain(token string) SeedID { return SeedID{Contract: token} }

func PoolShare(contract, index string) SeedID {
	return SeedID{Contract: contract, Index: index, Pool: true}
}

// ParseSeedID parses "token", "token$index" or "contract@index".
func ParseSeedID(s string) (SeedID, error) {
	if err := validPart(s); err != nil {
		return SeedID{}, err
	}
	if contract, index, ok := strings.Cut(s, poolTag); ok {
		if contract == "" || index == "" || strings.Contains(index, poolTag) || strings.Contains(s, indexTag) {
			return SeedID{}, reverts.New(reverts.KindInvalidSeedID, "%q", s)
		}
		return PoolShare(contract, index), nil
	}
	if token, index, ok := strings.Cut(s, indexTag); ok {
		if token == "" || index == "" || strings.Contains(index, indexTag) {
			return SeedID{}, reverts.New(reverts.KindInvalidSeedID, "%q", s)
		}
		return SeedID{Contract: token, Index: index}, nil
	}
	return Plain(s), nil
}

// MustParseSeedID is ParseSeedID for literals.
func MustParseSeedID(s string) SeedID {
	id, err := ParseSeedID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id SeedID) String() string {
	switch {
	case id.Pool:
		return id.Contract + poolTag + id.Index
	case id.Index != "":
		return id.Contract + indexTag + id.Index
	default:
		return id.Contract
	}
}

// Kind returns the kind derived from the id and whether the seed carries an NFT table.
func (id SeedID) Kind(hasNFTTable bool) Kind {
	switch {
	case hasNFTTable:
		return KindNFT
	case id.Pool:
		return KindPoolShare
	default:
		return KindPlain
	}
}

// FarmID returns the id of the index-th farm attached to this seed.
func (id SeedID) FarmID(index uint64) string {
	return id.String() + farmTag + strconv.FormatUint(index, 10)
}

// ParseFarmID splits "seed#index".
func ParseFarmID(s string) (SeedID, uint64, error) {
	i := strings.LastIndex(s, farmTag)
	if i < 0 {
		return SeedID{}, 0, reverts.New(reverts.KindUnknownFarmOrSeed, "farm %q", s)
	}
	index, err := strconv.ParseUint(s[i+1:], 10, 64)
	if err != nil {
		return SeedID{}, 0, reverts.New(reverts.KindUnknownFarmOrSeed, "farm %q", s)
	}
	seed, err := ParseSeedID(s[:i])
	if err != nil {
		return SeedID{}, 0, err
	}
	return seed, index, nil
}

// NFTID is a staked token: contract, token id and the series the token id may embed
// as "series:edition".
type NFTID struct {
	Contract string
	Token    string
}

// ParseNFTID parses "contract@token".
func ParseNFTID(s string) (NFTID, error) {
	contract, token, ok := strings.Cut(s, nftDelimiter)
	if !ok || contract == "" || token == "" || strings.Contains(token, nftDelimiter) {
		return NFTID{}, reverts.New(reverts.KindInvalidSeedID, "nft %q", s)
	}
	return NFTID{Contract: contract, Token: token}, nil
}

func (n NFTID) String() string {
	return n.Contract + nftDelimiter + n.Token
}

// Series returns the series part of the token id, if any.
func (n NFTID) Series() (string, bool) {
	series, _, ok := strings.Cut(n.Token, seriesTag)
	return series, ok
}

// LookupKeys lists the table keys that may price this token, most specific first:
// the full id, the series id, then the bare contract.
func (n NFTID) LookupKeys() []string {
	keys := []string{n.String()}
	if series, ok := n.Series(); ok {
		keys = append(keys, n.Contract+nftDelimiter+series)
	}
	return append(keys, n.Contract)
}

// ValidateAccount checks an account or token contract id is usable as a key part.
func ValidateAccount(account string) error {
	if account == "" || strings.ContainsAny(account, ": \t\n") {
		return reverts.New(reverts.KindInvalidAccountID, "%q", account)
	}
	return nil
}

func validPart(s string) error {
	if s == "" || strings.ContainsAny(s, seriesTag+farmTag+" \t\n") {
		return reverts.New(reverts.KindInvalidSeedID, "%q", s)
	}
	return nil
}
