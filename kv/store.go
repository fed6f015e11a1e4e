// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the key-value store abstraction the ledger is persisted on.
package kv

import "github.com/syndtr/goleveldb/leveldb/util"

// Getter defines methods to read kv.
type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter defines methods to write kv.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Iterator iterates over kv pairs in key order.
type Iterator interface {
	First() bool
	Last() bool
	Next() bool
	Prev() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Range is the key range.
type Range struct {
	Start []byte // start of key range (included)
	Limit []byte // limit of key range (excluded)
}

// PrefixRange returns the range covering all keys with the given prefix.
func PrefixRange(prefix []byte) Range {
	r := util.BytesPrefix(prefix)
	return Range{Start: r.Start, Limit: r.Limit}
}

// ReadWriter reads, writes and iterates kv.
type ReadWriter interface {
	Getter
	Putter
	Iterate(r Range) Iterator
}

// Txn is an atomic unit of writes. Reads observe the txn's own writes.
type Txn interface {
	ReadWriter
	Commit() error
	Discard()
}

// Store defines the full functional kv store.
type Store interface {
	ReadWriter
	// Begin opens a transaction. Only one transaction may be open at a time;
	// writes outside of it block until it is committed or discarded.
	Begin() (Txn, error)
}
