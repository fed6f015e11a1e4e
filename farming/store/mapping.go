// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package store

import (
	"strings"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/farming/kv"
)

type Key interface {
	Bytes() []byte
}

// StrKey is a plain string key.
type StrKey string

func (k StrKey) Bytes() []byte { return []byte(k) }

// Join builds a composite key from its parts, separated by ':'.
func Join(parts ...string) StrKey {
	return StrKey(strings.Join(parts, ":"))
}

// Prefix is Join with a trailing separator, for iterating all keys below the given parts.
func Prefix(parts ...string) StrKey {
	return Join(parts...) + ":"
}

// Mapping is an rlp encoded key/value table living in its own bucket.
// Absent values decode to the zero value of V.
type Mapping[K Key, V any] struct {
	rw kv.ReadWriter
}

func NewMapping[K Key, V any](src kv.ReadWriter, bucket kv.Bucket) *Mapping[K, V] {
	return &Mapping[K, V]{rw: bucket.NewReadWriter(src)}
}

// Get returns the value for key, or the zero value if it is absent.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	raw, err := m.rw.Get(key.Bytes())
	if err != nil {
		if m.rw.IsNotFound(err) {
			return value, nil
		}
		return value, errors.Wrapf(err, "get %s", key.Bytes())
	}
	if err := rlp.DecodeBytes(raw, &value); err != nil {
		return value, errors.Wrapf(err, "decode %s", key.Bytes())
	}
	return value, nil
}

func (m *Mapping[K, V]) Has(key K) (bool, error) {
	return m.rw.Has(key.Bytes())
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	raw, err := rlp.EncodeToBytes(value)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key.Bytes())
	}
	return m.rw.Put(key.Bytes(), raw)
}

func (m *Mapping[K, V]) Delete(key K) error {
	return m.rw.Delete(key.Bytes())
}

// Iterate visits every entry whose key starts with prefix, in key order, until fn returns false.
func (m *Mapping[K, V]) Iterate(prefix K, fn func(key []byte, value V) (bool, error)) error {
	it := m.rw.Iterate(kv.PrefixRange(prefix.Bytes()))
	defer it.Release()

	for it.Next() {
		var value V
		if err := rlp.DecodeBytes(it.Value(), &value); err != nil {
			return errors.Wrapf(err, "decode %s", it.Key())
		}
		key := append([]byte(nil), it.Key()...)
		next, err := fn(key, value)
		if err != nil {
			return err
		}
		if !next {
			break
		}
	}
	return it.Error()
}

// List returns up to limit values under prefix, skipping the first offset entries.
// A non-positive limit means no limit.
func (m *Mapping[K, V]) List(prefix K, offset, limit int) ([]V, error) {
	var (
		values []V
		index  int
	)
	err := m.Iterate(prefix, func(_ []byte, value V) (bool, error) {
		defer func() { index++ }()
		if index < offset {
			return true, nil
		}
		values = append(values, value)
		return limit <= 0 || len(values) < limit, nil
	})
	return values, err
}
