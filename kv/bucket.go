// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket is a key prefix that namespaces one ledger table, e.g. "farmer:".
// Tables share a single store and never see each other's keys.
type Bucket string

// Key returns the full store key of k inside the bucket.
func (b Bucket) Key(k []byte) []byte {
	full := make([]byte, 0, len(b)+len(k))
	full = append(full, b...)
	return append(full, k...)
}

// Range maps a range relative to the bucket to a store range.
// An empty limit means up to the end of the bucket.
func (b Bucket) Range(r Range) Range {
	out := Range{Start: b.Key(r.Start)}
	if len(r.Limit) == 0 {
		out.Limit = PrefixRange([]byte(b)).Limit
	} else {
		out.Limit = b.Key(r.Limit)
	}
	return out
}

// NewGetter creates a getter reading the bucket's table from src.
func (b Bucket) NewGetter(src Getter) Getter {
	return &tableGetter{b, src}
}

// NewPutter creates a putter writing the bucket's table to src.
func (b Bucket) NewPutter(src Putter) Putter {
	return &tablePutter{b, src}
}

// NewReadWriter creates a read-writer over the bucket's table.
// Iterators yield keys with the bucket stripped.
func (b Bucket) NewReadWriter(src ReadWriter) ReadWriter {
	return &table{tableGetter{b, src}, tablePutter{b, src}, src}
}

type tableGetter struct {
	b   Bucket
	src Getter
}

func (g *tableGetter) Get(key []byte) ([]byte, error) { return g.src.Get(g.b.Key(key)) }
func (g *tableGetter) Has(key []byte) (bool, error)   { return g.src.Has(g.b.Key(key)) }
func (g *tableGetter) IsNotFound(err error) bool      { return g.src.IsNotFound(err) }

type tablePutter struct {
	b   Bucket
	src Putter
}

func (p *tablePutter) Put(key, val []byte) error { return p.src.Put(p.b.Key(key), val) }
func (p *tablePutter) Delete(key []byte) error   { return p.src.Delete(p.b.Key(key)) }

type table struct {
	tableGetter
	tablePutter
	src ReadWriter
}

func (t *table) Iterate(r Range) Iterator {
	return &tableIterator{t.src.Iterate(t.tableGetter.b.Range(r)), len(t.tableGetter.b)}
}

type tableIterator struct {
	Iterator
	prefixLen int
}

func (it *tableIterator) Key() []byte {
	k := it.Iterator.Key()
	if len(k) < it.prefixLen {
		return nil
	}
	return k[it.prefixLen:]
}
