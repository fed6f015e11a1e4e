// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package saga

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/farming/farming/reverts"
	"github.com/vechain/farming/lvldb"
	"github.com/vechain/farming/transfer"
)

func newLog(t *testing.T) *Log {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func entry(t *testing.T, l *Log, op Op) *Entry {
	id, err := l.NextID()
	require.NoError(t, err)
	e := &Entry{
		Op:      op,
		Account: "alice",
		Token:   "ref.near",
		Amount:  uint256.NewInt(3),
		Transfer: transfer.Request{
			OpID:      id,
			Kind:      transfer.KindFT,
			Asset:     "ref.near",
			Recipient: "alice",
			Amount:    uint256.NewInt(3),
		},
	}
	require.NoError(t, l.Record(e))
	return e
}

func TestLog(t *testing.T) {
	l := newLog(t)

	_, err := l.Get(1)
	assert.ErrorIs(t, err, reverts.ErrUnknownOperation)

	// ids past 9 still list in order
	var ids []uint64
	for range 11 {
		ids = append(ids, entry(t, l, OpReward).ID())
	}
	assert.Equal(t, uint64(1), ids[0])
	assert.Equal(t, uint64(11), ids[10])

	pending, err := l.Pending(9, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, uint64(10), pending[0].ID())
	assert.Equal(t, uint64(11), pending[1].ID())

	got, err := l.Get(5)
	require.NoError(t, err)
	assert.Equal(t, OpReward, got.Op)
	assert.Equal(t, uint64(3), got.Amount.Uint64())

	require.NoError(t, l.Discard(5))
	n, err := l.Count()
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestEntry_Check(t *testing.T) {
	l := newLog(t)
	e := entry(t, l, OpReward)

	require.NoError(t, e.Check(e.Transfer.Confirm(transfer.Success)))
	require.NoError(t, e.Check(e.Transfer.Confirm(transfer.Failure)))

	c := e.Transfer.Confirm(transfer.Success)
	c.Amount = uint256.NewInt(4)
	assert.ErrorIs(t, e.Check(c), reverts.ErrOutcomeMismatch)

	assert.ErrorIs(t, e.Check(e.Transfer.Confirm(0)), reverts.ErrOutcomeMismatch)
}
