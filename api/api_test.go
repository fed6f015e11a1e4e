// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/farming/farming/asset"
	"github.com/vechain/farming/test/testledger"
)

var usdt = asset.Plain("usdt.near")

func newTestServer(t *testing.T) (*testledger.Ledger, *httptest.Server) {
	ledger, err := testledger.New()
	require.NoError(t, err)
	t.Cleanup(func() { ledger.Close() })

	ts := httptest.NewServer(New(ledger.Farming, Options{AllowedOrigins: "*"}))
	t.Cleanup(ts.Close)
	return ledger, ts
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) // #nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func httpPost(t *testing.T, url string, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) // #nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func TestFarmersAPI(t *testing.T) {
	ledger, ts := newTestServer(t)
	_, err := ledger.Farm(usdt, "ref.near", 1, 60, 1000)
	require.NoError(t, err)
	require.NoError(t, ledger.Stake("alice", usdt, 10))
	ledger.Clock.Advance(180)

	body, code := httpGet(t, ts.URL+"/farmers")
	require.Equal(t, http.StatusOK, code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0]["account"])

	body, code = httpGet(t, ts.URL+"/farmers/alice")
	require.Equal(t, http.StatusOK, code)
	var farmer struct {
		Account string            `json:"account"`
		Seeds   map[string]string `json:"seeds"`
	}
	require.NoError(t, json.Unmarshal(body, &farmer))
	assert.Equal(t, "10", farmer.Seeds["usdt.near"])

	_, code = httpGet(t, ts.URL+"/farmers/bob")
	assert.Equal(t, http.StatusNotFound, code)

	body, code = httpGet(t, ts.URL+"/farmers/alice/unclaimed/usdt.near%230")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"amount":"3"}`, string(body))

	_, code = httpGet(t, ts.URL+"/farmers/alice/unclaimed/dai.near%230")
	assert.Equal(t, http.StatusNotFound, code)

	_, err = ledger.ClaimByFarm("alice", "usdt.near#0")
	require.NoError(t, err)
	body, code = httpGet(t, ts.URL+"/farmers/alice/rewards/ref.near")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"amount":"3"}`, string(body))

	_, code = httpGet(t, ts.URL+"/farmers/alice/locked/usdt.near")
	assert.Equal(t, http.StatusNotFound, code)
	_, err = ledger.Lock("alice", usdt, uint256.NewInt(4), 3600)
	require.NoError(t, err)
	body, code = httpGet(t, ts.URL+"/farmers/alice/locked/usdt.near")
	require.Equal(t, http.StatusOK, code)
	var lock struct {
		Balance string `json:"balance"`
		Phase   string `json:"phase"`
	}
	require.NoError(t, json.Unmarshal(body, &lock))
	assert.Equal(t, "4", lock.Balance)
	assert.Equal(t, "active", lock.Phase)

	_, code = httpGet(t, ts.URL+"/farmers/alice/locked/@")
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = httpGet(t, ts.URL+"/farmers?limit=0")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSeedsAndFarmsAPI(t *testing.T) {
	ledger, ts := newTestServer(t)
	farmID, err := ledger.Farm(usdt, "ref.near", 1, 60, 1000)
	require.NoError(t, err)
	require.NoError(t, ledger.Stake("alice", usdt, 10))

	body, code := httpGet(t, ts.URL+"/seeds")
	require.Equal(t, http.StatusOK, code)
	var seeds []struct {
		ID     string   `json:"id"`
		Amount string   `json:"amount"`
		Farms  []string `json:"farms"`
	}
	require.NoError(t, json.Unmarshal(body, &seeds))
	require.Len(t, seeds, 1)
	assert.Equal(t, "usdt.near", seeds[0].ID)
	assert.Equal(t, "10", seeds[0].Amount)
	assert.Equal(t, []string{farmID}, seeds[0].Farms)

	_, code = httpGet(t, ts.URL+"/seeds/usdt.near")
	assert.Equal(t, http.StatusOK, code)
	_, code = httpGet(t, ts.URL+"/seeds/dai.near")
	assert.Equal(t, http.StatusNotFound, code)

	ledger.Clock.Advance(120)
	body, code = httpGet(t, ts.URL+"/farms/usdt.near%230")
	require.Equal(t, http.StatusOK, code)
	var farm struct {
		Status        string `json:"status"`
		TotalReward   string `json:"totalReward"`
		Undistributed string `json:"undistributed"`
		Unclaimed     string `json:"unclaimed"`
	}
	require.NoError(t, json.Unmarshal(body, &farm))
	assert.Equal(t, "Running", farm.Status)
	assert.Equal(t, "1000", farm.TotalReward)
	assert.Equal(t, "998", farm.Undistributed)
	assert.Equal(t, "2", farm.Unclaimed)

	_, code = httpGet(t, ts.URL+"/farms/dai.near%230")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTransfersAPI(t *testing.T) {
	ledger, ts := newTestServer(t)
	_, err := ledger.Farm(usdt, "ref.near", 1, 60, 1000)
	require.NoError(t, err)
	require.NoError(t, ledger.Stake("alice", usdt, 10))

	opID, err := ledger.WithdrawSeed(context.Background(), "alice", usdt, uint256.NewInt(4))
	require.NoError(t, err)
	op := strconv.FormatUint(opID, 10)

	body, code := httpGet(t, ts.URL+"/transfers/pending")
	require.Equal(t, http.StatusOK, code)
	var pending []struct {
		Op       string `json:"op"`
		Account  string `json:"account"`
		Amount   string `json:"amount"`
		Transfer struct {
			OpID      uint64 `json:"op"`
			Kind      string `json:"kind"`
			Asset     string `json:"asset"`
			Recipient string `json:"recipient"`
			Amount    string `json:"amount"`
		} `json:"transfer"`
	}
	require.NoError(t, json.Unmarshal(body, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "seed", pending[0].Op)
	assert.Equal(t, "alice", pending[0].Account)
	assert.Equal(t, "4", pending[0].Amount)
	assert.Equal(t, opID, pending[0].Transfer.OpID)
	assert.Equal(t, "ft", pending[0].Transfer.Kind)
	assert.Equal(t, "usdt.near", pending[0].Transfer.Asset)

	outcome := map[string]string{
		"asset":     "usdt.near",
		"recipient": "alice",
		"amount":    "5",
		"outcome":   "failure",
	}
	_, code = httpPost(t, ts.URL+"/transfers/"+op+"/outcome", outcome)
	assert.Equal(t, http.StatusConflict, code)

	outcome["amount"] = "4"
	outcome["outcome"] = "maybe"
	_, code = httpPost(t, ts.URL+"/transfers/"+op+"/outcome", outcome)
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = httpPost(t, ts.URL+"/transfers/"+op+"/outcome", map[string]string{"unknown": "field"})
	assert.Equal(t, http.StatusBadRequest, code)

	outcome["outcome"] = "failure"
	body, code = httpPost(t, ts.URL+"/transfers/"+op+"/outcome", outcome)
	require.Equal(t, http.StatusOK, code, string(body))

	// resolved once
	_, code = httpPost(t, ts.URL+"/transfers/"+op+"/outcome", outcome)
	assert.Equal(t, http.StatusNotFound, code)

	body, code = httpGet(t, ts.URL+"/transfers/pending")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(body))

	info, err := ledger.GetFarmer("alice")
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(10), info.Seeds["usdt.near"])
}
