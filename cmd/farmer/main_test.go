// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	t       *testing.T
	dataDir string
}

func (a *testApp) run(args ...string) ([]byte, error) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"farmer", "--data-dir", a.dataDir, "--verbosity", "1"}, args...))
	return out.Bytes(), err
}

func (a *testApp) mustRun(args ...string) []byte {
	out, err := a.run(args...)
	require.NoError(a.t, err, string(out))
	return out
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	app := &testApp{t: t, dataDir: filepath.Join(dir, "data")}

	cfgPath := filepath.Join(dir, "farms.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfig), 0o600))

	var farms map[string][]string
	require.NoError(t, json.Unmarshal(app.mustRun("bootstrap", "--config", cfgPath), &farms))
	assert.Equal(t, []string{"usdt.near#0", "usdt.near#1", "paras.near#0"}, farms["farms"])

	var registered map[string]bool
	require.NoError(t, json.Unmarshal(app.mustRun("register", "--account", "alice"), &registered))
	assert.True(t, registered["registered"])

	app.mustRun("deposit", "--account", "alice", "--seed", "usdt.near", "--amount", "10")

	var res opsResult
	require.NoError(t, json.Unmarshal(app.mustRun("withdraw", "--account", "alice", "--seed", "usdt.near", "--amount", "4"), &res))
	require.Equal(t, []uint64{1}, res.Ops)

	var pending []struct {
		Op     string `json:"op"`
		Amount string `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(app.mustRun("pending"), &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "seed", pending[0].Op)
	assert.Equal(t, "4", pending[0].Amount)

	_, err := app.run("resolve", "--op", "1", "--outcome", "maybe")
	assert.Error(t, err)
	app.mustRun("resolve", "--op", "1", "--outcome", "failure")
	_, err = app.run("resolve", "--op", "1", "--outcome", "failure")
	assert.Error(t, err)

	var farmer struct {
		Seeds map[string]string `json:"seeds"`
	}
	require.NoError(t, json.Unmarshal(app.mustRun("show", "--account", "alice"), &farmer))
	assert.Equal(t, "10", farmer.Seeds["usdt.near"])

	_, err = app.run("show", "--account", "bob")
	assert.Error(t, err)
	_, err = app.run("deposit", "--account", "alice", "--seed", "usdt.near")
	assert.Error(t, err)
	_, err = app.run("withdraw", "--account", "alice", "--seed", "usdt.near", "--amount", "11")
	assert.Error(t, err)

	var lock struct {
		Balance string `json:"balance"`
		Phase   string `json:"phase"`
	}
	require.NoError(t, json.Unmarshal(app.mustRun("lock", "--account", "alice", "--seed", "usdt.near", "--amount", "5", "--duration", "3600"), &lock))
	assert.Equal(t, "5", lock.Balance)
	assert.Equal(t, "active", lock.Phase)

	var seeds []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(app.mustRun("seeds", "--limit", "0"), &seeds))
	assert.Len(t, seeds, 2)
}
