// =============================
// File: internal/config/config_test.go
// =============================
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"rpc_list": ["https://api.mainnet-beta.solana.com"],
		"wallets_file": "test-wallets.csv",
		"debug_logging": true
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://api.mainnet-beta.solana.com"}, cfg.RPCList)
	assert.Equal(t, "test-wallets.csv", cfg.WalletsFile)
	assert.True(t, cfg.DebugLogging)

	// Defaults fill everything the file omits.
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
	assert.Equal(t, DefaultRetryIntervalSec, cfg.RetryIntervalSec)
	assert.Equal(t, 0.05, cfg.CreationFee)
	assert.Equal(t, 0.008, cfg.FeePercentage)
}

func TestLoad_MissingRPCList(t *testing.T) {
	path := writeConfig(t, `{}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rpc_list")
}

func TestLoad_InvalidRPCURL(t *testing.T) {
	path := writeConfig(t, `{"rpc_list": ["ftp://nope.example.com"]}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RPC URL")
}

func TestLoad_InvalidRetries(t *testing.T) {
	path := writeConfig(t, `{
		"rpc_list": ["https://api.mainnet-beta.solana.com"],
		"max_retries": 0
	}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_retries")
}

func TestLoad_EnvOverridesRPCList(t *testing.T) {
	path := writeConfig(t, `{"rpc_list": ["https://file.example.com"]}`)

	t.Setenv("PUMPBUNDLER_RPC_LIST", "https://one.example.com, https://two.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://one.example.com", "https://two.example.com"}, cfg.RPCList)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
