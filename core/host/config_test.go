package host

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir, err := os.MkdirTemp(os.TempDir(), "cwcounter-config")
	require.NoError(t, err)

	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "config.yml")

	err = os.WriteFile(path, []byte("chain_id: testnet\n"), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, Config{ChainID: "testnet", DBPath: DefaultDBPath}, cfg)

	err = os.WriteFile(path, []byte("chain_id: testnet\ndb_path: /tmp/a.db\n"), 0644)
	require.NoError(t, err)

	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, Config{ChainID: "testnet", DBPath: "/tmp/a.db"}, cfg)

	err = os.WriteFile(path, []byte("chain: testnet\n"), 0644)
	require.NoError(t, err)

	_, err = LoadConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse config")

	_, err = LoadConfig(filepath.Join(dir, "missing.yml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read config")
}

func TestDefaultConfig(t *testing.T) {
	require.Equal(t, Config{ChainID: "cwcounter", DBPath: "cwcounter.db"}, DefaultConfig())
}
