package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	counterapp "github.com/initia-labs/counterd/app"
)

func run(t *testing.T, args ...string) (string, error) {
	return runWithBackend(t, "test", args...)
}

func runWithBackend(t *testing.T, backend string, args ...string) (string, error) {
	cmd := NewRootCmd()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--log_level", "error", "--counter.keyring-backend", backend))

	err := cmd.Execute()
	return out.String(), err
}

func decode(t *testing.T, out string) map[string]any {
	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	return res
}

func TestConfigInitAndShow(t *testing.T) {
	home := t.TempDir()

	_, err := run(t, "config", "init", "--home", home,
		"--counter.package-id", "0xaaaa",
		"--counter.network", "devnet",
		"--counter.gas-budget", "5000",
		"--counter.unsafe-burner",
	)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(home, counterapp.ConfigDir, counterapp.ConfigFileName))

	out, err := run(t, "config", "show", "--home", home)
	require.NoError(t, err)

	res := decode(t, out)
	require.Equal(t, "0xaaaa", res["package-id"])
	require.Equal(t, "devnet", res["network"])
	require.Equal(t, float64(5000), res["gas-budget"])
	require.Equal(t, true, res["unsafe-burner"])
	require.Equal(t, "1m0s", res["wait-timeout"])

	// flags win over the file
	out, err = run(t, "config", "show", "--home", home, "--counter.network", "mainnet")
	require.NoError(t, err)
	require.Equal(t, "mainnet", decode(t, out)["network"])

	_, err = run(t, "config", "init", "--home", home)
	require.Error(t, err)
	_, err = run(t, "config", "init", "--home", home, "--overwrite")
	require.NoError(t, err)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("COUNTER_PACKAGE_ID", "0xbeef")
	t.Setenv("COUNTER_NETWORK", "localnet")

	out, err := run(t, "config", "show", "--home", t.TempDir())
	require.NoError(t, err)

	res := decode(t, out)
	require.Equal(t, "0xbeef", res["package-id"])
	require.Equal(t, "localnet", res["network"])
}

func TestKeysAddShow(t *testing.T) {
	home := t.TempDir()

	out, err := run(t, "keys", "add", "--home", home)
	require.NoError(t, err)
	added := decode(t, out)
	require.Equal(t, "burner", added["name"])
	require.NotEmpty(t, added["mnemonic"])

	out, err = run(t, "keys", "show", "--home", home)
	require.NoError(t, err)
	require.Equal(t, added["address"], decode(t, out)["address"])

	_, err = run(t, "keys", "add", "--home", home)
	require.Error(t, err)

	require.DirExists(t, filepath.Join(home, "keyring-test"))
}

func TestKeysFileBackend(t *testing.T) {
	home := t.TempDir()

	_, err := runWithBackend(t, "file", "keys", "add", "--home", home)
	require.ErrorContains(t, err, "keyring passphrase required")

	t.Setenv("COUNTER_KEYRING_PASSPHRASE", "correct horse")
	out, err := runWithBackend(t, "file", "keys", "add", "--home", home)
	require.NoError(t, err)
	added := decode(t, out)

	entries, err := os.ReadDir(filepath.Join(home, "keyring-file"))
	require.NoError(t, err)
	for _, entry := range entries {
		bz, err := os.ReadFile(filepath.Join(home, "keyring-file", entry.Name()))
		require.NoError(t, err)
		require.NotContains(t, string(bz), added["mnemonic"])
	}

	out, err = runWithBackend(t, "file", "keys", "show", "--home", home)
	require.NoError(t, err)
	require.Equal(t, added["address"], decode(t, out)["address"])

	t.Setenv("COUNTER_KEYRING_PASSPHRASE", "wrong")
	_, err = runWithBackend(t, "file", "keys", "show", "--home", home)
	require.Error(t, err)
}

func TestStateAndAccount(t *testing.T) {
	home := t.TempDir()

	out, err := run(t, "state", "--home", home, "--counter.package-id", "0xaaaa", "--counter.network", "localnet")
	require.NoError(t, err)
	res := decode(t, out)
	require.Equal(t, "0xaaaa", res["package_id"])
	require.Equal(t, float64(1), res["increment_amount"])

	_, err = run(t, "account", "--home", home, "--counter.network", "localnet")
	require.Error(t, err)

	_, err = run(t, "keys", "add", "--home", home)
	require.NoError(t, err)
	out, err = run(t, "account", "--home", home, "--counter.network", "localnet")
	require.NoError(t, err)
	require.NotEmpty(t, decode(t, out)["address"])
}

func TestInvalidLogFormat(t *testing.T) {
	_, err := run(t, "config", "show", "--home", t.TempDir(), "--log_format", "yaml")
	require.ErrorContains(t, err, "invalid log format")
}
