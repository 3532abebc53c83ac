package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAddressBook(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "networks.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveNetworkFromAddressBook(t *testing.T) {
	book := writeAddressBook(t, `{
		"localhost": {
			"url": "http://127.0.0.1:8545",
			"appAddress": "0x5FC8d32690cc91D4c39d9d3abcBD16989F875707",
			"dataAddress": "0x0165878A594ca255338adfa4d48449f69242Eb8F"
		}
	}`)

	cfg := &Config{Network: "localhost", AddressBookPath: book}
	require.NoError(t, cfg.resolveNetwork())

	assert.Equal(t, "http://127.0.0.1:8545", cfg.RPCURL)
	assert.Equal(t, "ws://127.0.0.1:8545", cfg.WSURL)
	assert.Equal(t, "0x5FC8d32690cc91D4c39d9d3abcBD16989F875707", cfg.AppAddress)
	assert.Equal(t, "0x0165878A594ca255338adfa4d48449f69242Eb8F", cfg.DataAddress)
}

func TestResolveNetworkEnvOverridesBook(t *testing.T) {
	cfg := &Config{
		Network:    "localhost",
		RPCURL:     "http://node:8545",
		WSURL:      "ws://node:8546",
		AppAddress: "0x5FC8d32690cc91D4c39d9d3abcBD16989F875707",
	}

	// with endpoints set the address book is never opened
	require.NoError(t, cfg.resolveNetwork())
	assert.Equal(t, "ws://node:8546", cfg.WSURL)
}

func TestResolveNetworkUnknownNetwork(t *testing.T) {
	book := writeAddressBook(t, `{"localhost": {"url": "http://127.0.0.1:8545"}}`)

	cfg := &Config{Network: "sepolia", AddressBookPath: book}
	assert.Error(t, cfg.resolveNetwork())
}

func TestResolveNetworkMissingAppAddress(t *testing.T) {
	book := writeAddressBook(t, `{"localhost": {"url": "http://127.0.0.1:8545"}}`)

	cfg := &Config{Network: "localhost", AddressBookPath: book}
	assert.Error(t, cfg.resolveNetwork())
}
