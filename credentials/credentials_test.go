package credentials

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	t.Setenv("RECAP_CONFIG_DIR", t.TempDir())
	t.Setenv(EncryptionKeyEnvVar, testKeyHex)

	store, err := NewStoreWithKeyProvider(NewEnvKeyProvider(EncryptionKeyEnvVar))
	require.NoError(t, err)
	return store
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	err := store.Save(&Credentials{
		APIKey:        "rc-1234567890abcdef",
		ServerAddress: "http://localhost:8000",
	})
	require.NoError(t, err)
	require.True(t, store.Exists())

	creds, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "rc-1234567890abcdef", creds.APIKey)
	assert.Equal(t, "http://localhost:8000", creds.ServerAddress)
	assert.False(t, creds.LastUpdated.IsZero())
}

func TestStoreEncryptsAtRest(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(&Credentials{APIKey: "rc-secret-key-value"}))

	path, err := CredentialsPath()
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "rc-secret-key-value")

	var onDisk Credentials
	require.NoError(t, yaml.Unmarshal(raw, &onDisk))
	assert.NotEmpty(t, onDisk.APIKey)
	assert.NotEqual(t, "rc-secret-key-value", onDisk.APIKey)
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoCredentials)
	assert.False(t, store.Exists())
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(&Credentials{APIKey: "rc-key"}))
	require.True(t, store.Exists())

	require.NoError(t, store.Delete())
	assert.False(t, store.Exists())

	// Deleting again is not an error.
	assert.NoError(t, store.Delete())
}

func TestStoreWrongKeyFailsDecryption(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RECAP_CONFIG_DIR", dir)
	t.Setenv(EncryptionKeyEnvVar, testKeyHex)

	store, err := NewStoreWithKeyProvider(NewEnvKeyProvider(EncryptionKeyEnvVar))
	require.NoError(t, err)
	require.NoError(t, store.Save(&Credentials{APIKey: "rc-key"}))

	t.Setenv(EncryptionKeyEnvVar, strings.Repeat("ff", 32))
	other, err := NewStoreWithKeyProvider(NewEnvKeyProvider(EncryptionKeyEnvVar))
	require.NoError(t, err)

	_, err = other.Load()
	assert.ErrorIs(t, err, ErrEncryptionFailed)
}

func TestActiveAPIKeyEnvOverride(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(&Credentials{APIKey: "rc-stored"}))

	t.Setenv("RECAP_API_KEY", "rc-from-env")
	key, err := store.ActiveAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "rc-from-env", key)
}

func TestActiveAPIKeyFallsBackToStore(t *testing.T) {
	store := newTestStore(t)
	t.Setenv("RECAP_API_KEY", "")

	key, err := store.ActiveAPIKey()
	require.NoError(t, err)
	assert.Empty(t, key, "no env, no file means no auth")

	require.NoError(t, store.Save(&Credentials{APIKey: "rc-stored"}))
	key, err = store.ActiveAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "rc-stored", key)
}

func TestCredentialsDirRespectsEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RECAP_CONFIG_DIR", dir)

	got, err := CredentialsDir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	path, err := CredentialsPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultCredentialsFile), path)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "********", MaskAPIKey("short-ok"))
	masked := MaskAPIKey("rc-1234567890abcdef")
	assert.True(t, strings.HasPrefix(masked, "rc-1"))
	assert.True(t, strings.HasSuffix(masked, "cdef"))
	assert.NotContains(t, masked, "567890")
}
