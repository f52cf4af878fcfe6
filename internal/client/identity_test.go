package client

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moesamiii/production/internal/store"
)

func TestLoadIdentity_MintsAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal", "identity.json")

	identity, err := LoadIdentity(path, "Dana")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(identity.ID, "user_"))
	assert.Len(t, identity.ID, len("user_")+9)
	assert.Equal(t, "Dana", identity.Name)
	assert.False(t, identity.IsAdmin)

	// A second load returns the same id, not a fresh one.
	again, err := LoadIdentity(path, "SomeoneElse")
	require.NoError(t, err)
	assert.Equal(t, identity.ID, again.ID)
	assert.Equal(t, "Dana", again.Name)
}

func TestLoadIdentity_BlankNameDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")

	identity, err := LoadIdentity(path, "   ")
	require.NoError(t, err)
	assert.Equal(t, "Guest", identity.Name)
}

func TestLoadIdentity_CorruptFileReplaced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	identity, err := LoadIdentity(path, "Dana")
	require.NoError(t, err)
	assert.NotEmpty(t, identity.ID)
}

func TestSaveIdentity_DropsAdminFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")

	require.NoError(t, SaveIdentity(path, &store.UserIdentity{
		ID: "user_abc123def", Name: "Dana", IsAdmin: true,
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "admin")

	loaded, err := LoadIdentity(path, "")
	require.NoError(t, err)
	assert.False(t, loaded.IsAdmin)
}
