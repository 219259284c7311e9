// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/notable/internal/client"
	"github.com/taibuivan/notable/internal/client/localstore"
)

/*
TestSettings_Defaults verifies an empty store yields the stock preferences.
*/
func TestSettings_Defaults(t *testing.T) {
	manager := client.NewSettingsManager(localstore.NewMemoryStore())

	settings, err := manager.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "light", settings.Theme)
	assert.True(t, settings.Notifications)
	assert.Equal(t, "medium", settings.FontSize)
	assert.Equal(t, "english", settings.Language)
}

/*
TestSettings_SaveAndReload verifies round-tripping and the theme mirror.
*/
func TestSettings_SaveAndReload(t *testing.T) {
	store := localstore.NewMemoryStore()
	manager := client.NewSettingsManager(store)
	ctx := context.Background()

	settings := client.DefaultSettings()
	settings.Theme = "dark"
	settings.Notifications = false
	require.NoError(t, manager.Save(ctx, settings))

	reloaded, err := manager.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", reloaded.Theme)
	assert.False(t, reloaded.Notifications)

	// The theme is mirrored under its own key.
	theme, err := store.Get(ctx, localstore.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, []byte("dark"), theme)
}

/*
TestSettings_Reset verifies defaults are restored and persisted.
*/
func TestSettings_Reset(t *testing.T) {
	store := localstore.NewMemoryStore()
	manager := client.NewSettingsManager(store)
	ctx := context.Background()

	custom := client.DefaultSettings()
	custom.Theme = "dark"
	require.NoError(t, manager.Save(ctx, custom))

	restored, err := manager.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, "light", restored.Theme)

	reloaded, err := manager.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, client.DefaultSettings(), reloaded)
}

/*
TestSettings_CorruptBlob verifies a bad stored blob falls back to defaults.
*/
func TestSettings_CorruptBlob(t *testing.T) {
	store := localstore.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), localstore.KeySettings, []byte("{not json")))

	manager := client.NewSettingsManager(store)
	settings, err := manager.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, client.DefaultSettings(), settings)
}
