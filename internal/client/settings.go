// Copyright (c) 2026 Notable. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"context"
	"encoding/json"

	"github.com/taibuivan/notable/internal/client/localstore"
)

// # User Settings

// Settings carries the user's presentation preferences.
type Settings struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	FontSize      string `json:"fontSize"`
	Language      string `json:"language"`
}

// DefaultSettings returns the out-of-the-box preferences.
func DefaultSettings() Settings {
	return Settings{
		Theme:         "light",
		Notifications: true,
		FontSize:      "medium",
		Language:      "english",
	}
}

// SettingsManager persists [Settings] in the local store.
//
// The theme is additionally mirrored under its own key so lightweight
// consumers can read it without decoding the whole settings blob.
type SettingsManager struct {
	store localstore.Store
}

// NewSettingsManager wraps the store.
func NewSettingsManager(store localstore.Store) *SettingsManager {
	return &SettingsManager{store: store}
}

// Load returns the stored settings, falling back to defaults when nothing
// has been saved yet or the stored blob does not decode.
func (manager *SettingsManager) Load(ctx context.Context) (Settings, error) {
	stored, err := manager.store.Get(ctx, localstore.KeySettings)
	if err != nil {
		return DefaultSettings(), err
	}
	if len(stored) == 0 {
		return DefaultSettings(), nil
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(stored, &settings); err != nil {
		return DefaultSettings(), nil
	}
	return settings, nil
}

// Save persists the settings and mirrors the theme key.
func (manager *SettingsManager) Save(ctx context.Context, settings Settings) error {
	encoded, err := json.Marshal(settings)
	if err != nil {
		return err
	}

	if err := manager.store.Set(ctx, localstore.KeySettings, encoded); err != nil {
		return err
	}
	return manager.store.Set(ctx, localstore.KeyTheme, []byte(settings.Theme))
}

// Reset restores the defaults and persists them.
func (manager *SettingsManager) Reset(ctx context.Context) (Settings, error) {
	defaults := DefaultSettings()
	if err := manager.Save(ctx, defaults); err != nil {
		return defaults, err
	}
	return defaults, nil
}
