// Package storage persists session and cart state across restarts.
// Notifications and connectivity state are deliberately not persisted.
package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/models"
	"github.com/VersaceXcodes/food-truck-order-delivery-system-q5yqpj-sub001/store"
)

type State struct {
	Session   *models.Session   `json:"session,omitempty"`
	CartTruck *models.TruckRef  `json:"cart_truck,omitempty"`
	CartItems []models.CartItem `json:"cart_items,omitempty"`
}

// Load reads persisted state; a missing file yields an empty state.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &State{}, nil
		}
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Save writes the state atomically (temp file + rename).
func Save(path string, state *State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Bind restores persisted state into the stores and re-saves whenever
// either store changes. It returns an unbind func.
func Bind(path string, auth *store.AuthStore, cart *store.CartStore, logger zerolog.Logger) (func(), error) {
	log := logger.With().Str("component", "storage").Logger()

	state, err := Load(path)
	if err != nil {
		return nil, err
	}
	if state.Session != nil {
		auth.Restore(*state.Session)
	}
	if len(state.CartItems) > 0 {
		cart.Restore(state.CartTruck, state.CartItems)
	}

	save := func() {
		current := &State{
			Session:   auth.Session(),
			CartTruck: cart.Truck(),
			CartItems: cart.Items(),
		}
		if err := Save(path, current); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to persist client state")
		}
	}

	unsubAuth := auth.Subscribe(save)
	unsubCart := cart.Subscribe(save)
	return func() {
		unsubAuth()
		unsubCart()
	}, nil
}
