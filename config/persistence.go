package config

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/quasilyte/gdata"
)

const tuningKey = "tuning"

// SavedTuning is the sync tuning stored on disk between runs.
type SavedTuning struct {
	DivergenceThreshold float64 `json:"divergenceThreshold"`
	BlendEase           string  `json:"blendEase"`
	StrictRoster        bool    `json:"strictRoster"`
	TickRate            int     `json:"tickRate"`
}

// ItemStore is the subset of *gdata.Manager used for persistence.
type ItemStore interface {
	LoadItem(itemKey string) ([]byte, error)
	SaveItem(itemKey string, data []byte) error
}

// Persistence loads and saves tuning through an ItemStore.
type Persistence struct {
	store ItemStore
}

// OpenPersistence opens the gdata store for appName.
func OpenPersistence(appName string) (*Persistence, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open gdata: %w", err)
	}
	return NewPersistence(m), nil
}

func NewPersistence(store ItemStore) *Persistence {
	return &Persistence{store: store}
}

// LoadTuning returns the saved tuning, or nil if nothing was saved yet.
func (p *Persistence) LoadTuning() (*SavedTuning, error) {
	data, err := p.store.LoadItem(tuningKey)
	if err != nil {
		return nil, fmt.Errorf("load tuning: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var t SavedTuning
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse tuning: %w", err)
	}
	return &t, nil
}

func (p *Persistence) SaveTuning(t SavedTuning) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("serialize tuning: %w", err)
	}
	if err := p.store.SaveItem(tuningKey, data); err != nil {
		return fmt.Errorf("save tuning: %w", err)
	}
	return nil
}

// CurrentTuning captures the tunable part of c.
func (c SyncConfig) CurrentTuning() SavedTuning {
	return SavedTuning{
		DivergenceThreshold: c.DivergenceThreshold,
		BlendEase:           c.BlendEase,
		StrictRoster:        c.StrictRoster,
		TickRate:            c.TickRate,
	}
}

// ApplyTuning overlays saved values onto c. Zero values in t are ignored so
// older saves without a field keep the default.
func (c *SyncConfig) ApplyTuning(t *SavedTuning) {
	if t == nil {
		return
	}
	if t.DivergenceThreshold > 0 {
		c.DivergenceThreshold = t.DivergenceThreshold
	}
	if t.BlendEase != "" {
		c.BlendEase = t.BlendEase
	}
	if t.TickRate > 0 {
		c.TickRate = t.TickRate
	}
	c.StrictRoster = t.StrictRoster
}

// LoadSavedSync applies saved tuning to the global Sync config. Failures are
// logged and leave the defaults in place.
func LoadSavedSync(p *Persistence) {
	if p == nil {
		return
	}
	t, err := p.LoadTuning()
	if err != nil {
		log.Printf("[config] warning: %v", err)
		return
	}
	Sync.ApplyTuning(t)
}
