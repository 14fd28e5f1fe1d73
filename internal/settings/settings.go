// Package settings maintains the shared, eventually-consistent view of
// editable site text (contact info, hero image, slogans). The in-memory map
// is always a superset-merge of hard-coded defaults and whatever rows exist
// remotely: remote values win on collision, defaults fill gaps. Writes are
// optimistic — applied locally first, then upserted; a failed upsert
// triggers a full resync so the optimistic value is discarded, not retried.
package settings

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"bubbles/internal/events"
	"bubbles/internal/models"
	"bubbles/internal/session"
)

// ErrNotAdmin is returned when a non-admin session attempts an update.
// The check happens before any store call.
var ErrNotAdmin = errors.New("settings: only admins can update site settings")

// Defaults returns the hard-coded fallback settings. Every key listed here
// is guaranteed present in the service's map at all times.
func Defaults() models.SiteSettings {
	return models.SiteSettings{
		"hero_image_url":    "/images/hero.jpg",
		"contact_phone":     "(123) 456-7890",
		"contact_email":     "hello@bubblesrestaurant.com",
		"address_line1":     "123 Bubble Street",
		"address_line2":     "Foodie City, FC 12345",
		"restaurant_name":   "Bubbles",
		"restaurant_slogan": "Bringing you the best taste of Nigeria",
		"show_3d_pizza":     "true",
		"whatsapp_number":   "+2347012345678",
	}
}

// Store is the persistence surface the service needs. *store.SiteSettingStore
// satisfies it; tests substitute a fake.
type Store interface {
	All() (models.SiteSettings, error)
	Set(key, value string) error
}

// Service holds the in-memory settings map. Construct one explicitly and
// inject it; there is no package-level singleton.
type Service struct {
	store Store
	bus   *events.Bus

	mu       sync.RWMutex
	settings models.SiteSettings
}

// New creates a Service pre-filled with defaults. Call Load to pull remote
// values on startup.
func New(st Store, bus *events.Bus) *Service {
	return &Service{
		store:    st,
		bus:      bus,
		settings: Defaults(),
	}
}

// Load fetches all rows from the settings table and replaces the in-memory
// map with defaults merged under them. On fetch failure the map falls back
// to defaults wholesale — never a partial merge of a failed read.
func (s *Service) Load(ctx context.Context) error {
	remote, err := s.store.All()
	if err != nil {
		slog.Error("failed to load site settings, falling back to defaults", "error", err)
		s.mu.Lock()
		s.settings = Defaults()
		s.mu.Unlock()
		return err
	}

	merged := Defaults()
	for k, v := range remote {
		merged[k] = v
	}

	s.mu.Lock()
	s.settings = merged
	s.mu.Unlock()
	return nil
}

// Update writes one setting. Non-admin sessions are rejected before any
// store call. The new value is applied to the in-memory map immediately;
// if the upsert fails, Load re-runs so the map matches the source of truth
// again, and the store error is returned.
func (s *Service) Update(ctx context.Context, sess *session.Data, key, value string) error {
	if !sess.IsAdmin() {
		return ErrNotAdmin
	}

	// Optimistic local write.
	s.mu.Lock()
	s.settings[key] = value
	s.mu.Unlock()

	if err := s.store.Set(key, value); err != nil {
		slog.Error("site setting upsert failed, resyncing", "key", key, "error", err)
		s.Load(ctx)
		return err
	}

	if s.bus != nil {
		s.bus.Publish(events.Event{Type: events.SettingsChanged, Table: "site_settings"})
	}
	return nil
}

// Get returns the current value for a key, falling back to the given default.
func (s *Service) Get(key, fallback string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Get(key, fallback)
}

// All returns a copy of the current settings map.
func (s *Service) All() models.SiteSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone()
}
