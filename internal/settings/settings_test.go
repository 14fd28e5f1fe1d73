package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"bubbles/internal/events"
	"bubbles/internal/models"
	"bubbles/internal/session"
)

// fakeStore is an in-memory Store implementation with switchable failure
// modes for the fetch and upsert paths.
type fakeStore struct {
	data    models.SiteSettings
	allErr  error
	setErr  error
	setKeys []string
}

func (f *fakeStore) All() (models.SiteSettings, error) {
	if f.allErr != nil {
		return nil, f.allErr
	}
	return f.data.Clone(), nil
}

func (f *fakeStore) Set(key, value string) error {
	f.setKeys = append(f.setKeys, key)
	if f.setErr != nil {
		return f.setErr
	}
	if f.data == nil {
		f.data = models.SiteSettings{}
	}
	f.data[key] = value
	return nil
}

func adminSession() *session.Data {
	return &session.Data{UserID: uuid.New(), Email: "admin@bubbles.local", Role: string(models.RoleAdmin)}
}

func customerSession() *session.Data {
	return &session.Data{UserID: uuid.New(), Email: "user@bubbles.local", Role: string(models.RoleCustomer)}
}

func TestLoadMergesRemoteOverDefaults(t *testing.T) {
	st := &fakeStore{data: models.SiteSettings{
		"restaurant_name": "Bubbles Lagos",
		"custom_key":      "custom",
	}}
	svc := New(st, nil)

	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Remote value wins over the default.
	if got := svc.Get("restaurant_name", ""); got != "Bubbles Lagos" {
		t.Errorf("restaurant_name: got %q, want %q", got, "Bubbles Lagos")
	}
	// Keys absent remotely keep their defaults.
	if got := svc.Get("whatsapp_number", ""); got != Defaults()["whatsapp_number"] {
		t.Errorf("whatsapp_number: got %q, want default", got)
	}
	// Remote-only keys survive the merge.
	if got := svc.Get("custom_key", ""); got != "custom" {
		t.Errorf("custom_key: got %q, want %q", got, "custom")
	}
}

func TestLoadFallsBackToDefaultsOnFetchFailure(t *testing.T) {
	st := &fakeStore{data: models.SiteSettings{"restaurant_name": "Remote"}}
	svc := New(st, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Break the fetch and reload: the map must be defaults wholesale, not a
	// partial merge with the previously loaded values.
	st.allErr = errors.New("connection refused")
	if err := svc.Load(context.Background()); err == nil {
		t.Fatal("expected an error from the failed fetch")
	}

	if got := svc.Get("restaurant_name", ""); got != Defaults()["restaurant_name"] {
		t.Errorf("restaurant_name after failed load: got %q, want default", got)
	}
}

func TestUpdateRejectsNonAdminBeforeStoreCall(t *testing.T) {
	st := &fakeStore{}
	svc := New(st, nil)

	err := svc.Update(context.Background(), customerSession(), "restaurant_name", "Hacked")
	if !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
	if len(st.setKeys) != 0 {
		t.Error("store should not have been called for a non-admin update")
	}
	if got := svc.Get("restaurant_name", ""); got != Defaults()["restaurant_name"] {
		t.Errorf("value should be unchanged, got %q", got)
	}

	// A nil session (unauthenticated) is rejected the same way.
	if err := svc.Update(context.Background(), nil, "restaurant_name", "x"); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin for nil session, got %v", err)
	}
}

func TestUpdateWritesOptimistically(t *testing.T) {
	st := &fakeStore{}
	svc := New(st, nil)

	if err := svc.Update(context.Background(), adminSession(), "restaurant_slogan", "New slogan"); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if got := svc.Get("restaurant_slogan", ""); got != "New slogan" {
		t.Errorf("in-memory value: got %q, want %q", got, "New slogan")
	}
	if got := st.data["restaurant_slogan"]; got != "New slogan" {
		t.Errorf("persisted value: got %q, want %q", got, "New slogan")
	}
}

func TestUpdateResyncsOnUpsertFailure(t *testing.T) {
	st := &fakeStore{data: models.SiteSettings{"restaurant_name": "Persisted"}}
	svc := New(st, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	st.setErr = errors.New("write failed")
	err := svc.Update(context.Background(), adminSession(), "restaurant_name", "Optimistic")
	if err == nil {
		t.Fatal("expected the store error to surface")
	}

	// The optimistic value must have been discarded by the resync.
	if got := svc.Get("restaurant_name", ""); got != "Persisted" {
		t.Errorf("after failed upsert: got %q, want %q", got, "Persisted")
	}
}

func TestUpdatePublishesSettingsChanged(t *testing.T) {
	bus := events.NewBus()
	var got []events.Event
	done := make(chan struct{})
	bus.Subscribe(func(e events.Event) {
		got = append(got, e)
		close(done)
	}, events.SettingsChanged)

	svc := New(&fakeStore{}, bus)
	if err := svc.Update(context.Background(), adminSession(), "restaurant_name", "Bubbles"); err != nil {
		t.Fatalf("Update: %v", err)
	}

	<-done
	if len(got) != 1 || got[0].Type != events.SettingsChanged {
		t.Fatalf("expected one SettingsChanged event, got %+v", got)
	}
	if got[0].Table != "site_settings" {
		t.Errorf("event table: got %q, want %q", got[0].Table, "site_settings")
	}
}

func TestAllReturnsACopy(t *testing.T) {
	svc := New(&fakeStore{}, nil)
	all := svc.All()
	all["restaurant_name"] = "Mutated"

	if got := svc.Get("restaurant_name", ""); got == "Mutated" {
		t.Error("mutating the returned map changed the service state")
	}
}
