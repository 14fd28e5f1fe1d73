package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"bubbles/internal/cache"
	"bubbles/internal/events"
	"bubbles/internal/settings"
	"bubbles/internal/storage"
	"bubbles/internal/store"
)

// Admin serves the back-office API. Every route in this group sits behind
// the admin guard, so handlers can assume an admin session is present.
type Admin struct {
	users    *store.UserStore
	dishes   *store.DishStore
	messages *store.MessageStore
	settings *settings.Service
	storage  *storage.Client
	menu     *cache.MenuCache
	bus      *events.Bus
}

// NewAdmin creates the admin handler group.
func NewAdmin(
	users *store.UserStore,
	dishes *store.DishStore,
	messages *store.MessageStore,
	st *settings.Service,
	storageClient *storage.Client,
	menu *cache.MenuCache,
	bus *events.Bus,
) *Admin {
	return &Admin{
		users:    users,
		dishes:   dishes,
		messages: messages,
		settings: st,
		storage:  storageClient,
		menu:     menu,
		bus:      bus,
	}
}

// idParam parses the {id} URL parameter as a UUID. Responds 400 and
// returns false when it is malformed.
func idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID.")
		return uuid.Nil, false
	}
	return id, true
}

// dishesChanged publishes a dish change event and drops the cached menu.
// Every mutation on dishes funnels through here so subscribed browsers
// refetch and the public menu never serves stale data.
func (a *Admin) dishesChanged(r *http.Request) {
	if a.menu != nil {
		a.menu.Invalidate(r.Context())
	}
	if a.bus != nil {
		a.bus.Publish(events.Event{Type: events.DishesChanged, Table: "dishes"})
	}
	slog.Debug("dishes changed", "path", r.URL.Path)
}
