package handlers

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"bubbles/internal/cache"
	"bubbles/internal/events"
	"bubbles/internal/models"
	"bubbles/internal/settings"
	"bubbles/internal/store"
	"bubbles/internal/whatsapp"
)

// Public serves the visitor-facing API: the menu, site settings, the
// contact form, and WhatsApp order hand-off. None of these require a
// session.
type Public struct {
	dishes   *store.DishStore
	messages *store.MessageStore
	settings *settings.Service
	menu     *cache.MenuCache
	bus      *events.Bus
}

// NewPublic creates the public handler group.
func NewPublic(dishes *store.DishStore, messages *store.MessageStore, st *settings.Service, menu *cache.MenuCache, bus *events.Bus) *Public {
	return &Public{
		dishes:   dishes,
		messages: messages,
		settings: st,
		menu:     menu,
		bus:      bus,
	}
}

// menuSection is one category block on the public menu page.
type menuSection struct {
	Category string        `json:"category"`
	Dishes   []models.Dish `json:"dishes"`
}

// Menu returns the full menu grouped by category, ordered alphabetically
// by category then dish name. Responses are cached in Valkey; the cache is
// invalidated whenever an admin changes a dish.
func (p *Public) Menu(w http.ResponseWriter, r *http.Request) {
	if p.menu != nil {
		if payload, ok := p.menu.Get(r.Context(), cache.MenuKeyFull); ok {
			writeRawJSON(w, payload)
			return
		}
	}

	dishes, err := p.dishes.ListForMenu()
	if err != nil {
		slog.Error("menu list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load menu.")
		return
	}

	var sections []menuSection
	for _, d := range dishes {
		if len(sections) == 0 || sections[len(sections)-1].Category != d.Category {
			sections = append(sections, menuSection{Category: d.Category})
		}
		last := &sections[len(sections)-1]
		last.Dishes = append(last.Dishes, d)
	}
	if sections == nil {
		sections = []menuSection{}
	}

	payload, err := json.Marshal(map[string]any{"menu": sections})
	if err != nil {
		slog.Error("menu marshal failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load menu.")
		return
	}

	if p.menu != nil {
		p.menu.Set(r.Context(), cache.MenuKeyFull, payload)
	}
	writeRawJSON(w, payload)
}

// Featured returns the dishes flagged for the landing page banner.
func (p *Public) Featured(w http.ResponseWriter, r *http.Request) {
	if p.menu != nil {
		if payload, ok := p.menu.Get(r.Context(), cache.MenuKeyFeatured); ok {
			writeRawJSON(w, payload)
			return
		}
	}

	dishes, err := p.dishes.Featured()
	if err != nil {
		slog.Error("featured list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load featured dishes.")
		return
	}
	if dishes == nil {
		dishes = []models.Dish{}
	}

	payload, err := json.Marshal(map[string]any{"dishes": dishes})
	if err != nil {
		slog.Error("featured marshal failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load featured dishes.")
		return
	}

	if p.menu != nil {
		p.menu.Set(r.Context(), cache.MenuKeyFeatured, payload)
	}
	writeRawJSON(w, payload)
}

// Settings exposes the site settings map the SPA renders into the layout
// (contact info, hero image, slogan). Defaults fill any missing keys, so
// the payload always carries the full key set.
func (p *Public) Settings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"settings": p.settings.All()})
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Contact accepts a message from the public contact form.
func (p *Public) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if msg := validateContact(req.Name, req.Email, req.Message); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	m, err := p.messages.Create(strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), strings.TrimSpace(req.Message))
	if err != nil {
		slog.Error("contact message create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to send message. Please try again.")
		return
	}

	slog.Info("contact message received", "id", m.ID, "email", m.Email)
	if p.bus != nil {
		p.bus.Publish(events.Event{Type: events.MessageReceived, Table: "messages"})
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": m.ID})
}

type orderItem struct {
	DishID   uuid.UUID `json:"dish_id"`
	Quantity int       `json:"quantity"`
}

type orderRequest struct {
	CustomerName string      `json:"customer_name"`
	Address      string      `json:"address"`
	Notes        string      `json:"notes"`
	Items        []orderItem `json:"items"`
}

// Order validates the cart against the live menu, totals it server-side,
// and returns the pre-filled WhatsApp deep link plus a scan-to-order QR
// code. Nothing is persisted — the chat is the order channel.
func (p *Public) Order(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		writeError(w, http.StatusBadRequest, "Customer name is required.")
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		writeError(w, http.StatusBadRequest, "Delivery address is required.")
		return
	}
	if utf8.RuneCountInString(req.Address) > maxAddressLen {
		writeError(w, http.StatusBadRequest, "Address is too long.")
		return
	}
	if utf8.RuneCountInString(req.Notes) > maxNotesLen {
		writeError(w, http.StatusBadRequest, "Notes are too long.")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "Your cart is empty.")
		return
	}

	order := whatsapp.Order{
		Customer: strings.TrimSpace(req.CustomerName),
		Address:  strings.TrimSpace(req.Address),
		Notes:    strings.TrimSpace(req.Notes),
	}

	for _, item := range req.Items {
		if item.Quantity < 1 {
			writeError(w, http.StatusBadRequest, "Item quantities must be at least 1.")
			return
		}

		dish, err := p.dishes.FindByID(item.DishID)
		if err != nil {
			slog.Error("order dish lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to place order.")
			return
		}
		if dish == nil {
			writeError(w, http.StatusBadRequest, "One of the dishes in your cart is no longer on the menu.")
			return
		}

		// Prices come from the database, never from the client.
		subtotal := dish.EffectivePrice() * float64(item.Quantity)
		order.Lines = append(order.Lines, whatsapp.OrderLine{
			Quantity: item.Quantity,
			Name:     dish.Name,
			Subtotal: subtotal,
			Currency: dish.Currency,
		})
		order.Total += subtotal
		if order.Currency == "" {
			order.Currency = dish.Currency
		}
	}

	number := p.settings.Get("whatsapp_number", settings.Defaults()["whatsapp_number"])
	link := whatsapp.OrderLink(number, order)

	qrPNG, err := whatsapp.QR(link, 256)
	if err != nil {
		slog.Error("order qr generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to place order.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"link":    link,
		"message": whatsapp.OrderMessage(order),
		"total":   order.Total,
		"qr_code": base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// writeRawJSON sends a pre-marshaled JSON payload (from the cache path).
func writeRawJSON(w http.ResponseWriter, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		slog.Error("write cached response", "error", err)
	}
}
