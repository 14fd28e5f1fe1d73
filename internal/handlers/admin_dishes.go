package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"bubbles/internal/models"
)

type dishRequest struct {
	Name          string   `json:"name"`
	Description   *string  `json:"description"`
	Price         float64  `json:"price"`
	ImageURL      *string  `json:"image_url"`
	Category      string   `json:"category"`
	IsFeatured    bool     `json:"is_featured"`
	DiscountPrice *float64 `json:"discount_price"`
	Currency      string   `json:"currency"`
}

// ListDishes returns dishes for the back-office table, newest-first,
// optionally filtered by ?category=.
func (a *Admin) ListDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := a.dishes.List(r.URL.Query().Get("category"))
	if err != nil {
		slog.Error("admin dish list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load dishes.")
		return
	}
	if dishes == nil {
		dishes = []models.Dish{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"dishes": dishes})
}

// CreateDish adds a new dish to the menu.
func (a *Admin) CreateDish(w http.ResponseWriter, r *http.Request) {
	var req dishRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if msg := validateDish(req.Name, req.Category, req.Price, req.DiscountPrice); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	dish, err := a.dishes.Create(&models.Dish{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Price:         req.Price,
		ImageURL:      req.ImageURL,
		Category:      strings.TrimSpace(req.Category),
		IsFeatured:    req.IsFeatured,
		DiscountPrice: req.DiscountPrice,
		Currency:      req.Currency,
	})
	if err != nil {
		slog.Error("dish create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create dish.")
		return
	}

	slog.Info("dish created", "id", dish.ID, "name", dish.Name, "category", dish.Category)
	a.dishesChanged(r)
	writeJSON(w, http.StatusCreated, map[string]any{"dish": dish})
}

// UpdateDish modifies an existing dish.
func (a *Admin) UpdateDish(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req dishRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if msg := validateDish(req.Name, req.Category, req.Price, req.DiscountPrice); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	dish, err := a.dishes.FindByID(id)
	if err != nil {
		slog.Error("dish lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update dish.")
		return
	}
	if dish == nil {
		writeError(w, http.StatusNotFound, "Dish not found.")
		return
	}

	oldImageURL := dish.ImageURL

	dish.Name = strings.TrimSpace(req.Name)
	dish.Description = req.Description
	dish.Price = req.Price
	dish.ImageURL = req.ImageURL
	dish.Category = strings.TrimSpace(req.Category)
	dish.IsFeatured = req.IsFeatured
	dish.DiscountPrice = req.DiscountPrice
	if req.Currency != "" {
		dish.Currency = req.Currency
	}

	if err := a.dishes.Update(dish); err != nil {
		slog.Error("dish update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update dish.")
		return
	}

	// A replaced image leaves its predecessor orphaned in the bucket.
	a.cleanupReplacedImage(r, oldImageURL, dish.ImageURL)

	a.dishesChanged(r)
	writeJSON(w, http.StatusOK, map[string]any{"dish": dish})
}

// cleanupReplacedImage removes the previous stored image when an update
// swapped it for a different URL. External URLs are left alone.
func (a *Admin) cleanupReplacedImage(r *http.Request, oldURL, newURL *string) {
	if a.storage == nil || oldURL == nil {
		return
	}
	if newURL != nil && *newURL == *oldURL {
		return
	}
	if key, ok := a.storage.ExtractKey(*oldURL); ok {
		if err := a.storage.Delete(r.Context(), key); err != nil {
			slog.Warn("replaced image cleanup failed", "key", key, "error", err)
		}
	}
}

// DeleteDish removes a dish, cleaning up its stored image when it lives
// in our bucket.
func (a *Admin) DeleteDish(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	dish, err := a.dishes.FindByID(id)
	if err != nil {
		slog.Error("dish lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete dish.")
		return
	}
	if dish == nil {
		writeError(w, http.StatusNotFound, "Dish not found.")
		return
	}

	if err := a.dishes.Delete(id); err != nil {
		slog.Error("dish delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete dish.")
		return
	}

	// Best-effort image cleanup; the dish row is already gone.
	if a.storage != nil && dish.ImageURL != nil {
		if key, ok := a.storage.ExtractKey(*dish.ImageURL); ok {
			if err := a.storage.Delete(r.Context(), key); err != nil {
				slog.Warn("dish image cleanup failed", "key", key, "error", err)
			}
		}
	}

	slog.Info("dish deleted", "id", id, "name", dish.Name)
	a.dishesChanged(r)
	writeOK(w)
}
