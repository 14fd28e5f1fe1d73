package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"bubbles/internal/models"
)

// ListCategories returns the distinct categories currently on the menu.
// Categories have no table of their own — one exists exactly while at
// least one dish carries it.
func (a *Admin) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.dishes.Categories()
	if err != nil {
		slog.Error("category list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load categories.")
		return
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

type categoryRequest struct {
	Category string `json:"category"`
}

// AddCategory materializes a new category by inserting a placeholder dish
// into it, since an empty category cannot exist. The placeholder is meant
// to be edited into a real dish afterwards.
func (a *Admin) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		writeError(w, http.StatusBadRequest, "Category name is required.")
		return
	}
	if utf8.RuneCountInString(category) > maxCategoryLen {
		writeError(w, http.StatusBadRequest, "Category is too long (max 100 characters).")
		return
	}

	existing, err := a.dishes.CountByCategory(category)
	if err != nil {
		slog.Error("category count failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to add category.")
		return
	}
	if existing > 0 {
		writeError(w, http.StatusConflict, "That category already exists.")
		return
	}

	desc := fmt.Sprintf("Add description for this %s dish", category)
	dish, err := a.dishes.Create(&models.Dish{
		Name:        fmt.Sprintf("New %s", category),
		Description: &desc,
		Price:       0,
		Category:    category,
		Currency:    models.DefaultCurrency,
	})
	if err != nil {
		slog.Error("category placeholder create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to add category.")
		return
	}

	slog.Info("category added", "category", category, "placeholder", dish.ID)
	a.dishesChanged(r)
	writeJSON(w, http.StatusCreated, map[string]any{"category": category, "dish": dish})
}

// RemoveCategory deletes every dish in a category. Without ?confirm=true
// it only reports how many dishes would be removed, so the client can put
// the real number in its confirmation prompt.
func (a *Admin) RemoveCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		writeError(w, http.StatusBadRequest, "Category name is required.")
		return
	}

	count, err := a.dishes.CountByCategory(category)
	if err != nil {
		slog.Error("category count failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to remove category.")
		return
	}
	if count == 0 {
		writeError(w, http.StatusNotFound, "Category not found.")
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		writeJSON(w, http.StatusOK, map[string]any{
			"category":         category,
			"dish_count":       count,
			"requires_confirm": true,
		})
		return
	}

	deleted, err := a.dishes.DeleteByCategory(category)
	if err != nil {
		slog.Error("category delete failed", "category", category, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to remove category.")
		return
	}

	slog.Info("category removed", "category", category, "dishes_deleted", deleted)
	a.dishesChanged(r)
	writeJSON(w, http.StatusOK, map[string]any{"category": category, "dishes_deleted": deleted})
}
