package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"bubbles/internal/middleware"
	"bubbles/internal/models"
	"bubbles/internal/settings"
)

// settingEntry pairs a key with its value and inferred kind, so the
// back-office form can pick the right input widget per row.
type settingEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Kind  string `json:"kind"`
}

// ListSettings returns every site setting with its inferred kind.
func (a *Admin) ListSettings(w http.ResponseWriter, r *http.Request) {
	all := a.settings.All()

	entries := make([]settingEntry, 0, len(all))
	for key, value := range all {
		entries = append(entries, settingEntry{
			Key:   key,
			Value: value,
			Kind:  string(models.InferSettingKind(key)),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"settings": entries})
}

type settingUpdateRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// UpdateSetting writes one site setting through the settings service.
func (a *Admin) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	var req settingUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	key := strings.TrimSpace(req.Key)
	if key == "" {
		writeError(w, http.StatusBadRequest, "Setting key is required.")
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	if err := a.settings.Update(r.Context(), sess, key, req.Value); err != nil {
		if errors.Is(err, settings.ErrNotAdmin) {
			writeError(w, http.StatusForbidden, "Only admins can update site settings.")
			return
		}
		slog.Error("setting update failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save setting. The previous value has been restored.")
		return
	}

	slog.Info("site setting updated", "key", key, "admin", sess.Email)
	writeJSON(w, http.StatusOK, map[string]any{
		"key":   key,
		"value": a.settings.Get(key, ""),
		"kind":  string(models.InferSettingKind(key)),
	})
}
