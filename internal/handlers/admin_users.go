package handlers

import (
	"log/slog"
	"net/http"

	"bubbles/internal/middleware"
	"bubbles/internal/models"
)

// ListUsers returns all accounts for the back-office user table.
func (a *Admin) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List()
	if err != nil {
		slog.Error("user list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load users.")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// GrantAdmin promotes a user to the admin role.
func (a *Admin) GrantAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	user, err := a.users.FindByID(id)
	if err != nil {
		slog.Error("user lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update user.")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found.")
		return
	}

	if err := a.users.SetRole(id, models.RoleAdmin); err != nil {
		slog.Error("grant admin failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update user.")
		return
	}

	slog.Info("admin role granted", "user", user.Email)
	writeOK(w)
}

// RevokeAdmin demotes an admin back to customer. The last admin and your
// own account are protected so the back office cannot lock itself out.
func (a *Admin) RevokeAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	if sess.UserID == id {
		writeError(w, http.StatusConflict, "You cannot revoke your own admin role.")
		return
	}

	user, err := a.users.FindByID(id)
	if err != nil {
		slog.Error("user lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update user.")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found.")
		return
	}

	if user.IsAdmin() {
		admins, err := a.users.CountAdmins()
		if err != nil {
			slog.Error("admin count failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to update user.")
			return
		}
		if admins <= 1 {
			writeError(w, http.StatusConflict, "At least one admin account must remain.")
			return
		}
	}

	if err := a.users.SetRole(id, models.RoleCustomer); err != nil {
		slog.Error("revoke admin failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update user.")
		return
	}

	slog.Info("admin role revoked", "user", user.Email)
	writeOK(w)
}

// DeleteUser removes an account. Deleting your own account is rejected.
func (a *Admin) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	if sess.UserID == id {
		writeError(w, http.StatusConflict, "You cannot delete your own account.")
		return
	}

	user, err := a.users.FindByID(id)
	if err != nil {
		slog.Error("user lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete user.")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found.")
		return
	}

	if user.IsAdmin() {
		admins, err := a.users.CountAdmins()
		if err != nil {
			slog.Error("admin count failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to delete user.")
			return
		}
		if admins <= 1 {
			writeError(w, http.StatusConflict, "At least one admin account must remain.")
			return
		}
	}

	if err := a.users.Delete(id); err != nil {
		slog.Error("user delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete user.")
		return
	}

	slog.Info("user deleted", "user", user.Email)
	writeOK(w)
}
