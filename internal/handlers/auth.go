package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"bubbles/internal/middleware"
	"bubbles/internal/models"
	"bubbles/internal/session"
	"bubbles/internal/store"
)

// totpIssuer is the issuer label shown in authenticator apps.
const totpIssuer = "Bubbles"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions *session.Store
	users    *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, users *store.UserStore) *Auth {
	return &Auth{
		sessions: sessions,
		users:    users,
	}
}

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// sessionResponse is what the SPA receives after any auth operation.
type sessionResponse struct {
	User          *models.User `json:"user"`
	IsAdmin       bool         `json:"is_admin"`
	TwoFADone     bool         `json:"two_fa_done"`
	Needs2FASetup bool         `json:"needs_2fa_setup"`
}

// SignUp registers a customer account and opens a session.
func (a *Auth) SignUp(w http.ResponseWriter, r *http.Request) {
	a.signUp(w, r, models.RoleCustomer)
}

// AdminSignUp registers an admin account. It is open only while no admin
// exists (first-run bootstrap); afterwards it requires an admin session.
func (a *Auth) AdminSignUp(w http.ResponseWriter, r *http.Request) {
	admins, err := a.users.CountAdmins()
	if err != nil {
		slog.Error("admin signup count failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if admins > 0 {
		sess := middleware.SessionFromCtx(r.Context())
		if !sess.IsAdmin() {
			writeError(w, http.StatusForbidden, "Admin sign-up requires an existing admin.")
			return
		}
	}
	a.signUp(w, r, models.RoleAdmin)
}

func (a *Auth) signUp(w http.ResponseWriter, r *http.Request, role models.Role) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if msg := validateCredentials(req.Email, req.Password); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := a.users.FindByEmail(req.Email)
	if err != nil {
		slog.Error("signup lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "An account with that email already exists.")
		return
	}

	user, err := a.users.Create(req.Email, req.Password, req.DisplayName, role)
	if err != nil {
		slog.Error("signup create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create account.")
		return
	}

	a.openSession(w, r, user)
}

// SignIn processes a login request for customers and admins alike.
func (a *Auth) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.users.FindByEmail(req.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	if user == nil || !a.users.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	a.openSession(w, r, user)
}

// openSession creates the server-side session and writes the session
// response. Admins start with TwoFADone=false and must verify a TOTP code
// before the back office opens; customers skip 2FA entirely.
func (a *Auth) openSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	twoFADone := !user.IsAdmin()

	_, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		TwoFADone:   twoFADone,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to start session.")
		return
	}

	slog.Info("user signed in", "email", user.Email, "role", user.Role)
	writeJSON(w, http.StatusOK, sessionResponse{
		User:          user,
		IsAdmin:       user.IsAdmin(),
		TwoFADone:     twoFADone,
		Needs2FASetup: user.Needs2FASetup(),
	})
}

// SignOut destroys the session.
func (a *Auth) SignOut(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	a.sessions.Destroy(r.Context(), w, r)
	if sess != nil {
		slog.Info("user signed out", "email", sess.Email)
	}
	writeOK(w)
}

// Session returns the current authenticated user, or null for visitors.
// The SPA calls this once on mount to settle its loading state.
func (a *Auth) Session(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeJSON(w, http.StatusOK, sessionResponse{})
		return
	}

	user, err := a.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		// Session points at a deleted user; treat as signed out.
		a.sessions.Destroy(r.Context(), w, r)
		writeJSON(w, http.StatusOK, sessionResponse{})
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		User:          user,
		IsAdmin:       user.IsAdmin(),
		TwoFADone:     sess.TwoFADone,
		Needs2FASetup: user.Needs2FASetup(),
	})
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdatePassword changes the authenticated user's password after
// re-checking the current one.
func (a *Auth) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req passwordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	if !a.users.CheckPassword(user, req.CurrentPassword) {
		writeError(w, http.StatusUnauthorized, "Current password is incorrect.")
		return
	}

	if msg := validateCredentials(user.Email, req.NewPassword); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := a.users.UpdatePassword(user.ID, req.NewPassword); err != nil {
		slog.Error("password update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update password.")
		return
	}

	slog.Info("user updated profile", "email", user.Email)
	writeOK(w)
}

// TwoFASetup generates a fresh TOTP secret for the logged-in admin and
// returns it with an enrollment QR code (base64 PNG).
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if !sess.IsAdmin() {
		writeError(w, http.StatusForbidden, "Two-factor setup is for admin accounts.")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate 2FA secret.")
		return
	}

	if err := a.users.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save 2FA secret.")
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to render QR code.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret":  key.Secret(),
		"qr_code": base64.StdEncoding.EncodeToString(qrPNG),
	})
}

type twoFAVerifyRequest struct {
	Code string `json:"code"`
}

// TwoFAVerify validates a TOTP code and completes admin authentication.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req twoFAVerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	if user.TOTPSecret == nil {
		writeError(w, http.StatusConflict, "Two-factor authentication has not been set up yet.")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		writeError(w, http.StatusUnauthorized, "Invalid code. Please try again.")
		return
	}

	// First-time setup: persist the enabled flag.
	if !user.TOTPEnabled {
		if err := a.users.EnableTOTP(user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to enable 2FA.")
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update session.")
		return
	}

	writeOK(w)
}
