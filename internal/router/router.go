// Package router wires handlers, guards, and middleware into the HTTP
// routing tree.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bubbles/internal/handlers"
	"bubbles/internal/middleware"
	"bubbles/internal/realtime"
	"bubbles/internal/session"
)

// Deps carries everything the router needs. Construction happens in main.
type Deps struct {
	Sessions *session.Store
	Auth     *handlers.Auth
	Public   *handlers.Public
	Admin    *handlers.Admin
	Hub      *realtime.Hub

	// ContactLimiter throttles the public contact form; LoginLimiter
	// throttles credential endpoints.
	ContactLimiter *middleware.RateLimiter
	LoginLimiter   *middleware.RateLimiter
}

// New builds the routing tree. Public endpoints are open; /api/admin sits
// behind the admin guard plus the 2FA gate.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Change-notification feed. Open to everyone; frames carry no row data.
	r.Get("/ws", d.Hub.HandleConnection)

	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", d.Public.Menu)
		r.Get("/menu/featured", d.Public.Featured)
		r.Get("/settings", d.Public.Settings)
		r.With(d.ContactLimiter.Middleware).Post("/contact", d.Public.Contact)
		r.Post("/order", d.Public.Order)

		r.Route("/auth", func(r chi.Router) {
			r.With(d.LoginLimiter.Middleware).Post("/signup", d.Auth.SignUp)
			r.With(d.LoginLimiter.Middleware).Post("/admin-signup", d.Auth.AdminSignUp)
			r.With(d.LoginLimiter.Middleware).Post("/login", d.Auth.SignIn)
			r.Post("/logout", d.Auth.SignOut)
			r.Get("/session", d.Auth.Session)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/password", d.Auth.UpdatePassword)
			})

			// 2FA endpoints need an admin session but NOT a completed 2FA
			// check — that's the whole point.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/2fa/setup", d.Auth.TwoFASetup)
				r.Post("/2fa/setup", d.Auth.TwoFASetup)
				r.Post("/2fa/verify", d.Auth.TwoFAVerify)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Use(middleware.Require2FA)

			r.Route("/dishes", func(r chi.Router) {
				r.Get("/", d.Admin.ListDishes)
				r.Post("/", d.Admin.CreateDish)
				r.Put("/{id}", d.Admin.UpdateDish)
				r.Delete("/{id}", d.Admin.DeleteDish)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", d.Admin.ListCategories)
				r.Post("/", d.Admin.AddCategory)
				r.Post("/remove", d.Admin.RemoveCategory)
			})

			r.Route("/messages", func(r chi.Router) {
				r.Get("/", d.Admin.ListMessages)
				r.Post("/{id}/read", d.Admin.MarkMessageRead)
				r.Post("/{id}/reply", d.Admin.ReplyMessage)
				r.Delete("/{id}", d.Admin.DeleteMessage)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", d.Admin.ListUsers)
				r.Post("/{id}/grant-admin", d.Admin.GrantAdmin)
				r.Post("/{id}/revoke-admin", d.Admin.RevokeAdmin)
				r.Delete("/{id}", d.Admin.DeleteUser)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", d.Admin.ListSettings)
				r.Put("/", d.Admin.UpdateSetting)
			})

			r.Post("/upload", d.Admin.UploadImage)
		})
	})

	return r
}
