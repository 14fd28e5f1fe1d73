package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user and a handful of dishes so the menu is not empty. The admin
// will be prompted to set up 2FA on first login (totp_enabled = false).
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, "admin@bubbles.local", string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	dishes := []struct {
		name, description, category string
		price                       float64
		featured                    bool
	}{
		{"Jollof Rice", "Smoky party-style jollof with fried plantain", "Rice Dishes", 3500, true},
		{"Egusi Soup", "Melon seed soup with assorted meat, served with pounded yam", "Soups", 4200, true},
		{"Suya Platter", "Spicy grilled beef skewers with onions and yaji", "Grills", 3000, false},
		{"Moi Moi", "Steamed bean pudding with egg and fish", "Sides", 1500, false},
		{"Chapman", "House cocktail with grenadine, citrus and cucumber", "Drinks", 1200, false},
	}
	for _, d := range dishes {
		_, err = db.Exec(`
			INSERT INTO dishes (name, description, price, category, is_featured, currency)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, d.name, d.description, d.price, d.category, d.featured, "₦")
		if err != nil {
			return fmt.Errorf("seed insert dish %q: %w", d.name, err)
		}
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@bubbles.local",
		"password", "admin",
	)

	return nil
}
