package handlers

import (
	"strings"
	"testing"
)

func TestValidateContact(t *testing.T) {
	tests := []struct {
		name      string
		inName    string
		email     string
		body      string
		wantError bool
	}{
		{"valid", "Ada", "ada@example.com", "Hello!", false},
		{"empty name", "", "ada@example.com", "Hello!", true},
		{"whitespace name", "   ", "ada@example.com", "Hello!", true},
		{"name too long", strings.Repeat("a", 201), "ada@example.com", "Hello!", true},
		{"empty email", "Ada", "", "Hello!", true},
		{"invalid email", "Ada", "not-an-email", "Hello!", true},
		{"empty message", "Ada", "ada@example.com", "", true},
		{"message too long", "Ada", "ada@example.com", strings.Repeat("a", 5_001), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateContact(tt.inName, tt.email, tt.body)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		wantError bool
	}{
		{"valid", "ada@example.com", false},
		{"valid subdomain", "ada@mail.example.co.uk", false},
		{"empty", "", true},
		{"no at sign", "ada.example.com", true},
		{"at sign first", "@example.com", true},
		{"at sign last", "ada@", true},
		{"no dot in domain", "ada@localhost", true},
		{"too long", strings.Repeat("a", 321) + "@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateEmail(tt.email)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateDish(t *testing.T) {
	neg := -100.0
	disc := 50.0

	tests := []struct {
		name      string
		dishName  string
		category  string
		price     float64
		discount  *float64
		wantError bool
	}{
		{"valid", "Jollof Rice", "Rice", 3500, nil, false},
		{"valid with discount", "Jollof Rice", "Rice", 3500, &disc, false},
		{"free dish allowed", "Water", "Drinks", 0, nil, false},
		{"empty name", "", "Rice", 3500, nil, true},
		{"whitespace name", "  ", "Rice", 3500, nil, true},
		{"name too long", strings.Repeat("a", 201), "Rice", 3500, nil, true},
		{"empty category", "Jollof Rice", "", 3500, nil, true},
		{"category too long", "Jollof Rice", strings.Repeat("a", 101), 3500, nil, true},
		{"negative price", "Jollof Rice", "Rice", -1, nil, true},
		{"negative discount", "Jollof Rice", "Rice", 3500, &neg, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateDish(tt.dishName, tt.category, tt.price, tt.discount)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		password  string
		wantError bool
	}{
		{"valid", "ada@example.com", "long-enough", false},
		{"bad email", "nope", "long-enough", true},
		{"short password", "ada@example.com", "short", true},
		{"exactly minimum", "ada@example.com", "12345678", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateCredentials(tt.email, tt.password)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}
