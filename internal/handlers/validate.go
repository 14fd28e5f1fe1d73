package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for form fields.
const (
	maxNameLen     = 200
	maxEmailLen    = 320
	maxMessageLen  = 5_000
	maxCategoryLen = 100
	maxDishNameLen = 200
	maxDescLen     = 2_000
	maxAddressLen  = 500
	maxNotesLen    = 1_000
	minPasswordLen = 8
)

// validateContact checks contact form inputs and returns the first error found.
func validateContact(name, email, body string) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	if msg := validateEmail(email); msg != "" {
		return msg
	}
	if strings.TrimSpace(body) == "" {
		return "Message is required."
	}
	if utf8.RuneCountInString(body) > maxMessageLen {
		return "Message is too long (max 5,000 characters)."
	}
	return ""
}

// validateEmail performs a shape check, not deliverability verification.
func validateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required."
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return "Email is too long."
	}
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 || !strings.Contains(email[at+1:], ".") {
		return "Email address looks invalid."
	}
	return ""
}

// validateDish checks dish form inputs and returns the first error found.
func validateDish(name, category string, price float64, discountPrice *float64) string {
	if strings.TrimSpace(name) == "" {
		return "Dish name is required."
	}
	if utf8.RuneCountInString(name) > maxDishNameLen {
		return "Dish name is too long (max 200 characters)."
	}
	if strings.TrimSpace(category) == "" {
		return "Category is required."
	}
	if utf8.RuneCountInString(category) > maxCategoryLen {
		return "Category is too long (max 100 characters)."
	}
	if price < 0 {
		return "Price cannot be negative."
	}
	if discountPrice != nil && *discountPrice < 0 {
		return "Discount price cannot be negative."
	}
	return ""
}

// validateCredentials checks sign-up inputs and returns the first error found.
func validateCredentials(email, password string) string {
	if msg := validateEmail(email); msg != "" {
		return msg
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Password must be at least 8 characters."
	}
	return ""
}
