package models

import (
	"strings"
	"time"
)

// SettingKind tags a site setting with the kind of value it holds. The kind
// is inferred from the key at write time and is informational only — values
// are stored and served as strings regardless.
type SettingKind string

const (
	SettingText    SettingKind = "text"
	SettingEmail   SettingKind = "email"
	SettingImage   SettingKind = "image"
	SettingBoolean SettingKind = "boolean"
	SettingPhone   SettingKind = "phone"
)

// InferSettingKind derives a setting's kind from substrings of its key.
// Checked in order: image, email, phone, boolean, then text as the default.
func InferSettingKind(key string) SettingKind {
	switch {
	case strings.Contains(key, "_url") || strings.Contains(key, "image"):
		return SettingImage
	case strings.Contains(key, "email"):
		return SettingEmail
	case strings.Contains(key, "phone") || strings.Contains(key, "number") || strings.Contains(key, "whatsapp"):
		return SettingPhone
	case strings.Contains(key, "show_") || strings.Contains(key, "enable_") || strings.Contains(key, "_enabled"):
		return SettingBoolean
	default:
		return SettingText
	}
}

// SiteSetting represents a single configuration key-value pair.
type SiteSetting struct {
	Key       string      `json:"key"`
	Value     string      `json:"value"`
	Kind      SettingKind `json:"kind"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// SiteSettings is a convenience map for accessing settings by key.
type SiteSettings map[string]string

// Get returns the value for a key, or the fallback if the key doesn't exist.
func (s SiteSettings) Get(key, fallback string) string {
	if v, ok := s[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Clone returns an independent copy of the settings map.
func (s SiteSettings) Clone() SiteSettings {
	out := make(SiteSettings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
