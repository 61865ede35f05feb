package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Preferences are the dyslexia-friendly theme settings the customizer
// persists across sessions. They are read at render time and never
// validated, matching how the portal treats them.
type Preferences struct {
	BgColor     string `json:"bgColor"`
	TextColor   string `json:"textColor"`
	NavbarColor string `json:"navbarColor"`
	FontFamily  string `json:"fontFamily"`
	FontWeight  string `json:"fontWeight"`
	FontStyle   string `json:"fontStyle"`
}

// DefaultPreferences mirrors the portal's shipped theme.
func DefaultPreferences() Preferences {
	return Preferences{
		BgColor:     "#D8BFD8",
		TextColor:   "#000000",
		NavbarColor: "#ffffff",
		FontFamily:  "OpenDyslexic",
		FontWeight:  "normal",
		FontStyle:   "normal",
	}
}

// LoadPreferences reads persisted preferences; a missing or unreadable file
// yields the defaults.
func LoadPreferences(path string) Preferences {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultPreferences()
	}
	p := DefaultPreferences()
	if err := json.Unmarshal(data, &p); err != nil {
		return DefaultPreferences()
	}
	return p
}

// SavePreferences persists preferences for the next session.
func SavePreferences(path string, p Preferences) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}
