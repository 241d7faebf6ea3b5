package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
)

// CurrentSchemaVersion is the current config schema version.
const CurrentSchemaVersion = 1

// Environment variable names for config overrides.
// Priority: Environment > Config File > Default
const (
	EnvPort              = "EVENTPIN_PORT"
	EnvLanEnabled        = "EVENTPIN_LAN_ENABLED"
	EnvCorsOrigins       = "EVENTPIN_CORS_ORIGINS"
	EnvOrganizerWhatsApp = "EVENTPIN_ORGANIZER_WHATSAPP"
	EnvSupportEmail      = "EVENTPIN_SUPPORT_EMAIL"
	EnvWhatsAppEnabled   = "EVENTPIN_WHATSAPP_ENABLED"
	EnvMapEnabled        = "EVENTPIN_MAP_ENABLED"
)

// Config holds non-sensitive application configuration.
type Config struct {
	SchemaVersion int `json:"schema_version"`
	Port          int `json:"port"`
	// LanEnabled controls whether the server binds beyond loopback.
	LanEnabled  bool     `json:"lan_enabled"`
	CorsOrigins []string `json:"cors_origins"`
	// OrganizerWhatsApp is the phone number registration deep links open a
	// chat with. Empty disables the WhatsApp registration method.
	OrganizerWhatsApp string `json:"organizer_whatsapp"`
	SupportEmail      string `json:"support_email"`
	// WhatsAppEnabled turns on the outbound WhatsApp sender (requires a
	// linked session).
	WhatsAppEnabled bool `json:"whatsapp_enabled"`
	// MapEnabled turns on the headless map renderer.
	MapEnabled bool `json:"map_enabled"`
	// MaintenanceSchedule is a cron expression for periodic store upkeep.
	MaintenanceSchedule string `json:"maintenance_schedule"`
	// MapRefreshSchedule is a cron expression for reloading the map page.
	MapRefreshSchedule string `json:"map_refresh_schedule"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SchemaVersion:       CurrentSchemaVersion,
		Port:                8090,
		LanEnabled:          false,
		CorsOrigins:         nil,
		OrganizerWhatsApp:   "",
		SupportEmail:        "",
		WhatsAppEnabled:     false,
		MapEnabled:          false,
		MaintenanceSchedule: "0 4 * * *",
		MapRefreshSchedule:  "*/30 * * * *",
	}
}

// LoadConfig reads config from disk. If the file doesn't exist or is corrupt,
// it returns DefaultConfig with a warning logged (non-fatal).
func LoadConfig() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}

	return LoadConfigFrom(path)
}

// LoadConfigFrom reads config from the specified path.
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// File doesn't exist, use defaults (not an error)
			return cfg, nil
		}
		log.Printf("Warning: failed to read config file: %v, using defaults", err)
		return cfg, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&cfg); err != nil {
		log.Printf("Warning: config file is corrupt: %v, using defaults", err)
		return DefaultConfig(), nil
	}

	if cfg.SchemaVersion != CurrentSchemaVersion {
		log.Printf("Warning: config schema version mismatch (got %d, expected %d), using defaults",
			cfg.SchemaVersion, CurrentSchemaVersion)
		return DefaultConfig(), nil
	}

	cfg = normalizeConfig(cfg)

	return cfg, nil
}

// normalizeConfig validates and normalizes config values.
func normalizeConfig(cfg Config) Config {
	defaults := DefaultConfig()

	cfg.SchemaVersion = CurrentSchemaVersion

	if cfg.Port <= 0 || cfg.Port > 65535 {
		cfg.Port = defaults.Port
	}

	if strings.TrimSpace(cfg.MaintenanceSchedule) == "" {
		cfg.MaintenanceSchedule = defaults.MaintenanceSchedule
	}
	if strings.TrimSpace(cfg.MapRefreshSchedule) == "" {
		cfg.MapRefreshSchedule = defaults.MapRefreshSchedule
	}

	return cfg
}

// SaveConfig writes config to disk atomically.
func SaveConfig(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	return SaveConfigTo(cfg, path)
}

// SaveConfigTo writes config to the specified path atomically.
func SaveConfigTo(cfg Config, path string) error {
	cfg.SchemaVersion = CurrentSchemaVersion

	return writeJSONAtomic(path, cfg)
}

// ApplyEnvOverrides applies environment variable overrides to the config.
// Environment variables take highest priority over config file values.
func ApplyEnvOverrides(cfg Config) Config {
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 && port <= 65535 {
			cfg.Port = port
		}
	}

	if v := os.Getenv(EnvLanEnabled); v != "" {
		cfg.LanEnabled = parseBool(v)
	}

	if v := os.Getenv(EnvCorsOrigins); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CorsOrigins = origins
	}

	if v := os.Getenv(EnvOrganizerWhatsApp); v != "" {
		cfg.OrganizerWhatsApp = v
	}

	if v := os.Getenv(EnvSupportEmail); v != "" {
		cfg.SupportEmail = v
	}

	if v := os.Getenv(EnvWhatsAppEnabled); v != "" {
		cfg.WhatsAppEnabled = parseBool(v)
	}

	if v := os.Getenv(EnvMapEnabled); v != "" {
		cfg.MapEnabled = parseBool(v)
	}

	return cfg
}

// parseBool parses a boolean from various string representations.
// Accepts: "true", "1", "yes", "on" (case-insensitive) as true.
// All other values are treated as false.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
