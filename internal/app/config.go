package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/adityar/eventpin/internal/config"
)

// ConfigUsecase defines the configuration management use case.
type ConfigUsecase interface {
	// GetConfig returns the current configuration.
	GetConfig(ctx context.Context) ConfigResponse

	// UpdateConfig updates the configuration with the given changes.
	// Returns the result indicating success and whether restart is required.
	UpdateConfig(ctx context.Context, req ConfigUpdateRequest) (ConfigUpdateResponse, error)
}

// ConfigResponse represents the current configuration (excludes secret values).
type ConfigResponse struct {
	Port              int      `json:"port"`
	LanEnabled        bool     `json:"lan_enabled"`
	CorsOrigins       []string `json:"cors_origins"`
	OrganizerWhatsApp string   `json:"organizer_whatsapp"`
	SupportEmail      string   `json:"support_email"`
	WhatsAppEnabled   bool     `json:"whatsapp_enabled"`
	MapEnabled        bool     `json:"map_enabled"`
}

// ConfigUpdateRequest contains optional fields for updating configuration.
type ConfigUpdateRequest struct {
	Port              *int      `json:"port,omitempty"`
	LanEnabled        *bool     `json:"lan_enabled,omitempty"`
	CorsOrigins       *[]string `json:"cors_origins,omitempty"`
	OrganizerWhatsApp *string   `json:"organizer_whatsapp,omitempty"`
	SupportEmail      *string   `json:"support_email,omitempty"`
	WhatsAppEnabled   *bool     `json:"whatsapp_enabled,omitempty"`
	MapEnabled        *bool     `json:"map_enabled,omitempty"`
}

// ConfigUpdateResponse indicates the result of a configuration update.
type ConfigUpdateResponse struct {
	Success         bool `json:"success"`
	RestartRequired bool `json:"restart_required"`
	NewPort         int  `json:"new_port,omitempty"`
}

// ConfigService implements ConfigUsecase.
type ConfigService struct {
	ConfigPath string
}

// GetConfig returns the current configuration.
func (s ConfigService) GetConfig(ctx context.Context) ConfigResponse {
	cfg, _ := config.LoadConfigFrom(s.ConfigPath)

	return ConfigResponse{
		Port:              cfg.Port,
		LanEnabled:        cfg.LanEnabled,
		CorsOrigins:       cfg.CorsOrigins,
		OrganizerWhatsApp: cfg.OrganizerWhatsApp,
		SupportEmail:      cfg.SupportEmail,
		WhatsAppEnabled:   cfg.WhatsAppEnabled,
		MapEnabled:        cfg.MapEnabled,
	}
}

// UpdateConfig updates the configuration.
func (s ConfigService) UpdateConfig(ctx context.Context, req ConfigUpdateRequest) (ConfigUpdateResponse, error) {
	cfg, err := config.LoadConfigFrom(s.ConfigPath)
	if err != nil {
		return ConfigUpdateResponse{}, fmt.Errorf("load config: %w", err)
	}

	originalPort := cfg.Port
	changed := false

	if req.Port != nil {
		if *req.Port < 1 || *req.Port > 65535 {
			return ConfigUpdateResponse{}, fmt.Errorf("port must be between 1 and 65535")
		}
		cfg.Port = *req.Port
		changed = true
	}
	if req.LanEnabled != nil {
		cfg.LanEnabled = *req.LanEnabled
		changed = true
	}
	if req.CorsOrigins != nil {
		cfg.CorsOrigins = *req.CorsOrigins
		changed = true
	}
	if req.OrganizerWhatsApp != nil {
		number := strings.TrimSpace(*req.OrganizerWhatsApp)
		if number != "" && !isPlausiblePhone(number) {
			return ConfigUpdateResponse{}, fmt.Errorf("invalid organizer WhatsApp number")
		}
		cfg.OrganizerWhatsApp = number
		changed = true
	}
	if req.SupportEmail != nil {
		email := strings.TrimSpace(*req.SupportEmail)
		if email != "" && !strings.Contains(email, "@") {
			return ConfigUpdateResponse{}, fmt.Errorf("invalid support email")
		}
		cfg.SupportEmail = email
		changed = true
	}
	if req.WhatsAppEnabled != nil {
		cfg.WhatsAppEnabled = *req.WhatsAppEnabled
		changed = true
	}
	if req.MapEnabled != nil {
		cfg.MapEnabled = *req.MapEnabled
		changed = true
	}

	if changed {
		if err := config.SaveConfigTo(cfg, s.ConfigPath); err != nil {
			return ConfigUpdateResponse{}, fmt.Errorf("save config: %w", err)
		}
	}

	resp := ConfigUpdateResponse{
		Success:         true,
		RestartRequired: changed, // MVP: always require restart
	}

	if cfg.Port != originalPort {
		resp.NewPort = cfg.Port
	}

	return resp, nil
}

// isPlausiblePhone checks for an optional leading + followed by 8+ digits.
func isPlausiblePhone(s string) bool {
	s = strings.TrimPrefix(s, "+")
	if len(s) < 8 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
