package api

import (
	"context"
	"net/http"
)

// SystemConfig holds the tunable helpdesk settings (admin only).
type SystemConfig struct {
	AutoCloseEnabled          bool    `json:"autoCloseEnabled"`
	ConfidenceThreshold       float64 `json:"confidenceThreshold"`
	SLAHours                  int     `json:"slaHours"`
	MaxTicketsPerUser         int     `json:"maxTicketsPerUser"`
	EmailNotificationsEnabled bool    `json:"emailNotificationsEnabled"`
}

// GetSystemConfig returns the current system settings
func (c *Client) GetSystemConfig(ctx context.Context) (*SystemConfig, error) {
	var resp struct {
		Config SystemConfig `json:"config"`
	}
	if err := c.do(ctx, http.MethodGet, "/config", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Config, nil
}

// UpdateSystemConfig replaces the system settings
func (c *Client) UpdateSystemConfig(ctx context.Context, cfg SystemConfig) (*SystemConfig, error) {
	var resp struct {
		Config SystemConfig `json:"config"`
	}
	if err := c.do(ctx, http.MethodPut, "/config", nil, cfg, &resp); err != nil {
		return nil, err
	}
	return &resp.Config, nil
}
