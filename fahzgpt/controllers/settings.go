package controllers

import (
	"context"
	"fmt"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/store"
	"github.com/fahz-devoffc/fahzgpt/fahzgpt/types"
)

// SettingsController serves the AI config and the preset templates screen.
type SettingsController struct {
	store     *store.Store
	templates []types.Template
}

func NewSettingsController(st *store.Store, templates []types.Template) *SettingsController {
	return &SettingsController{store: st, templates: templates}
}

func (c *SettingsController) GetConfig(ctx context.Context, userID string) (types.AIConfig, error) {
	return c.store.LoadConfig(ctx, userID)
}

func (c *SettingsController) UpdateConfig(ctx context.Context, userID string, cfg types.AIConfig) (types.AIConfig, error) {
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return types.AIConfig{}, fmt.Errorf("temperature out of range: %v", cfg.Temperature)
	}
	if err := c.store.SaveConfig(ctx, userID, cfg); err != nil {
		return types.AIConfig{}, err
	}
	return c.store.LoadConfig(ctx, userID)
}

func (c *SettingsController) ListTemplates() []types.Template {
	return c.templates
}

// ApplyTemplate swaps the system instruction for the selected preset and
// persists the changed config.
func (c *SettingsController) ApplyTemplate(ctx context.Context, userID, templateID string) (types.AIConfig, error) {
	var selected *types.Template
	for i := range c.templates {
		if c.templates[i].ID == templateID {
			selected = &c.templates[i]
			break
		}
	}
	if selected == nil {
		return types.AIConfig{}, fmt.Errorf("template not found: %s", templateID)
	}
	cfg, err := c.store.LoadConfig(ctx, userID)
	if err != nil {
		return types.AIConfig{}, err
	}
	cfg.SystemInstruction = selected.SystemInstruction
	if err := c.store.SaveConfig(ctx, userID, cfg); err != nil {
		return types.AIConfig{}, err
	}
	return cfg, nil
}
