package config

import (
	"fmt"
	"os"

	"github.com/fahz-devoffc/fahzgpt/fahzgpt/types"

	"gopkg.in/yaml.v3"
)

// DefaultTemplates ship with the app; a templates.yaml next to the binary
// overrides them wholesale.
func DefaultTemplates() []types.Template {
	return []types.Template{
		{
			ID:                "fahz-default",
			Name:              BotName + " Standard",
			Description:       "Standard " + BotName + " configuration for general assistance.",
			SystemInstruction: fmt.Sprintf("You are %s, a powerful and helpful AI assistant created by %s and powered by Google Gemini. You are professional, efficient, and friendly.", BotName, CompanyName),
			Icon:              "🚀",
		},
		{
			ID:                "tutor",
			Name:              BotName + " Math Tutor",
			Description:       "Explains math concepts the " + CompanyName + " way.",
			SystemInstruction: fmt.Sprintf("You are %s Math Tutor. Explain concepts simply, use analogies, and provide step-by-step solutions while maintaining the %s brand voice.", BotName, CompanyName),
			Icon:              "📐",
		},
		{
			ID:                "reviewer",
			Name:              BotName + " Code Expert",
			Description:       "Focused on bug detection and code optimization.",
			SystemInstruction: fmt.Sprintf("You are %s Code Expert. Review the provided code for bugs, security vulnerabilities, and suggest best practices for clean, maintainable code.", BotName),
			Icon:              "💻",
		},
		{
			ID:                "chef",
			Name:              BotName + " Sous Chef",
			Description:       "Recipe ideas and professional cooking techniques.",
			SystemInstruction: fmt.Sprintf("You are %s Sous Chef. Help the user create delicious meals based on their available ingredients.", BotName),
			Icon:              "🍳",
		},
	}
}

// LoadTemplates reads the preset file when present, otherwise falls back to
// the built-in set. A present-but-broken file is an error; silently losing
// presets would be worse.
func LoadTemplates(path string) ([]types.Template, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultTemplates(), nil
	}
	if err != nil {
		return nil, err
	}
	var templates []types.Template
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse templates file %s: %w", path, err)
	}
	if len(templates) == 0 {
		return DefaultTemplates(), nil
	}
	return templates, nil
}
