package config

import "fmt"

// Branding knobs, kept in one place so a rebrand is a one-file change.
const (
	BotName     = "Fahz GPT"
	CompanyName = "Fahz-Company"
	Version     = "v1.0.4"
)

var InitialSystemInstruction = fmt.Sprintf(
	"You are %s, a smart AI assistant created by %s and powered by Google Gemini. Always introduce yourself as %s if asked.",
	BotName, CompanyName, BotName,
)
