package llm

import "strings"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GatewayMode is the routing decision for one loaded config: either the
// Gemini API directly, or an OpenAI-compatible relay. It is resolved once
// per config load, never re-derived inside individual calls.
type GatewayMode struct {
	Proxy   bool
	BaseURL string
}

// ResolveMode inspects a configured endpoint. Endpoints naming the relay
// host or an OpenAI-style /v1 path select proxy mode.
func ResolveMode(apiEndpoint string) GatewayMode {
	if apiEndpoint == "" {
		return GatewayMode{}
	}
	if strings.Contains(apiEndpoint, "vikey.ai") || strings.Contains(apiEndpoint, "/v1") {
		return GatewayMode{Proxy: true, BaseURL: strings.TrimRight(apiEndpoint, "/")}
	}
	return GatewayMode{}
}
