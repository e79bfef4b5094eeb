package types

const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// PlaceholderTitle is used for sessions created before any message exists.
const PlaceholderTitle = "New Conversation"

// Attachment carries inline media attached to a user message. URL is a
// transient serving location and is not meaningful across restarts.
type Attachment struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
	URL      string `json:"url,omitempty"`
}

// ChatMessage is immutable once appended to a session.
type ChatMessage struct {
	Role           string       `json:"role"`
	Content        string       `json:"content"`
	Timestamp      string       `json:"timestamp"` // RFC3339
	Attachments    []Attachment `json:"attachments,omitempty"`
	GeneratedImage string       `json:"generated_image,omitempty"`
	GeneratedVideo string       `json:"generated_video,omitempty"`
}

type ChatSession struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Messages    []ChatMessage `json:"messages"`
	LastUpdated string        `json:"last_updated"`
}

// AIConfig is the per-user generation configuration. An empty APIEndpoint is
// repaired to the default proxy endpoint on load.
type AIConfig struct {
	SystemInstruction string  `json:"system_instruction"`
	Temperature       float64 `json:"temperature"`
	Model             string  `json:"model"`
	APIEndpoint       string  `json:"api_endpoint,omitempty"`
}

type ChatRequest struct {
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

type SetActiveRequest struct {
	SessionID string `json:"session_id"`
}

// Template is a preset system instruction selectable from the templates screen.
type Template struct {
	ID                string `json:"id" yaml:"id"`
	Name              string `json:"name" yaml:"name"`
	Description       string `json:"description" yaml:"description"`
	SystemInstruction string `json:"system_instruction" yaml:"system_instruction"`
	Icon              string `json:"icon" yaml:"icon"`
}

type ApplyTemplateRequest struct {
	TemplateID string `json:"template_id"`
}
