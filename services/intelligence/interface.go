package intelligence

import (
	"context"

	"concierge/models"
)

// ModelName and AgentName are reported in every chat response.
const (
	ModelName = "gemini-2.5-flash"
	AgentName = "gemini-function-calling"
)

// AssistantService answers portfolio questions, invoking the declared tools
// as the model requests them. Downstream model failures surface as friendly
// answer text, never as raw errors.
type AssistantService interface {
	Answer(ctx context.Context, sessionID, question string, history []models.Message) (string, error)
}
