// File: services/intelligence/geminiClient.go
package intelligence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"concierge/models"
	"concierge/utils"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// maxToolRounds bounds the call-tool-feed-back loop per question.
const maxToolRounds = 8

// requestTimeout bounds a single question end to end, tool rounds included.
const requestTimeout = 60 * time.Second

const systemInstruction = `You are the AI assistant for this portfolio site. Answer questions about the site owner professionally and conversationally.

When answering:
1. Use the provided tools to get accurate information
2. Provide concise, helpful responses based on the tool results
3. Be friendly and professional
4. Synthesize information naturally from multiple tools if needed
5. Speak ON BEHALF of the site owner using first person when appropriate
6. Use conversation history for context on follow-up questions

For meeting bookings:
7. When the user wants to schedule a meeting, FIRST show available slots using list_available_slots
8. Ask for their email address and full name if not provided yet
9. Then use book_meeting with their email, full name and chosen slot number
10. Always confirm the booking details clearly`

// GeminiAssistant dispatches questions to Gemini with the portfolio and
// booking tools attached.
type GeminiAssistant struct {
	model    *genai.GenerativeModel
	tools    *Toolset
	ctxStore *RedisContextStore // optional
}

func NewGeminiAssistant(apiKey string, tools *Toolset, ctxStore *RedisContextStore) (*GeminiAssistant, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(ModelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}
	model.Tools = []*genai.Tool{
		{FunctionDeclarations: tools.Declarations()},
	}

	return &GeminiAssistant{model: model, tools: tools, ctxStore: ctxStore}, nil
}

// Answer sends the question with its history to the model, executing tool
// calls until the model produces text. Model failures are logged and mapped
// to friendly replies.
func (g *GeminiAssistant) Answer(ctx context.Context, sessionID, question string, history []models.Message) (string, error) {
	logger := utils.GetLogger()

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	history = g.mergeHistory(ctx, sessionID, history)

	session := g.model.StartChat()
	session.History = toGenaiHistory(history)

	resp, err := session.SendMessage(ctx, genai.Text(question))

	for rounds := 0; err == nil && rounds < maxToolRounds; rounds++ {
		call := firstFunctionCall(resp)
		if call == nil {
			break
		}
		logger.Debug("executing model tool call",
			zap.String("session_id", sessionID), zap.String("tool", call.Name))
		result := g.tools.Execute(ctx, call.Name, call.Args)
		resp, err = session.SendMessage(ctx, genai.FunctionResponse{
			Name:     call.Name,
			Response: map[string]any{"result": result},
		})
	}

	if err != nil {
		logger.Error("gemini request failed", zap.String("session_id", sessionID), zap.Error(err))
		return friendlyModelError(err), nil
	}

	answer := collectText(resp)
	if answer == "" {
		return "I couldn't come up with an answer to that. Could you rephrase your question?", nil
	}

	if g.ctxStore != nil {
		if err := g.ctxStore.Append(ctx, sessionID, question, answer); err != nil {
			logger.Warn("failed to persist conversation context",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	return answer, nil
}

// mergeHistory prefers the request-supplied history and falls back to the
// stored session context when the frontend sends none.
func (g *GeminiAssistant) mergeHistory(ctx context.Context, sessionID string, history []models.Message) []models.Message {
	if len(history) > 0 || g.ctxStore == nil {
		return history
	}
	stored, err := g.ctxStore.Get(ctx, sessionID)
	if err != nil {
		utils.GetLogger().Warn("failed to load conversation context",
			zap.String("session_id", sessionID), zap.Error(err))
		return history
	}
	return stored
}

func toGenaiHistory(history []models.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := "model"
		if msg.Role == "user" {
			role = "user"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return contents
}

func firstFunctionCall(resp *genai.GenerateContentResponse) *genai.FunctionCall {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if call, ok := part.(genai.FunctionCall); ok {
			return &call
		}
	}
	return nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

// friendlyModelError hides technical details behind messages a visitor can
// act on.
func friendlyModelError(err error) string {
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "403") || strings.Contains(msg, "PERMISSION_DENIED") || strings.Contains(lower, "api key"):
		return "AI service temporarily unavailable due to authentication refresh. Please try again in a few moments."
	case strings.Contains(msg, "429") || strings.Contains(lower, "quota") || strings.Contains(lower, "rate limit"):
		return "Please retry your question in 10-15 seconds."
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline"):
		return "Backend timeout while warming up. Please resubmit your question."
	default:
		return "Temporary infrastructure issue. Please try again later."
	}
}
