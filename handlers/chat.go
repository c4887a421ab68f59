package handlers

import (
	"net/http"
	"strconv"

	"concierge/config"
	"concierge/models"
	"concierge/services/gate"
	"concierge/services/intelligence"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatHandler fronts the assistant: it validates and rate-limits a request
// through the gate before dispatching it to the model.
type ChatHandler struct {
	Gate      *gate.Gate
	Assistant intelligence.AssistantService
}

func NewChatHandler(g *gate.Gate, assistant intelligence.AssistantService) *ChatHandler {
	return &ChatHandler{Gate: g, Assistant: assistant}
}

// HandleChat processes POST /api/chat.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question is required"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	res := h.Gate.Admit(c.Request.Context(), sessionID, req.Question, req.History)
	if !res.Allowed {
		if res.Retryable {
			retryAfter := int(res.RetryAfter.Seconds())
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       res.Reason,
				"retry_after": retryAfter,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": res.Reason})
		return
	}

	if h.Assistant == nil || config.AppConfig.GeminiAPIKey == "" {
		logger.Error("chat request received but no model API key is configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API key not configured"})
		return
	}

	logger.Info("user question",
		zap.String("session_id", sessionID),
		zap.Int("question_length", len(req.Question)),
		zap.Int("history_length", len(req.History)),
	)

	answer, err := h.Assistant.Answer(c.Request.Context(), sessionID, req.Question, req.History)
	if err != nil {
		logger.Error("assistant failed", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "The assistant could not process your question. Please try again later.",
		})
		return
	}

	logger.Info("bot response",
		zap.String("session_id", sessionID),
		zap.Int("answer_length", len(answer)),
		zap.String("question_preview", preview(req.Question, 100)),
	)

	c.JSON(http.StatusOK, models.ChatResponse{
		Answer:   answer,
		Question: req.Question,
		Model:    intelligence.ModelName,
		Agent:    intelligence.AgentName,
	})
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
