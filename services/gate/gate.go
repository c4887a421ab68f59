package gate

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"concierge/models"
	"concierge/utils"

	"go.uber.org/zap"
)

// window is the rolling period over which both caps apply.
const window = 24 * time.Hour

// globalKey is the shared counter key for all sessions.
const globalKey = "global"

// maxRepeatedChar is a crude anti-abuse heuristic: a question repeating a
// single character this many times is not a question.
const maxRepeatedChar = 100

// Result is the outcome of an admission check.
type Result struct {
	Allowed    bool
	Reason     string
	Retryable  bool          // true for rate-limit rejections
	RetryAfter time.Duration // hint for the Retry-After header
}

// Gate validates and rate-limits inbound chat requests before they reach
// the model dispatch.
type Gate struct {
	Counter Counter

	GlobalLimit  int
	SessionLimit int

	MaxQuestionLength  int
	MaxHistoryMessages int
	MaxMessageLength   int
}

func allowed() Result {
	return Result{Allowed: true}
}

func rejected(reason string) Result {
	return Result{Allowed: false, Reason: reason}
}

func rateLimited(reason string) Result {
	return Result{Allowed: false, Reason: reason, Retryable: true, RetryAfter: window}
}

// Admit checks the global and per-session caps, then validates the input
// sizes. Quota is recorded before validation runs, so an admitted request
// that fails validation still consumes it. Counter errors fail open: an
// unreachable counter store must not take the assistant down.
func (g *Gate) Admit(ctx context.Context, sessionID, question string, history []models.Message) Result {
	logger := utils.GetLogger()

	ok, err := g.Counter.RecordAndCheck(ctx, globalKey, window, g.GlobalLimit)
	if err != nil {
		logger.Warn("global rate counter unavailable, failing open", zap.Error(err))
	} else if !ok {
		logger.Warn("global daily limit exceeded", zap.String("session_id", sessionID))
		return rateLimited(fmt.Sprintf("Daily limit exceeded (%d requests/day). Try again tomorrow.", g.GlobalLimit))
	}

	ok, err = g.Counter.RecordAndCheck(ctx, "session:"+sessionID, window, g.SessionLimit)
	if err != nil {
		logger.Warn("session rate counter unavailable, failing open", zap.Error(err))
	} else if !ok {
		logger.Warn("session limit exceeded", zap.String("session_id", sessionID))
		return rateLimited(fmt.Sprintf("Session limit exceeded (%d questions per session). Please start a new session.", g.SessionLimit))
	}

	if utf8.RuneCountInString(question) > g.MaxQuestionLength {
		return rejected(fmt.Sprintf("Question too long (max %d characters)", g.MaxQuestionLength))
	}
	if len(history) > g.MaxHistoryMessages {
		return rejected(fmt.Sprintf("History too long (max %d messages)", g.MaxHistoryMessages))
	}
	for _, msg := range history {
		if utf8.RuneCountInString(msg.Content) > g.MaxMessageLength {
			return rejected(fmt.Sprintf("History message too long (max %d characters)", g.MaxMessageLength))
		}
	}
	if strings.Count(question, "A") > maxRepeatedChar || strings.Count(question, "a") > maxRepeatedChar {
		return rejected("Suspicious input pattern detected")
	}

	return allowed()
}
