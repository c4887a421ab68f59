package gate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"concierge/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(counter Counter) *Gate {
	return &Gate{
		Counter:            counter,
		GlobalLimit:        100,
		SessionLimit:       20,
		MaxQuestionLength:  2000,
		MaxHistoryMessages: 6,
		MaxMessageLength:   2000,
	}
}

func TestAdmit_SessionLimit(t *testing.T) {
	g := newTestGate(NewMemoryCounter())
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		res := g.Admit(ctx, "session-1", "hello", nil)
		require.True(t, res.Allowed, "request %d should be admitted", i+1)
	}

	res := g.Admit(ctx, "session-1", "hello", nil)
	assert.False(t, res.Allowed)
	assert.True(t, res.Retryable)
	assert.Contains(t, res.Reason, "Session limit exceeded")
	assert.Equal(t, 24*time.Hour, res.RetryAfter)

	// Other sessions are unaffected by one session hitting its cap.
	res = g.Admit(ctx, "session-2", "hello", nil)
	assert.True(t, res.Allowed)
}

func TestAdmit_GlobalLimit(t *testing.T) {
	g := newTestGate(NewMemoryCounter())
	ctx := context.Background()

	// Spread requests over sessions so only the shared cap can trip.
	for i := 0; i < 100; i++ {
		res := g.Admit(ctx, fmt.Sprintf("session-%d", i), "hello", nil)
		require.True(t, res.Allowed, "request %d should be admitted", i+1)
	}

	res := g.Admit(ctx, "session-fresh", "hello", nil)
	assert.False(t, res.Allowed)
	assert.True(t, res.Retryable)
	assert.Contains(t, res.Reason, "Daily limit exceeded")
}

func TestAdmit_WindowExpiry(t *testing.T) {
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	counter := NewMemoryCounter()
	counter.Now = func() time.Time { return now }

	g := newTestGate(counter)
	g.SessionLimit = 1
	ctx := context.Background()

	require.True(t, g.Admit(ctx, "s", "hello", nil).Allowed)
	require.False(t, g.Admit(ctx, "s", "hello", nil).Allowed)

	// A day later the window has rolled over.
	now = now.Add(24*time.Hour + time.Minute)
	assert.True(t, g.Admit(ctx, "s", "hello", nil).Allowed)
}

func TestAdmit_QuestionTooLong(t *testing.T) {
	g := newTestGate(NewMemoryCounter())

	res := g.Admit(context.Background(), "s", strings.Repeat("x", 2001), nil)
	assert.False(t, res.Allowed)
	assert.False(t, res.Retryable)
	assert.Contains(t, res.Reason, "Question too long")
}

func TestAdmit_LimitsCountCharactersNotBytes(t *testing.T) {
	g := newTestGate(NewMemoryCounter())
	ctx := context.Background()

	// 2000 three-byte runes stay within the 2000-character limit.
	question := strings.Repeat("日", 2000)
	res := g.Admit(ctx, "s1", question, nil)
	assert.True(t, res.Allowed)

	res = g.Admit(ctx, "s2", question+"日", nil)
	assert.False(t, res.Allowed)
	assert.Contains(t, res.Reason, "Question too long")

	history := []models.Message{{Role: "user", Content: strings.Repeat("é", 2000)}}
	res = g.Admit(ctx, "s3", "hello", history)
	assert.True(t, res.Allowed)
}

func TestAdmit_HistoryTooLong(t *testing.T) {
	g := newTestGate(NewMemoryCounter())

	history := make([]models.Message, 7)
	for i := range history {
		history[i] = models.Message{Role: "user", Content: "hi"}
	}
	res := g.Admit(context.Background(), "s", "hello", history)
	assert.False(t, res.Allowed)
	assert.Contains(t, res.Reason, "History too long")
}

func TestAdmit_HistoryMessageTooLong(t *testing.T) {
	g := newTestGate(NewMemoryCounter())

	history := []models.Message{{Role: "user", Content: strings.Repeat("x", 2001)}}
	res := g.Admit(context.Background(), "s", "hello", history)
	assert.False(t, res.Allowed)
	assert.Contains(t, res.Reason, "History message too long")
}

func TestAdmit_RepeatedCharacterHeuristic(t *testing.T) {
	g := newTestGate(NewMemoryCounter())
	ctx := context.Background()

	res := g.Admit(ctx, "s1", strings.Repeat("a", 101), nil)
	assert.False(t, res.Allowed)
	assert.Equal(t, "Suspicious input pattern detected", res.Reason)

	res = g.Admit(ctx, "s2", strings.Repeat("A", 101), nil)
	assert.False(t, res.Allowed)

	// Exactly 100 repeats is still within bounds.
	res = g.Admit(ctx, "s3", strings.Repeat("a", 100), nil)
	assert.True(t, res.Allowed)
}

func TestAdmit_ValidationFailureStillConsumesQuota(t *testing.T) {
	g := newTestGate(NewMemoryCounter())
	g.SessionLimit = 2
	ctx := context.Background()

	tooLong := strings.Repeat("x", 2001)
	require.False(t, g.Admit(ctx, "s", tooLong, nil).Allowed)
	require.False(t, g.Admit(ctx, "s", tooLong, nil).Allowed)

	// Both rejected requests were recorded, so the session cap is spent.
	res := g.Admit(ctx, "s", "hello", nil)
	assert.False(t, res.Allowed)
	assert.True(t, res.Retryable)
}

type failingCounter struct{}

func (failingCounter) RecordAndCheck(ctx context.Context, key string, window time.Duration, limit int) (bool, error) {
	return false, errors.New("counter store unreachable")
}

func TestAdmit_FailsOpenOnCounterError(t *testing.T) {
	g := newTestGate(failingCounter{})

	res := g.Admit(context.Background(), "s", "hello", nil)
	assert.True(t, res.Allowed)
}

func TestMemoryCounter_IndependentKeys(t *testing.T) {
	counter := NewMemoryCounter()
	ctx := context.Background()

	ok, err := counter.RecordAndCheck(ctx, "a", time.Hour, 1)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = counter.RecordAndCheck(ctx, "a", time.Hour, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = counter.RecordAndCheck(ctx, "b", time.Hour, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}
