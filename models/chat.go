package models

// Message is a single turn of the conversation history sent by the frontend.
type Message struct {
	Role    string `json:"role"`    // "user" or "assistant"
	Content string `json:"content"` // message text
}

// ChatRequest is the payload coming from the frontend into /api/chat.
type ChatRequest struct {
	Question  string    `json:"question"`
	History   []Message `json:"history,omitempty"`   // last 3 Q&A pairs
	SessionID string    `json:"sessionId,omitempty"` // assigned server-side when absent
}

// ChatResponse is what the chat handler returns on success.
type ChatResponse struct {
	Answer   string `json:"answer"`
	Question string `json:"question"`
	Model    string `json:"model"`
	Agent    string `json:"agent"`
}
