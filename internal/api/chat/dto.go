package chat

import (
	"WidgetBackend/pkg/prompt"
	"time"
)

// ChatRequest is sent by the embedded widget. One of TenantID or SessionID
// identifies the site the widget is running on.
type ChatRequest struct {
	Message   string `json:"message" validate:"required,max=8000"`
	TenantID  string `json:"tenant_id,omitempty" validate:"omitempty,max=64"`
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=128"`
}

type ChatResponse struct {
	Reply           string `json:"reply"`
	MatchedIntent   string `json:"matched_intent"`
	MatchedURL      string `json:"matched_url"`
	WeakKeywordHint string `json:"weak_keyword_hint,omitempty"`
	RequestID       string `json:"request_id"`
}

type MatchRequest struct {
	Message string `json:"message" validate:"required,max=8000"`
}

type MatchResponse struct {
	MatchedIntent   string        `json:"matched_intent"`
	MatchedURL      string        `json:"matched_url"`
	WeakKeywordHint string        `json:"weak_keyword_hint,omitempty"`
	Strategy        string        `json:"strategy"`
	Score           float64       `json:"score"`
	Turns           []prompt.Turn `json:"turns"`
}

type ChatLog struct {
	ID              string    `json:"id"`
	SessionID       string    `json:"session_id,omitempty"`
	Message         string    `json:"message"`
	MatchedIntent   string    `json:"matched_intent"`
	MatchedURL      string    `json:"matched_url"`
	WeakKeywordHint string    `json:"weak_keyword_hint,omitempty"`
	Strategy        string    `json:"strategy"`
	Reply           string    `json:"reply"`
	CreatedAt       time.Time `json:"created_at"`
}

type HistoryResponse struct {
	Logs  []ChatLog `json:"logs"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

type SocketError struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id"`
}
