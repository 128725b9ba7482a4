package entity

import "time"

type ChatLog struct {
	ID              string    `db:"id"`
	TenantID        string    `db:"tenant_id"`
	SessionID       string    `db:"session_id"`
	Message         string    `db:"message"`
	MatchedIntent   string    `db:"matched_intent"`
	MatchedURL      string    `db:"matched_url"`
	WeakKeywordHint string    `db:"weak_keyword_hint"`
	Strategy        string    `db:"strategy"`
	Reply           string    `db:"reply"`
	CreatedAt       time.Time `db:"created_at"`
}
