package knowledge

import "WidgetBackend/pkg/webpage"

type PageRecord struct {
	Intent   string   `json:"intent" validate:"required,max=255"`
	URL      string   `json:"url" validate:"required,http_url"`
	Keywords []string `json:"keywords" validate:"omitempty,dive,max=255"`
}

type ReplacePagesRequest struct {
	Pages []PageRecord `json:"pages" validate:"dive"`
}

type PagesResponse struct {
	TenantID string       `json:"tenant_id"`
	Pages    []PageRecord `json:"pages"`
}

type RegisterSessionRequest struct {
	SessionID string `json:"session_id" validate:"required,max=128"`
}

type RegisterSessionResponse struct {
	SessionID string `json:"session_id"`
	TenantID  string `json:"tenant_id"`
}

type PreviewResponse struct {
	URL                 string                       `json:"url"`
	BodyText            string                       `json:"body_text"`
	BodyLength          int                          `json:"body_length"`
	Truncated           bool                         `json:"truncated"`
	ElementsSummary     string                       `json:"elements_summary,omitempty"`
	InteractiveElements []webpage.InteractiveElement `json:"interactive_elements"`
}
