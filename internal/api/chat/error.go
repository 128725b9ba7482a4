package chat

import "WidgetBackend/pkg/response"

var (
	ErrMessageRequired     = response.NewError(400, "message is required")
	ErrTenantRequired      = response.NewError(400, "tenant_id or session_id is required")
	ErrLanguageModelFailed = response.NewError(502, "language model is unavailable")
	ErrInvalidPagination   = response.NewError(400, "invalid page or limit")
)
