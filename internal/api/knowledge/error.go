package knowledge

import "WidgetBackend/pkg/response"

var (
	ErrTenantNotFound           = response.NewError(404, "tenant not found")
	ErrSessionAlreadyRegistered = response.NewError(409, "session already registered")
	ErrInvalidPreviewURL        = response.NewError(400, "url must be an absolute http or https url")
	ErrCorruptKnowledgeBase     = response.NewError(500, "stored pages could not be decoded")
)
