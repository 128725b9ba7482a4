package chatService

import (
	"WidgetBackend/internal/api/chat"
	contextPkg "WidgetBackend/pkg/context"
	"context"

	"github.com/sirupsen/logrus"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

func (s *chatService) GetHistory(ctx context.Context, tenantID string, page, limit int) (*chat.HistoryResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if page < 1 || limit < 1 || limit > MaxHistoryLimit {
		return nil, chat.ErrInvalidPagination
	}

	client, err := s.chatRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	logs, total, err := client.ChatLogs.GetChatLogsByTenant(ctx, tenantID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	resp := &chat.HistoryResponse{
		Logs:  make([]chat.ChatLog, 0, len(logs)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for _, l := range logs {
		resp.Logs = append(resp.Logs, chat.ChatLog{
			ID:              l.ID,
			SessionID:       l.SessionID,
			Message:         l.Message,
			MatchedIntent:   l.MatchedIntent,
			MatchedURL:      l.MatchedURL,
			WeakKeywordHint: l.WeakKeywordHint,
			Strategy:        l.Strategy,
			Reply:           l.Reply,
			CreatedAt:       l.CreatedAt,
		})
	}

	return resp, nil
}
