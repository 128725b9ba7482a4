package chatRepository

import (
	"WidgetBackend/internal/entity"
	contextPkg "WidgetBackend/pkg/context"
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

func (r *chatLogRepository) CreateChatLog(ctx context.Context, chatLog entity.ChatLog) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryCreateChatLog, chatLog)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateChatLog")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating chat log")
		return err
	}

	return nil
}

func (r *chatLogRepository) GetChatLogsByTenant(ctx context.Context, tenantID string, limit, offset int) ([]entity.ChatLog, int, error) {
	requestID := contextPkg.GetRequestID(ctx)

	countQuery, countArgs, err := sqlx.Named(queryCountChatLogsByTenant, map[string]interface{}{
		"tenant_id": tenantID,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetChatLogsByTenant count query preparation err")
		return nil, 0, err
	}
	countQuery = r.q.Rebind(countQuery)

	var total int
	if err := r.q.QueryRowxContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetChatLogsByTenant count execution err")
		return nil, 0, err
	}

	query, args, err := sqlx.Named(queryGetChatLogsByTenant, map[string]interface{}{
		"tenant_id": tenantID,
		"limit":     limit,
		"offset":    offset,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetChatLogsByTenant named query preparation err")
		return nil, 0, err
	}
	query = r.q.Rebind(query)

	logs := []entity.ChatLog{}
	if err := r.q.SelectContext(ctx, &logs, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetChatLogsByTenant execution err")
		return nil, 0, err
	}

	return logs, total, nil
}
