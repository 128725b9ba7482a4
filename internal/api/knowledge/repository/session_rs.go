package knowledgeRepository

import (
	"WidgetBackend/internal/api/knowledge"
	"WidgetBackend/internal/entity"
	contextPkg "WidgetBackend/pkg/context"
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

func (r *sessionRepository) GetTenantIDBySession(ctx context.Context, sessionID string) (string, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var tenantID string

	query, args, err := sqlx.Named(queryGetTenantIDBySession, map[string]interface{}{
		"id": sessionID,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTenantIDBySession named query preparation err")
		return "", err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).Scan(&tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": sessionID,
			}).Debug("GetTenantIDBySession no rows found")
			return "", knowledge.ErrTenantNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTenantIDBySession execution err")
		return "", err
	}

	return tenantID, nil
}

func (r *sessionRepository) CreateSession(ctx context.Context, session entity.WidgetSession) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryCreateSession, session)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateSession named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating widget session")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
		}).Warn("CreateSession id already registered")
		return knowledge.ErrSessionAlreadyRegistered
	}

	return nil
}
