package knowledgeRepository

import (
	"WidgetBackend/internal/api/knowledge"
	"WidgetBackend/internal/entity"
	contextPkg "WidgetBackend/pkg/context"
	"WidgetBackend/pkg/response"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// GetPages returns the tenant's records in stored order. A missing tenant
// row or a NULL column is an empty knowledge base, not an error.
func (r *tenantRepository) GetPages(ctx context.Context, tenantID string) ([]entity.PageRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var pagesJSON sql.NullString

	query, args, err := sqlx.Named(queryGetTenantPages, map[string]interface{}{
		"id": tenantID,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetPages named query preparation err")
		return nil, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).Scan(&pagesJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"tenant_id":  tenantID,
			}).Debug("GetPages no knowledge base for tenant")
			return []entity.PageRecord{}, nil
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetPages execution err")
		return nil, err
	}

	if !pagesJSON.Valid || pagesJSON.String == "" {
		return []entity.PageRecord{}, nil
	}

	var pages []entity.PageRecord
	if err := json.Unmarshal([]byte(pagesJSON.String), &pages); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"tenant_id":  tenantID,
			"error":      err.Error(),
		}).Error("GetPages failed to decode pages")
		return nil, response.Wrap(knowledge.ErrCorruptKnowledgeBase, err)
	}

	if pages == nil {
		pages = []entity.PageRecord{}
	}

	return pages, nil
}

func (r *tenantRepository) ReplacePages(ctx context.Context, tenantID string, pages []entity.PageRecord) error {
	requestID := contextPkg.GetRequestID(ctx)

	if pages == nil {
		pages = []entity.PageRecord{}
	}

	pagesJSON, err := json.Marshal(pages)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to marshal pages")
		return err
	}

	query, args, err := sqlx.Named(queryReplaceTenantPages, map[string]interface{}{
		"id":         tenantID,
		"pages":      string(pagesJSON),
		"updated_at": time.Now(),
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ReplacePages named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ReplacePages execution err")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ReplacePages rows affected err")
		return err
	}

	if rowsAffected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"tenant_id":  tenantID,
		}).Warn("ReplacePages no rows affected")
		return knowledge.ErrTenantNotFound
	}

	return nil
}
