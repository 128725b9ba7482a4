package authRepository

import (
	"WidgetBackend/internal/api/auth"
	"WidgetBackend/internal/entity"
	contextPkg "WidgetBackend/pkg/context"
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func (r *ownerRepository) CreateTenant(ctx context.Context, tenant entity.Tenant) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryCreateTenant, tenant)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateTenant named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"constraint": pqErr.Constraint,
			}).Warn("Email already exists")
			return auth.ErrEmailAlreadyExists
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating tenant")
		return err
	}

	return nil
}

func (r *ownerRepository) GetTenantByEmail(ctx context.Context, email string) (entity.Tenant, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var tenant entity.Tenant

	query, args, err := sqlx.Named(queryGetTenantByEmail, map[string]interface{}{
		"email": email,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTenantByEmail named query preparation err")
		return entity.Tenant{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&tenant); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Tenant{}, auth.ErrOwnerNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetTenantByEmail execution err")
		return entity.Tenant{}, err
	}

	return tenant, nil
}
