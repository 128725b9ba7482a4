package authService

import (
	"WidgetBackend/internal/api/auth"
	"WidgetBackend/internal/entity"
	contextPkg "WidgetBackend/pkg/context"
	jwtPkg "WidgetBackend/pkg/jwt"
	"WidgetBackend/pkg/response"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *authService) RegisterTenant(ctx context.Context, req auth.RegisterTenantRequest) (*auth.RegisterTenantResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	hash, err := s.bcryptUtils.HashPassword(req.Password)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to hash password")
		return nil, err
	}

	now := time.Now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate tenant id")
		return nil, err
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	err = repo.Owners.CreateTenant(ctx, entity.Tenant{
		ID:           id,
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"tenant_id":  id,
	}).Info("Tenant registered")

	return &auth.RegisterTenantResponse{TenantID: id}, nil
}

func (s *authService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	tenant, err := repo.Owners.GetTenantByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, auth.ErrOwnerNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Warn("Login for unknown email")
			return nil, auth.ErrInvalidEmailOrPassword
		}
		return nil, err
	}

	if err := s.bcryptUtils.ComparePassword(tenant.PasswordHash, req.Password); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"tenant_id":  tenant.ID,
		}).Warn("Password comparison failed")
		return nil, auth.ErrInvalidEmailOrPassword
	}

	return s.issueToken(ctx, tenant)
}

func (s *authService) GoogleLoginURL(state string) (string, error) {
	if s.google == nil {
		return "", auth.ErrGoogleLoginDisabled
	}
	return s.google.AuthCodeURL(state), nil
}

// LoginGoogle signs in an existing owner whose verified Google email matches
// the tenant email. It never creates tenants.
func (s *authService) LoginGoogle(ctx context.Context, code string) (*auth.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.google == nil {
		return nil, auth.ErrGoogleLoginDisabled
	}

	email, err := s.google.GetUserEmail(ctx, code)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Google sign in failed")
		return nil, response.Wrap(auth.ErrGoogleLoginFailed, err)
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	tenant, err := repo.Owners.GetTenantByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return s.issueToken(ctx, tenant)
}

func (s *authService) issueToken(ctx context.Context, tenant entity.Tenant) (*auth.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	token, expired, err := jwtPkg.Sign(map[string]interface{}{
		"tenant_id": tenant.ID,
		"email":     tenant.Email,
	}, s.tokenTTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign token")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"tenant_id":  tenant.ID,
	}).Info("Token created")

	return &auth.LoginResponse{
		AccessToken:      token,
		ExpiresInMinutes: time.Until(time.Unix(expired, 0)).Minutes(),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
