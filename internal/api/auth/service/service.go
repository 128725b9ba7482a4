package authService

import (
	"WidgetBackend/internal/api/auth"
	authRepository "WidgetBackend/internal/api/auth/repository"
	"WidgetBackend/pkg/bcrypt"
	"WidgetBackend/pkg/google"
	"WidgetBackend/pkg/utils"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultTokenTTL = time.Hour

type IAuthService interface {
	RegisterTenant(ctx context.Context, req auth.RegisterTenantRequest) (*auth.RegisterTenantResponse, error)
	Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
	GoogleLoginURL(state string) (string, error)
	LoginGoogle(ctx context.Context, code string) (*auth.LoginResponse, error)
}

type authService struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	bcryptUtils bcrypt.IBcrypt
	google      google.IGoogle
	utils       utils.IUtils
	tokenTTL    time.Duration
}

func New(
	log *logrus.Logger,
	repo authRepository.Repository,
	bcryptUtils bcrypt.IBcrypt,
	googleProvider google.IGoogle,
	utils utils.IUtils,
	tokenTTL time.Duration,
) IAuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}

	return &authService{
		log:         log,
		repo:        repo,
		bcryptUtils: bcryptUtils,
		google:      googleProvider,
		utils:       utils,
		tokenTTL:    tokenTTL,
	}
}
