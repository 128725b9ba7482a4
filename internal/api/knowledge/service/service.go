package knowledgeService

import (
	"WidgetBackend/internal/api/knowledge"
	knowledgeRepository "WidgetBackend/internal/api/knowledge/repository"
	"WidgetBackend/internal/entity"
	"WidgetBackend/pkg/redis"
	"WidgetBackend/pkg/webpage"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultTimeout         = 5 * time.Second
	DefaultSessionCacheTTL = 24 * time.Hour
)

type IKnowledgeService interface {
	ResolveTenantForSession(ctx context.Context, sessionID string) (string, error)
	LoadPages(ctx context.Context, tenantID string) ([]entity.PageRecord, error)

	GetPages(ctx context.Context, tenantID string) (*knowledge.PagesResponse, error)
	ReplacePages(ctx context.Context, tenantID string, req knowledge.ReplacePagesRequest) (*knowledge.PagesResponse, error)
	RegisterSession(ctx context.Context, tenantID string, req knowledge.RegisterSessionRequest) (*knowledge.RegisterSessionResponse, error)
	PreviewPage(ctx context.Context, rawURL string) (*knowledge.PreviewResponse, error)
}

type Config struct {
	Timeout         time.Duration
	SessionCacheTTL time.Duration
}

type knowledgeService struct {
	log       *logrus.Logger
	repo      knowledgeRepository.Repository
	cache     redis.IRedis
	extractor webpage.IExtractor
	config    Config
}

// New wires the knowledge store. cache may be nil, in which case every
// session lookup goes to the database.
func New(
	log *logrus.Logger,
	repo knowledgeRepository.Repository,
	cache redis.IRedis,
	extractor webpage.IExtractor,
	config Config,
) IKnowledgeService {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.SessionCacheTTL <= 0 {
		config.SessionCacheTTL = DefaultSessionCacheTTL
	}

	return &knowledgeService{
		log:       log,
		repo:      repo,
		cache:     cache,
		extractor: extractor,
		config:    config,
	}
}
