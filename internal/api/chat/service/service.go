package chatService

import (
	"WidgetBackend/internal/api/chat"
	chatRepository "WidgetBackend/internal/api/chat/repository"
	knowledgeService "WidgetBackend/internal/api/knowledge/service"
	"WidgetBackend/pkg/llm"
	"WidgetBackend/pkg/nlp"
	"WidgetBackend/pkg/utils"
	"WidgetBackend/pkg/webpage"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultPageFetchTimeout = 10 * time.Second

type IChatService interface {
	Respond(ctx context.Context, req chat.ChatRequest) (*chat.ChatResponse, error)
	MatchForTenant(ctx context.Context, tenantID string, req chat.MatchRequest) (*chat.MatchResponse, error)
	GetHistory(ctx context.Context, tenantID string, page, limit int) (*chat.HistoryResponse, error)
}

type Config struct {
	PageFetchTimeout time.Duration
}

type chatService struct {
	log       *logrus.Logger
	chatRepo  chatRepository.Repository
	knowledge knowledgeService.IKnowledgeService
	matcher   nlp.IMatcher
	extractor webpage.IExtractor
	model     llm.IChatModel
	utils     utils.IUtils
	config    Config
}

func NewChatService(
	log *logrus.Logger,
	chatRepo chatRepository.Repository,
	knowledge knowledgeService.IKnowledgeService,
	matcher nlp.IMatcher,
	extractor webpage.IExtractor,
	model llm.IChatModel,
	utils utils.IUtils,
	config Config,
) IChatService {
	if config.PageFetchTimeout <= 0 {
		config.PageFetchTimeout = DefaultPageFetchTimeout
	}

	return &chatService{
		log:       log,
		chatRepo:  chatRepo,
		knowledge: knowledge,
		matcher:   matcher,
		extractor: extractor,
		model:     model,
		utils:     utils,
		config:    config,
	}
}
