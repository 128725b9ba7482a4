package config

import (
	"WidgetBackend/database/postgres"
	authHandler "WidgetBackend/internal/api/auth/handler"
	authRepository "WidgetBackend/internal/api/auth/repository"
	authService "WidgetBackend/internal/api/auth/service"
	chatHandler "WidgetBackend/internal/api/chat/handler"
	chatRepository "WidgetBackend/internal/api/chat/repository"
	chatService "WidgetBackend/internal/api/chat/service"
	knowledgeHandler "WidgetBackend/internal/api/knowledge/handler"
	knowledgeRepository "WidgetBackend/internal/api/knowledge/repository"
	knowledgeService "WidgetBackend/internal/api/knowledge/service"
	"WidgetBackend/internal/middleware"
	"WidgetBackend/pkg/bcrypt"
	"WidgetBackend/pkg/google"
	"WidgetBackend/pkg/llm"
	"WidgetBackend/pkg/nlp"
	"WidgetBackend/pkg/redis"
	"WidgetBackend/pkg/utils"
	"WidgetBackend/pkg/webpage"
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	config      AppConfig
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	bcryptUtils bcrypt.IBcrypt
	google      google.IGoogle
	handlers    []handler
	redisServer redis.IRedis
	chatModel   llm.IChatModel
	extractor   webpage.IExtractor
	matcher     nlp.IMatcher
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.middleware == nil {
		return nil, fmt.Errorf("middleware is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithAppConfig(cfg AppConfig) ServerOption {
	return func(s *Server) error {
		s.config = cfg
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

// WithRedisServer enables the session cache. A nil or unreachable server
// leaves the cache off and sessions are resolved from the database.
func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		if redisServer == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisServer.Ping(ctx); err != nil {
			if s.log != nil {
				s.log.Warnf("Redis unavailable, session cache disabled: %v", err)
			}
			return nil
		}
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, s.config.ChatRateLimit, s.config.ChatRateBurst)
		return nil
	}
}

func WithChatModel() ServerOption {
	return func(s *Server) error {
		model, err := llm.New(s.config.LLMProvider)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create language model client: %v", err)
			}
			return fmt.Errorf("failed to create language model client: %w", err)
		}
		s.chatModel = model
		return nil
	}
}

func WithExtractor() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before extractor")
		}
		s.extractor = webpage.New(s.log, webpage.Config{
			Timeout:              s.config.PageFetchTimeout,
			UserAgent:            s.config.PageUserAgent,
			AllowPrivateNetworks: s.config.PageAllowPrivateNetworks,
		})
		return nil
	}
}

func WithMatcher(opts ...nlp.Option) ServerOption {
	return func(s *Server) error {
		s.matcher = nlp.NewMatcher(opts...)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

// WithGoogleProvider enables "sign in with Google" for owners. A nil
// provider leaves it off.
func WithGoogleProvider(provider google.IGoogle) ServerOption {
	return func(s *Server) error {
		s.google = provider
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Auth Domain
	authRepo := authRepository.New(s.db, s.log)
	authServices := authService.New(s.log, authRepo, s.bcryptUtils, s.google, s.utils, s.config.TokenTTL)
	authHandlers := authHandler.New(s.log, authServices, s.validator, s.middleware)

	// Knowledge Domain
	knowledgeRepo := knowledgeRepository.New(s.db, s.log)
	knowledgeServices := knowledgeService.New(s.log, knowledgeRepo, s.redisServer, s.extractor, knowledgeService.Config{
		Timeout:         s.config.KnowledgeTimeout,
		SessionCacheTTL: s.config.SessionCacheTTL,
	})
	knowledgeHandlers := knowledgeHandler.New(s.log, s.validator, s.middleware, knowledgeServices)

	// Chat Domain
	chatRepo := chatRepository.New(s.db, s.log)
	chatServices := chatService.NewChatService(s.log, chatRepo, knowledgeServices, s.matcher, s.extractor, s.chatModel, s.utils, chatService.Config{
		PageFetchTimeout: s.config.PageFetchTimeout,
	})
	chatHandlers := chatHandler.New(s.log, s.validator, s.middleware, chatServices, s.utils)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, authHandlers, knowledgeHandlers, chatHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware)
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}

	return s.engine.Listen(fmt.Sprintf(":%s", s.config.Port))
}

// Shutdown stops accepting requests and releases the database pool and the
// language model client.
func (s *Server) Shutdown() error {
	err := s.engine.Shutdown()

	if closer, ok := s.chatModel.(interface{ Close() }); ok {
		closer.Close()
	}
	if s.db != nil {
		if cerr := s.db.Close(); cerr != nil {
			s.log.Warnf("Failed to close database: %v", cerr)
		}
	}

	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
