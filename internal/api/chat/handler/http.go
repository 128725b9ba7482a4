package chatHandler

import (
	chatService "WidgetBackend/internal/api/chat/service"
	"WidgetBackend/internal/middleware"
	"WidgetBackend/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type ChatHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	chatService chatService.IChatService
	utils       utils.IUtils
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs chatService.IChatService,
	utils utils.IUtils,
) *ChatHandler {
	return &ChatHandler{
		log:         log,
		validator:   validate,
		middleware:  middleware,
		chatService: cs,
		utils:       utils,
	}
}

func (h *ChatHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals(clientIPKey, c.IP())
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	chat := srv.Group("/chat")

	// Public, called by the embedded widget
	chat.Post("", h.middleware.NewRateLimiter, h.Chat)
	chat.Use("/ws", h.middleware.NewRateLimiter, wsMiddleware)
	chat.Get("/ws", websocket.New(h.handleChatWebSocket))

	// Owner dashboard
	chat.Post("/match", h.middleware.NewTokenMiddleware, h.Match)
	chat.Get("/history", h.middleware.NewTokenMiddleware, h.GetHistory)
}
