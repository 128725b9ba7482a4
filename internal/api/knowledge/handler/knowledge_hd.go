package knowledgeHandler

import (
	"WidgetBackend/internal/api/knowledge"
	contextPkg "WidgetBackend/pkg/context"
	"WidgetBackend/pkg/handlerUtil"
	jwtPkg "WidgetBackend/pkg/jwt"
	"WidgetBackend/pkg/log"
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

func (h *KnowledgeHandler) GetPages(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	tenant, err := jwtPkg.GetTenantLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	res, err := h.knowledgeService.GetPages(c, tenant.TenantID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_pages")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *KnowledgeHandler) ReplacePages(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	tenant, err := jwtPkg.GetTenantLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	var req knowledge.ReplacePagesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"tenant_id":  tenant.TenantID,
		"pages":      len(req.Pages),
	}).Debug("Replacing knowledge base")

	res, err := h.knowledgeService.ReplacePages(c, tenant.TenantID, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "replace_pages")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *KnowledgeHandler) RegisterSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	tenant, err := jwtPkg.GetTenantLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	var req knowledge.RegisterSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.knowledgeService.RegisterSession(c, tenant.TenantID, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "register_session")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, res)
	}
}

func (h *KnowledgeHandler) PreviewPage(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	if _, err := jwtPkg.GetTenantLoginData(ctx); err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	rawURL := ctx.Query("url")
	if rawURL == "" {
		return errHandler.HandleValidationError(ctx, requestID, errors.New("url is required"), ctx.Path())
	}

	res, err := h.knowledgeService.PreviewPage(c, rawURL)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "preview_page")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}
