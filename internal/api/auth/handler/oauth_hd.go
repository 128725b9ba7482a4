package authHandler

import (
	"WidgetBackend/internal/api/auth"
	contextPkg "WidgetBackend/pkg/context"
	"WidgetBackend/pkg/handlerUtil"
	"WidgetBackend/pkg/log"
	"context"
	"errors"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

func (h *AuthHandler) HandleGoogleLogin(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	errHandler := handlerUtil.New(h.log)

	url, err := h.authService.GoogleLoginURL(os.Getenv("GOOGLE_STATE"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "google_login")
	}

	return ctx.Redirect(url, fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) CallBackFromGoogle(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	state := ctx.Query("state")
	if state != os.Getenv("GOOGLE_STATE") {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
		}).Warn("Invalid state parameter")
		return errHandler.Handle(ctx, requestID, auth.ErrInvalidOAuthState, ctx.Path(), "google_callback")
	}

	code := ctx.Query("code")
	if code == "" {
		if ctx.Query("error") == "access_denied" {
			return errHandler.HandleUnauthorized(ctx, requestID, "Access denied by user")
		}
		return errHandler.HandleValidationError(ctx, requestID, errors.New("no authorization code provided"), ctx.Path())
	}

	res, err := h.authService.LoginGoogle(c, code)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "google_callback")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}
