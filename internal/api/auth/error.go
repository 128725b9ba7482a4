package auth

import (
	"WidgetBackend/pkg/response"
	"net/http"
)

var (
	ErrEmailAlreadyExists     = response.NewError(http.StatusConflict, "email already exists")
	ErrInvalidEmailOrPassword = response.NewError(http.StatusBadRequest, "email or password is wrong")
	ErrOwnerNotFound          = response.NewError(http.StatusNotFound, "owner not found")
	ErrGoogleLoginDisabled    = response.NewError(http.StatusNotFound, "google login is not configured")
	ErrGoogleLoginFailed      = response.NewError(http.StatusUnauthorized, "google sign in failed")
	ErrInvalidOAuthState      = response.NewError(http.StatusBadRequest, "invalid oauth state")
)
