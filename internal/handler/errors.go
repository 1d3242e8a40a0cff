package handler

import (
	"errors"
	"net/http"

	"hrsuite/internal/auth"
	"hrsuite/internal/provider"
	"hrsuite/internal/service"
	"hrsuite/pkg/response"

	"github.com/gin-gonic/gin"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotPending, http.StatusConflict},
	{service.ErrInvalid, http.StatusBadRequest},

	{auth.ErrNotSignedIn, http.StatusUnauthorized},
	{auth.ErrDemoDisabled, http.StatusForbidden},
	{auth.ErrDemoReadOnly, http.StatusForbidden},
	{auth.ErrMissingLogin, http.StatusBadRequest},
	{auth.ErrMissingFields, http.StatusBadRequest},
	{auth.ErrMissingPhone, http.StatusBadRequest},
	{auth.ErrInvalidTheme, http.StatusBadRequest},

	{provider.ErrInvalidCredentials, http.StatusUnauthorized},
	{provider.ErrNoSession, http.StatusUnauthorized},
	{provider.ErrInvalidToken, http.StatusUnauthorized},
	{provider.ErrEmailTaken, http.StatusConflict},
	{provider.ErrUnknownOAuthProvider, http.StatusNotFound},
	{provider.ErrInvalidOAuthState, http.StatusBadRequest},
	{provider.ErrInvalidOTP, http.StatusBadRequest},
	{provider.ErrInvalidResetToken, http.StatusBadRequest},
	{provider.ErrWeakPassword, http.StatusBadRequest},
}

// statusFor maps a service error to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	c.JSON(status, response.Error(status, msg))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
}
