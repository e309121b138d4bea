package web

import (
	"errors"
	"net/http"

	"aerobook/pkg/backend"

	"github.com/gin-gonic/gin"
)

type ErrorCode string

const (
	ErrorCodeValidation          ErrorCode = "VALIDATION"
	ErrorCodeBackendRejected     ErrorCode = "BACKEND_REJECTED"
	ErrorCodeMissingPrecondition ErrorCode = "MISSING_PRECONDITION"
	ErrorCodeInternalFailure     ErrorCode = "INTERNAL_FAILURE"
)

// AppError is an error with a fixed HTTP mapping. Redirect is set on
// missing-precondition errors so the client knows which earlier step to
// return to instead of rendering an error banner.
type AppError struct {
	Status   int
	Code     ErrorCode
	Message  string
	Redirect string
}

func (e *AppError) Error() string {
	return e.Message
}

// ValidationError is a client-side rule violation, caught before any
// network call and fully recoverable by editing input.
func ValidationError(msg string) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    ErrorCodeValidation,
		Message: msg,
	}
}

// PreconditionError means required upstream state is absent; redirect
// names the step that can produce it.
func PreconditionError(msg, redirect string) *AppError {
	return &AppError{
		Status:   http.StatusConflict,
		Code:     ErrorCodeMissingPrecondition,
		Message:  msg,
		Redirect: redirect,
	}
}

// SendError writes err as a JSON error response. Backend rejections keep
// their own status when it is a 4xx (the server's validation verdicts pass
// through); transport-level failures collapse to 502 with the server's
// message or a generic fallback.
func SendError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		body := gin.H{
			"error": appErr.Message,
			"code":  appErr.Code,
		}
		if appErr.Redirect != "" {
			body["redirect"] = appErr.Redirect
		}
		c.JSON(appErr.Status, body)
		return
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadGateway
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			status = apiErr.StatusCode
		}
		c.JSON(status, gin.H{
			"error": apiErr.Error(),
			"code":  ErrorCodeBackendRejected,
		})
		return
	}

	c.JSON(http.StatusBadGateway, gin.H{
		"error": "The booking service is unavailable. Please try again.",
		"code":  ErrorCodeBackendRejected,
	})
}
