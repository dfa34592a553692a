package ui

import (
	stderrors "errors"

	apperrors "corrplot/internal/errors"

	"github.com/gin-gonic/gin"
)

// errorResponse is the JSON body of every failed API call
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError aborts with the status and code the error classifies as.
// Internal failures are answered with a generic message; the request
// logger records the cause.
func respondError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	status := apperrors.HTTPStatus(err)

	message := err.Error()
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		message = appErr.Message
	}
	if code == apperrors.CodeInternalError {
		message = "internal error"
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorResponse{Error: message, Code: code})
}
