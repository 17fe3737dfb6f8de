package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the standard payload envelope for non-contract endpoints.
type Response struct {
	Status  int        `json:"status"`
	Message string     `json:"message,omitempty"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// RespondOK writes a 200 response with the standard envelope.
func RespondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// RespondWithError writes an error response with the standard envelope.
func RespondWithError(c *gin.Context, statusCode int, info *ErrorInfo) {
	c.JSON(statusCode, Response{
		Status: statusCode,
		Error:  info,
	})
}

// ErrorHandler renders errors attached to the gin context as the standard
// error envelope. Handlers that already wrote a response are left alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			RespondWithError(c, reqErr.StatusCode, reqErr.GetErrorInfo())
			return
		}
		RespondWithError(c, http.StatusInternalServerError, &ErrorInfo{
			Code:    ErrInternalCode,
			Message: err.Error(),
		})
	}
}
