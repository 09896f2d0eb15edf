package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// JSON sends data as the bare response body.
func JSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// Error sends an error response. detail is omitted when empty.
func Error(c *gin.Context, code int, message string, detail string) {
	c.JSON(code, ErrorBody{
		Message:   message,
		Error:     detail,
		RequestID: c.GetString("RequestID"),
	})
}
