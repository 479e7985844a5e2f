package response

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/campusiq-api/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Success bool                   `json:"success"`
	Data    interface{}            `json:"data,omitempty"`
	Error   *ErrorBody             `json:"error,omitempty"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// ErrorBody is the client-facing part of an *appErrors.Error.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

var exposeDetail atomic.Bool

// ExposeErrorDetail toggles whether wrapped causes are echoed back to clients.
// Production deployments leave it off.
func ExposeErrorDetail(enabled bool) {
	exposeDetail.Store(enabled)
}

// JSON sends a success response with optional metadata.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{Success: true, Data: data}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, data interface{}, meta ...map[string]interface{}) {
	JSON(c, http.StatusOK, data, meta...)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	body := &ErrorBody{Code: appErr.Code, Message: appErr.Message}
	if exposeDetail.Load() && appErr.Err != nil {
		body.Detail = appErr.Err.Error()
	}
	_ = c.Error(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Envelope{Success: false, Error: body})
}

// Attachment streams a rendered file download.
func Attachment(c *gin.Context, filename, contentType string, payload []byte) {
	c.Header("Cache-Control", "no-store")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, payload)
}
