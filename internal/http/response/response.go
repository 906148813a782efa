package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OwaisIslam/living-real/internal/platform/apierr"
	"github.com/OwaisIslam/living-real/internal/platform/ctxutil"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError maps a service error onto the envelope. Untyped errors and
// internal errors are logged and answered with a generic 500.
func RespondAPIError(c *gin.Context, log *logger.Logger, err error) {
	ae, ok := apierr.As(err)
	if !ok || ae.Code == apierr.CodeInternal {
		if log != nil {
			log.Error("request failed", "error", err, "path", c.FullPath(), "request_id", ctxutil.RequestID(c.Request.Context()))
		}
		RespondError(c, http.StatusInternalServerError, apierr.CodeInternal, errInternal)
		return
	}
	status := ae.Status
	if status == 0 {
		status = http.StatusBadRequest
	}
	if ae.Code == apierr.CodePaymentGateway && log != nil {
		log.Warn("payment gateway error", "error", err, "path", c.FullPath(), "request_id", ctxutil.RequestID(c.Request.Context()))
	}
	RespondError(c, status, ae.Code, ae)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
