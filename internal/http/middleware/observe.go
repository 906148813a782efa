package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/OwaisIslam/living-real/internal/observability"
	"github.com/OwaisIslam/living-real/internal/platform/ctxutil"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
)

const (
	headerRequestID = "X-Request-Id"
	headerTraceID   = "X-Trace-Id"

	maxRequestIDLen = 64
	callerAnonymous = "anonymous"
	routeUnmatched  = "unmatched"
)

// RequestIDs attaches a request id and a trace id to the request context and
// echoes both in the response. A client supplied X-Request-Id is kept when it
// is short and made of [A-Za-z0-9._-]. The trace id comes from the active
// span, falling back to the request id.
func RequestIDs() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(headerRequestID)
		if !validRequestID(reqID) {
			reqID = uuid.NewString()
		}
		traceID := reqID
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			traceID = sc.TraceID().String()
		}

		c.Request = c.Request.WithContext(ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
		}))
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Writer.Header().Set(headerTraceID, traceID)
		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}

// Observe emits one metric sample and one log line per request, labelled with
// the route template and the caller's role. The role is read after the
// handler chain ran, so RequireAuth further down the chain is reflected.
func Observe(log *logger.Logger, m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		elapsed := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = routeUnmatched
		}
		status := c.Writer.Status()
		caller := callerRole(c.Request.Context())
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(status), caller, elapsed)

		if log == nil {
			return
		}
		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"caller", caller,
			"duration_ms", elapsed.Milliseconds(),
		}
		if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
			fields = append(fields, "user_id", rd.UserID.String())
		}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			fields = append(fields, "request_id", td.RequestID, "trace_id", td.TraceID)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("HTTP request", fields...)
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			log.Info("HTTP request denied", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

func callerRole(ctx context.Context) string {
	if rd := ctxutil.GetRequestData(ctx); rd != nil && rd.Role != "" {
		return string(rd.Role)
	}
	return callerAnonymous
}
