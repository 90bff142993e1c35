package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/pulse/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// requestID reuses a valid incoming X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if len(c.Errors) > 0 {
			logger.Error("request failed", append(attrs, "error", c.Errors.String())...)
			return
		}
		logger.Info("request", attrs...)
	}
}

// failureStatus maps an error onto the status a handler answers with.
// Validation problems are the caller's; everything else is ours.
func failureStatus(err error) (int, *common.ValidationError) {
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, ve
	}
	return http.StatusInternalServerError, nil
}

// genericFailure is shown instead of remote error details.
const genericFailure = "Something went wrong talking to the spreadsheet. Please try again."
