package errs

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// check if any error occurred
		errs := c.Errors
		if len(errs) == 0 {
			return
		}

		// take the last error
		err := errs.Last().Err

		var appErr *AppError
		if ok := errors.As(err, &appErr); ok {
			// check for internal error
			if appErr.Err != nil {
				logger.Error("Unexpected error occurred",
					zap.String("path", c.Request.URL.Path),
					zap.Error(appErr.Err),
				)
			}

			c.JSON(appErr.Code, body(appErr))
		} else {
			logger.Error("Unhandled non-app error occurred", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unhandled server error! Please report to service administrator."})
		}
	}
}

func body(appErr *AppError) gin.H {
	msgs := appErr.Messages
	res := gin.H{}

	switch len(msgs) {
	case 0:
		res["error"] = http.StatusText(appErr.Code)
	case 1:
		res["error"] = msgs[0]
	default:
		// several validation messages: summary plus every message in details
		res["error"] = "Request validation failed"
		res["details"] = strings.Join(msgs, "; ")
	}

	if appErr.Details != "" {
		res["details"] = appErr.Details
	}

	return res
}
