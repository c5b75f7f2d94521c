package security

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cityfood/src/errs"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const tokenKey = "token"

// Counter is the shared request counter behind the rate limiter.
type Counter interface {
	Increment(ctx context.Context, key string, expireAfter time.Duration) (int64, error)
}

func (k *Keys) ValidateToken(tokenStr string) (*AccessToken, error) {
	if len(tokenStr) == 0 {
		return nil, errs.Unauthorized("Authorization header is required")
	}

	tokenStr, found := strings.CutPrefix(tokenStr, "Bearer ")
	if !found {
		return nil, errs.Unauthorized("Invalid authorization header format. It must begin with 'Bearer'")
	}

	token, err := k.DecodeAccessToken(tokenStr)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.Unauthorized("Access token is expired! Please refresh it.")
		} else if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, errs.Unauthorized("Access token has an invalid signature! Please authenticate again.")
		}
		return nil, errs.Unauthorized(err.Error())
	}

	return token, nil
}

func AuthMiddleware(keys *Keys) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := strings.TrimSpace(c.GetHeader("Authorization"))

		token, err := keys.ValidateToken(tokenStr)
		if err != nil {
			// reading the request so Firefox doesn't throw NS_ERROR_NET_RESET
			_, _ = c.GetRawData()

			c.Error(err)
			c.Abort()
			return
		}

		c.Set(tokenKey, token)
		c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware(c *gin.Context) {
	token, ok := c.Get(tokenKey)
	if !ok || !token.(*AccessToken).IsAdmin {
		c.Error(errs.NoAccess)
		c.Abort()
		return
	}

	c.Next()
}

// Token returns the access token set by AuthMiddleware, nil on public routes.
func Token(c *gin.Context) *AccessToken {
	if token, ok := c.Get(tokenKey); ok {
		return token.(*AccessToken)
	}
	return nil
}

func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// clientId is the token subject when a valid token is sent, the remote ip otherwise
func (k *Keys) clientId(c *gin.Context) string {
	clientId := c.RemoteIP()

	tokenStr := strings.TrimSpace(c.GetHeader("Authorization"))
	if token, err := k.ValidateToken(tokenStr); err == nil {
		clientId = token.Subject
	}

	return clientId
}

// RateLimitMiddleware lets a request through when the counter fails.
func RateLimitMiddleware(keys *Keys, counter Counter, maxRequests int64, resetAfter time.Duration) gin.HandlerFunc {
	logger := zap.L()
	logger.Info("Creating a rate limit middleware",
		zap.Int64("max_requests", maxRequests),
		zap.Duration("reset_after", resetAfter),
	)

	return func(c *gin.Context) {
		clientId := keys.clientId(c)

		count, err := counter.Increment(c.Request.Context(), "rateLimit:"+clientId, resetAfter)
		if err != nil {
			logger.Error("Failed to increment rate limit for client",
				zap.String("client_id", clientId),
				zap.Error(err),
			)
		}

		if count > maxRequests {
			c.Error(errs.UserError("You are sending too many requests to the server!", http.StatusTooManyRequests))
			c.Abort()
			return
		}

		c.Next()
	}
}

// FileSizeLimitMiddleware only limits multipart requests, JSON bodies pass untouched.
func FileSizeLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
			c.Next()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

		if err := c.Request.ParseMultipartForm(1024); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				c.Error(errs.UserError(fmt.Sprintf("Uploaded file exceeds the size limit of %v bytes!", maxBytes), http.StatusRequestEntityTooLarge))
				c.Abort()
				return
			}

			c.Error(errs.Validation(fmt.Sprintf("Failed to parse multipart form: %v", err)))
			c.Abort()
			return
		}

		c.Next()
	}
}
