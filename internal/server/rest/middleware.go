package rest

import (
	"time"

	"github.com/dmitrijs2005/colorcheck/internal/common"
	"github.com/dmitrijs2005/colorcheck/internal/server/models"
	"github.com/gin-gonic/gin"
)

const callerKey = "caller"

// tokenAuth resolves the request token and stores the caller in the gin
// context. X-API-TOKEN wins over Authorization.
func (s *HTTPServer) tokenAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(common.APITokenHeaderName)
		if raw == "" {
			raw = c.GetHeader(common.AuthorizationHeaderName)
		}

		user, err := s.auth.Resolve(c.Request.Context(), raw)
		if err != nil {
			s.writeError(c, err)
			c.Abort()
			return
		}

		c.Set(callerKey, user)
		c.Next()
	}
}

func caller(c *gin.Context) *models.User {
	v, ok := c.Get(callerKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}
