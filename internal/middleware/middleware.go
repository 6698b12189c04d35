package middleware

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"kinoteka/internal/cache"
	"kinoteka/internal/logger"
	"kinoteka/internal/metrics"
	"kinoteka/internal/models"
	"kinoteka/internal/repository"
)

const actorKey = "actor"

// ActorFromContext returns the authenticated actor set by BasicAuth.
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	v, exists := c.Get(actorKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}

// SetActor is used by tests to inject an actor without going through auth.
func SetActor(c *gin.Context, actor models.Actor) {
	c.Set(actorKey, actor)
}

// CORS handles cross-origin requests
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

// RequestID tags every request with a UUID for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = logger.NewRequestID()
		}

		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(
			logger.ContextWithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}

// Logger emits a structured line for requests that end in an error status
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		actor, hasActor := ActorFromContext(c)

		logFields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		}

		if hasActor {
			logFields = append(logFields, "user_id", actor.ID)
		}

		if c.Writer.Status() >= 400 {
			if len(c.Errors) > 0 {
				logFields = append(logFields, "error", c.Errors.String())
			}
			slog.Error("Request completed with error", logFields...)
		}
	}
}

// Metrics records the request latency histogram.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

// Recovery turns panics into 500 responses with detailed logging
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		slog.Error("PANIC recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"client_ip", c.ClientIP(),
		)

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Internal server error",
			})
		}
	})
}

// BasicAuth authenticates the caller against the Valkey credential cache,
// falling back to the users table, and attaches the actor (id + role) to
// the request.
func BasicAuth(userRepo *repository.UserRepository, valkeyClient *cache.ValkeyClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="Restricted"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		passwordHash := fmt.Sprintf("%x", sha256.Sum256([]byte(password)))
		ctx := c.Request.Context()

		if valkeyClient != nil {
			if userID, role, err := valkeyClient.GetAuth(ctx, username, passwordHash); err == nil {
				attachActor(c, models.Actor{ID: userID, Role: role})
				c.Next()
				return
			}
		}

		user, err := userRepo.GetByUsername(ctx, username)
		if err != nil {
			slog.Error("Auth lookup failed", "error", err, "username", username)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}
		if user == nil || user.PasswordHash != passwordHash {
			c.Header("WWW-Authenticate", `Basic realm="Restricted"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		if valkeyClient != nil {
			valkeyClient.SetAuth(ctx, username, passwordHash, user.ID, user.Role)
		}

		attachActor(c, models.Actor{ID: user.ID, Role: user.Role})
		c.Next()
	}
}

func attachActor(c *gin.Context, actor models.Actor) {
	c.Set(actorKey, actor)
	c.Request = c.Request.WithContext(
		logger.ContextWithUserID(c.Request.Context(), actor.ID))
}

// RequireAdmin rejects callers without the admin role. The booking service
// re-checks the role; this gate just answers earlier.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok || !actor.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		c.Next()
	}
}
