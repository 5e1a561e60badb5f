package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/personal-card/pkg/apperror"
	"github.com/khoahotran/personal-card/pkg/auth"
	"github.com/khoahotran/personal-card/pkg/logger"
)

const (
	GinContextKeyOwnerID  = "ownerID"
	GinContextKeyIdentity = "identity"
)

// AuthMiddleware accepts a bearer token that validates and has not been signed out.
// denylist may be nil.
func AuthMiddleware(jwtSvc *auth.JWTService, denylist auth.Denylist, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		identity := claims.Identity()
		if denylist != nil && identity.TokenID != "" {
			revoked, err := denylist.IsRevoked(c.Request.Context(), identity.TokenID)
			if err != nil {
				log.Error("Failed to check token denylist", err, zap.String("user_id", identity.UserID.String()))
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "cannot verify session"})
				return
			}
			if revoked {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has been signed out"})
				return
			}
		}

		c.Set(GinContextKeyOwnerID, identity.UserID)
		c.Set(GinContextKeyIdentity, identity)

		c.Next()
	}
}

func GetOwnerIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	ownerID, ok := c.Get(GinContextKeyOwnerID)
	if !ok {
		return uuid.Nil, false
	}
	ownerIDUUID, ok := ownerID.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}
	return ownerIDUUID, true
}

// GetIdentityFromGinContext returns the zero Identity for anonymous requests.
func GetIdentityFromGinContext(c *gin.Context) auth.Identity {
	v, ok := c.Get(GinContextKeyIdentity)
	if !ok {
		return auth.Identity{}
	}
	identity, _ := v.(auth.Identity)
	return identity
}

// ErrorMiddleware renders the last error a handler attached with c.Error.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := apperror.ToHTTPStatus(err)

		l := log.With(zap.String("method", c.Request.Method), zap.String("path", c.FullPath()), zap.Int("status", status))
		if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.IsValid() {
			l = l.With(zap.String("trace_id", sc.TraceID().String()))
		}
		if status >= http.StatusInternalServerError {
			l.Error("Request failed", err)
		} else {
			l.Debug("Request rejected", zap.Error(err))
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.JSON(status, appErr.ToJSON())
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperror.ErrInternal.Error(), "message": "An internal server error occurred"})
	}
}

// TracingMiddleware opens a server span per request so use case spans share one trace.
func TracingMiddleware() gin.HandlerFunc {
	tracer := otel.Tracer("http")
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+c.FullPath(),
			trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		span.SetAttributes(attribute.Int("http.status_code", c.Writer.Status()))
		if len(c.Errors) > 0 {
			span.RecordError(c.Errors.Last().Err)
		}
	}
}
