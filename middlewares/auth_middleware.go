package middlewares

import (
	"net/http"
	"strings"

	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by AuthMiddleware.
const (
	CtxUserID = "userID"
	CtxEmail  = "email"
	CtxRole   = "role"
)

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, utils.NewResponse(status, msg, nil))
}

// AuthMiddleware accepts login tokens signed with secret.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return jwtAuth(secret, false)
}

// WSAuthMiddleware also reads ?token= since browsers cannot set headers on
// a websocket handshake.
func WSAuthMiddleware(secret string) gin.HandlerFunc {
	return jwtAuth(secret, true)
}

// ForgotPasswordMiddleware accepts the short-lived tokens issued after a
// forgot-password OTP. They are signed with their own secret, so login tokens
// are rejected here and vice versa.
func ForgotPasswordMiddleware(secret string) gin.HandlerFunc {
	return jwtAuth(secret, false)
}

func jwtAuth(secret string, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" && allowQuery && c.Query("token") != "" {
			authHeader = "Bearer " + c.Query("token")
		}
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abort(c, http.StatusUnauthorized, "Authorization header required")
			return
		}
		if secret == "" {
			abort(c, http.StatusInternalServerError, "server misconfigured: jwt secret not set")
			return
		}

		claims, err := utils.ParseJWT(secret, strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid token")
			return
		}
		id, err := uuid.Parse(claims.ID)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid token subject")
			return
		}

		c.Set(CtxUserID, id)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "insufficient role")
	}
}

// CurrentUser returns the identity AuthMiddleware stored on the context.
func CurrentUser(c *gin.Context) (uuid.UUID, string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return uuid.Nil, "", false
	}
	id, ok := v.(uuid.UUID)
	return id, c.GetString(CtxRole), ok
}
