package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/haku19602/beetlefactory-back/apperr"
	"github.com/haku19602/beetlefactory-back/auth"
	"github.com/haku19602/beetlefactory-back/models"
)

const (
	userKey  = "auth.user"
	tokenKey = "auth.token"
)

// expiryExempt lists the endpoints an expired (but well-signed and still
// listed) token may reach: renewing the session and tearing it down. Nothing
// else.
var expiryExempt = map[string]bool{
	"/users/extend": true,
	"/users/logout": true,
}

// ExpiryExempt reports whether an expired token may still reach path.
func ExpiryExempt(path string) bool {
	return expiryExempt[path]
}

// ValidateToken authenticates the bearer token and attaches the resolved user
// plus the raw token string to the request context. Validity is two checks:
// the signature/expiry of the token itself, and its literal presence among the
// account's session rows.
func ValidateToken(sessions *auth.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == "" || tokenString == header {
			apperr.Fail(c, apperr.ErrInvalidToken)
			return
		}

		claims, expired, err := sessions.Signer().Parse(tokenString)
		if err != nil {
			apperr.Fail(c, err)
			return
		}
		if expired && !ExpiryExempt(c.FullPath()) {
			apperr.Fail(c, apperr.ErrTokenExpired)
			return
		}

		user, err := sessions.Resolve(claims.UserID, tokenString)
		if err != nil {
			apperr.Fail(c, err)
			return
		}

		c.Set(userKey, user)
		c.Set(tokenKey, tokenString)
		c.Next()
	}
}

// CurrentUser returns the user attached by ValidateToken.
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(userKey).(*models.User)
}

// CurrentToken returns the raw bearer token attached by ValidateToken.
func CurrentToken(c *gin.Context) string {
	return c.MustGet(tokenKey).(string)
}
