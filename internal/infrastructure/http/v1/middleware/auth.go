package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/appctx"
)

// TokenValidator validates a bearer token and returns the account bound to it.
type TokenValidator interface {
	ValidateToken(token string) (*appctx.AccountContext, error)
}

// Auth extracts and validates the Bearer token, then attaches the account
// context to the request. All data access below is scoped by this account.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Error(apperror.NewUnauthorized("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Error(apperror.NewUnauthorized("invalid authorization header format"))
			c.Abort()
			return
		}

		acc, err := validator.ValidateToken(parts[1])
		if err != nil {
			c.Error(apperror.NewUnauthorized("invalid or expired token"))
			c.Abort()
			return
		}

		ctx := appctx.WithAccount(c.Request.Context(), acc)
		c.Request = c.Request.WithContext(ctx)
		c.Set("account_id", acc.AccountID)

		c.Next()
	}
}
