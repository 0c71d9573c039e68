package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/linguaday/backend/internal/infrastructure/auth"
)

// ValidateTokenOption options for token verification
type ValidateTokenOption struct {
	// InBlackList tells if the token has been revoked, eg. by sign-out
	InBlackList func(token string) (bool, error)
}

// VerifyToken authenticate the request with the JWT cookie and stash the
// claims in the request context
func VerifyToken(ju *auth.JWTUtil, options ...*ValidateTokenOption) echo.MiddlewareFunc {
	var inBlackList func(token string) (bool, error)
	if len(options) > 0 && options[0].InBlackList != nil {
		inBlackList = options[0].InBlackList
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr, err := ju.ExtractToken(c)
			if err != nil {
				return c.NoContent(http.StatusUnauthorized)
			}
			claims, err := ju.Validate(tokenStr)
			if err != nil {
				ju.ClearClientToken(c)
				return c.NoContent(http.StatusUnauthorized)
			}
			if inBlackList != nil {
				if revoked, err := inBlackList(tokenStr); err != nil {
					return err
				} else if revoked {
					ju.ClearClientToken(c)
					return c.NoContent(http.StatusUnauthorized)
				}
			}
			ju.SetContextToken(c, claims)
			return next(c)
		}
	}
}

// RefreshToken re-issue the token on activity so active sessions never
// expire mid-use. Must run after VerifyToken.
func RefreshToken(ju *auth.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims := ju.GetContextToken(c); claims != nil {
				refreshed := ju.RefreshToken(claims)
				if tokenStr, err := ju.Sign(refreshed); err == nil {
					ju.SetClientToken(c, tokenStr)
				}
			}
			return next(c)
		}
	}
}
