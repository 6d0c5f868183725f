package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/user-directory/pkg/response"
)

// RequireIdentityJSON guards JSON endpoints. It expects Authenticate to have
// run and answers 401 in the response envelope instead of redirecting.
func RequireIdentityJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Identity(c) == nil {
			response.Abort(c, response.Error[any](c, http.StatusUnauthorized, "missing or expired session", nil))
			return
		}
		c.Next()
	}
}
