package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/strategiq/website-backend/utils"
)

// AdminTokenHeader carries the shared admin secret on privileged requests.
const AdminTokenHeader = "X-Admin-Token"

// AdminRequired gates listing, download, and delete endpoints behind the
// single configured admin secret. The comparison is constant-time, and a
// mismatch aborts before any handler, storage, or filesystem work runs. The
// response never reveals whether the target resource exists.
func AdminRequired(token string) gin.HandlerFunc {
	secret := []byte(token)
	return func(ctx *gin.Context) {
		presented := []byte(ctx.GetHeader(AdminTokenHeader))
		if len(secret) == 0 || subtle.ConstantTimeCompare(presented, secret) != 1 {
			utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
