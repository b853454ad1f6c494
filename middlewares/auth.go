package middlewares

import (
	"context"

	"github.com/IrakliAvdulaj/trek-fleet-apply/pkg/resp"
	"github.com/IrakliAvdulaj/trek-fleet-apply/services"
	"github.com/IrakliAvdulaj/trek-fleet-apply/utils"
	"github.com/gin-gonic/gin"
)

type TokenVerifier interface {
	Authenticate(ctx context.Context, token string) (services.Principal, error)
}

// ใช้ตรวจ token และ (ถ้ามี) บังคับ role
func AuthMiddleware(verifier TokenVerifier, requiredRoles ...string) gin.HandlerFunc {
	return authenticate(verifier, false, requiredRoles)
}

func authenticate(verifier TokenVerifier, allowQuery bool, requiredRoles []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := utils.BearerToken(c, allowQuery)
		if tokenStr == "" {
			resp.Unauthorized(c, "missing or invalid token")
			c.Abort()
			return
		}

		p, err := verifier.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			resp.Unauthorized(c, err.Error())
			c.Abort()
			return
		}

		c.Set("userId", p.UserID)
		c.Set("role", p.Role)
		c.Set("token", tokenStr)
		c.Request = c.Request.WithContext(services.WithPrincipal(c.Request.Context(), p))

		if len(requiredRoles) > 0 {
			allowed := false
			for _, r := range requiredRoles {
				if p.Role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				resp.Forbidden(c, "forbidden")
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
