package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

func CurrentUserID(c *gin.Context) string {
	return c.GetString("userId")
}

// BearerToken อ่าน token จาก Authorization header หรือ ?token= (websocket)
func BearerToken(c *gin.Context, allowQuery bool) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if allowQuery {
		return c.Query("token")
	}
	return ""
}
