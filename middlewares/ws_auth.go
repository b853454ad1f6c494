// middlewares/ws_auth.go
package middlewares

import (
	"github.com/gin-gonic/gin"
)

// WSAuthMiddleware ใช้ตรวจสอบ JWT จากทั้ง query และ header
// (browser ส่ง header ตอนเปิด websocket ไม่ได้)
func WSAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return authenticate(verifier, true, nil)
}
