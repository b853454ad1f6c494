package resp

import (
	"errors"
	"net/http"

	"github.com/IrakliAvdulaj/trek-fleet-apply/services"
	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}

// WithMessage ใส่ข้อความที่แปลแล้วไปด้วย (ใช้แสดง toast ฝั่ง client)
func WithMessage(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{"ok": true, "data": data, "message": message})
}
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msg})
}
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": msg})
}
func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": msg})
}

// Error แปลง error ของ services เป็น status code
func Error(c *gin.Context, err error) {
	ErrorMessage(c, err, err.Error())
}

// ErrorMessage เหมือน Error แต่ใช้ข้อความที่แปลแล้วแทน err.Error()
func ErrorMessage(c *gin.Context, err error, msg string) {
	status, code := StatusOf(err)
	body := gin.H{"ok": false, "error": msg, "code": code}
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		body["fields"] = ve.Fields
	}
	c.JSON(status, body)
}

func StatusOf(err error) (int, string) {
	var (
		ae *services.AuthError
		se *services.StoreError
		ve *services.ValidationError
	)
	switch {
	case errors.As(err, &ae):
		switch ae.Code {
		case services.AuthInvalidCredentials, services.AuthInvalidToken:
			return http.StatusUnauthorized, ae.Code
		case services.AuthEmailTaken:
			return http.StatusConflict, ae.Code
		}
		return http.StatusBadRequest, ae.Code
	case errors.As(err, &se):
		switch se.Kind {
		case services.StoreForbidden:
			return http.StatusForbidden, string(se.Kind)
		case services.StoreNotFound:
			return http.StatusNotFound, string(se.Kind)
		case services.StoreConflict, services.StoreInvalidTransition:
			return http.StatusConflict, string(se.Kind)
		case services.StoreInvalid:
			return http.StatusBadRequest, string(se.Kind)
		}
		return http.StatusInternalServerError, string(se.Kind)
	case errors.As(err, &ve):
		return http.StatusBadRequest, "validation"
	}
	return http.StatusInternalServerError, "internal"
}
