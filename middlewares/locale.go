package middlewares

import (
	"github.com/IrakliAvdulaj/trek-fleet-apply/i18n"
	"github.com/gin-gonic/gin"
)

const translatorKey = "translator"

// Locale เลือกภาษาจาก ?lang= หรือ Accept-Language
func Locale(catalog *i18n.Catalog, fallback string) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.Query("lang")
		if lang == "" {
			lang = c.GetHeader("Accept-Language")
		}
		if lang == "" {
			lang = fallback
		}
		c.Set(translatorKey, catalog.Translator(lang))
		c.Next()
	}
}

// T แปล key ตามภาษาของ request
func T(c *gin.Context, key string) string {
	if t, ok := c.Get(translatorKey); ok {
		if tr, ok := t.(i18n.Translator); ok {
			return tr.T(key)
		}
	}
	return key
}
