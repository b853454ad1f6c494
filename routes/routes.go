package routes

import (
	"net/http"

	"github.com/IrakliAvdulaj/trek-fleet-apply/controllers"
	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/IrakliAvdulaj/trek-fleet-apply/i18n"
	"github.com/IrakliAvdulaj/trek-fleet-apply/middlewares"
	"github.com/IrakliAvdulaj/trek-fleet-apply/pkg/metrics"
	"github.com/IrakliAvdulaj/trek-fleet-apply/services"
	"github.com/IrakliAvdulaj/trek-fleet-apply/ws"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type Deps struct {
	Auth            *services.AuthService
	Applications    *services.CourierApplicationService
	Catalog         *i18n.Catalog
	DefaultLanguage string
	AllowedOrigins  []string
	Log             *logrus.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// rule เสริม (notblank) ต้องมีใน validator ของ gin ก่อน bind
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := services.RegisterValidations(v); err != nil {
			d.Log.WithError(err).Error("❌ register validations failed")
		}
	}

	r.Use(middlewares.CORSMiddleware(d.AllowedOrigins))
	r.Use(metrics.GinMiddleware())
	r.Use(middlewares.Locale(d.Catalog, d.DefaultLanguage))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Controllers
	authCtrl := controllers.NewAuthController(d.Auth)
	appCtrl := controllers.NewCourierApplicationController(d.Applications)
	adminCtrl := controllers.NewAdminController(d.Applications)
	stream := ws.NewApplicationStream(d.Applications, d.Log)

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/signup", authCtrl.SignUp)
		a.POST("/signin", authCtrl.SignIn)
	}

	// Auth (protected)
	aAuth := a.Group("", middlewares.AuthMiddleware(d.Auth))
	{
		aAuth.POST("/signout", authCtrl.SignOut)
		aAuth.POST("/refresh", authCtrl.Refresh)
		aAuth.GET("/me", authCtrl.Me)
	}

	// ใบสมัครของตัวเอง (ต้องล็อกอิน)
	apps := r.Group("/applications", middlewares.AuthMiddleware(d.Auth))
	{
		apps.GET("/me", appCtrl.GetMine)
		apps.POST("", appCtrl.Apply)
		apps.PATCH("/me", appCtrl.UpdateMine)
	}

	// WS แจ้งเตือนสถานะ (token ผ่าน ?token= ได้)
	r.GET("/ws/applications/me", middlewares.WSAuthMiddleware(d.Auth), stream.HandleWebSocket)

	// Admin (admin only)
	admin := r.Group("/admin", middlewares.AuthMiddleware(d.Auth, entity.RoleAdmin))
	{
		admin.GET("/applications", adminCtrl.Applications)
		admin.PATCH("/applications/:id/approve", adminCtrl.Approve)
		admin.PATCH("/applications/:id/reject", adminCtrl.Reject)
	}
}
