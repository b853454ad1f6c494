package controllers

import (
	"net/http"

	"github.com/IrakliAvdulaj/trek-fleet-apply/middlewares"
	"github.com/IrakliAvdulaj/trek-fleet-apply/pkg/resp"
	"github.com/IrakliAvdulaj/trek-fleet-apply/services"
	"github.com/IrakliAvdulaj/trek-fleet-apply/utils"

	"github.com/gin-gonic/gin"
)

type CourierApplicationController struct {
	Service *services.CourierApplicationService
}

func NewCourierApplicationController(s *services.CourierApplicationService) *CourierApplicationController {
	return &CourierApplicationController{Service: s}
}

// ===== ผู้สมัคร ดูใบสมัครตัวเอง (ไม่มี = data: null) =====
func (ctl *CourierApplicationController) GetMine(c *gin.Context) {
	app, err := ctl.Service.GetOwn(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, app)
}

// ===== ผู้สมัคร ยื่นสมัคร =====
func (ctl *CourierApplicationController) Apply(c *gin.Context) {
	var req services.ApplicationDraft
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	app, err := ctl.Service.Create(c.Request.Context(), req)
	if err != nil {
		if services.IsStoreKind(err, services.StoreConflict) {
			resp.ErrorMessage(c, err, middlewares.T(c, "application.exists"))
			return
		}
		resp.Error(c, err)
		return
	}
	resp.WithMessage(c, http.StatusCreated, app, middlewares.T(c, "application.submitted"))
}

// ===== ผู้สมัคร แก้ไข (เฉพาะ pending) =====
func (ctl *CourierApplicationController) UpdateMine(c *gin.Context) {
	var req services.ApplicationPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	app, err := ctl.Service.Update(c.Request.Context(), utils.CurrentUserID(c), req)
	if err != nil {
		if services.IsStoreKind(err, services.StoreConflict) {
			resp.ErrorMessage(c, err, middlewares.T(c, "application.not.editable"))
			return
		}
		resp.Error(c, err)
		return
	}
	resp.WithMessage(c, http.StatusOK, app, middlewares.T(c, "application.updated"))
}
