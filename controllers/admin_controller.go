package controllers

import (
	"net/http"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/IrakliAvdulaj/trek-fleet-apply/middlewares"
	"github.com/IrakliAvdulaj/trek-fleet-apply/pkg/resp"
	"github.com/IrakliAvdulaj/trek-fleet-apply/services"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	Service *services.CourierApplicationService
}

func NewAdminController(s *services.CourierApplicationService) *AdminController {
	return &AdminController{Service: s}
}

// notes ไม่บังคับ
type ReviewReq struct {
	Notes string `json:"notes"`
}

type ReviewResp struct {
	ApplicationID string                   `json:"applicationId"`
	Status        entity.ApplicationStatus `json:"status"`
	Notes         string                   `json:"notes,omitempty"`
	ApprovedBy    string                   `json:"approvedBy"`
}

// GET /admin/applications ทั้งหมด ใหม่สุดก่อน + ตัวเลขรวม
func (ac *AdminController) Applications(c *gin.Context) {
	ctx := c.Request.Context()
	items, err := ac.Service.ListAll(ctx)
	if err != nil {
		resp.Error(c, err)
		return
	}
	stats, err := ac.Service.Stats(ctx)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"items": items, "stats": stats})
}

// PATCH /admin/applications/:id/approve
func (ac *AdminController) Approve(c *gin.Context) {
	ac.review(c, entity.StatusApproved)
}

// PATCH /admin/applications/:id/reject
func (ac *AdminController) Reject(c *gin.Context) {
	ac.review(c, entity.StatusRejected)
}

func (ac *AdminController) review(c *gin.Context, status entity.ApplicationStatus) {
	id := c.Param("id")
	if id == "" {
		resp.BadRequest(c, "invalid id")
		return
	}

	var req ReviewReq
	// body ว่างได้ (ไม่มี notes)
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			resp.BadRequest(c, err.Error())
			return
		}
	}

	app, err := ac.Service.SetStatus(c.Request.Context(), id, status, req.Notes)
	if err != nil {
		resp.Error(c, err)
		return
	}

	out := ReviewResp{ApplicationID: app.ID, Status: app.Status, Notes: app.Notes()}
	if app.ApprovedBy != nil {
		out.ApprovedBy = *app.ApprovedBy
	}
	resp.WithMessage(c, http.StatusOK, out, middlewares.T(c, "application.reviewed"))
}
