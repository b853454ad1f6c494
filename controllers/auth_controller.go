package controllers

import (
	"net/http"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
	"github.com/IrakliAvdulaj/trek-fleet-apply/middlewares"
	"github.com/IrakliAvdulaj/trek-fleet-apply/pkg/resp"
	"github.com/IrakliAvdulaj/trek-fleet-apply/services"
	"github.com/IrakliAvdulaj/trek-fleet-apply/utils"

	"github.com/gin-gonic/gin"
)

type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResp struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"isAdmin"`
}

func toUserResp(u *entity.User) UserResp {
	return UserResp{ID: u.ID, Email: u.Email, Role: u.Role, IsAdmin: u.IsAdmin()}
}

type AuthController struct{ Service *services.AuthService }

func NewAuthController(s *services.AuthService) *AuthController { return &AuthController{Service: s} }

// POST /auth/signup
func (a *AuthController) SignUp(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	user, err := a.Service.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.WithMessage(c, http.StatusCreated, toUserResp(user), middlewares.T(c, "signed.up"))
}

// POST /auth/signin
func (a *AuthController) SignIn(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	token, user, err := a.Service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.WithMessage(c, http.StatusOK, gin.H{"token": token, "user": toUserResp(user)}, middlewares.T(c, "signed.in"))
}

// POST /auth/signout (ต้อง login)
func (a *AuthController) SignOut(c *gin.Context) {
	if err := a.Service.SignOut(c.Request.Context(), c.GetString("token")); err != nil {
		resp.Error(c, err)
		return
	}
	resp.WithMessage(c, http.StatusOK, nil, middlewares.T(c, "signed.out"))
}

// POST /auth/refresh (ต้อง login)
func (a *AuthController) Refresh(c *gin.Context) {
	token, user, err := a.Service.Refresh(c.Request.Context(), c.GetString("token"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"token": token, "user": toUserResp(user)})
}

// GET /auth/me (ต้อง login)
func (a *AuthController) Me(c *gin.Context) {
	user, err := a.Service.Me(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, toUserResp(user))
}
