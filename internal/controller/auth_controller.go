package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/middleware"
	"grocery-admin/internal/service"
)

type AuthController struct {
	Service *service.AuthService
}

func NewAuthController(s *service.AuthService) *AuthController {
	return &AuthController{Service: s}
}

// POST /admin/login
func (ctl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := ctl.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, res, dto.Success("Selamat datang, "+res.Name))
}

// GET /admin/me
func (ctl *AuthController) Me(c *gin.Context) {
	ok(c, http.StatusOK, middleware.CurrentUser(c), nil)
}
