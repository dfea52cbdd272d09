package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/shop-api/pkg/logger"
	"github.com/d60-Lab/shop-api/pkg/response"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,min=2,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register 注册
// @Summary 用户注册
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body registerRequest true "注册信息"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/user/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"id": user.ID, "email": user.Email})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 登录
// @Summary 用户登录
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/user/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"token": token, "user": gin.H{
		"id": user.ID, "username": user.Username, "email": user.Email, "role": user.Role,
	}})
}

type resetRequestRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestReset 发送找回密码验证码
// @Summary 请求重置密码（发送 OTP）
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body resetRequestRequest true "邮箱"
// @Success 200 {object} response.Response
// @Router /api/user/reset/request [post]
func (h *Handler) RequestReset(c *gin.Context) {
	var req resetRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	code, err := h.auth.RequestReset(c.Request.Context(), req.Email)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	// 验证码走邮件通道下发；邮箱是否存在不在响应中区分
	if code != "" {
		logger.Debug("reset code issued", zap.String("email", req.Email))
	}
	response.SuccessMsg(c, "if the email exists, a verification code has been sent", nil)
}

type resetVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// VerifyReset 校验验证码
// @Summary 校验重置验证码
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body resetVerifyRequest true "邮箱与验证码"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/user/reset/verify [post]
func (h *Handler) VerifyReset(c *gin.Context) {
	var req resetVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.auth.VerifyReset(c.Request.Context(), req.Email, req.Code); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

type resetConfirmRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ConfirmReset 重置密码
// @Summary 重置密码
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body resetConfirmRequest true "邮箱、验证码与新密码"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/user/reset/confirm [post]
func (h *Handler) ConfirmReset(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.auth.ConfirmReset(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessMsg(c, "password updated", nil)
}
