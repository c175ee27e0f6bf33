// Package auth exposes the account and session endpoints.
package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orlogbook/orlog-api/internal/handler"
	"github.com/orlogbook/orlog-api/internal/middleware"
	"github.com/orlogbook/orlog-api/internal/model"
	authservice "github.com/orlogbook/orlog-api/internal/service/auth"
	apperrors "github.com/orlogbook/orlog-api/pkg/errors"
)

type Handler struct {
	svc *authservice.Service
}

func NewHandler(svc *authservice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	auth := rg.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/refresh", h.Refresh)

	protected := auth.Group("", authMW.Authenticate())
	protected.POST("/logout", h.Logout)
	protected.GET("/profile", h.Profile)

	users := protected.Group("/users", middleware.RequireRole(model.RoleAdmin))
	users.GET("", h.ListUsers)
	users.PUT("/:id/role", h.UpdateRole)
	users.DELETE("/:id", h.DeleteUser)
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	user, tokens, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{
		"user":   user,
		"tokens": tokens,
	}))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.BadRequest("email and password are required", err))
		return
	}

	user, tokens, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"user":   user,
		"tokens": tokens,
	}))
}

func (h *Handler) Refresh(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.BadRequest("refresh token is required", err))
		return
	}

	tokens, err := h.svc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

func (h *Handler) Logout(c *gin.Context) {
	token, _ := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if err := h.svc.Logout(c.Request.Context(), token); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessMessageResponse("logged out", nil))
}

func (h *Handler) Profile(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		handler.RespondError(c, apperrors.Unauthorized("authentication required", nil))
		return
	}

	user, err := h.svc.Profile(c.Request.Context(), principal.UserID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}

func (h *Handler) ListUsers(c *gin.Context) {
	p, err := handler.ParsePagination(c, model.MaxListLimit)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	filters := &model.UserFilters{}
	if role := c.Query("role"); role != "" {
		parsed, err := model.ParseRole(role)
		if err != nil {
			handler.RespondError(c, apperrors.BadRequest("role must be nurse, surgeon, or admin", err))
			return
		}
		filters.Role = parsed
	}

	users, pageInfo, err := h.svc.ListUsers(c.Request.Context(), filters, p)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"users":      users,
		"pagination": pageInfo,
	}))
}

func (h *Handler) UpdateRole(c *gin.Context) {
	var req model.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.BadRequest("role is required", err))
		return
	}

	user, err := h.svc.UpdateUserRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.svc.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessMessageResponse("user deleted", nil))
}
