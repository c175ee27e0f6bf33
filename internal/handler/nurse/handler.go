// Package nurse exposes the nurse profile endpoints.
package nurse

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orlogbook/orlog-api/internal/handler"
	"github.com/orlogbook/orlog-api/internal/middleware"
	"github.com/orlogbook/orlog-api/internal/model"
	nurseservice "github.com/orlogbook/orlog-api/internal/service/nurse"
	apperrors "github.com/orlogbook/orlog-api/pkg/errors"
)

type Handler struct {
	svc *nurseservice.Service
}

func NewHandler(svc *nurseservice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	nurses := rg.Group("/nurses", authMW.Authenticate())
	nurses.GET("", h.List)
	nurses.GET("/my-profile", middleware.RequireRole(model.RoleNurse, model.RoleAdmin), h.MyProfile)
	nurses.PUT("/my-profile", middleware.RequireRole(model.RoleNurse, model.RoleAdmin), h.UpdateMyProfile)
	nurses.GET("/user/:userId", h.GetByUser)
	nurses.GET("/:id", h.Get)
	nurses.POST("", middleware.RequireRole(model.RoleAdmin), h.Create)
	nurses.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.Update)
	nurses.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateNurseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	nurse, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(nurse))
}

func (h *Handler) Get(c *gin.Context) {
	nurse, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nurse))
}

func (h *Handler) GetByUser(c *gin.Context) {
	nurse, err := h.svc.GetByUserID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nurse))
}

func (h *Handler) MyProfile(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		handler.RespondError(c, apperrors.Unauthorized("authentication required", nil))
		return
	}

	nurse, err := h.svc.GetByUserID(c.Request.Context(), principal.UserID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nurse))
}

func (h *Handler) UpdateMyProfile(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		handler.RespondError(c, apperrors.Unauthorized("authentication required", nil))
		return
	}

	nurse, err := h.svc.GetByUserID(c.Request.Context(), principal.UserID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	var req model.UpdateNurseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), nurse.ID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) List(c *gin.Context) {
	p, err := handler.ParsePagination(c, model.MaxListLimit)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	nurses, pageInfo, err := h.svc.List(c.Request.Context(), p)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"nurses":     nurses,
		"pagination": pageInfo,
	}))
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateNurseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	nurse, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nurse))
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessMessageResponse("nurse deleted", nil))
}
