// Package surgeon exposes the surgeon profile and dashboard endpoints.
package surgeon

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orlogbook/orlog-api/internal/handler"
	"github.com/orlogbook/orlog-api/internal/middleware"
	"github.com/orlogbook/orlog-api/internal/model"
	surgeonservice "github.com/orlogbook/orlog-api/internal/service/surgeon"
	apperrors "github.com/orlogbook/orlog-api/pkg/errors"
)

type Handler struct {
	svc *surgeonservice.Service
}

func NewHandler(svc *surgeonservice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	surgeons := rg.Group("/surgeons", authMW.Authenticate())
	surgeons.GET("", h.List)
	surgeons.GET("/my-profile", middleware.RequireRole(model.RoleSurgeon, model.RoleAdmin), h.MyProfile)
	surgeons.PUT("/my-profile", middleware.RequireRole(model.RoleSurgeon, model.RoleAdmin), h.UpdateMyProfile)
	surgeons.GET("/user/:userId", h.GetByUser)
	surgeons.GET("/:id", h.Get)
	surgeons.GET("/:id/patients", middleware.RequireRole(model.RoleSurgeon, model.RoleAdmin), h.Patients)
	surgeons.GET("/:id/upcoming-operations", middleware.RequireRole(model.RoleSurgeon, model.RoleAdmin), h.Upcoming)
	surgeons.GET("/:id/stats", middleware.RequireRole(model.RoleSurgeon, model.RoleAdmin), h.Stats)
	surgeons.POST("", middleware.RequireRole(model.RoleAdmin), h.Create)
	surgeons.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.Update)
	surgeons.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateSurgeonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	surgeon, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(surgeon))
}

func (h *Handler) Get(c *gin.Context) {
	surgeon, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(surgeon))
}

func (h *Handler) GetByUser(c *gin.Context) {
	surgeon, err := h.svc.GetByUserID(c.Request.Context(), c.Param("userId"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(surgeon))
}

func (h *Handler) MyProfile(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		handler.RespondError(c, apperrors.Unauthorized("authentication required", nil))
		return
	}

	surgeon, err := h.svc.GetByUserID(c.Request.Context(), principal.UserID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(surgeon))
}

func (h *Handler) UpdateMyProfile(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		handler.RespondError(c, apperrors.Unauthorized("authentication required", nil))
		return
	}

	surgeon, err := h.svc.GetByUserID(c.Request.Context(), principal.UserID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	var req model.UpdateSurgeonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), surgeon.ID, &req)
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

	surgeons, pageInfo, err := h.svc.List(c.Request.Context(), p)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"surgeons":   surgeons,
		"pagination": pageInfo,
	}))
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateSurgeonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	surgeon, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(surgeon))
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessMessageResponse("surgeon deleted", nil))
}

func (h *Handler) Patients(c *gin.Context) {
	p, err := handler.ParsePagination(c, model.MaxListLimit)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	result, err := h.svc.Patients(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) Upcoming(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > model.MaxSearchLimit {
			handler.RespondError(c, apperrors.BadRequest("invalid limit, must be between 1 and 50", err))
			return
		}
		limit = parsed
	}

	upcoming, err := h.svc.Upcoming(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(upcoming))
}

func (h *Handler) Stats(c *gin.Context) {
	start, err := handler.ParseDateQuery(c, "startDate")
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	end, err := handler.ParseDateQuery(c, "endDate")
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	stats, err := h.svc.Stats(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}
