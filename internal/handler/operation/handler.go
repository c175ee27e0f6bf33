// Package operation exposes the operation logbook endpoints.
package operation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orlogbook/orlog-api/internal/handler"
	"github.com/orlogbook/orlog-api/internal/middleware"
	"github.com/orlogbook/orlog-api/internal/model"
	operationservice "github.com/orlogbook/orlog-api/internal/service/operation"
	apperrors "github.com/orlogbook/orlog-api/pkg/errors"
)

type Handler struct {
	svc *operationservice.Service
}

func NewHandler(svc *operationservice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	operations := rg.Group("/operations", authMW.Authenticate())
	operations.GET("", h.List)
	operations.GET("/my-operations", h.MyOperations)
	operations.GET("/today", h.Today)
	operations.GET("/date-range", h.ByDateRange)
	operations.GET("/stats", h.Stats)
	operations.GET("/:id", h.Get)
	operations.POST("", middleware.RequireRole(model.RoleNurse), h.Create)
	operations.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.Update)
	operations.PUT("/:id/status", middleware.RequireRole(model.RoleSurgeon, model.RoleAdmin), h.UpdateStatus)
	operations.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		handler.RespondError(c, apperrors.Unauthorized("authentication required", nil))
		return
	}

	var req model.CreateOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	op, err := h.svc.Create(c.Request.Context(), principal, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(op))
}

func (h *Handler) Get(c *gin.Context) {
	op, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(op))
}

func (h *Handler) List(c *gin.Context) {
	p, err := handler.ParsePagination(c, model.MaxListLimit)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	filters, err := parseFilters(c)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	ops, pageInfo, err := h.svc.List(c.Request.Context(), filters, p)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"operations": ops,
		"pagination": pageInfo,
	}))
}

func (h *Handler) MyOperations(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		handler.RespondError(c, apperrors.Unauthorized("authentication required", nil))
		return
	}

	p, err := handler.ParsePagination(c, model.MaxListLimit)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	ops, pageInfo, err := h.svc.MyOperations(c.Request.Context(), principal, c.Query("status"), p)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"operations": ops,
		"pagination": pageInfo,
	}))
}

func (h *Handler) Today(c *gin.Context) {
	p, err := handler.ParsePagination(c, model.MaxListLimit)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	ops, pageInfo, err := h.svc.Today(c.Request.Context(), p)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"operations": ops,
		"pagination": pageInfo,
	}))
}

func (h *Handler) ByDateRange(c *gin.Context) {
	p, err := handler.ParsePagination(c, model.MaxListLimit)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

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

	ops, pageInfo, err := h.svc.ByDateRange(c.Request.Context(), start, end, p)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"operations": ops,
		"pagination": pageInfo,
	}))
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

	stats, err := h.svc.Stats(c.Request.Context(), start, end)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	op, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(op))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req model.UpdateOperationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.BadRequest("status is required", err))
		return
	}

	op, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(op))
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessMessageResponse("operation deleted", nil))
}

func parseFilters(c *gin.Context) (*model.OperationFilters, error) {
	filters := &model.OperationFilters{
		PatientID:     c.Query("patientId"),
		SurgeonID:     c.Query("surgeonId"),
		NurseID:       c.Query("nurseId"),
		OperatingRoom: c.Query("operatingRoom"),
		Status:        model.OperationStatus(c.Query("status")),
	}

	start, err := handler.ParseDateQuery(c, "startDate")
	if err != nil {
		return nil, err
	}
	end, err := handler.ParseDateQuery(c, "endDate")
	if err != nil {
		return nil, err
	}
	filters.StartDate = start
	filters.EndDate = end

	return filters, nil
}
