// Package patient exposes the patient record endpoints.
package patient

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orlogbook/orlog-api/internal/handler"
	"github.com/orlogbook/orlog-api/internal/middleware"
	"github.com/orlogbook/orlog-api/internal/model"
	patientservice "github.com/orlogbook/orlog-api/internal/service/patient"
	apperrors "github.com/orlogbook/orlog-api/pkg/errors"
)

type Handler struct {
	svc *patientservice.Service
}

func NewHandler(svc *patientservice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	patients := rg.Group("/patients", authMW.Authenticate())
	patients.GET("", h.List)
	patients.GET("/search", h.Search)
	patients.GET("/stats", middleware.RequireRole(model.RoleAdmin), h.Stats)
	patients.GET("/:id", h.Get)
	patients.POST("", middleware.RequireRole(model.RoleNurse, model.RoleAdmin), h.Create)
	patients.PUT("/:id", middleware.RequireRole(model.RoleNurse, model.RoleAdmin), h.Update)
	patients.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		handler.RespondError(c, apperrors.Unauthorized("authentication required", nil))
		return
	}

	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	patient, err := h.svc.Create(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(patient))
}

func (h *Handler) Get(c *gin.Context) {
	patient, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func (h *Handler) List(c *gin.Context) {
	p, err := handler.ParsePagination(c, model.MaxListLimit)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	patients, pageInfo, err := h.svc.List(c.Request.Context(), c.Query("search"), p)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"patients":   patients,
		"pagination": pageInfo,
	}))
}

func (h *Handler) Search(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		handler.RespondError(c, apperrors.BadRequest("search term is required", nil))
		return
	}

	limit := model.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > model.MaxSearchLimit {
			handler.RespondError(c, apperrors.BadRequest("invalid limit, must be between 1 and 50", err))
			return
		}
		limit = parsed
	}

	patients, err := h.svc.Search(c.Request.Context(), term, limit)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	patient, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessMessageResponse("patient deleted", nil))
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}
