package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"irrigation-planner/internal/geo"
	"irrigation-planner/internal/observability"
	"irrigation-planner/internal/pricing"
	"irrigation-planner/internal/service"
)

// maxImportBytes bounds farm-import payloads; a farm record is small.
const maxImportBytes = 4 << 20

type Handler struct {
	farmService *service.FarmService
	planService *service.PlanService
	recService  *service.RecommendationService
	catalog     *pricing.Catalog
	metrics     *observability.Metrics
	log         zerolog.Logger
}

func NewHandler(
	farmService *service.FarmService,
	planService *service.PlanService,
	recService *service.RecommendationService,
	catalog *pricing.Catalog,
	metrics *observability.Metrics,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		farmService: farmService,
		planService: planService,
		recService:  recService,
		catalog:     catalog,
		metrics:     metrics,
		log:         log,
	}
}

func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api/v1")

	api.GET("/regions", h.listRegions)

	farms := api.Group("/farms/:farmId")
	{
		farms.GET("", h.getFarm)
		farms.PUT("/region", h.setRegion)
		farms.PUT("/boundary", h.saveBoundary)
		farms.POST("/sections", h.createSection)
		farms.PUT("/sections/:id", h.updateSection)
		farms.DELETE("/sections/:id", h.deleteSection)
		farms.PUT("/water-sources", h.replaceWaterSources)
		farms.POST("/water-sources/import", h.importWaterSources)
		farms.POST("/sections/:id/nearest-source", h.refreshNearestSource)
		farms.POST("/nearest-sources", h.refreshAllNearestSources)
		farms.GET("/sections/:id/recommendations", h.recommend)
		farms.GET("/export", h.exportFarm)
		farms.POST("/import", h.importFarm)
		farms.POST("/plans", h.createPlan)
		farms.GET("/plans", h.listPlans)
	}

	plans := api.Group("/plans/:id")
	{
		plans.GET("", h.getPlan)
		plans.PATCH("/status", h.updatePlanStatus)
		plans.POST("/duplicate", h.duplicatePlan)
		plans.DELETE("", h.deletePlan)
		plans.GET("/export", h.exportPlanJSON)
		plans.GET("/export.xlsx", h.exportPlanExcel)
		plans.GET("/export.pdf", h.exportPlanPDF)
	}
}

func (h *Handler) listRegions(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(h.catalog.List()))
}

func (h *Handler) getFarm(c *gin.Context) {
	farmID, ok := h.farmID(c)
	if !ok {
		return
	}

	record, err := h.farmService.GetOrInit(c.Request.Context(), farmID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(record))
}

func (h *Handler) setRegion(c *gin.Context) {
	farmID, ok := h.farmID(c)
	if !ok {
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	record, err := h.farmService.SetRegion(c.Request.Context(), farmID, req.Code)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(record))
}

func (h *Handler) saveBoundary(c *gin.Context) {
	farmID, ok := h.farmID(c)
	if !ok {
		return
	}

	var req struct {
		Ring             []geo.LatLng `json:"ring" binding:"required"`
		AreaSquareMeters *float64     `json:"area_sq_m"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	boundary, err := h.farmService.SaveBoundary(c.Request.Context(), farmID, service.BoundaryInput{
		Ring:             req.Ring,
		AreaSquareMeters: req.AreaSquareMeters,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(boundary))
}

type sectionRequest struct {
	Name             string       `json:"name" binding:"required"`
	Ring             []geo.LatLng `json:"ring" binding:"required"`
	AreaSquareMeters *float64     `json:"area_sq_m"`
	CropType         string       `json:"crop_type"`
	SoilType         string       `json:"soil_type"`
	IrrigationType   string       `json:"irrigation_type"`
	Color            string       `json:"color"`
}

func (r sectionRequest) toInput(id *uuid.UUID) service.SectionInput {
	return service.SectionInput{
		ID:               id,
		Name:             r.Name,
		Ring:             r.Ring,
		AreaSquareMeters: r.AreaSquareMeters,
		CropType:         r.CropType,
		SoilType:         r.SoilType,
		IrrigationType:   r.IrrigationType,
		Color:            r.Color,
	}
}

func (h *Handler) createSection(c *gin.Context) {
	farmID, ok := h.farmID(c)
	if !ok {
		return
	}

	var req sectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	section, err := h.farmService.UpsertSection(c.Request.Context(), farmID, req.toInput(nil))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(section))
}

func (h *Handler) updateSection(c *gin.Context) {
	farmID, ok := h.farmID(c)
	if !ok {
		return
	}
	sectionID, ok := h.pathID(c, "id", "invalid section id")
	if !ok {
		return
	}

	var req sectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	section, err := h.farmService.UpsertSection(c.Request.Context(), farmID, req.toInput(&sectionID))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(section))
}

func (h *Handler) deleteSection(c *gin.Context) {
	farmID, ok := h.farmID(c)
	if !ok {
		return
	}
	sectionID, ok := h.pathID(c, "id", "invalid section id")
	if !ok {
		return
	}

	if err := h.farmService.DeleteSection(c.Request.Context(), farmID, sectionID); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"deleted": sectionID}))
}

func (h *Handler) replaceWaterSources(c *gin.Context) {
	farmID, ok := h.farmID(c)
	if !ok {
		return
	}

	var req struct {
		Sources []struct {
			ID             *uuid.UUID `json:"id"`
			Name           string     `json:"name" binding:"required"`
			Type           string     `json:"type" binding:"required"`
			Coordinates    geo.LatLng `json:"coordinates"`
			Source         string     `json:"source"`
			CapacityLitres *float64   `json:"capacity_litres"`
			Quality        *string    `json:"quality"`
		} `json:"sources"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	inputs := make([]service.WaterSourceInput, 0, len(req.Sources))
	for _, src := range req.Sources {
		inputs = append(inputs, service.WaterSourceInput{
			ID:             src.ID,
			Name:           src.Name,
			Type:           src.Type,
			Coordinates:    src.Coordinates,
			Source:         src.Source,
			CapacityLitres: src.CapacityLitres,
			Quality:        src.Quality,
		})
	}

	sources, err := h.farmService.ReplaceWaterSources(c.Request.Context(), farmID, inputs)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(sources))
}

func (h *Handler) importWaterSources(c *gin.Context) {
	farmID, ok := h.farmID(c)
	if !ok {
		return
	}

	sources, err := h.farmService.ImportWaterSources(c.Request.Context(), farmID)
	if err != nil {
		h.metrics.WaterSourceImports.WithLabelValues("error").Inc()
		h.handleError(c, err)
		return
	}
	h.metrics.WaterSourceImports.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, successResponse(sources))
}

func (h *Handler) refreshNearestSource(c *gin.Context) {
	farmID, ok := h.farmID(c)
	if !ok {
		return
	}
	sectionID, ok := h.pathID(c, "id", "invalid section id")
	if !ok {
		return
	}

	nearest, err := h.farmService.RefreshNearestWaterSource(c.Request.Context(), farmID, sectionID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(nearest))
}

func (h *Handler) refreshAllNearestSources(c *gin.Context) {
	farmID, ok := h.farmID(c)
	if !ok {
		return
	}

	summary, err := h.farmService.RefreshAllNearestWaterSources(c.Request.Context(), farmID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(summary))
}

func (h *Handler) recommend(c *gin.Context) {
	farmID, ok := h.farmID(c)
	if !ok {
		return
	}
	sectionID, ok := h.pathID(c, "id", "invalid section id")
	if !ok {
		return
	}

	input := service.RecommendInput{
		FarmID:     farmID,
		SectionID:  sectionID,
		RegionCode: strings.TrimSpace(c.Query("region")),
	}
	if raw := strings.TrimSpace(c.Query("source_id")); raw != "" {
		sourceID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid source_id"))
			return
		}
		input.SourceID = &sourceID
	}

	result, err := h.recService.Recommend(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.metrics.RecommendationsComputed.Inc()
	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) exportFarm(c *gin.Context) {
	farmID, ok := h.farmID(c)
	if !ok {
		return
	}

	data, err := h.farmService.Export(c.Request.Context(), farmID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, fmt.Sprintf("farm-%s.json", farmID), "application/json", data)
}

func (h *Handler) importFarm(c *gin.Context) {
	farmID, ok := h.farmID(c)
	if !ok {
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("failed to read request body"))
		return
	}

	record, err := h.farmService.Import(c.Request.Context(), farmID, data)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(record))
}

func (h *Handler) createPlan(c *gin.Context) {
	farmID, ok := h.farmID(c)
	if !ok {
		return
	}

	var req struct {
		SectionID  uuid.UUID  `json:"section_id" binding:"required"`
		SourceID   *uuid.UUID `json:"source_id"`
		Method     string     `json:"method" binding:"required"`
		RegionCode string     `json:"region_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), service.CreatePlanInput{
		FarmID:     farmID,
		SectionID:  req.SectionID,
		SourceID:   req.SourceID,
		Method:     req.Method,
		RegionCode: req.RegionCode,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.metrics.PlansCreated.Inc()
	c.JSON(http.StatusCreated, successResponse(plan))
}

func (h *Handler) listPlans(c *gin.Context) {
	farmID, ok := h.farmID(c)
	if !ok {
		return
	}

	search := strings.TrimSpace(c.Query("search"))
	status := strings.TrimSpace(c.Query("status"))

	plans, err := h.planService.List(c.Request.Context(), farmID, search, status)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(plans))
}

func (h *Handler) getPlan(c *gin.Context) {
	planID, ok := h.pathID(c, "id", "invalid plan id")
	if !ok {
		return
	}

	plan, err := h.planService.Get(c.Request.Context(), planID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(plan))
}

func (h *Handler) updatePlanStatus(c *gin.Context) {
	planID, ok := h.pathID(c, "id", "invalid plan id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	plan, err := h.planService.UpdateStatus(c.Request.Context(), planID, req.Status)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(plan))
}

func (h *Handler) duplicatePlan(c *gin.Context) {
	planID, ok := h.pathID(c, "id", "invalid plan id")
	if !ok {
		return
	}

	plan, err := h.planService.Duplicate(c.Request.Context(), planID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(plan))
}

func (h *Handler) deletePlan(c *gin.Context) {
	planID, ok := h.pathID(c, "id", "invalid plan id")
	if !ok {
		return
	}

	if err := h.planService.Delete(c.Request.Context(), planID); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"deleted": planID}))
}

func (h *Handler) exportPlanJSON(c *gin.Context) {
	planID, ok := h.pathID(c, "id", "invalid plan id")
	if !ok {
		return
	}

	name, data, err := h.planService.ExportJSON(c.Request.Context(), planID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, name, "application/json", data)
}

func (h *Handler) exportPlanExcel(c *gin.Context) {
	planID, ok := h.pathID(c, "id", "invalid plan id")
	if !ok {
		return
	}

	name, data, err := h.planService.ExportExcel(c.Request.Context(), planID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, name, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handler) exportPlanPDF(c *gin.Context) {
	planID, ok := h.pathID(c, "id", "invalid plan id")
	if !ok {
		return
	}

	name, data, err := h.planService.ExportPDF(c.Request.Context(), planID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, name, "application/pdf", data)
}

func (h *Handler) farmID(c *gin.Context) (uuid.UUID, bool) {
	return h.pathID(c, "farmId", "invalid farm id")
}

func (h *Handler) pathID(c *gin.Context, param, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(param)))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(message))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNoWaterSources), errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func sendFile(c *gin.Context, name, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, data)
}

func successResponse(data interface{}) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}
