package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"irrigation-planner/internal/export"
	"irrigation-planner/internal/geo"
	httphandler "irrigation-planner/internal/http"
	"irrigation-planner/internal/model"
	"irrigation-planner/internal/observability"
	"irrigation-planner/internal/pricing"
	"irrigation-planner/internal/repository"
	"irrigation-planner/internal/service"
)

type noLookup struct{}

func (noLookup) FindWaterSources(context.Context, geo.Bounds) ([]model.WaterSource, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(&model.FarmRecord{}, &model.IrrigationPlan{}))

	catalog := pricing.NewCatalog()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	farmRepo := repository.NewFarmRepository(database)

	farmService := service.NewFarmService(farmRepo, catalog, noLookup{}, clock)
	recService := service.NewRecommendationService(farmRepo, catalog)
	planService := service.NewPlanService(
		repository.NewPlanRepository(database),
		recService,
		export.NewExcelGenerator(),
		export.NewPDFGenerator(),
		clock,
	)

	handler := httphandler.NewHandler(
		farmService, planService, recService, catalog,
		observability.NewMetricsForTesting(), zerolog.Nop(),
	)
	return httphandler.NewRouter(handler, "test")
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListRegions(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/regions", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []model.Region `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Data)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestInvalidFarmIDReturns400(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/farms/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid farm id")
}

func TestMissingPlanReturns404(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/plans/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestFarmLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	farmID := uuid.NewString()
	base := "/api/v1/farms/" + farmID

	// First access initializes an empty record.
	rec := doRequest(t, router, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Unknown region is rejected.
	rec = doRequest(t, router, http.MethodPut, base+"/region", `{"code":"ZZ"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPut, base+"/region", `{"code":"MH"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// A degenerate boundary is rejected.
	rec = doRequest(t, router, http.MethodPut, base+"/boundary",
		`{"ring":[{"lat":20,"lng":75},{"lat":20.001,"lng":75}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, base+"/sections",
		`{"name":"Paddy East","ring":[{"lat":20,"lng":75},{"lat":20,"lng":75.001},{"lat":20.001,"lng":75.001},{"lat":20.001,"lng":75}],"crop_type":"rice","soil_type":"clay"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data model.Section `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, model.SectionPalette[0], created.Data.Color)

	// Refreshing nearest sources with none stored conflicts.
	rec = doRequest(t, router, http.MethodPost, base+"/nearest-sources", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, router, http.MethodPut, base+"/water-sources",
		`{"sources":[{"name":"Village Well","type":"well","coordinates":{"lat":20.0005,"lng":75.0005}}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Recommendations for the section come back sorted and scored.
	rec = doRequest(t, router, http.MethodGet,
		fmt.Sprintf("%s/sections/%s/recommendations", base, created.Data.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var recommended struct {
		Data struct {
			Recommendations []model.IrrigationRecommendation `json:"recommendations"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recommended))
	require.Len(t, recommended.Data.Recommendations, 5)

	// Creating and exporting a plan end to end.
	rec = doRequest(t, router, http.MethodPost, base+"/plans",
		fmt.Sprintf(`{"section_id":%q,"method":"drip"}`, created.Data.ID))
	require.Equal(t, http.StatusCreated, rec.Code)

	var plan struct {
		Data model.IrrigationPlan `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, model.PlanStatusDraft, plan.Data.Status)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/plans/"+plan.Data.ID.String()+"/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
}
