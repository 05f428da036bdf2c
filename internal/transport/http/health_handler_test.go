package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "aqcli/internal/errors"
	"aqcli/pkg/contracts/domain"
)

func TestHealthHandler_GetHealth(t *testing.T) {
	svc := new(MockDataService)
	svc.On("StationName").Return("Châtelet RER A")

	handler := NewHealthHandler(svc, "v1.0.0")
	r := chi.NewRouter()
	r.Mount("/api/health", handler.Routes())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "v1.0.0", body["version"])
	assert.Equal(t, "Châtelet RER A", body["station"])
}

func TestHealthHandler_GetReady(t *testing.T) {
	svc := new(MockDataService)
	svc.On("Bounds", mock.Anything).Return(domain.Bounds{
		MinDate: domain.CivilDate{Year: 2023, Month: time.January, Day: 1},
		MaxDate: domain.CivilDate{Year: 2023, Month: time.June, Day: 30},
		Count:   4300,
	}, nil)

	handler := NewHealthHandler(svc, "v1.0.0")
	r := chi.NewRouter()
	r.Mount("/api/health", handler.Routes())

	req := httptest.NewRequest(http.MethodGet, "/api/health/ready", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, float64(4300), body["readings"])
	assert.Equal(t, "2023-01-01", body["min_date"])
}

func TestHealthHandler_GetReady_SourceMissing(t *testing.T) {
	svc := new(MockDataService)
	svc.On("Bounds", mock.Anything).Return(domain.Bounds{},
		apierrors.NewDataSourceError("readings file is missing or unreadable", nil))

	handler := NewHealthHandler(svc, "v1.0.0")
	r := chi.NewRouter()
	r.Mount("/api/health", handler.Routes())

	req := httptest.NewRequest(http.MethodGet, "/api/health/ready", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unavailable", body["status"])
}
