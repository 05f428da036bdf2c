package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "aqcli/internal/errors"
	"aqcli/internal/services"
	"aqcli/pkg/contracts/domain"
)

// validate checks filter queries after parsing.
var validate = validator.New()

// DataHandler handles dashboard data requests with RFC 7807 error responses
type DataHandler struct {
	service      DataServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler
func NewDataHandler(service DataServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/bounds", h.GetBounds)

	// Filtered views; all take from/to/buckets (+variable where relevant)
	r.Get("/readings", h.GetReadings)
	r.Get("/summary", h.GetSummary)
	r.Get("/heatmap", h.GetHeatmap)
	r.Get("/series", h.GetSeries)
	r.Get("/distribution", h.GetDistribution)
	r.Get("/scatter", h.GetScatter)

	// Export downloads
	r.Get("/export/csv", h.ExportCSV)
	r.Get("/export/xlsx", h.ExportXLSX)

	return r
}

// parseFilterQuery extracts the filter selection from query parameters.
// from/to are required YYYY-MM-DD dates. buckets is a comma-separated list
// of bucket names; an absent parameter means all buckets, while an
// explicitly empty one means none. variable defaults to PM10.
func parseFilterQuery(r *http.Request) (domain.FilterQuery, *apierrors.APIError) {
	var q domain.FilterQuery

	fromStr := r.URL.Query().Get("from")
	if fromStr == "" {
		return q, apierrors.ErrValidation("from", "Start date is required (YYYY-MM-DD)")
	}
	from, err := domain.ParseCivilDate(fromStr)
	if err != nil {
		return q, apierrors.ErrValidation("from", "Invalid start date, expected YYYY-MM-DD")
	}

	toStr := r.URL.Query().Get("to")
	if toStr == "" {
		return q, apierrors.ErrValidation("to", "End date is required (YYYY-MM-DD)")
	}
	to, err := domain.ParseCivilDate(toStr)
	if err != nil {
		return q, apierrors.ErrValidation("to", "Invalid end date, expected YYYY-MM-DD")
	}

	q.From = from
	q.To = to

	if !r.URL.Query().Has("buckets") {
		q.Buckets = append(q.Buckets, domain.AllBuckets...)
	} else {
		bucketsStr := r.URL.Query().Get("buckets")
		if bucketsStr != "" {
			for _, name := range strings.Split(bucketsStr, ",") {
				bucket, ok := domain.ParseTimeBucket(strings.TrimSpace(name))
				if !ok {
					return q, apierrors.ErrValidation("buckets", fmt.Sprintf("Unknown time bucket: %s", name))
				}
				q.Buckets = append(q.Buckets, bucket)
			}
		}
	}

	if variableStr := r.URL.Query().Get("variable"); variableStr != "" {
		variable, ok := domain.ParseVariable(variableStr)
		if !ok {
			return q, apierrors.ErrValidation("variable", "Variable must be one of: PM10, TEMP, HUMI")
		}
		q.Variable = variable
	}

	if err := validate.Struct(q); err != nil {
		return q, apierrors.NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", err.Error())
	}

	return q, nil
}

// handleServiceError maps service errors to API errors and responds.
func (h *DataHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, q domain.FilterQuery) {
	h.logger.ErrorContext(r.Context(), "data request failed",
		slog.String("error", err.Error()),
		slog.String("path", r.URL.Path),
	)

	switch {
	case errors.Is(err, services.ErrNoData):
		h.errorHandler.HandleError(w, r, apierrors.NoDataError(map[string]interface{}{
			"from":    q.From.String(),
			"to":      q.To.String(),
			"buckets": bucketNames(q.Buckets),
		}))
	case errors.Is(err, services.ErrEmptyDataset):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusNotFound,
			"NO_DATA",
			"The prepared dataset is empty",
			nil,
		))
	case apierrors.IsDataSource(err):
		h.errorHandler.HandleError(w, r, apierrors.DataSourceUnavailableError(err))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

// bucketNames renders a bucket set for error payloads.
func bucketNames(buckets []domain.TimeBucket) []string {
	names := make([]string, len(buckets))
	for i, b := range buckets {
		names[i] = b.String()
	}
	return names
}

// GetBounds handles GET /api/data/bounds
func (h *DataHandler) GetBounds(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "fetching dataset bounds",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	bounds, err := h.service.Bounds(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, domain.FilterQuery{})
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   bounds,
		"labels": map[string]interface{}{
			"weekdays": h.service.WeekdayLabels(),
			"station":  h.service.StationName(),
		},
	})
}

// GetReadings handles GET /api/data/readings
func (h *DataHandler) GetReadings(w http.ResponseWriter, r *http.Request) {
	q, apiErr := parseFilterQuery(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	readings, err := h.service.Readings(r.Context(), q)
	if err != nil {
		h.handleServiceError(w, r, err, q)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   readings,
		"count":  len(readings),
	})
}

// GetSummary handles GET /api/data/summary
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	q, apiErr := parseFilterQuery(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	summary, err := h.service.Summary(r.Context(), q)
	if err != nil {
		h.handleServiceError(w, r, err, q)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// GetHeatmap handles GET /api/data/heatmap
func (h *DataHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	q, apiErr := parseFilterQuery(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	cells, err := h.service.Heatmap(r.Context(), q)
	if err != nil {
		h.handleServiceError(w, r, err, q)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   cells,
		"count":  len(cells),
	})
}

// GetSeries handles GET /api/data/series
func (h *DataHandler) GetSeries(w http.ResponseWriter, r *http.Request) {
	q, apiErr := parseFilterQuery(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	points, err := h.service.Series(r.Context(), q)
	if err != nil {
		h.handleServiceError(w, r, err, q)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":   "success",
		"data":     points,
		"count":    len(points),
		"variable": string(variableOrDefault(q)),
	})
}

// GetDistribution handles GET /api/data/distribution
func (h *DataHandler) GetDistribution(w http.ResponseWriter, r *http.Request) {
	q, apiErr := parseFilterQuery(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	distribution, err := h.service.Distribution(r.Context(), q)
	if err != nil {
		h.handleServiceError(w, r, err, q)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":   "success",
		"data":     distribution,
		"count":    len(distribution),
		"variable": string(variableOrDefault(q)),
	})
}

// GetScatter handles GET /api/data/scatter
func (h *DataHandler) GetScatter(w http.ResponseWriter, r *http.Request) {
	q, apiErr := parseFilterQuery(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	points, err := h.service.Scatter(r.Context(), q)
	if err != nil {
		h.handleServiceError(w, r, err, q)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   points,
		"count":  len(points),
	})
}

// ExportCSV handles GET /api/data/export/csv
func (h *DataHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	q, apiErr := parseFilterQuery(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	blob, filename, err := h.service.ExportCSV(r.Context(), q)
	if err != nil {
		h.handleServiceError(w, r, err, q)
		return
	}

	h.logger.InfoContext(r.Context(), "serving CSV export",
		slog.String("filename", filename),
		slog.Int("bytes", len(blob)),
	)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(blob)
}

// ExportXLSX handles GET /api/data/export/xlsx
func (h *DataHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	q, apiErr := parseFilterQuery(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	blob, filename, err := h.service.ExportXLSX(r.Context(), q)
	if err != nil {
		h.handleServiceError(w, r, err, q)
		return
	}

	h.logger.InfoContext(r.Context(), "serving XLSX export",
		slog.String("filename", filename),
		slog.Int("bytes", len(blob)),
	)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(blob)
}

// variableOrDefault returns the query's variable, defaulting to PM10.
func variableOrDefault(q domain.FilterQuery) domain.Variable {
	if q.Variable == "" {
		return domain.VariablePM10
	}
	return q.Variable
}
