// Package http contains the chi handlers that expose the dashboard API:
// dataset bounds, filtered readings, KPI summaries, grouped aggregations,
// chart series and export downloads, plus health and metrics endpoints.
package http
