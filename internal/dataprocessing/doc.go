// Package dataprocessing implements the station data pipeline: loading the
// raw semicolon-delimited readings file, preparing the typed and
// feature-enriched dataset, filtering it by the user's selection, and
// computing KPI summaries and grouped aggregations for the dashboard views.
package dataprocessing
