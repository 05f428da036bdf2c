package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"aqcli/internal/config"
	"aqcli/internal/infrastructure"
	"aqcli/internal/services"
	"aqcli/pkg/contracts/domain"
)

// aqreport is the offline companion to the dashboard server: it loads the
// station readings, prints the KPI summary for a selection and optionally
// writes the export file that the dashboard would serve as a download.
func main() {
	file := flag.String("file", "", "readings file (defaults to the configured source file)")
	from := flag.String("from", "", "start date YYYY-MM-DD (defaults to the dataset minimum)")
	to := flag.String("to", "", "end date YYYY-MM-DD (defaults to the dataset maximum)")
	buckets := flag.String("buckets", "", "comma-separated time buckets (PEAK,DAYTIME,NIGHT_EVENING); all when empty")
	out := flag.String("out", "", "write the filtered export to this path (.csv or .xlsx)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = &config.Config{
			Logging: config.LoggingConfig{Level: "warn", Output: "console"},
			Data: config.DataConfig{
				SourceFile:      "data/readings.csv",
				StationName:     "Châtelet RER A",
				TimestampColumn: "date/heure",
			},
		}
	}
	// Keep the report readable; request logs belong to the server.
	cfg.Logging.Output = "console"

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if *file != "" {
		cfg.Data.SourceFile = *file
	}

	svc := services.NewDataServiceWithLogger(cfg, logger)
	ctx := context.Background()

	bounds, err := svc.Bounds(ctx)
	if err != nil {
		slog.Error("Failed to load dataset", "error", err, "file", cfg.Data.SourceFile)
		os.Exit(1)
	}

	q, err := buildQuery(bounds, *from, *to, *buckets)
	if err != nil {
		slog.Error("Invalid selection", "error", err)
		os.Exit(1)
	}

	summary, err := svc.Summary(ctx, q)
	if err != nil {
		slog.Error("Failed to compute summary", "error", err)
		os.Exit(1)
	}

	printReport(svc.StationName(), q, bounds, summary)

	if err := printHeatmap(ctx, svc, q); err != nil {
		slog.Error("Failed to compute heatmap", "error", err)
		os.Exit(1)
	}

	if *out != "" {
		if err := writeExport(ctx, svc, q, *out); err != nil {
			slog.Error("Failed to write export", "error", err, "path", *out)
			os.Exit(1)
		}
		fmt.Printf("\nExport written to %s\n", *out)
	}
}

// buildQuery assembles the filter selection, defaulting the date range to
// the dataset extent and the bucket set to all buckets.
func buildQuery(bounds domain.Bounds, from, to, buckets string) (domain.FilterQuery, error) {
	q := domain.FilterQuery{From: bounds.MinDate, To: bounds.MaxDate}

	if from != "" {
		d, err := domain.ParseCivilDate(from)
		if err != nil {
			return q, fmt.Errorf("invalid -from date %q: %w", from, err)
		}
		q.From = d
	}
	if to != "" {
		d, err := domain.ParseCivilDate(to)
		if err != nil {
			return q, fmt.Errorf("invalid -to date %q: %w", to, err)
		}
		q.To = d
	}

	if buckets == "" {
		q.Buckets = append(q.Buckets, domain.AllBuckets...)
		return q, nil
	}
	for _, name := range strings.Split(buckets, ",") {
		b, ok := domain.ParseTimeBucket(strings.TrimSpace(name))
		if !ok {
			return q, fmt.Errorf("unknown time bucket %q", name)
		}
		q.Buckets = append(q.Buckets, b)
	}
	return q, nil
}

func printReport(station string, q domain.FilterQuery, bounds domain.Bounds, s domain.Summary) {
	fmt.Printf("Station: %s\n", station)
	fmt.Printf("Dataset: %s to %s (%d readings)\n", bounds.MinDate, bounds.MaxDate, bounds.Count)
	fmt.Printf("Selection: %s to %s, buckets %s\n\n", q.From, q.To, bucketList(q.Buckets))

	fmt.Printf("PM10 summary (%d readings)\n", s.Count)
	fmt.Printf("  mean:    %.1f\n", s.Mean)
	fmt.Printf("  median:  %.1f\n", s.Median)
	fmt.Printf("  min:     %.1f\n", s.Min)
	fmt.Printf("  max:     %.1f\n", s.Max)
	fmt.Printf("  std dev: %s\n", floatCell(s.StdDev))
	fmt.Printf("  quality: %s\n", s.Band)
}

func printHeatmap(ctx context.Context, svc *services.DataService, q domain.FilterQuery) error {
	cells, err := svc.Heatmap(ctx, q)
	if err != nil {
		return err
	}

	labels := svc.WeekdayLabels()
	fmt.Printf("\nMean PM10 by weekday and time bucket\n")
	for _, c := range cells {
		fmt.Printf("  %-10s %-14s %8.1f  (n=%d)\n", labels[int(c.Weekday)], c.Bucket, c.MeanPM10, c.Count)
	}
	return nil
}

// writeExport picks the export format from the output file extension.
func writeExport(ctx context.Context, svc *services.DataService, q domain.FilterQuery, path string) error {
	var blob []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		blob, _, err = svc.ExportCSV(ctx, q)
	case ".xlsx":
		blob, _, err = svc.ExportXLSX(ctx, q)
	default:
		return fmt.Errorf("unsupported export extension %q, use .csv or .xlsx", filepath.Ext(path))
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, blob, 0o644)
}

func bucketList(buckets []domain.TimeBucket) string {
	names := make([]string, len(buckets))
	for i, b := range buckets {
		names[i] = b.String()
	}
	return strings.Join(names, ",")
}

func floatCell(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", *v)
}
