package dataprocessing

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"aqcli/internal/errors"
	"aqcli/internal/infrastructure"
)

// RawFrame is the raw tabular dataset exactly as stored in the source file:
// a header row plus string cells. No type coercion, no validation.
type RawFrame struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of a header column, or -1 when absent.
func (f *RawFrame) ColumnIndex(name string) int {
	for i, h := range f.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// cacheEntry memoizes one parsed file keyed by its modification state.
type cacheEntry struct {
	modTime time.Time
	size    int64
	frame   *RawFrame
}

// Loader reads the semicolon-delimited readings file and memoizes the parse
// per path. Repeated dashboard renders hit the cache; a changed modification
// time or size invalidates the entry so an updated file is re-read without a
// restart.
type Loader struct {
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewLoader creates a loader with an empty cache.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger: logger.With(slog.String("component", "loader")),
		cache:  make(map[string]cacheEntry),
	}
}

// Load returns the raw dataset for the given path. A missing or unreadable
// file is fatal for the whole dashboard and surfaces as a DATA_SOURCE error;
// callers must halt rendering rather than show a partial view.
func (l *Loader) Load(ctx context.Context, path string) (*RawFrame, error) {
	info, err := os.Stat(path)
	if err != nil {
		infrastructure.DatasetLoads.WithLabelValues("error").Inc()
		return nil, errors.NewDataSourceError("readings file is missing or unreadable", err).
			WithContext("path", path)
	}

	l.mu.Lock()
	entry, ok := l.cache[path]
	l.mu.Unlock()

	if ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		infrastructure.DatasetCacheHits.Inc()
		l.logger.DebugContext(ctx, "loader cache hit",
			slog.String("path", path),
			slog.Int("rows", len(entry.frame.Rows)))
		return entry.frame, nil
	}

	frame, err := l.parse(path)
	if err != nil {
		infrastructure.DatasetLoads.WithLabelValues("error").Inc()
		return nil, err
	}
	infrastructure.DatasetLoads.WithLabelValues("ok").Inc()

	l.mu.Lock()
	l.cache[path] = cacheEntry{modTime: info.ModTime(), size: info.Size(), frame: frame}
	l.mu.Unlock()

	l.logger.InfoContext(ctx, "readings file parsed",
		slog.String("path", path),
		slog.Int("rows", len(frame.Rows)),
		slog.Int("columns", len(frame.Header)))

	return frame, nil
}

// Invalidate drops the cached parse for a path.
func (l *Loader) Invalidate(path string) {
	l.mu.Lock()
	delete(l.cache, path)
	l.mu.Unlock()
}

// parse reads the whole file as semicolon-delimited records.
func (l *Loader) parse(path string) (*RawFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDataSourceError("failed to open readings file", err).
			WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.NewDataSourceError("readings file is empty", nil).
				WithContext("path", path)
		}
		return nil, errors.NewDataSourceError("failed to read header row", err).
			WithContext("path", path)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewDataSourceError("failed to read data row", err).
				WithContext("path", path)
		}
		rows = append(rows, record)
	}

	return &RawFrame{Header: header, Rows: rows}, nil
}
