package domain

// Quality band boundaries for mean PM10, in µg/m³. Fixed domain constants,
// not user-configurable.
const (
	PM10GoodBelow = 20.0
	PM10Threshold = 50.0
)

// QualityBand classifies a mean PM10 level.
type QualityBand string

const (
	BandGood     QualityBand = "good"
	BandModerate QualityBand = "moderate"
	BandExceeds  QualityBand = "exceeds recommended threshold"
)

// BandForMean classifies a mean PM10 value into its quality band.
func BandForMean(mean float64) QualityBand {
	switch {
	case mean < PM10GoodBelow:
		return BandGood
	case mean < PM10Threshold:
		return BandModerate
	default:
		return BandExceeds
	}
}

// Summary holds the KPI block computed over the PM10 series of a filtered
// subset. StdDev is the sample standard deviation (n-1 denominator) and is
// nil when fewer than two readings are available.
type Summary struct {
	Mean   float64     `json:"mean"`
	Median float64     `json:"median"`
	Min    float64     `json:"min"`
	Max    float64     `json:"max"`
	StdDev *float64    `json:"std_dev"`
	Count  int         `json:"count"`
	Band   QualityBand `json:"band"`
}

// HeatmapCell is one (weekday, bucket) group with its mean PM10. Only
// combinations present in the input appear.
type HeatmapCell struct {
	Weekday  Weekday    `json:"weekday"`
	Bucket   TimeBucket `json:"time_bucket"`
	MeanPM10 float64    `json:"mean_pm10"`
	Count    int        `json:"count"`
}

// WeekdayStats is the five-number distribution summary of one variable for
// a single weekday, feeding the per-weekday box chart.
type WeekdayStats struct {
	Weekday Weekday `json:"weekday"`
	Min     float64 `json:"min"`
	Q1      float64 `json:"q1"`
	Median  float64 `json:"median"`
	Q3      float64 `json:"q3"`
	Max     float64 `json:"max"`
	Count   int     `json:"count"`
}

// SeriesPoint is one point of the time-ordered line series for a variable.
type SeriesPoint struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
}

// ScatterPoint relates the three measured series for one reading. Points
// with a missing temperature or humidity are skipped by the producer.
type ScatterPoint struct {
	PM10        float64 `json:"pm10"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// Bounds describes the extent of the prepared dataset, used by the
// presentation layer to populate its filter controls.
type Bounds struct {
	MinDate CivilDate    `json:"min_date"`
	MaxDate CivilDate    `json:"max_date"`
	Buckets []TimeBucket `json:"buckets"`
	Count   int          `json:"count"`
}

// FilterQuery carries the user's current filter selection: a closed date
// interval, the allowed time buckets, and the variable under analysis.
type FilterQuery struct {
	From     CivilDate    `json:"from" validate:"required"`
	To       CivilDate    `json:"to" validate:"required"`
	Buckets  []TimeBucket `json:"buckets"`
	Variable Variable     `json:"variable" validate:"omitempty,oneof=PM10 TEMP HUMI"`
}

// Interval returns the query's date interval.
func (q FilterQuery) Interval() Interval {
	return Interval{Start: q.From, End: q.To}
}
