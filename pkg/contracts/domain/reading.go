package domain

import (
	"time"
)

// Reading represents one prepared hourly sensor measurement from the
// monitoring station. Timestamp and PM10 are always present; rows where
// either could not be parsed are dropped during preparation. Temperature
// and humidity are optional and stay nil when the source value was empty
// or malformed.
//
// Date, Hour, Weekday and Bucket are derived from Timestamp and are
// recomputed on every preparation pass, never stored independently.
type Reading struct {
	Timestamp   time.Time  `json:"timestamp" validate:"required"`
	PM10        float64    `json:"pm10" validate:"min=0"`
	Temperature *float64   `json:"temperature,omitempty"`
	Humidity    *float64   `json:"humidity,omitempty"`
	Date        CivilDate  `json:"date"`
	Hour        int        `json:"hour" validate:"min=0,max=23"`
	Weekday     Weekday    `json:"weekday"`
	Bucket      TimeBucket `json:"time_bucket"`
}

// TimeBucket is the time-of-day category derived from the hour of a reading.
// The constant order is the canonical display order.
type TimeBucket int

const (
	BucketPeak TimeBucket = iota
	BucketDaytime
	BucketNightEvening
)

// AllBuckets lists every bucket in canonical order.
var AllBuckets = []TimeBucket{BucketPeak, BucketDaytime, BucketNightEvening}

// String returns the wire name of the bucket.
func (b TimeBucket) String() string {
	switch b {
	case BucketPeak:
		return "PEAK"
	case BucketDaytime:
		return "DAYTIME"
	case BucketNightEvening:
		return "NIGHT_EVENING"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler so buckets serialize by name.
func (b TimeBucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// ParseTimeBucket converts a wire name back into a TimeBucket.
func ParseTimeBucket(s string) (TimeBucket, bool) {
	switch s {
	case "PEAK":
		return BucketPeak, true
	case "DAYTIME":
		return BucketDaytime, true
	case "NIGHT_EVENING":
		return BucketNightEvening, true
	default:
		return 0, false
	}
}

// BucketForHour maps an hour of day (0-23) to its time bucket:
// 7-9 and 17-19 are peak hours, 10-16 is daytime, everything else is
// night/evening. Bounds are inclusive so the three buckets partition 0..23.
func BucketForHour(hour int) TimeBucket {
	switch {
	case (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19):
		return BucketPeak
	case hour >= 10 && hour <= 16:
		return BucketDaytime
	default:
		return BucketNightEvening
	}
}

// Weekday is a Monday-first day of week (Monday=0 .. Sunday=6). It carries
// its own total order so grouped output sorts Monday through Sunday without
// a post-hoc category sort.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// AllWeekdays lists every weekday in canonical Monday-first order.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// String returns the default English weekday name. Localized display names
// come from the configured label set, not from here.
func (d Weekday) String() string {
	names := [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if d < Monday || d > Sunday {
		return "Unknown"
	}
	return names[d]
}

// MarshalText implements encoding.TextMarshaler so weekdays serialize by name.
func (d Weekday) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// WeekdayOf converts a timestamp to the Monday-first weekday.
func WeekdayOf(t time.Time) Weekday {
	// time.Weekday is Sunday-first; rotate so Monday=0.
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// CivilDate is a calendar date without a time component or time zone.
// Readings carry naive local timestamps, so the date is taken directly
// from the timestamp's components.
type CivilDate struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// DateOf extracts the calendar date of a timestamp.
func DateOf(t time.Time) CivilDate {
	return CivilDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseCivilDate parses a YYYY-MM-DD string.
func ParseCivilDate(s string) (CivilDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return CivilDate{}, err
	}
	return DateOf(t), nil
}

// String formats the date as YYYY-MM-DD.
func (d CivilDate) String() string {
	return d.Time().Format("2006-01-02")
}

// MarshalJSON serializes the date as a "YYYY-MM-DD" string.
func (d CivilDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses a "YYYY-MM-DD" string.
func (d *CivilDate) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseCivilDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Time returns the date at midnight, for comparisons.
func (d CivilDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is strictly earlier than other.
func (d CivilDate) Before(other CivilDate) bool {
	return d.Time().Before(other.Time())
}

// After reports whether d is strictly later than other.
func (d CivilDate) After(other CivilDate) bool {
	return d.Time().After(other.Time())
}

// Interval is a closed calendar-date interval. Both ends are inclusive;
// an interval with Start after End matches nothing.
type Interval struct {
	Start CivilDate `json:"start"`
	End   CivilDate `json:"end"`
}

// Contains reports whether the date falls inside the interval.
func (i Interval) Contains(d CivilDate) bool {
	return !d.Before(i.Start) && !d.After(i.End)
}

// Variable identifies one of the measured series a view can plot.
type Variable string

const (
	VariablePM10        Variable = "PM10"
	VariableTemperature Variable = "TEMP"
	VariableHumidity    Variable = "HUMI"
)

// ParseVariable converts a wire name into a Variable.
func ParseVariable(s string) (Variable, bool) {
	switch Variable(s) {
	case VariablePM10, VariableTemperature, VariableHumidity:
		return Variable(s), true
	default:
		return "", false
	}
}

// Value extracts the variable's value from a reading. The second return is
// false when the optional field is nil.
func (v Variable) Value(r Reading) (float64, bool) {
	switch v {
	case VariablePM10:
		return r.PM10, true
	case VariableTemperature:
		if r.Temperature == nil {
			return 0, false
		}
		return *r.Temperature, true
	case VariableHumidity:
		if r.Humidity == nil {
			return 0, false
		}
		return *r.Humidity, true
	default:
		return 0, false
	}
}
