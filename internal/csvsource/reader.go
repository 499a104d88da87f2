package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/czaloom/mental-health-iot-example/pkg/types"
)

// Column names the reader requires in the CSV header, in dataset order.
var requiredColumns = []string{
	"timestamp",
	"location_id",
	"temperature_celsius",
	"humidity_percent",
	"air_quality_index",
	"noise_level_db",
	"lighting_lux",
	"crowd_density",
	"stress_level",
	"sleep_hours",
	"mood_score",
	"mental_health_status",
}

// Timestamp layouts accepted in the timestamp column.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Reader streams Observations from one CSV source.
type Reader struct {
	source string
	cr     *csv.Reader
	cols   map[string]int
	row    int // data rows read so far
	closer io.Closer
}

// Open opens the CSV file at path and validates its header.
// The caller must Close the returned Reader.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csvsource: open %q: %w", path, err)
	}
	r, err := New(f, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// New wraps an already-open stream. source labels the origin of each
// observation (typically the file path).
func New(src io.Reader, source string) (*Reader, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1 // short rows surface as per-row errors, not panics

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csvsource: read header of %q: %w", source, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("csvsource: %q: missing required column %q", source, name)
		}
	}

	return &Reader{source: source, cr: cr, cols: cols}, nil
}

// Source returns the source label attached to every observation.
func (r *Reader) Source() string { return r.source }

// Next returns the next observation. It returns io.EOF at end of input and a
// *types.RowError for a malformed row — the caller may keep calling Next
// after a RowError. Any other error is fatal for the stream.
func (r *Reader) Next() (types.Observation, error) {
	rec, err := r.cr.Read()
	if err != nil {
		if err == io.EOF {
			return types.Observation{}, io.EOF
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			r.row++
			return types.Observation{}, &types.RowError{Row: r.row, Err: err}
		}
		return types.Observation{}, fmt.Errorf("csvsource: read %q: %w", r.source, err)
	}
	r.row++

	obs, err := r.parse(rec)
	if err != nil {
		return types.Observation{}, &types.RowError{Row: r.row, Err: err}
	}
	return obs, nil
}

// Close releases the underlying file, if the Reader owns one.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func (r *Reader) parse(rec []string) (types.Observation, error) {
	get := func(col string) (string, error) {
		i := r.cols[col]
		if i >= len(rec) {
			return "", fmt.Errorf("missing field %q", col)
		}
		return rec[i], nil
	}
	var firstErr error
	str := func(col string) string {
		if firstErr != nil {
			return ""
		}
		v, err := get(col)
		if err != nil {
			firstErr = err
		}
		return v
	}
	f64 := func(col string) float64 {
		s := str(col)
		if firstErr != nil {
			return 0
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			firstErr = fmt.Errorf("field %q: %w", col, err)
		}
		return v
	}
	i64 := func(col string) int {
		s := str(col)
		if firstErr != nil {
			return 0
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			firstErr = fmt.Errorf("field %q: %w", col, err)
		}
		return v
	}

	obs := types.Observation{
		Source:             r.source,
		LocationID:         i64("location_id"),
		TemperatureCelsius: f64("temperature_celsius"),
		HumidityPercent:    f64("humidity_percent"),
		AirQualityIndex:    i64("air_quality_index"),
		NoiseLevelDB:       f64("noise_level_db"),
		LightingLux:        f64("lighting_lux"),
		CrowdDensity:       i64("crowd_density"),
		StressLevel:        i64("stress_level"),
		SleepHours:         f64("sleep_hours"),
		MoodScore:          f64("mood_score"),
		MentalHealthStatus: i64("mental_health_status"),
	}
	if firstErr != nil {
		return types.Observation{}, firstErr
	}

	ts, err := parseTimestamp(str("timestamp"))
	if err != nil {
		return types.Observation{}, err
	}
	obs.Timestamp = ts
	return obs, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("field %q: unparseable timestamp %q", "timestamp", s)
}
