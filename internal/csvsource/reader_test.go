package csvsource

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/czaloom/mental-health-iot-example/pkg/types"
)

const header = "timestamp,location_id,temperature_celsius,humidity_percent," +
	"air_quality_index,noise_level_db,lighting_lux,crowd_density," +
	"stress_level,sleep_hours,mood_score,mental_health_status\n"

func newReader(t *testing.T, body string) *Reader {
	t.Helper()
	r, err := New(strings.NewReader(header+body), "test.csv")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestNext_ParsesRow(t *testing.T) {
	r := newReader(t, "2024-05-02 03:15:00,104,25.8,46.5,144,63.2,253.6,50,78,5.08,2.0,2\n")

	obs, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if obs.Source != "test.csv" {
		t.Errorf("Source: got %q, want test.csv", obs.Source)
	}
	if obs.LocationID != 104 {
		t.Errorf("LocationID: got %d, want 104", obs.LocationID)
	}
	if obs.StressLevel != 78 {
		t.Errorf("StressLevel: got %d, want 78", obs.StressLevel)
	}
	if obs.SleepHours != 5.08 {
		t.Errorf("SleepHours: got %v, want 5.08", obs.SleepHours)
	}
	want := time.Date(2024, 5, 2, 3, 15, 0, 0, time.UTC)
	if !obs.Timestamp.Equal(want) {
		t.Errorf("Timestamp: got %v, want %v", obs.Timestamp, want)
	}

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("after last row: got %v, want io.EOF", err)
	}
}

func TestNext_RFC3339Timestamp(t *testing.T) {
	r := newReader(t, "2024-05-02T03:15:00Z,104,25,45,100,60,250,50,78,5,2,2\n")
	obs, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if obs.Timestamp.IsZero() {
		t.Error("Timestamp not parsed from RFC3339")
	}
}

func TestNext_BadRowsAreRowErrors(t *testing.T) {
	cases := []struct {
		name string
		row  string
	}{
		{"non-numeric field", "2024-05-02 03:15:00,104,not-a-number,46,144,63,253,50,78,5,2,2\n"},
		{"bad timestamp", "yesterday,104,25,46,144,63,253,50,78,5,2,2\n"},
		{"short row", "2024-05-02 03:15:00,104,25\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newReader(t, tc.row+"2024-05-02 04:00:00,105,25,46,144,63,253,50,78,5,2,2\n")

			_, err := r.Next()
			if err == nil {
				t.Fatal("expected row error, got nil")
			}
			if !types.IsRowError(err) {
				t.Fatalf("error is not a RowError: %v", err)
			}

			// The stream stays usable after a bad row.
			obs, err := r.Next()
			if err != nil {
				t.Fatalf("Next after row error: %v", err)
			}
			if obs.LocationID != 105 {
				t.Errorf("LocationID: got %d, want 105", obs.LocationID)
			}
		})
	}
}

func TestNew_MissingColumnIsFatal(t *testing.T) {
	_, err := New(strings.NewReader("timestamp,location_id\n"), "partial.csv")
	if err == nil {
		t.Fatal("expected error for missing columns, got nil")
	}
	if !strings.Contains(err.Error(), "stress_level") {
		t.Errorf("error does not name the missing column: %v", err)
	}
}

func TestNew_EmptyInputIsFatal(t *testing.T) {
	_, err := New(strings.NewReader(""), "empty.csv")
	if err == nil {
		t.Fatal("expected error for empty input, got nil")
	}
}

func TestNext_ColumnOrderIndependent(t *testing.T) {
	// Columns may appear in any order; the header mapping decides.
	in := "stress_level,timestamp,location_id,temperature_celsius,humidity_percent," +
		"air_quality_index,noise_level_db,lighting_lux,crowd_density," +
		"sleep_hours,mood_score,mental_health_status\n" +
		"91,2024-05-02 03:15:00,104,25,46,144,63,253,50,5,2,2\n"
	r, err := New(strings.NewReader(in), "reordered.csv")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	obs, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if obs.StressLevel != 91 {
		t.Errorf("StressLevel: got %d, want 91", obs.StressLevel)
	}
}
