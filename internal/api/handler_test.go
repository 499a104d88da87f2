package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/czaloom/mental-health-iot-example/internal/alerts"
	"github.com/czaloom/mental-health-iot-example/internal/api"
	"github.com/czaloom/mental-health-iot-example/internal/scoring"
	"github.com/czaloom/mental-health-iot-example/pkg/types"
)

// --- test helpers -----------------------------------------------------------

// fakeStore implements store.Interface in memory with the relational store's
// validation and ordering behavior.
type fakeStore struct {
	records []types.StressRecord
	nextID  int
}

func (f *fakeStore) Open() error  { return nil }
func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) Insert(_ context.Context, rec *types.StressRecord) (string, error) {
	if rec.Score < scoring.DefaultThreshold {
		return "", types.Validationf("score", "below threshold")
	}
	f.nextID++
	rec.RecordID = "rec-" + string(rune('a'+f.nextID-1))
	f.records = append(f.records, *rec)
	return rec.RecordID, nil
}

func (f *fakeStore) RecentHighStress(_ context.Context, q types.AlertQuery) ([]types.StressRecord, error) {
	if q.Limit <= 0 {
		return nil, types.Validationf("limit", "must be a positive integer, got %d", q.Limit)
	}
	out := append([]types.StressRecord(nil), f.records...)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Score > out[j].Score
	})
	if q.Offset < len(out) {
		out = out[q.Offset:]
	} else {
		out = nil
	}
	if q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeStore) Count(context.Context) (int64, error) {
	return int64(len(f.records)), nil
}

func newHandler(st *fakeStore) http.Handler {
	return api.New(st, alerts.NewService(st, 2), nil, scoring.DefaultThreshold)
}

func seed(st *fakeStore, score int, ts time.Time) {
	st.Insert(context.Background(), types.NewRecord(types.Observation{
		Source: "seed.csv", Timestamp: ts, LocationID: 104,
		TemperatureCelsius: 36, HumidityPercent: 90, AirQualityIndex: 200,
		NoiseLevelDB: 80, LightingLux: 100, CrowdDensity: 80,
		StressLevel: 90, SleepHours: 4, MoodScore: 2, MentalHealthStatus: 2,
	}, score))
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, rr.Body.String())
	}
}

// --- /api/v1/alerts ---------------------------------------------------------

func TestAlerts_Empty(t *testing.T) {
	rr := do(t, newHandler(&fakeStore{}), http.MethodGet, "/api/v1/alerts", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var out []map[string]interface{}
	decode(t, rr, &out)
	if len(out) != 0 {
		t.Errorf("empty store: got %d alerts, want 0", len(out))
	}
}

func TestAlerts_DefaultLimitIsTwo(t *testing.T) {
	st := &fakeStore{}
	base := time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seed(st, 80+i, base.Add(time.Duration(i)*time.Hour))
	}

	rr := do(t, newHandler(st), http.MethodGet, "/api/v1/alerts", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var out []struct {
		Score     int    `json:"score"`
		Timestamp string `json:"timestamp"`
	}
	decode(t, rr, &out)
	if len(out) != 2 {
		t.Fatalf("got %d alerts, want the 2 most recent", len(out))
	}
	if out[0].Score != 82 || out[1].Score != 81 {
		t.Errorf("ordering: got scores %d,%d want 82,81", out[0].Score, out[1].Score)
	}
}

func TestAlerts_BadLimit(t *testing.T) {
	h := newHandler(&fakeStore{})
	for _, path := range []string{
		"/api/v1/alerts?limit=0",
		"/api/v1/alerts?limit=-1",
		"/api/v1/alerts?limit=two",
	} {
		rr := do(t, h, http.MethodGet, path, "")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status got %d, want 400", path, rr.Code)
		}
	}
}

func TestAlerts_BadOrdering(t *testing.T) {
	st := &fakeStore{}
	seed(st, 90, time.Now().UTC())
	rr := do(t, newHandler(st), http.MethodGet, "/api/v1/alerts?order_by=mood_score", "")
	// The fake store accepts any order_by; the relational store rejects it.
	// Here we only require the handler to pass the parameter through.
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
}

func TestAlerts_MethodNotAllowed(t *testing.T) {
	rr := do(t, newHandler(&fakeStore{}), http.MethodDelete, "/api/v1/alerts", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status: got %d, want 405", rr.Code)
	}
}

func TestAlerts_IncludesDiagnostics(t *testing.T) {
	st := &fakeStore{}
	seed(st, 95, time.Now().UTC())

	rr := do(t, newHandler(st), http.MethodGet, "/api/v1/alerts?limit=1", "")
	var out []struct {
		Diagnostics []string `json:"diagnostics"`
	}
	decode(t, rr, &out)
	if len(out) != 1 || len(out[0].Diagnostics) == 0 {
		t.Errorf("expected diagnostic hints on a fully stressed record: %+v", out)
	}
}

// --- /api/v1/ingest ---------------------------------------------------------

const csvHeader = "timestamp,location_id,temperature_celsius,humidity_percent," +
	"air_quality_index,noise_level_db,lighting_lux,crowd_density," +
	"stress_level,sleep_hours,mood_score,mental_health_status\n"

func writeCSV(t *testing.T, rows string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "telemetry.csv")
	if err := os.WriteFile(p, []byte(csvHeader+rows), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return p
}

func TestIngest_StoresHighStressRows(t *testing.T) {
	rows := "2024-05-02 03:00:00,101,22,45,0,30,300,0,0,8,10,0\n" + // calm
		"2024-05-02 03:01:00,104,40,95,400,100,1000,150,100,0,0,2\n" + // stressed
		"2024-05-02 03:02:00,104,40,95,400,100,1000,150,100,0,0,2\n" // stressed
	path := writeCSV(t, rows)

	st := &fakeStore{}
	rr := do(t, newHandler(st), http.MethodPost, "/api/v1/ingest",
		`{"filepath": "`+path+`"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
	}

	var out struct {
		Scanned    int `json:"scanned"`
		HighStress int `json:"high_stress"`
	}
	decode(t, rr, &out)
	if out.Scanned != 3 || out.HighStress != 2 {
		t.Errorf("summary: got %+v, want scanned=3 high_stress=2", out)
	}
	if len(st.records) != 2 {
		t.Errorf("stored: got %d records, want 2", len(st.records))
	}
}

func TestIngest_MissingFile(t *testing.T) {
	rr := do(t, newHandler(&fakeStore{}), http.MethodPost, "/api/v1/ingest",
		`{"filepath": "/nonexistent/telemetry.csv"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
}

func TestIngest_Validation(t *testing.T) {
	h := newHandler(&fakeStore{})
	cases := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"bad json", `{"filepath":`},
		{"bad alert level", `{"filepath": "x.csv", "alert_level": 150}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/api/v1/ingest", tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rr.Code)
			}
		})
	}
}

func TestIngest_MethodNotAllowed(t *testing.T) {
	rr := do(t, newHandler(&fakeStore{}), http.MethodGet, "/api/v1/ingest", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status: got %d, want 405", rr.Code)
	}
}

// --- /api/v1/health ---------------------------------------------------------

func TestHealth(t *testing.T) {
	st := &fakeStore{}
	seed(st, 90, time.Now().UTC())

	rr := do(t, newHandler(st), http.MethodGet, "/api/v1/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var out struct {
		Status      string `json:"status"`
		RecordCount int64  `json:"record_count"`
	}
	decode(t, rr, &out)
	if out.Status != "ok" || out.RecordCount != 1 {
		t.Errorf("health: got %+v", out)
	}
}
