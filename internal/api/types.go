package api

import (
	"time"

	"github.com/czaloom/mental-health-iot-example/pkg/types"
)

// IngestRequest is the body of POST /api/v1/ingest. AlertLevel optionally
// overrides the configured high-stress threshold for this run only.
type IngestRequest struct {
	Filepath   string `json:"filepath"`
	AlertLevel int    `json:"alert_level,omitempty"`
}

// IngestResponse is the payload for POST /api/v1/ingest.
type IngestResponse struct {
	Scanned       int `json:"scanned"`
	HighStress    int `json:"high_stress"`
	ParseFailures int `json:"parse_failures"`
}

// AlertResponse is one record in GET /api/v1/alerts.
type AlertResponse struct {
	RecordID           string   `json:"record_id"`
	Score              int      `json:"score"`
	Timestamp          string   `json:"timestamp"` // RFC3339
	Source             string   `json:"source"`
	LocationID         int      `json:"location_id"`
	TemperatureCelsius float64  `json:"temperature_celsius"`
	HumidityPercent    float64  `json:"humidity_percent"`
	AirQualityIndex    int      `json:"air_quality_index"`
	NoiseLevelDB       float64  `json:"noise_level_db"`
	LightingLux        float64  `json:"lighting_lux"`
	CrowdDensity       int      `json:"crowd_density"`
	StressLevel        int      `json:"stress_level"`
	SleepHours         float64  `json:"sleep_hours"`
	MoodScore          float64  `json:"mood_score"`
	MentalHealthStatus int      `json:"mental_health_status"`
	Diagnostics        []string `json:"diagnostics,omitempty"`
}

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status      string `json:"status"`
	RecordCount int64  `json:"record_count"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

// BuildAlerts converts stored records to their API representation. Shared by
// the alerts endpoint and the WebSocket hub so both emit identical payloads.
func BuildAlerts(recs []types.StressRecord) []AlertResponse {
	out := make([]AlertResponse, 0, len(recs))
	for i := range recs {
		out = append(out, toAlertResponse(&recs[i]))
	}
	return out
}

func toAlertResponse(rec *types.StressRecord) AlertResponse {
	return AlertResponse{
		RecordID:           rec.RecordID,
		Score:              rec.Score,
		Timestamp:          rec.Timestamp.UTC().Format(time.RFC3339),
		Source:             rec.Source,
		LocationID:         rec.LocationID,
		TemperatureCelsius: rec.TemperatureCelsius,
		HumidityPercent:    rec.HumidityPercent,
		AirQualityIndex:    rec.AirQualityIndex,
		NoiseLevelDB:       rec.NoiseLevelDB,
		LightingLux:        rec.LightingLux,
		CrowdDensity:       rec.CrowdDensity,
		StressLevel:        rec.StressLevel,
		SleepHours:         rec.SleepHours,
		MoodScore:          rec.MoodScore,
		MentalHealthStatus: rec.MentalHealthStatus,
		Diagnostics:        diagnostics(rec),
	}
}
