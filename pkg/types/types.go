package types

import "time"

// Observation is one raw environmental/behavioral telemetry row.
// Source identifies where the row came from (typically the CSV file path);
// the remaining fields map 1:1 to the dataset columns.
type Observation struct {
	Source             string
	Timestamp          time.Time
	LocationID         int
	TemperatureCelsius float64
	HumidityPercent    float64
	AirQualityIndex    int
	NoiseLevelDB       float64
	LightingLux        float64
	CrowdDensity       int
	StressLevel        int
	SleepHours         float64
	MoodScore          float64
	MentalHealthStatus int
}

// StressRecord is a persisted high-stress observation. Records are created
// exclusively by the ingestion pipeline, are immutable once stored, and only
// exist for observations whose score met the configured threshold — the table
// holds no negative examples.
//
// RecordID is generated at insert time and never supplied by callers.
type StressRecord struct {
	RecordID           string    `gorm:"primaryKey;size:36" json:"record_id"`
	Source             string    `gorm:"size:512;not null" json:"source"`
	Timestamp          time.Time `gorm:"index:idx_alerts_timestamp,sort:desc;not null" json:"timestamp"`
	LocationID         int       `gorm:"not null" json:"location_id"`
	TemperatureCelsius float64   `gorm:"not null" json:"temperature_celsius"`
	HumidityPercent    float64   `gorm:"not null" json:"humidity_percent"`
	AirQualityIndex    int       `gorm:"not null" json:"air_quality_index"`
	NoiseLevelDB       float64   `gorm:"not null" json:"noise_level_db"`
	LightingLux        float64   `gorm:"not null" json:"lighting_lux"`
	CrowdDensity       int       `gorm:"not null" json:"crowd_density"`
	StressLevel        int       `gorm:"not null" json:"stress_level"`
	SleepHours         float64   `gorm:"not null" json:"sleep_hours"`
	MoodScore          float64   `gorm:"not null" json:"mood_score"`
	MentalHealthStatus int       `gorm:"not null" json:"mental_health_status"`
	Score              int       `gorm:"index:idx_alerts_score,sort:desc;not null" json:"score"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName keeps the table name used by the original schema.
func (StressRecord) TableName() string {
	return "high_stress_alerts"
}

// NewRecord builds a StressRecord from a scored observation. RecordID is left
// empty — the store assigns it at insert.
func NewRecord(obs Observation, score int) *StressRecord {
	return &StressRecord{
		Source:             obs.Source,
		Timestamp:          obs.Timestamp,
		LocationID:         obs.LocationID,
		TemperatureCelsius: obs.TemperatureCelsius,
		HumidityPercent:    obs.HumidityPercent,
		AirQualityIndex:    obs.AirQualityIndex,
		NoiseLevelDB:       obs.NoiseLevelDB,
		LightingLux:        obs.LightingLux,
		CrowdDensity:       obs.CrowdDensity,
		StressLevel:        obs.StressLevel,
		SleepHours:         obs.SleepHours,
		MoodScore:          obs.MoodScore,
		MentalHealthStatus: obs.MentalHealthStatus,
		Score:              score,
	}
}

// Observation reconstructs the raw observation fields from a stored record.
func (r *StressRecord) Observation() Observation {
	return Observation{
		Source:             r.Source,
		Timestamp:          r.Timestamp,
		LocationID:         r.LocationID,
		TemperatureCelsius: r.TemperatureCelsius,
		HumidityPercent:    r.HumidityPercent,
		AirQualityIndex:    r.AirQualityIndex,
		NoiseLevelDB:       r.NoiseLevelDB,
		LightingLux:        r.LightingLux,
		CrowdDensity:       r.CrowdDensity,
		StressLevel:        r.StressLevel,
		SleepHours:         r.SleepHours,
		MoodScore:          r.MoodScore,
		MentalHealthStatus: r.MentalHealthStatus,
	}
}

// Sort parameters accepted by the alert query.
const (
	OrderByTimestamp = "timestamp"
	OrderByScore     = "score"

	DirectionAsc  = "ASC"
	DirectionDesc = "DESC"
)

// AlertQuery describes one alert retrieval request. The zero value is not
// valid on its own — callers apply defaults via alerts.Service or validate
// explicitly at the store.
type AlertQuery struct {
	// Limit is the maximum number of records to return. Must be positive.
	Limit int

	// Offset skips that many records for pagination. Must not be negative.
	Offset int

	// OrderBy is "timestamp" (default) or "score".
	OrderBy string

	// Direction is "DESC" (default) or "ASC".
	Direction string
}
