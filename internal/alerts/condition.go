package alerts

import (
	"strconv"
	"strings"

	"github.com/czaloom/mental-health-iot-example/pkg/types"
)

// evalCondition evaluates a rule condition string against a stored record.
//
// Supported expressions (field operator value):
//
//	score > 90
//	stress_level >= 95
//	noise_level_db > 85
//	air_quality_index > 200
//	crowd_density > 80
//	sleep_hours < 4
//	mood_score < 2
//	temperature_celsius > 35
//	humidity_percent > 90
//	location_id == 104
//
// Returns (fires bool, triggering value float64).
// Returns (false, 0) if the expression cannot be parsed or the field is unknown.
func evalCondition(cond string, rec *types.StressRecord) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	v, ok := numericField(field, rec)
	if !ok {
		return false, 0
	}
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return false, 0
	}
	return compareFloat(v, op, threshold), v
}

// numericField maps a field name to its value in the record.
func numericField(field string, rec *types.StressRecord) (float64, bool) {
	switch field {
	case "score":
		return float64(rec.Score), true
	case "stress_level":
		return float64(rec.StressLevel), true
	case "noise_level_db":
		return rec.NoiseLevelDB, true
	case "air_quality_index":
		return float64(rec.AirQualityIndex), true
	case "crowd_density":
		return float64(rec.CrowdDensity), true
	case "sleep_hours":
		return rec.SleepHours, true
	case "mood_score":
		return rec.MoodScore, true
	case "temperature_celsius":
		return rec.TemperatureCelsius, true
	case "humidity_percent":
		return rec.HumidityPercent, true
	case "location_id":
		return float64(rec.LocationID), true
	default:
		return 0, false
	}
}

// compareFloat applies op to (v, threshold).
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	default:
		return false
	}
}
