package api

import (
	"fmt"

	"github.com/czaloom/mental-health-iot-example/pkg/types"
)

// diagnostics derives short human-readable hints naming the conditions that
// plausibly drove a record's score. Displayed as chips next to each alert.
func diagnostics(rec *types.StressRecord) []string {
	var hints []string

	if rec.StressLevel >= 80 {
		hints = append(hints, fmt.Sprintf("self-reported stress very high (%d)", rec.StressLevel))
	}
	if rec.SleepHours < 5 {
		hints = append(hints, fmt.Sprintf("severe sleep deficit (%.1f h)", rec.SleepHours))
	}
	if rec.MoodScore <= 2 {
		hints = append(hints, fmt.Sprintf("low mood score (%.1f)", rec.MoodScore))
	}
	if rec.AirQualityIndex > 150 {
		hints = append(hints, fmt.Sprintf("unhealthy air quality (AQI %d)", rec.AirQualityIndex))
	}
	if rec.NoiseLevelDB > 70 {
		hints = append(hints, fmt.Sprintf("loud environment (%.0f dB)", rec.NoiseLevelDB))
	}
	if rec.CrowdDensity > 70 {
		hints = append(hints, fmt.Sprintf("crowded location (density %d)", rec.CrowdDensity))
	}
	if rec.TemperatureCelsius > 30 || rec.TemperatureCelsius < 10 {
		hints = append(hints, fmt.Sprintf("uncomfortable temperature (%.1f °C)", rec.TemperatureCelsius))
	}

	return hints
}
