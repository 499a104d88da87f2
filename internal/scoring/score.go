package scoring

import (
	"math"

	"github.com/czaloom/mental-health-iot-example/pkg/types"
)

// Weight constants for the stress score formula. They must sum to 1.0.
const (
	weightStress = 0.40
	weightMood   = 0.15
	weightSleep  = 0.20
	weightEnv    = 0.25
)

// DefaultThreshold is the score at or above which an observation is
// classified as high stress.
const DefaultThreshold = 70

// Comfort midpoints and spans used by the environmental discomfort factor.
const (
	comfortTempC       = 22.0  // deviation span 15 °C
	comfortHumidityPct = 45.0  // deviation span 40 %
	comfortLightingLux = 300.0 // deviation span 500 lux
	quietNoiseDB       = 40.0  // discomfort grows over the next 50 dB
	maxAQI             = 300.0
	maxCrowdDensity    = 100.0
)

// Output is the result of scoring one observation.
type Output struct {
	// Score is the composite stress score in the range [0, 100].
	Score int

	// HighStress is true when Score >= the threshold passed to Score.
	HighStress bool

	// The four factor values (each 0–1) used to compute Score. Useful for
	// rendering per-dimension breakdowns to callers.
	StressFactor float64
	MoodFactor   float64
	SleepFactor  float64
	EnvFactor    float64
}

// Score computes the composite stress score for obs and classifies it against
// threshold. A threshold <= 0 falls back to DefaultThreshold.
//
// Formula:
//
//	score = round(100 * (
//	    stress_level/100          * 0.40  +
//	    (10 - mood_score)/10      * 0.15  +
//	    (8 - sleep_hours)/4       * 0.20  +
//	    env_discomfort            * 0.25 ))
//
// with every factor clamped to [0, 1]. env_discomfort is the mean of six
// bounded sub-factors: temperature, humidity and lighting deviation from
// comfortable midpoints, air quality index, noise over 40 dB, and crowd
// density. Raising stress_level, lowering mood_score or lowering sleep_hours
// never lowers the score.
//
// All numeric fields of obs must be finite; otherwise a ValidationError is
// returned and the output is the zero value.
func Score(obs types.Observation, threshold int) (Output, error) {
	if err := validate(obs); err != nil {
		return Output{}, err
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	stressFactor := clamp01(float64(obs.StressLevel) / 100)
	moodFactor := clamp01((10 - obs.MoodScore) / 10)
	sleepFactor := clamp01((8 - obs.SleepHours) / 4)
	envFactor := envDiscomfort(obs)

	raw := (stressFactor*weightStress +
		moodFactor*weightMood +
		sleepFactor*weightSleep +
		envFactor*weightEnv) * 100
	score := int(math.Round(raw))

	return Output{
		Score:        score,
		HighStress:   score >= threshold,
		StressFactor: stressFactor,
		MoodFactor:   moodFactor,
		SleepFactor:  sleepFactor,
		EnvFactor:    envFactor,
	}, nil
}

// envDiscomfort averages the six environmental sub-factors, each in [0, 1].
func envDiscomfort(obs types.Observation) float64 {
	temp := clamp01(math.Abs(obs.TemperatureCelsius-comfortTempC) / 15)
	humidity := clamp01(math.Abs(obs.HumidityPercent-comfortHumidityPct) / 40)
	lighting := clamp01(math.Abs(obs.LightingLux-comfortLightingLux) / 500)
	air := clamp01(float64(obs.AirQualityIndex) / maxAQI)
	noise := clamp01((obs.NoiseLevelDB - quietNoiseDB) / 50)
	crowd := clamp01(float64(obs.CrowdDensity) / maxCrowdDensity)

	return (temp + humidity + lighting + air + noise + crowd) / 6
}

// validate rejects observations with non-finite numeric fields.
func validate(obs types.Observation) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"temperature_celsius", obs.TemperatureCelsius},
		{"humidity_percent", obs.HumidityPercent},
		{"noise_level_db", obs.NoiseLevelDB},
		{"lighting_lux", obs.LightingLux},
		{"sleep_hours", obs.SleepHours},
		{"mood_score", obs.MoodScore},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return types.Validationf(f.name, "must be a finite number, got %v", f.value)
		}
	}
	return nil
}

// clamp01 restricts v to the range [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
