// Package importer decodes third-party health exports into metric
// candidates: the Apple Health bulk XML export and the Health Auto Export
// webhook JSON. Decoders are pure functions; persistence happens in the
// app layer.
package importer

import "strings"

// Mapping pairs a canonical metric type with its canonical unit.
type Mapping struct {
	Type string
	Unit string
}

// exportTypes maps Apple Health record type identifiers to canonical
// metric types. Lookup is exact-match; vendor tokens are case-sensitive.
var exportTypes = map[string]Mapping{
	"HKQuantityTypeIdentifierHeartRate":                {"heart_rate", "bpm"},
	"HKQuantityTypeIdentifierBodyMass":                 {"weight", "kg"},
	"HKQuantityTypeIdentifierBloodPressureSystolic":    {"blood_pressure_systolic", "mmHg"},
	"HKQuantityTypeIdentifierBloodPressureDiastolic":   {"blood_pressure_diastolic", "mmHg"},
	"HKQuantityTypeIdentifierBloodGlucose":             {"glucose", "mg/dL"},
	"HKQuantityTypeIdentifierOxygenSaturation":         {"spo2", "%"},
	"HKQuantityTypeIdentifierBodyTemperature":          {"temperature", "°C"},
	"HKQuantityTypeIdentifierStepCount":                {"steps", "steps"},
	"HKQuantityTypeIdentifierHeartRateVariabilitySDNN": {"hrv", "ms"},
	"HKQuantityTypeIdentifierHeight":                   {"height", "cm"},
	"HKQuantityTypeIdentifierBodyFatPercentage":        {"body_fat_percentage", "%"},
	"HKQuantityTypeIdentifierRespiratoryRate":          {"respiratory_rate", "breaths/min"},
	"HKQuantityTypeIdentifierRestingHeartRate":         {"resting_heart_rate", "bpm"},
	"HKQuantityTypeIdentifierVO2Max":                   {"vo2_max", "mL/kg/min"},
	"HKQuantityTypeIdentifierWalkingHeartRateAverage":  {"walking_heart_rate", "bpm"},
}

// webhookTypes maps Health Auto Export metric names, in key form (see
// webhookKey), to canonical metric types.
var webhookTypes = map[string]Mapping{
	"heart_rate":                 {"heart_rate", "bpm"},
	"weight_body_mass":           {"weight", "kg"},
	"blood_pressure_systolic":    {"blood_pressure_systolic", "mmHg"},
	"blood_pressure_diastolic":   {"blood_pressure_diastolic", "mmHg"},
	"blood_glucose":              {"glucose", "mg/dL"},
	"oxygen_saturation":          {"spo2", "%"},
	"body_temperature":           {"temperature", "°C"},
	"step_count":                 {"steps", "steps"},
	"heart_rate_variability":     {"hrv", "ms"},
	"height":                     {"height", "cm"},
	"body_fat_percentage":        {"body_fat_percentage", "%"},
	"respiratory_rate":           {"respiratory_rate", "breaths/min"},
	"resting_heart_rate":         {"resting_heart_rate", "bpm"},
	"vo2_max":                    {"vo2_max", "mL/kg/min"},
	"walking_heart_rate_average": {"walking_heart_rate", "bpm"},
	"sleep_analysis":             {"sleep_hours", "hours"},
}

// Metric types frequent enough that samples older than the aggregation
// cutoff collapse to one value per calendar day. steps is summed per day;
// the rest are averaged.
var aggregateTypes = map[string]bool{
	"heart_rate":         true,
	"steps":              true,
	"hrv":                true,
	"respiratory_rate":   true,
	"walking_heart_rate": true,
}

var sumTypes = map[string]bool{
	"steps": true,
}

// SumsDaily reports whether a metric type is totalled rather than
// averaged when collapsed to a daily value.
func SumsDaily(metricType string) bool {
	return sumTypes[metricType]
}

// webhookKey normalizes a Health Auto Export metric name ("Heart Rate")
// to its catalog key form ("heart_rate").
func webhookKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// canonicalUnit returns the canonical unit for a metric type, or "" when
// the type is not in the catalog.
func canonicalUnit(metricType string) string {
	for _, m := range exportTypes {
		if m.Type == metricType {
			return m.Unit
		}
	}
	for _, m := range webhookTypes {
		if m.Type == metricType {
			return m.Unit
		}
	}
	return ""
}
