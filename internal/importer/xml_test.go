package importer_test

import (
	"testing"
	"time"

	"healthvault/internal/domain"
	"healthvault/internal/importer"
)

func TestDecodeExportHeartRate(t *testing.T) {
	content := []byte(`<?xml version="1.0" encoding="UTF-8"?>
	<HealthData>
		<Record type="HKQuantityTypeIdentifierHeartRate"
				value="72"
				unit="count/min"
				startDate="2024-01-15 10:00:00 +0000" />
	</HealthData>`)

	got, err := importer.DecodeExport(content, "test_user", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}

	c := got[0]
	if c.MetricType != "heart_rate" {
		t.Errorf("metric type = %q; want heart_rate", c.MetricType)
	}
	if c.Value != 72.0 {
		t.Errorf("value = %v; want 72", c.Value)
	}
	if c.Owner != "test_user" {
		t.Errorf("owner = %q; want test_user", c.Owner)
	}
	if c.Source != domain.SourceImport {
		t.Errorf("source = %q; want %q", c.Source, domain.SourceImport)
	}
	want := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	if !c.MeasuredAt.Equal(want) {
		t.Errorf("measured at = %v; want %v", c.MeasuredAt, want)
	}
}

func TestDecodeExportConvertsUnits(t *testing.T) {
	content := []byte(`<HealthData>
		<Record type="HKQuantityTypeIdentifierBodyMass"
				value="150"
				unit="lb"
				startDate="2024-01-15 10:00:00 +0000" />
	</HealthData>`)

	got, err := importer.DecodeExport(content, "u", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].Value != 68.04 || got[0].Unit != "kg" {
		t.Errorf("got %v %s; want 68.04 kg", got[0].Value, got[0].Unit)
	}
}

func TestDecodeExportDefaultsMissingUnit(t *testing.T) {
	content := []byte(`<HealthData>
		<Record type="HKQuantityTypeIdentifierStepCount"
				value="5000"
				startDate="2024-01-15 12:00:00 +0000" />
	</HealthData>`)

	got, err := importer.DecodeExport(content, "u", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Unit != "steps" {
		t.Fatalf("expected 1 candidate with unit steps, got %+v", got)
	}
}

func TestDecodeExportSkipsBadRecords(t *testing.T) {
	tests := []struct {
		name   string
		record string
	}{
		{
			"unknown type",
			`<Record type="HKQuantityTypeIdentifierUnknownType" value="100" unit="units" startDate="2024-01-15 10:00:00 +0000" />`,
		},
		{
			"invalid value",
			`<Record type="HKQuantityTypeIdentifierHeartRate" value="invalid" unit="count/min" startDate="2024-01-15 10:00:00 +0000" />`,
		},
		{
			"missing start date",
			`<Record type="HKQuantityTypeIdentifierHeartRate" value="72" unit="count/min" />`,
		},
		{
			"unparseable start date",
			`<Record type="HKQuantityTypeIdentifierHeartRate" value="72" unit="count/min" startDate="January 15th" />`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			content := []byte("<HealthData>" + tc.record + "</HealthData>")
			got, err := importer.DecodeExport(content, "u", 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 0 {
				t.Fatalf("expected record to be skipped, got %+v", got)
			}
		})
	}
}

func TestDecodeExportSkipOneKeepsRest(t *testing.T) {
	content := []byte(`<HealthData>
		<Record type="HKQuantityTypeIdentifierHeartRate" value="nope" unit="count/min" startDate="2024-01-15 10:00:00 +0000" />
		<Record type="HKQuantityTypeIdentifierStepCount" value="5000" unit="count" startDate="2024-01-15 12:00:00 +0000" />
	</HealthData>`)

	got, err := importer.DecodeExport(content, "u", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].MetricType != "steps" {
		t.Fatalf("expected only the steps record, got %+v", got)
	}
}

func TestDecodeExportNaiveTimestamp(t *testing.T) {
	content := []byte(`<HealthData>
		<Record type="HKQuantityTypeIdentifierHeartRate" value="64" unit="count/min" startDate="2024-01-15 10:00:00" />
	</HealthData>`)

	got, err := importer.DecodeExport(content, "u", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
}

func TestDecodeExportMalformedXML(t *testing.T) {
	content := []byte(`<HealthData><Record type="HKQuantityTypeIdentifierHeartRate"`)

	if _, err := importer.DecodeExport(content, "u", 0); err == nil {
		t.Fatal("expected error for malformed xml")
	}
}

func TestDecodeExportAggregatesOldSamples(t *testing.T) {
	// Samples far in the past relative to a 30-day window.
	content := []byte(`<HealthData>
		<Record type="HKQuantityTypeIdentifierHeartRate" value="60" unit="count/min" startDate="2020-03-01 08:00:00 +0000" />
		<Record type="HKQuantityTypeIdentifierHeartRate" value="70" unit="count/min" startDate="2020-03-01 09:00:00 +0000" />
		<Record type="HKQuantityTypeIdentifierHeartRate" value="80" unit="count/min" startDate="2020-03-01 10:00:00 +0000" />
	</HealthData>`)

	got, err := importer.DecodeExport(content, "u", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 daily aggregate, got %d", len(got))
	}

	c := got[0]
	if c.Value != 70.0 {
		t.Errorf("aggregate value = %v; want mean 70", c.Value)
	}
	if c.Unit != "bpm" {
		t.Errorf("aggregate unit = %q; want bpm", c.Unit)
	}
	want := time.Date(2020, 3, 1, 12, 0, 0, 0, time.UTC)
	if !c.MeasuredAt.Equal(want) {
		t.Errorf("aggregate measured at = %v; want %v", c.MeasuredAt, want)
	}
}
