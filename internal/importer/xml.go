package importer

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"healthvault/internal/domain"
)

// Apple Health writes dates as "2024-01-15 10:00:00 +0000"; very old
// exports omit the offset.
var exportDateFormats = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
}

type exportRecord struct {
	Type      string `xml:"type,attr"`
	Value     string `xml:"value,attr"`
	Unit      string `xml:"unit,attr"`
	StartDate string `xml:"startDate,attr"`
}

// DecodeExport parses an Apple Health export XML document into metric
// candidates tagged automated_import. Records with an unknown type, an
// unparseable value, or an unparseable start date are dropped
// individually; malformed XML fails the whole call. When aggregateDays
// is positive, high-frequency samples older than now minus aggregateDays
// are collapsed to daily values (see aggregateOlder); 0 disables
// aggregation.
func DecodeExport(content []byte, owner string, aggregateDays int) ([]domain.MetricCandidate, error) {
	candidates, err := decodeExportRecords(content, owner)
	if err != nil {
		return nil, err
	}

	if aggregateDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -aggregateDays)
		candidates = aggregateOlder(candidates, cutoff)
	}
	return candidates, nil
}

func decodeExportRecords(content []byte, owner string) ([]domain.MetricCandidate, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))
	var out []domain.MetricCandidate

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse export xml: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Record" {
			continue
		}

		var rec exportRecord
		if err := dec.DecodeElement(&rec, &start); err != nil {
			return nil, fmt.Errorf("parse export xml: %w", err)
		}

		if c, ok := decodeExportRecord(rec, owner); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// decodeExportRecord converts one Record element, reporting false when the
// record should be skipped.
func decodeExportRecord(rec exportRecord, owner string) (domain.MetricCandidate, bool) {
	mapping, ok := exportTypes[rec.Type]
	if !ok {
		return domain.MetricCandidate{}, false
	}

	raw := rec.Value
	if raw == "" {
		raw = "0"
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return domain.MetricCandidate{}, false
	}

	unit := rec.Unit
	if unit == "" {
		unit = mapping.Unit
	}
	value, unit = domain.ConvertUnit(value, unit, mapping.Unit)

	measuredAt, ok := parseExportDate(rec.StartDate)
	if !ok {
		return domain.MetricCandidate{}, false
	}

	return domain.MetricCandidate{
		Owner:      owner,
		MetricType: mapping.Type,
		Value:      value,
		Unit:       unit,
		MeasuredAt: measuredAt,
		Source:     domain.SourceImport,
	}, true
}

func parseExportDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range exportDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
