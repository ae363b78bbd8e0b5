package app

import (
	"context"
	"log"

	"healthvault/internal/domain"
	"healthvault/internal/importer"
	"healthvault/internal/metrics"
)

// ImportService runs the ingestion pipeline: decode a vendor export,
// optionally aggregate old samples, then reconcile the candidates into
// the metric store.
type ImportService struct {
	repo domain.MetricRepository
}

// NewImportService creates an ImportService backed by the given repository.
func NewImportService(repo domain.MetricRepository) *ImportService {
	return &ImportService{repo: repo}
}

// ImportExport decodes an Apple Health export XML document and reconciles
// it for owner. Samples of high-frequency types older than aggregateDays
// are collapsed to daily values; 0 disables aggregation. Malformed XML is
// returned as an error before anything is written.
func (s *ImportService) ImportExport(ctx context.Context, owner string, content []byte, aggregateDays int) (domain.ImportResult, error) {
	candidates, err := importer.DecodeExport(content, owner, aggregateDays)
	if err != nil {
		return domain.ImportResult{}, err
	}
	return s.Reconcile(ctx, owner, candidates), nil
}

// ImportWebhook decodes a Health Auto Export webhook payload and
// reconciles it for owner. A payload without a metrics container is
// returned as an error before anything is written.
func (s *ImportService) ImportWebhook(ctx context.Context, owner string, payload importer.WebhookPayload) (domain.ImportResult, error) {
	candidates, err := importer.DecodeWebhook(payload, owner)
	if err != nil {
		return domain.ImportResult{}, err
	}
	return s.Reconcile(ctx, owner, candidates), nil
}

// Reconcile merges candidates into the store in order. A candidate whose
// (owner, metric type, measured at) triple is unseen is inserted; one
// matching a manual record is skipped, since manual entries are never
// overwritten by automated data; one matching any other record overwrites
// its value, unit and source in place. A repository failure on one
// candidate is counted and the batch continues. Reconciling the same
// batch twice therefore converges instead of accumulating duplicates.
func (s *ImportService) Reconcile(ctx context.Context, owner string, candidates []domain.MetricCandidate) domain.ImportResult {
	result := domain.ImportResult{Total: len(candidates)}

	for _, c := range candidates {
		existing, err := s.repo.FindByOwnerTypeTime(ctx, owner, c.MetricType, c.MeasuredAt)
		if err != nil {
			log.Printf("import: lookup %s failed: %v", c.MetricType, err)
			result.Errors++
			metrics.RecordImport(c.Source, "error")
			continue
		}

		switch {
		case existing == nil:
			if _, err := s.repo.Insert(ctx, c); err != nil {
				log.Printf("import: insert %s failed: %v", c.MetricType, err)
				result.Errors++
				metrics.RecordImport(c.Source, "error")
				continue
			}
			result.Imported++
			metrics.RecordImport(c.Source, "imported")

		case existing.Source == domain.SourceManual:
			result.Skipped++
			metrics.RecordImport(c.Source, "skipped")

		default:
			if err := s.repo.UpdateValues(ctx, existing.ID, c.Value, c.Unit, c.Source); err != nil {
				log.Printf("import: update %s failed: %v", c.MetricType, err)
				result.Errors++
				metrics.RecordImport(c.Source, "error")
				continue
			}
			result.Imported++
			metrics.RecordImport(c.Source, "imported")
		}
	}
	return result
}
