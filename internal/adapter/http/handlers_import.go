package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"healthvault/internal/importer"
)

// Uploaded exports can be large; a 14-day export of minute-level heart
// rate data runs to tens of megabytes.
const maxImportBytes = 256 << 20

func (s *Server) handleImportExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	content, err := readImportBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(content) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("empty export file"))
		return
	}

	aggregateDays := nonNegIntQuery(r, "aggregate_days", s.aggregateDays)

	result, err := s.imports.ImportExport(r.Context(), currentOwner(r), content, aggregateDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleImportWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Health Auto Export payloads carry fields beyond the metrics we
	// consume (workouts, symptoms), so unknown keys are allowed here.
	var payload importer.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}

	result, err := s.imports.ImportWebhook(r.Context(), currentOwner(r), payload)
	if errors.Is(err, importer.ErrNoMetrics) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// readImportBody accepts either a multipart upload with a "file" field or
// the XML document as the raw request body.
func readImportBody(r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxImportBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New("missing file field")
		}
		defer file.Close()
		return io.ReadAll(file)
	}
	return io.ReadAll(r.Body)
}
