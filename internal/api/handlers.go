package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/danteata/spiritammo/core/doc"
	pipeerrors "github.com/danteata/spiritammo/core/errors"
	"github.com/danteata/spiritammo/core/verse"
	"github.com/danteata/spiritammo/internal/pipeline"
)

type errorResponse struct {
	Error    string                      `json:"error"`
	Attempts []pipeerrors.AttemptFailure `json:"attempts,omitempty"`
}

type extractResponse struct {
	*pipeline.Result
	Saved int `json:"saved,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleExtract accepts a multipart upload under the "document" field, runs
// the pipeline, and returns the result. With save=true and a configured
// store, accepted candidates are persisted as importable records.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	file, header, err := r.FormFile("document")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing document upload: " + err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "reading upload: " + err.Error()})
		return
	}

	format, err := doc.DetectFormat(header.Filename, data)
	if err != nil {
		writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{Error: err.Error()})
		return
	}
	d := doc.New(header.Filename, format, data)

	s.hub.Broadcast(ProgressMessage{Type: "progress", Document: d.Name, Stage: "queued", Message: "extraction starting"})
	result, err := s.pipeline.Run(r.Context(), d)
	if err != nil {
		s.hub.Broadcast(ProgressMessage{Type: "error", Document: d.Name, Message: err.Error()})
		writeExtractionError(w, err)
		return
	}
	s.hub.Broadcast(ProgressMessage{
		Type:     "complete",
		Document: d.Name,
		Progress: 100,
		Message:  strconv.Itoa(len(result.Candidates)) + " verse candidates",
	})

	resp := extractResponse{Result: result}
	if r.FormValue("save") == "true" {
		saved, err := s.saveCandidates(r, result)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		resp.Saved = saved
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) saveCandidates(r *http.Request, result *pipeline.Result) (int, error) {
	if s.store == nil {
		return 0, errors.New("save requested but no store is configured")
	}
	records := make([]verse.ImportableRecord, len(result.Candidates))
	for i, c := range result.Candidates {
		records[i] = verse.ToImportableRecord(c)
	}
	return s.store.Save(r.Context(), result.Document.Name, records)
}

// writeExtractionError maps the pipeline error taxonomy onto HTTP statuses.
func writeExtractionError(w http.ResponseWriter, err error) {
	var acqErr *pipeerrors.AcquisitionFailedError
	switch {
	case errors.Is(err, pipeerrors.ErrUnsupportedFormat):
		writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{Error: err.Error()})
	case errors.As(err, &acqErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: acqErr.Error(), Attempts: acqErr.Attempts})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
