package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	contenttopdf "github.com/PlanB-Network/content-to-pdf"
	"github.com/PlanB-Network/content-to-pdf/internal/source"
)

// generateRequest is the JSON body of POST /api/generate.
type generateRequest struct {
	Code          string `json:"code"`
	Lang          string `json:"lang"`
	Type          string `json:"type"`
	Count         int    `json:"count"`
	PresenterName string `json:"presenterName"`
	PresenterLogo string `json:"presenterLogo"`
	// Format is "html" (default) or "pdf".
	Format string `json:"format"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.lister.ListCourses(r.Context())
	if err != nil {
		s.fail(w, r, fmt.Errorf("listing courses: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		jsonError(w, "missing code parameter", http.StatusBadRequest)
		return
	}
	if err := source.Validate(code, ""); err != nil {
		s.fail(w, r, err)
		return
	}

	langs, err := s.lister.ListLanguages(r.Context(), code)
	if err != nil {
		s.fail(w, r, fmt.Errorf("listing languages of %s: %w", code, err))
		return
	}
	writeJSON(w, http.StatusOK, langs)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var body generateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBody))
	if err := dec.Decode(&body); err != nil {
		jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := strings.ToLower(strings.TrimSpace(body.Format))
	switch format {
	case "", "html":
	case "pdf":
		if s.pdf == nil {
			jsonError(w, "pdf output is not enabled on this server", http.StatusBadRequest)
			return
		}
	default:
		jsonError(w, fmt.Sprintf("invalid format %q (must be html or pdf)", body.Format), http.StatusBadRequest)
		return
	}

	req := contenttopdf.Request{
		Code:          strings.TrimSpace(body.Code),
		Lang:          strings.TrimSpace(body.Lang),
		Type:          contenttopdf.DocType(strings.TrimSpace(body.Type)),
		Count:         body.Count,
		PresenterName: body.PresenterName,
		PresenterLogo: body.PresenterLogo,
		// Web quizzes always carry the answer key.
		Answers: true,
	}
	if err := req.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.gen.Generate(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if format != "pdf" {
		writeJSON(w, http.StatusOK, res)
		return
	}

	data, err := s.pdf.Render(r.Context(), res)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", req.OutputName()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// fail logs err and writes it with the status its kind maps to.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.log.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	jsonError(w, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, contenttopdf.ErrInvalidRequest),
		errors.Is(err, source.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, source.ErrNotFound),
		errors.Is(err, contenttopdf.ErrNoQuestions):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
