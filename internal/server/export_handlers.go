package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ledgerly/ledgerly/internal/export"
	"github.com/ledgerly/ledgerly/internal/finerr"
	"github.com/ledgerly/ledgerly/internal/premium"
)

type exportRequest struct {
	Month  int    `json:"month"`
	Year   int    `json:"year"`
	Format string `json:"format"`
}

func (s *Server) handleExportData(w http.ResponseWriter, r *http.Request) {
	user, err := s.requireFeature(r, premium.FeatureDataExport)
	if err != nil {
		writeError(w, err)
		return
	}

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, finerr.BadRequestf("invalid request body"))
		return
	}

	file, err := s.exporter.Data(r.Context(), user.UserID, req.Month, req.Year, export.Format(req.Format))
	if err != nil {
		writeError(w, err)
		return
	}
	writeFile(w, file)
}

func (s *Server) handleExportReports(w http.ResponseWriter, r *http.Request) {
	user, err := s.requireFeature(r, premium.FeatureReportsExport)
	if err != nil {
		writeError(w, err)
		return
	}

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, finerr.BadRequestf("invalid request body"))
		return
	}

	file, err := s.exporter.Reports(r.Context(), user.UserID, req.Month, req.Year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeFile(w, file)
}

func writeFile(w http.ResponseWriter, file *export.File) {
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Content)
}
