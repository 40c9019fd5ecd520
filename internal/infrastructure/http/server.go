// Package http provides the HTTP server infrastructure.
// Clean Architecture: Framework/driver layer - outermost circle.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rebuildintel/rebuild-go/internal/domain/entities"
	"github.com/rebuildintel/rebuild-go/internal/domain/ports"
	"github.com/rebuildintel/rebuild-go/internal/domain/usecases"
)

// maxUploadMemory bounds how much of a multipart body is held in memory;
// larger uploads spill to temp files and are discarded unread.
const maxUploadMemory = 32 << 20

// Server is the HTTP server for the reuse analysis API.
type Server struct {
	process *usecases.ProcessUseCase
	logger  *zap.Logger
	addr    string
}

// NewServer creates a new HTTP server.
func NewServer(process *usecases.ProcessUseCase, logger *zap.Logger, addr string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		process: process,
		logger:  logger,
		addr:    addr,
	}
}

// Handler builds the routed and middleware-wrapped API handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/process", s.handleProcess)
	mux.HandleFunc("/api/export/obj", s.handleExportOBJ)
	mux.HandleFunc("/api/reports", s.handleReports)
	mux.HandleFunc("/api/health", s.handleHealth)

	return corsMiddleware(loggingMiddleware(s.logger, mux))
}

// Start runs the HTTP server until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // covers the narrative call
	}

	s.logger.Info("ReBuild server starting", zap.String("addr", s.addr))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	return server.ListenAndServe()
}

// handleProcess runs the pipeline on an uploaded project and returns the
// report. Accepts the original multipart form or a JSON submission body.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var record *entities.ReportRecord
	var err error

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var sub entities.ProjectSubmission
		if decodeErr := json.NewDecoder(r.Body).Decode(&sub); decodeErr != nil {
			writeError(w, http.StatusBadRequest, "Invalid submission body")
			return
		}
		record, err = s.process.Submit(r.Context(), sub)
	} else {
		if parseErr := r.ParseMultipartForm(maxUploadMemory); parseErr != nil {
			writeError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		defer r.MultipartForm.RemoveAll()

		form := r.MultipartForm
		if !formHas(form, "project_name") || !formHas(form, "description") {
			writeError(w, http.StatusBadRequest, "project_name and description are required")
			return
		}

		meta := metadataFromForm(form)
		manifest := manifestFromForm(form)
		record, err = s.process.Process(r.Context(), meta, manifest)
	}

	if err != nil {
		s.logger.Error("processing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Processing failed")
		return
	}

	writeJSON(w, http.StatusOK, record.Report)
}

// handleExportOBJ renders the latest archived report's pieces as OBJ.
func (s *Server) handleExportOBJ(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	data, err := s.process.ExportLatest(r.Context())
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Run /api/process at least once before requesting an OBJ export.")
			return
		}
		s.logger.Error("export failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Export failed")
		return
	}

	w.Header().Set("Content-Type", "model/obj")
	w.Header().Set("Content-Disposition", "attachment; filename=pieces.obj")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleReports lists archived report summaries, newest first.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	summaries, err := s.process.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("listing reports failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Listing reports failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reports": summaries,
		"count":   len(summaries),
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// metadataFromForm maps the original upload form fields onto ProjectMetadata.
// An absent human_built field keeps the form's historical default of true.
func metadataFromForm(form *multipart.Form) entities.ProjectMetadata {
	humanBuilt := true
	if values, ok := form.Value["human_built"]; ok && len(values) > 0 {
		humanBuilt = entities.ParseBoolFlag(values[0])
	}

	return entities.ProjectMetadata{
		ProjectName:     formValue(form, "project_name"),
		Description:     formValue(form, "description"),
		TransportPlan:   formValue(form, "transport_plan"),
		HumanBuilt:      humanBuilt,
		SiteLocation:    formValue(form, "site_location"),
		SoilProfile:     formValue(form, "soil_profile"),
		HazardProfile:   formValue(form, "hazard_profile"),
		DemolitionNotes: formValue(form, "demolition_notes"),
		LidarNotes:      formValue(form, "lidar_notes"),
	}
}

// manifestFromForm reads only filename and size from the uploads; file
// content never reaches the pipeline.
func manifestFromForm(form *multipart.Form) entities.FileManifest {
	manifest := entities.FileManifest{}
	for _, hdr := range form.File["asset_files"] {
		manifest.AssetFiles = append(manifest.AssetFiles, entities.FileMeta{Name: hdr.Filename, SizeBytes: hdr.Size})
	}
	for _, hdr := range form.File["scan_files"] {
		manifest.ScanFiles = append(manifest.ScanFiles, entities.FileMeta{Name: hdr.Filename, SizeBytes: hdr.Size})
	}
	return manifest
}

func formHas(form *multipart.Form, key string) bool {
	values, ok := form.Value[key]
	return ok && len(values) > 0
}

func formValue(form *multipart.Form, key string) string {
	if values, ok := form.Value[key]; ok && len(values) > 0 {
		return values[0]
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func loggingMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			return
		}
		next.ServeHTTP(w, r)
	})
}
