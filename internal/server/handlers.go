package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/luminahq/lumina/internal/models"
	"github.com/luminahq/lumina/internal/service"
	"go.uber.org/zap"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing.
const maxUploadMemory = 32 << 20

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "multipart file field 'file' is required")
		return
	}
	defer file.Close()

	if !isImagePart(header) {
		s.respondError(w, http.StatusBadRequest, "File must be an image")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	result, err := s.service.UploadImage(r.Context(), models.FileUpload{Filename: header.Filename, Data: data}, "")
	if err != nil {
		s.logger.Error("upload failed", zap.String("filename", header.Filename), zap.Error(err))
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleUploadBatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		s.respondError(w, http.StatusBadRequest, "multipart file field 'files' is required")
		return
	}

	// All files must claim an image content type before any work starts.
	for _, h := range headers {
		if !isImagePart(h) {
			s.respondError(w, http.StatusBadRequest, "File "+h.Filename+" must be an image")
			return
		}
	}

	files := make([]models.FileUpload, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "failed to read file "+h.Filename)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "failed to read file "+h.Filename)
			return
		}
		files = append(files, models.FileUpload{Filename: h.Filename, Data: data})
	}

	result := s.service.UploadBatch(r.Context(), files)
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Query string parameters override the body.
	q := r.URL.Query()
	if v := q.Get("top_k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid top_k value")
			return
		}
		req.TopK = &n
	}
	if v := q.Get("namespace"); v != "" {
		req.Namespace = v
	}

	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Debug("search request", zap.String("query", req.Query), zap.Int("top_k", *req.TopK))
	resp, err := s.service.Search(r.Context(), &req)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		s.logger.Error("stats failed", zap.Error(err))
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	imageID := chi.URLParam(r, "image_id")
	namespace := r.URL.Query().Get("namespace")

	result, err := s.service.Delete(r.Context(), imageID, namespace)
	if err != nil {
		s.logger.Error("delete failed", zap.String("image_id", imageID), zap.Error(err))
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "Lumina API",
	})
}

func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	tel := s.service.Telemetry(r.Context())
	status := http.StatusOK
	if tel.Status == "error" {
		status = http.StatusInternalServerError
	}
	s.respondJSON(w, status, tel)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"message": "Lumina API is running",
		"docs":    "/docs",
		"health":  "/api/health",
	})
}

// isImagePart reports whether the multipart header declares an image content type.
func isImagePart(h *multipart.FileHeader) bool {
	return strings.HasPrefix(h.Header.Get("Content-Type"), "image/")
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a service error to a 500 response, attaching the
// image id when the failure is tied to one so clients can correlate it.
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	payload := map[string]string{"error": err.Error()}
	var extErr *service.ExternalError
	var decErr *service.DecodeError
	switch {
	case errors.As(err, &extErr) && extErr.ImageID != "":
		payload["image_id"] = extErr.ImageID
	case errors.As(err, &decErr) && decErr.ImageID != "":
		payload["image_id"] = decErr.ImageID
	}
	s.respondJSON(w, http.StatusInternalServerError, payload)
}
