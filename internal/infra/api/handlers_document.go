package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"tender-analysis-service/internal/domain/model"
)

type documentResponse struct {
	ID               int64     `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	MimeType         string    `json:"mime_type"`
	Language         string    `json:"language"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

func toDocumentResponse(d *model.Document) documentResponse {
	return documentResponse{
		ID:               d.ID,
		Filename:         d.Filename,
		OriginalFilename: d.OriginalFilename,
		FileSize:         d.FileSize,
		MimeType:         d.MimeType,
		Language:         d.Language,
		Status:           string(d.Status),
		CreatedAt:        d.CreatedAt,
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) handleDocumentUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable upload")
		return
	}

	doc, err := s.documentUC.Upload(r.Context(), currentUserID(r.Context()),
		header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDocumentResponse(doc))
}

func (s *Server) handleDocumentList(w http.ResponseWriter, r *http.Request) {
	docs, err := s.documentUC.List(r.Context(), currentUserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDocumentGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	doc, err := s.documentUC.Get(r.Context(), currentUserID(r.Context()), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

func (s *Server) handleDocumentRename(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	doc, err := s.documentUC.Rename(r.Context(), currentUserID(r.Context()), id, req.Filename)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

func (s *Server) handleDocumentDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.documentUC.Delete(r.Context(), currentUserID(r.Context()), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
