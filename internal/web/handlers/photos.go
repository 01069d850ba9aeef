package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mvillareal/lumina/internal/database"
	"github.com/mvillareal/lumina/internal/gallery"
	"github.com/mvillareal/lumina/internal/web/middleware"
)

const (
	// maxUploadBytes caps a single-photo upload request.
	maxUploadBytes = 10 << 20
	// maxBatchUploadBytes caps a batch upload request.
	maxBatchUploadBytes = int64(gallery.MaxBatchSize) * maxUploadBytes
)

// PhotosHandler serves photo upload, retrieval and deletion.
type PhotosHandler struct {
	svc *gallery.Service
}

// NewPhotosHandler creates a photos handler.
func NewPhotosHandler(svc *gallery.Service) *PhotosHandler {
	return &PhotosHandler{svc: svc}
}

// Upload handles POST /photos: one multipart image plus an optional note.
func (h *PhotosHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	input, err := readUpload(r, "image")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	input.ManualNote = r.FormValue("note")

	owner := middleware.OwnerFromContext(r.Context())
	photo, err := h.svc.Ingest(r.Context(), owner, *input)
	if err != nil {
		respondIngestError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, photo)
}

// BatchUpload handles POST /photos/batch: up to MaxBatchSize images under
// the "images" field. Per-item failures land in the response body, not in
// the HTTP status.
func (h *PhotosHandler) BatchUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBatchUploadBytes)
	if err := r.ParseMultipartForm(maxBatchUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "no images provided")
		return
	}

	items := make([]gallery.UploadInput, 0, len(files))
	for _, fh := range files {
		// The aggregate cap above still admits one file taking the whole
		// budget, so each item is checked against the single-upload limit.
		if fh.Size > maxUploadBytes {
			respondError(w, http.StatusBadRequest, "image too large: "+sanitizeForLog(fh.Filename))
			return
		}
		data, err := readFileHeader(fh)
		if err != nil {
			respondError(w, http.StatusBadRequest, "failed to read uploaded file "+sanitizeForLog(fh.Filename))
			return
		}
		items = append(items, gallery.UploadInput{
			FileName: fh.Filename,
			Data:     data,
		})
	}

	owner := middleware.OwnerFromContext(r.Context())
	result, err := h.svc.IngestBatch(r.Context(), owner, items)
	if err != nil {
		respondIngestError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// List handles GET /photos.
func (h *PhotosHandler) List(w http.ResponseWriter, r *http.Request) {
	owner := middleware.OwnerFromContext(r.Context())
	photos, err := h.svc.ListPhotos(r.Context(), owner)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list photos")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"photos": photos,
		"count":  len(photos),
	})
}

// Get handles GET /photos/{id}.
func (h *PhotosHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	owner := middleware.OwnerFromContext(r.Context())

	photo, err := h.svc.GetPhoto(r.Context(), owner, id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "photo not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load photo")
		return
	}

	respondJSON(w, http.StatusOK, photo)
}

// Image handles GET /photos/{id}/image: the analysis rendition, which is
// the copy detail views zoom into.
func (h *PhotosHandler) Image(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	owner := middleware.OwnerFromContext(r.Context())

	analysis, err := h.svc.GetImage(r.Context(), owner, id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "photo not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load image")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(analysis)
}

// Thumbnail handles GET /photos/{id}/thumbnail.
func (h *PhotosHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	owner := middleware.OwnerFromContext(r.Context())

	thumbnail, err := h.svc.GetThumbnail(r.Context(), owner, id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "photo not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load thumbnail")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(thumbnail)
}

// Delete handles DELETE /photos/{id}.
func (h *PhotosHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	owner := middleware.OwnerFromContext(r.Context())

	err := h.svc.DeletePhoto(r.Context(), owner, id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "photo not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete photo")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func readUpload(r *http.Request, field string) (*gallery.UploadInput, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, errors.New("missing " + field + " file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.New("failed to read uploaded file")
	}

	return &gallery.UploadInput{
		FileName: header.Filename,
		Data:     data,
	}, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
