package http

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"fixo-backend/internal/service"
	"fixo-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// PropertyImageHandler accepts listing photo uploads and serves them
// back. Files live in the image store; the property row keeps the URLs.
type PropertyImageHandler struct {
	store       storage.Store
	propertySvc service.PropertyService
}

func NewPropertyImageHandler(store storage.Store, propertySvc service.PropertyService) *PropertyImageHandler {
	return &PropertyImageHandler{store: store, propertySvc: propertySvc}
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

func (h *PropertyImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	propertyID := mux.Vars(r)["id"]

	contentType := r.Header.Get("Content-Type")
	ext, ok := imageExtensions[contentType]
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unsupported image content type"})
		return
	}

	key := fmt.Sprintf("properties/%s/%s%s", propertyID, uuid.NewString(), ext)
	if err := h.store.Save(key, http.MaxBytesReader(w, r.Body, 10<<20)); err != nil {
		writeError(w, err)
		return
	}

	url := "/api/v1/images/" + key
	if err := h.propertySvc.AddImage(r.Context(), ActorFromContext(r.Context()), propertyID, url); err != nil {
		_ = h.store.Delete(key)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (h *PropertyImageHandler) Download(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	file, err := h.store.Open(key)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "image not found"})
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".webp":
		contentType = "image/webp"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = io.Copy(w, file)
}
