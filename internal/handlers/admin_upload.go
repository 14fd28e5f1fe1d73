package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"bubbles/internal/storage"
)

// maxUploadSize caps dish image uploads at 10 MB.
const maxUploadSize = 10 << 20

// allowedImageTypes maps sniffed content types to whether we accept them.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadImage accepts a multipart image upload and stores it in the
// dish-images bucket. The content type is sniffed from the bytes, not
// trusted from the request. Returns the public URL for the dish form.
func (a *Admin) UploadImage(w http.ResponseWriter, r *http.Request) {
	if a.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "Image storage is not configured.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Image is too large (max 10 MB).")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No image file provided.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("upload read failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read upload.")
		return
	}

	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		writeError(w, http.StatusBadRequest, "Only JPEG, PNG, GIF, and WebP images are allowed.")
		return
	}

	key, err := storage.ObjectKey("dishes", header.Filename)
	if err != nil {
		slog.Error("object key generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to store image.")
		return
	}

	url, err := a.storage.Upload(r.Context(), key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		slog.Error("image upload failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to store image.")
		return
	}

	slog.Info("dish image uploaded", "key", key, "size", len(data))
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
