package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"bazarBack/utils"
)

const maxUploadSize = 10 << 20 // 10 MB

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadHandler accepts multipart image uploads (payment screenshots and
// listing photos) and stores them in object storage. Size and content-type
// are checked on every upload path.
type UploadHandler struct {
	Folder string
}

func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "File is too large or the form is malformed")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	contentType := http.DetectContentType(data)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Unsupported image type: %s", contentType))
		return
	}

	folder := h.Folder
	if folder == "" {
		folder = "promotions"
	}

	publicID := uuid.New().String()
	fileName := publicID + ext
	if origExt := strings.ToLower(filepath.Ext(header.Filename)); origExt == ext {
		fileName = publicID + origExt
	}

	url, err := utils.UploadFileToS3(data, fileName, folder, contentType)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}

	respondData(w, http.StatusCreated, map[string]any{
		"url":       url,
		"public_id": publicID,
	})
}
