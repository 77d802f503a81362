package handlers

import (
	"net/http"

	"github.com/mindhaven-app/mindhaven-backend/internal/services"
)

const maxUploadBytes = 10 << 20 // 10 MB

var cloudinarySvc *services.CloudinaryService

// InitCloudinary wires the upload service. Uploads 503 when it is absent.
func InitCloudinary(svc *services.CloudinaryService) {
	cloudinarySvc = svc
}

// Upload accepts a multipart file and stores it in Cloudinary, returning the
// hosted URL for use as an avatar, resource thumbnail or chat attachment.
func Upload(w http.ResponseWriter, r *http.Request) {
	if cloudinarySvc == nil {
		writeError(w, http.StatusServiceUnavailable, "File uploads are not configured")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	_, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	if header.Size > maxUploadBytes {
		writeError(w, http.StatusBadRequest, "File exceeds the 10MB limit")
		return
	}

	folder := r.FormValue("folder")
	if folder == "" {
		folder = "mindhaven"
	}

	ctx, cancel := opContext(r)
	defer cancel()

	url, err := cloudinarySvc.UploadFileFromHeader(ctx, header, folder)
	if err != nil {
		serverError(w, "Upload", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "File uploaded successfully",
		"url":     url,
	})
}
