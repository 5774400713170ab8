package controllers

import (
	"encoding/json"
	"net/http"

	"reelmatch_server/services"
	"reelmatch_server/utils"
)

// BackupController hands out presigned URLs for saved-data blobs
type BackupController struct {
	Backups *services.BackupService
}

// NewBackupController creates a new BackupController instance
func NewBackupController(backups *services.BackupService) *BackupController {
	return &BackupController{Backups: backups}
}

type uploadURLRequest struct {
	Username string `json:"username" validate:"required"`
}

// UploadURL returns a presigned URL for uploading a user's backup blob
func (bc *BackupController) UploadURL(w http.ResponseWriter, r *http.Request) {
	var req uploadURLRequest
	if err := utils.DecodeAndValidate(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	url, key, err := bc.Backups.UploadURL(r.Context(), req.Username)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"uploadUrl": url,
		"key":       key,
	})
}

// ReadURL returns a presigned URL for reading a backup blob
func (bc *BackupController) ReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "key is required", http.StatusBadRequest)
		return
	}

	url, err := bc.Backups.ReadURL(r.Context(), key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"readUrl": url,
	})
}
