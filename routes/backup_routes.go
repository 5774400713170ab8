package routes

import (
	"reelmatch_server/controllers"
	"reelmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterBackupRoutes sets up backup-blob routes under /api/backup
func RegisterBackupRoutes(r *mux.Router, backups *services.BackupService) {
	controller := controllers.NewBackupController(backups)

	backupRouter := r.PathPrefix("/api/backup").Subrouter()

	backupRouter.HandleFunc("/upload-url", controller.UploadURL).Methods("POST")
	backupRouter.HandleFunc("/read-url", controller.ReadURL).Methods("GET")
}
