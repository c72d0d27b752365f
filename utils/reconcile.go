package utils

import (
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/strategiq/website-backend/models"
)

// Blobs younger than this are skipped so the sweep never races an upload
// whose metadata row has not been inserted yet.
const orphanGracePeriod = time.Hour

// StartBlobReconciler launches a background goroutine that periodically
// converges the file repository toward its invariant: every metadata row has
// a blob and every blob has a row. Orphaned blobs are deleted once they are
// older than the grace period; rows whose blob is missing are logged as
// data-integrity anomalies for operators. Best-effort, failures are logged.
func StartBlobReconciler(db *gorm.DB, uploadDir string, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			reconcileOnce(db, uploadDir)
		}
	}()
}

func reconcileOnce(db *gorm.DB, uploadDir string) {
	var records []models.FileRecord
	if err := db.Find(&records).Error; err != nil {
		if Sugar != nil {
			Sugar.Warnf("blob reconciler query failed: %v", err)
		}
		return
	}

	known := make(map[string]bool, len(records))
	for _, rec := range records {
		known[rec.StoredName] = true
		if _, err := os.Stat(filepath.Join(uploadDir, rec.StoredName)); os.IsNotExist(err) {
			if Sugar != nil {
				Sugar.Warnf("file record %d has no blob on disk (stored_name=%s)", rec.ID, rec.StoredName)
			}
		}
	}

	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || known[entry.Name()] {
			continue
		}
		info, err := entry.Info()
		if err != nil || time.Since(info.ModTime()) < orphanGracePeriod {
			continue
		}
		path := filepath.Join(uploadDir, entry.Name())
		if err := os.Remove(path); err == nil && Sugar != nil {
			Sugar.Infof("removed orphaned blob %s", entry.Name())
		}
	}
}
