package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/strategiq/website-backend/config"
	"github.com/strategiq/website-backend/repository"
	"github.com/strategiq/website-backend/utils"
)

// allowedMimeTypes is the upload allow-list: documents, common images, and
// spreadsheets the consultants exchange with clients.
var allowedMimeTypes = map[string]bool{
	"application/pdf":  true,
	"image/jpeg":       true,
	"image/png":        true,
	"image/gif":        true,
	"image/webp":       true,
	"text/plain":       true,
	"text/csv":         true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       true,
}

var safeExtPattern = regexp.MustCompile(`^\.[a-z0-9]{1,12}$`)

// FileController manages the admin file repository: metadata rows live in the
// database, blobs on disk under server-generated names. Row and blob are
// created and deleted together; compensating cleanup guards partial state.
type FileController struct {
	store     repository.Store
	uploadDir string
	maxBytes  int64
}

// NewFileController creates a new FileController instance.
func NewFileController(store repository.Store, cfg config.AppConfig) *FileController {
	return &FileController{
		store:     store,
		uploadDir: cfg.UploadDir,
		maxBytes:  cfg.MaxUploadBytes(),
	}
}

// Upload accepts a single multipart file, validates type and size, writes the
// blob under a random name, then records the metadata row. Nothing is
// persisted when any check fails.
func (f *FileController) Upload(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Size > f.maxBytes {
		utils.Fail(ctx, http.StatusBadRequest, "File size exceeds the allowed maximum")
		return
	}

	mime := normalizeMime(header.Header.Get("Content-Type"))
	if mime == "" {
		// No declared type: sniff the content instead.
		detected, err := mimetype.DetectReader(file)
		if err != nil {
			utils.Fail(ctx, http.StatusInternalServerError, "Failed to read file")
			return
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			utils.Fail(ctx, http.StatusInternalServerError, "Failed to read file")
			return
		}
		mime = normalizeMime(detected.String())
	}
	if !allowedMimeTypes[mime] {
		utils.Fail(ctx, http.StatusBadRequest, "File type not allowed")
		return
	}

	if err := os.MkdirAll(f.uploadDir, 0o755); err != nil {
		utils.Fail(ctx, http.StatusInternalServerError, "Failed to store file")
		return
	}

	// The stored name is never derived from the client filename; only a
	// sanitized extension is carried over for convenience.
	originalName := filepath.Base(header.Filename)
	storedName := uuid.New().String() + safeExt(originalName)
	dstPath := filepath.Join(f.uploadDir, storedName)

	out, err := os.Create(dstPath)
	if err != nil {
		utils.Fail(ctx, http.StatusInternalServerError, "Failed to store file")
		return
	}

	// Enforce the ceiling while copying; the reported header size is untrusted.
	lr := &io.LimitedReader{R: file, N: f.maxBytes + 1}
	written, copyErr := io.Copy(out, lr)
	closeErr := out.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(dstPath)
		utils.Fail(ctx, http.StatusInternalServerError, "Failed to store file")
		return
	}
	if written > f.maxBytes {
		_ = os.Remove(dstPath)
		utils.Fail(ctx, http.StatusBadRequest, "File size exceeds the allowed maximum")
		return
	}

	record, err := f.store.CreateFile(repository.FileInput{
		OriginalName: originalName,
		StoredName:   storedName,
		MimeType:     mime,
		Size:         written,
	})
	if err != nil {
		// Row insert failed after the blob was written: remove the orphan.
		_ = os.Remove(dstPath)
		if utils.Sugar != nil {
			utils.Sugar.Errorf("create file record failed: %v", err)
		}
		utils.Fail(ctx, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	utils.InvalidateByPrefix(statsCacheKey)
	utils.Success(ctx, gin.H{"file": record})
}

// ListFiles returns all file metadata rows.
func (f *FileController) ListFiles(ctx *gin.Context) {
	files, err := f.store.GetFiles()
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Errorf("list files failed: %v", err)
		}
		utils.Fail(ctx, http.StatusInternalServerError, "Failed to retrieve files")
		return
	}
	utils.Success(ctx, gin.H{"files": files})
}

// Download streams a stored blob with the original filename and recorded MIME
// type. A row whose blob is missing is reported as not found and logged as a
// data-integrity anomaly rather than crashing.
func (f *FileController) Download(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Fail(ctx, http.StatusBadRequest, "Invalid file ID")
		return
	}

	record, err := f.store.GetFile(id)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Errorf("load file %d failed: %v", id, err)
		}
		utils.Fail(ctx, http.StatusInternalServerError, "Failed to retrieve file")
		return
	}
	if record == nil {
		utils.Fail(ctx, http.StatusNotFound, "File not found")
		return
	}

	path := filepath.Join(f.uploadDir, record.StoredName)
	if _, err := os.Stat(path); err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("file record %d has no blob on disk (stored_name=%s)", record.ID, record.StoredName)
		}
		utils.Fail(ctx, http.StatusNotFound, "File not found")
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.OriginalName))
	ctx.Header("Content-Type", record.MimeType)
	ctx.File(path)
}

// Delete removes blob and row together. A blob that is already gone is
// tolerated; a row that cannot be removed fails the operation, because an
// orphaned blob is harmless while a dangling row is not.
func (f *FileController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Fail(ctx, http.StatusBadRequest, "Invalid file ID")
		return
	}

	record, err := f.store.GetFile(id)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Errorf("load file %d failed: %v", id, err)
		}
		utils.Fail(ctx, http.StatusInternalServerError, "Failed to delete file")
		return
	}
	if record == nil {
		utils.Fail(ctx, http.StatusNotFound, "File not found")
		return
	}

	path := filepath.Join(f.uploadDir, record.StoredName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		// Leave the blob for the reconciler; the row still comes out so the
		// repository converges toward "no record, no blob".
		if utils.Sugar != nil {
			utils.Sugar.Warnf("blob removal failed for file %d (stored_name=%s): %v", record.ID, record.StoredName, err)
		}
	}

	deleted, err := f.store.DeleteFile(id)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Errorf("delete file record %d failed: %v", id, err)
		}
		utils.Fail(ctx, http.StatusInternalServerError, "Failed to delete file")
		return
	}
	if !deleted {
		// A concurrent delete won the race; the end state is what we wanted.
		utils.Fail(ctx, http.StatusNotFound, "File not found")
		return
	}

	utils.InvalidateByPrefix(statsCacheKey)
	utils.Success(ctx, gin.H{"message": "File deleted successfully"})
}

// normalizeMime lowercases a media type and drops its parameters.
func normalizeMime(ct string) string {
	base, _, _ := strings.Cut(ct, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// safeExt returns the lowercased extension of name when it is a plain
// alphanumeric suffix, or empty otherwise.
func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if safeExtPattern.MatchString(ext) {
		return ext
	}
	return ""
}
