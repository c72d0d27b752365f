package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/strategiq/website-backend/middleware"
	"github.com/strategiq/website-backend/models"
)

const testAdminToken = "test-admin-token"

var testUploadDir string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "uploads-*")
	if err != nil {
		panic(err)
	}
	testUploadDir = dir

	// The config singleton loads once per process, so the environment has to
	// be in place before the first router is built.
	os.Setenv("GIN_MODE", "test")
	os.Setenv("ADMIN_TOKEN", testAdminToken)
	os.Setenv("UPLOAD_DIR", dir)
	os.Setenv("MAX_UPLOAD_MB", "1")
	os.Setenv("RATE_LIMIT_PER_MINUTE", "100000")
	os.Setenv("GIN_PATH", filepath.Join(dir, "access.log"))
	os.Setenv("LOG_LEVEL", "error")

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Contact{}, &models.Newsletter{}, &models.FileRecord{}, &models.PageView{}))
	return SetupRouter(db)
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.AdminTokenHeader, token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

// multipartUpload builds a single-file multipart body. CreatePart is used
// instead of CreateFormFile so the part carries a real Content-Type.
func multipartUpload(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func uploadFile(t *testing.T, r http.Handler, filename, contentType string, data []byte, token string) *httptest.ResponseRecorder {
	t.Helper()
	body, formType := multipartUpload(t, filename, contentType, data)
	req := httptest.NewRequest("POST", "/api/files", body)
	req.Header.Set("Content-Type", formType)
	if token != "" {
		req.Header.Set(middleware.AdminTokenHeader, token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func blobCount(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(testUploadDir)
	require.NoError(t, err)
	n := 0
	for _, e := range entries {
		if !e.IsDir() && e.Name() != "access.log" {
			n++
		}
	}
	return n
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	rec := doJSON(t, r, "GET", "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
}

func TestSubmitContactSuccess(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "POST", "/api/contact", map[string]any{
		"name":    "Jane Doe",
		"email":   "jane@example.com",
		"message": "Interested in AI services",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	contact, ok := body["contact"].(map[string]any)
	require.True(t, ok, "response must carry the stored contact")
	assert.Equal(t, "Jane Doe", contact["name"])
	assert.Equal(t, "jane@example.com", contact["email"])
	assert.Greater(t, contact["id"].(float64), float64(0))
	assert.Nil(t, contact["company"], "absent optional serializes as null")
	assert.Nil(t, contact["phone"])
	assert.NotEmpty(t, contact["createdAt"])
}

func TestSubmitContactValidationNamesEveryBadField(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "POST", "/api/contact", map[string]any{
		"name":  "",
		"email": "not-an-email",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Validation failed", body["error"])

	details, ok := body["details"].([]any)
	require.True(t, ok)
	fields := map[string]bool{}
	for _, d := range details {
		entry := d.(map[string]any)
		fields[entry["field"].(string)] = true
		assert.NotEmpty(t, entry["message"])
	}
	assert.Equal(t, map[string]bool{"name": true, "email": true, "message": true}, fields)

	// A rejected submission leaves no row behind.
	list := doJSON(t, r, "GET", "/api/contacts", nil, testAdminToken)
	require.Equal(t, http.StatusOK, list.Code)
	assert.Empty(t, decodeBody(t, list)["contacts"])
}

func TestContactDeleteLifecycle(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "POST", "/api/contact", map[string]any{
		"name": "Jane", "email": "jane@example.com", "message": "hi",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	id := decodeBody(t, rec)["contact"].(map[string]any)["id"].(float64)

	list := doJSON(t, r, "GET", "/api/contacts", nil, testAdminToken)
	require.Equal(t, http.StatusOK, list.Code)
	require.Len(t, decodeBody(t, list)["contacts"].([]any), 1)

	path := fmt.Sprintf("/api/contacts/%d", int(id))
	del := doJSON(t, r, "DELETE", path, nil, testAdminToken)
	assert.Equal(t, http.StatusOK, del.Code)

	list = doJSON(t, r, "GET", "/api/contacts", nil, testAdminToken)
	assert.Empty(t, decodeBody(t, list)["contacts"])

	del = doJSON(t, r, "DELETE", path, nil, testAdminToken)
	assert.Equal(t, http.StatusNotFound, del.Code)
	assert.Equal(t, "Contact not found", decodeBody(t, del)["error"])
}

func TestContactDeleteRejectsBadID(t *testing.T) {
	r := newTestRouter(t)
	for _, raw := range []string{"abc", "0", "-1", "1.5"} {
		rec := doJSON(t, r, "DELETE", "/api/contacts/"+raw, nil, testAdminToken)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "id %q", raw)
	}
}

func TestNewsletterSubscribeAndRepeat(t *testing.T) {
	r := newTestRouter(t)

	first := doJSON(t, r, "POST", "/api/newsletter", map[string]any{"email": "reader@example.com"}, "")
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	row := decodeBody(t, first)["newsletter"].(map[string]any)
	assert.Equal(t, "reader@example.com", row["email"])
	assert.Equal(t, true, row["isActive"])

	second := doJSON(t, r, "POST", "/api/newsletter", map[string]any{"email": "reader@example.com"}, "")
	require.Equal(t, http.StatusOK, second.Code)

	subs := doJSON(t, r, "GET", "/api/newsletter/subscribers", nil, testAdminToken)
	require.Equal(t, http.StatusOK, subs.Code)
	assert.Len(t, decodeBody(t, subs)["subscribers"].([]any), 1)
}

func TestNewsletterRejectsInvalidEmail(t *testing.T) {
	r := newTestRouter(t)

	for _, email := range []string{"", "nope", "user@nodot", "a b@c.d"} {
		rec := doJSON(t, r, "POST", "/api/newsletter", map[string]any{"email": email}, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, "email %q", email)
		assert.Equal(t, false, decodeBody(t, rec)["success"])
	}

	subs := doJSON(t, r, "GET", "/api/newsletter/subscribers", nil, testAdminToken)
	assert.Empty(t, decodeBody(t, subs)["subscribers"])
}

func TestAdminEndpointsRequireToken(t *testing.T) {
	r := newTestRouter(t)
	before := blobCount(t)

	endpoints := []struct{ method, path string }{
		{"GET", "/api/contacts"},
		{"DELETE", "/api/contacts/1"},
		{"GET", "/api/newsletter/subscribers"},
		{"GET", "/api/files"},
		{"GET", "/api/files/1/download"},
		{"DELETE", "/api/files/1"},
		{"GET", "/api/stats"},
	}
	for _, ep := range endpoints {
		rec := doJSON(t, r, ep.method, ep.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s without token", ep.method, ep.path)

		rec = doJSON(t, r, ep.method, ep.path, nil, "wrong-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s with wrong token", ep.method, ep.path)
	}

	// An unauthorized upload attempt must not leave a blob behind.
	rec := uploadFile(t, r, "sneaky.txt", "text/plain", []byte("nope"), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, before, blobCount(t))
}

func TestFileUploadDownloadRoundTrip(t *testing.T) {
	r := newTestRouter(t)
	content := []byte("lead,score\nacme,97\n")

	rec := uploadFile(t, r, "leads.csv", "text/csv", content, testAdminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	file := decodeBody(t, rec)["file"].(map[string]any)
	assert.Equal(t, "leads.csv", file["originalName"])
	assert.Equal(t, "text/csv", file["mimeType"])
	assert.Equal(t, float64(len(content)), file["size"])
	stored := file["storedName"].(string)
	assert.NotEqual(t, "leads.csv", stored, "stored name must not be the client name")
	assert.True(t, strings.HasSuffix(stored, ".csv"))

	id := int(file["id"].(float64))
	dl := doJSON(t, r, "GET", fmt.Sprintf("/api/files/%d/download", id), nil, testAdminToken)
	require.Equal(t, http.StatusOK, dl.Code)
	assert.Equal(t, content, dl.Body.Bytes())
	assert.Contains(t, dl.Header().Get("Content-Disposition"), `filename="leads.csv"`)
	assert.Equal(t, "text/csv", dl.Header().Get("Content-Type"))
}

func TestFileUploadRejectsDisallowedType(t *testing.T) {
	r := newTestRouter(t)
	before := blobCount(t)

	rec := uploadFile(t, r, "payload.zip", "application/zip", []byte("PK\x03\x04"), testAdminToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "File type not allowed", decodeBody(t, rec)["error"])

	// Neither a row nor a blob may exist after rejection.
	assert.Equal(t, before, blobCount(t))
	list := doJSON(t, r, "GET", "/api/files", nil, testAdminToken)
	assert.Empty(t, decodeBody(t, list)["files"])
}

func TestFileUploadRejectsOversize(t *testing.T) {
	r := newTestRouter(t)
	before := blobCount(t)

	// MAX_UPLOAD_MB is 1 for tests; push one byte past the ceiling.
	big := bytes.Repeat([]byte("x"), 1024*1024+1)
	rec := uploadFile(t, r, "big.txt", "text/plain", big, testAdminToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "File size exceeds the allowed maximum", decodeBody(t, rec)["error"])
	assert.Equal(t, before, blobCount(t))
}

func TestFileUploadRequiresFilePart(t *testing.T) {
	r := newTestRouter(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("note", "no file here"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/files", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set(middleware.AdminTokenHeader, testAdminToken)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", decodeBody(t, rec)["error"])
}

func TestFileDeleteRemovesRowAndBlob(t *testing.T) {
	r := newTestRouter(t)
	before := blobCount(t)

	rec := uploadFile(t, r, "notes.txt", "text/plain", []byte("hello"), testAdminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	file := decodeBody(t, rec)["file"].(map[string]any)
	id := int(file["id"].(float64))
	stored := file["storedName"].(string)
	require.Equal(t, before+1, blobCount(t))

	del := doJSON(t, r, "DELETE", fmt.Sprintf("/api/files/%d", id), nil, testAdminToken)
	require.Equal(t, http.StatusOK, del.Code)

	_, err := os.Stat(filepath.Join(testUploadDir, stored))
	assert.True(t, os.IsNotExist(err), "blob must be gone after delete")
	assert.Equal(t, before, blobCount(t))

	del = doJSON(t, r, "DELETE", fmt.Sprintf("/api/files/%d", id), nil, testAdminToken)
	assert.Equal(t, http.StatusNotFound, del.Code)
}

func TestFileDownloadMissingBlobIsNotFound(t *testing.T) {
	r := newTestRouter(t)

	rec := uploadFile(t, r, "gone.txt", "text/plain", []byte("soon gone"), testAdminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	file := decodeBody(t, rec)["file"].(map[string]any)
	id := int(file["id"].(float64))
	stored := file["storedName"].(string)

	require.NoError(t, os.Remove(filepath.Join(testUploadDir, stored)))

	dl := doJSON(t, r, "GET", fmt.Sprintf("/api/files/%d/download", id), nil, testAdminToken)
	assert.Equal(t, http.StatusNotFound, dl.Code)
	assert.Equal(t, "File not found", decodeBody(t, dl)["error"])
}

func TestFileDownloadUnknownAndBadID(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "GET", "/api/files/9999/download", nil, testAdminToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, r, "GET", "/api/files/abc/download", nil, testAdminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, "GET", "/api/stats", nil, testAdminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	_, ok := body["stats"].(map[string]any)
	assert.True(t, ok, "stats payload must be an object")
}

func TestUnknownAPIRouteReturnsJSON404(t *testing.T) {
	r := newTestRouter(t)
	rec := doJSON(t, r, "GET", "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])
}
