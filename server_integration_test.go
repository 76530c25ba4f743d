package main

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"silayan/models"
	"silayan/pkg/notify"

	"github.com/gin-gonic/gin"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	tmp := t.TempDir()
	_ = os.Setenv("UPLOAD_BASE", tmp)
	db := initDB()
	srv := NewServer(db,
		notify.Disabled{Channel: "WHATSAPP", Reason: "integration test"},
		notify.Disabled{Channel: "EMAIL", Reason: "integration test"},
		[]byte("test-secret"))
	r := gin.Default()
	setupRoutes(r, srv)
	return r
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Citizen creates a submission (multipart)
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	_ = mw.WriteField("nama", "Budi Santoso")
	_ = mw.WriteField("nik", "3201012345678901")
	_ = mw.WriteField("no_wa", "+6281234567890")
	_ = mw.WriteField("jenis_layanan", "Pembuatan KTP")
	w, _ := mw.CreateFormFile("lampiran", "ktp.jpg")
	_, _ = w.Write([]byte("FAKE IMAGE BYTES"))
	_ = mw.Close()
	resp := performRequest(r, http.MethodPost, "/submissions", buf, "", mw.FormDataContentType())
	if resp.Code != http.StatusCreated {
		t.Fatalf("create submission failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var created struct {
		SubmissionID uint   `json:"submission_id"`
		TrackingCode string `json:"tracking_code"`
		Status       string `json:"status"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &created)
	if created.TrackingCode == "" || created.Status != models.StatusPengajuanBaru {
		t.Fatalf("unexpected create response: %+v", created)
	}

	// 2. Public tracking lookup
	resp = performRequest(r, http.MethodGet, "/track/"+created.TrackingCode+"?last4_nik=8901", nil, "", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("track failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var tracked map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &tracked)
	if _, leaked := tracked["email"]; leaked {
		t.Fatal("tracking view must not expose email")
	}
	if tracked["nik"] != "************8901" {
		t.Fatalf("nik not redacted: %v", tracked["nik"])
	}

	// wrong last4 is rejected, malformed last4 is a 400
	if resp = performRequest(r, http.MethodGet, "/track/"+created.TrackingCode+"?last4_nik=0000", nil, "", ""); resp.Code != http.StatusForbidden {
		t.Fatalf("mismatched last4: status=%d", resp.Code)
	}
	if resp = performRequest(r, http.MethodGet, "/track/"+created.TrackingCode+"?last4_nik=89", nil, "", ""); resp.Code != http.StatusBadRequest {
		t.Fatalf("malformed last4: status=%d", resp.Code)
	}

	// 3. Admin login (seeded account)
	loginBody, _ := json.Marshal(map[string]string{"username": "admin", "password": "admin123"})
	resp = performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(loginBody), "", "application/json")
	if resp.Code != http.StatusOK {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}

	// 4. Admin updates the status
	id := int(created.SubmissionID)
	patchBody, _ := json.Marshal(map[string]string{"status": models.StatusDiproses})
	resp = performRequest(r, http.MethodPatch, "/submissions/"+strconv.Itoa(id), bytes.NewBuffer(patchBody), token, "application/json")
	if resp.Code != http.StatusOK {
		t.Fatalf("status update failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 5. Audit trail shows the (disabled-dispatcher) WhatsApp attempt
	resp = performRequest(r, http.MethodGet, "/submissions/"+strconv.Itoa(id)+"/logs", nil, token, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("list logs failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var logs []models.NotificationLog
	_ = json.Unmarshal(resp.Body.Bytes(), &logs)
	if len(logs) != 1 || logs[0].Channel != models.ChannelWhatsApp {
		t.Fatalf("unexpected logs: %+v", logs)
	}

	// 6. Unauthorized PATCH is rejected
	resp = performRequest(r, http.MethodPatch, "/submissions/"+strconv.Itoa(id), bytes.NewBuffer(patchBody), "", "application/json")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated PATCH, got %d", resp.Code)
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
}
