package uploadcsv_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/wallcharts/internal/app/features/uploadcsv"
	"github.com/dalemusser/wallcharts/internal/app/reconcile"
	"github.com/dalemusser/wallcharts/internal/app/system/scope"
	"github.com/dalemusser/wallcharts/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const extract = "Dept ID Desc;Name;Job Code;Unit\n" +
	"GENETICS;Doe,Jane;3401;A\n" +
	"genetics;Roe,Rick;3402;A\n" +
	";Poe,Pat;3401;B\n"

func uploadRequest(t *testing.T, field, filename, content string, actor scope.Actor) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	req := httptest.NewRequest("POST", "/upload_record", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return testutil.WithActor(req, actor)
}

func newHandler(t *testing.T) *uploadcsv.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return uploadcsv.NewHandler(reconcile.New(db, zap.NewNop(), nil), zap.NewNop())
}

func TestHandleUpload_ImportsRoster(t *testing.T) {
	h := newHandler(t)

	rec := httptest.NewRecorder()
	h.HandleUpload(rec, uploadRequest(t, uploadcsv.FormField, "roster.CSV", extract, testutil.AdminActor()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message string `json:"message"`
		Created int    `json:"created"`
		Errors  []struct {
			Line   int    `json:"line"`
			Reason string `json:"reason"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Created != 2 {
		t.Errorf("created = %d, want 2", resp.Created)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Line != 4 {
		t.Errorf("errors = %+v", resp.Errors)
	}
	if !strings.HasPrefix(resp.Message, "Found 2 new workers") {
		t.Errorf("message = %q", resp.Message)
	}

	// A second upload of the same file creates nothing.
	rec = httptest.NewRecorder()
	h.HandleUpload(rec, uploadRequest(t, uploadcsv.FormField, "roster.csv", extract, testutil.AdminActor()))
	if rec.Code != http.StatusOK {
		t.Fatalf("second upload status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Created != 0 {
		t.Errorf("second upload created = %d, want 0", resp.Created)
	}
}

func TestHandleUpload_Rejections(t *testing.T) {
	h := newHandler(t)
	admin := testutil.AdminActor()

	tests := []struct {
		name     string
		field    string
		filename string
		content  string
		actor    scope.Actor
		want     int
	}{
		{"wrong extension", uploadcsv.FormField, "roster.xlsx", extract, admin, http.StatusBadRequest},
		{"wrong field", "file", "roster.csv", extract, admin, http.StatusBadRequest},
		{"missing columns", uploadcsv.FormField, "roster.csv", "Name;Unit\nDoe,Jane;A\n", admin, http.StatusBadRequest},
		{"organizer", uploadcsv.FormField, "roster.csv", extract, testutil.OrganizerActor(primitive.NewObjectID()), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.HandleUpload(rec, uploadRequest(t, tt.field, tt.filename, tt.content, tt.actor))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestHandleUpload_TooLarge(t *testing.T) {
	h := newHandler(t)

	big := extract + strings.Repeat("GENETICS;Doe,Jane;3401;A\n", (7<<20)/25)
	rec := httptest.NewRecorder()
	h.HandleUpload(rec, uploadRequest(t, uploadcsv.FormField, "roster.csv", big, testutil.AdminActor()))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}
