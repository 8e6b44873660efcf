package casestudies

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"casestudy-backend/internal/cache"
	"casestudy-backend/internal/validation"

	"github.com/go-chi/chi/v5"
)

// fakeStore hands back deterministic paths derived from the filename so the
// positional mapping can be asserted.
type fakeStore struct {
	saves int
}

func (f *fakeStore) Save(_ context.Context, file *multipart.FileHeader) (string, error) {
	f.saves++
	return "/uploads/my_uploads/" + file.Filename, nil
}

func newTestServer(t *testing.T) (http.Handler, *fakeRepo, *fakeStore) {
	t.Helper()

	repo := &fakeRepo{}
	store := &fakeStore{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewService(repo, time.UTC)
	handler := NewHandler(service, store, validation.New(), cache.NewNoop(), time.Minute, 32<<20, logger)

	r := chi.NewRouter()
	r.Route("/case-study", func(cs chi.Router) {
		cs.Post("/create", handler.Create)
		cs.Get("/", handler.List)
		cs.Get("/id/{id}", handler.GetByID)
		cs.Get("/slug/{slug}", handler.GetBySlug)
		cs.Put("/{id}", handler.Update)
		cs.Delete("/{id}", handler.Delete)
	})
	return r, repo, store
}

type formFile struct {
	field string
	name  string
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files []formFile) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("write field %q: %v", key, err)
		}
	}
	for _, file := range files {
		fw, err := mw.CreateFormFile(file.field, file.name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte("image-bytes")); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestCreateEndpoint(t *testing.T) {
	srv, repo, _ := newTestServer(t)

	req := multipartRequest(t, http.MethodPost, "/case-study/create", map[string]string{
		"title":       "Warehouse automation",
		"category":    "Operations",
		"description": "Robots in aisle five",
		"status":      "published",
		"bodyData":    `[{"heading":"Intro","hasImage":true,"lists":["a","b"]},{"heading":"Middle"},{"heading":"End","hasImage":true}]`,
		"seo":         `{"title":"Warehouse automation","keywords":["automation"]}`,
	}, []formFile{
		{field: "image", name: "cover.jpg"},
		{field: "sectionImages", name: "s1.png"},
		{field: "sectionImages", name: "s2.png"},
	})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	if body["status"] != "success" || body["message"] != "Case study created successfully" {
		t.Fatalf("envelope = %v", body)
	}

	if len(repo.items) != 1 {
		t.Fatalf("store has %d records", len(repo.items))
	}
	stored := repo.items[0]
	if stored.Image == nil || *stored.Image != "/uploads/my_uploads/cover.jpg" {
		t.Fatalf("main image = %v", stored.Image)
	}
	if len(stored.BodyData) != 3 {
		t.Fatalf("len(bodyData) = %d", len(stored.BodyData))
	}
	if *stored.BodyData[0].Image != "/uploads/my_uploads/s1.png" {
		t.Fatalf("section 0 image = %v", stored.BodyData[0].Image)
	}
	if stored.BodyData[1].Image != nil {
		t.Fatalf("section 1 image = %v", *stored.BodyData[1].Image)
	}
	if *stored.BodyData[2].Image != "/uploads/my_uploads/s2.png" {
		t.Fatalf("section 2 image = %v", stored.BodyData[2].Image)
	}
	if stored.Seo == nil || stored.Seo.Title != "Warehouse automation" {
		t.Fatalf("seo = %#v", stored.Seo)
	}
}

func TestCreateEndpointMissingTitle(t *testing.T) {
	srv, repo, _ := newTestServer(t)

	req := multipartRequest(t, http.MethodPost, "/case-study/create", map[string]string{"category": "x"}, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["status"] != "error" || body["message"] != "Title is required" {
		t.Fatalf("envelope = %v", body)
	}
	if len(repo.items) != 0 {
		t.Fatalf("record created despite missing title")
	}
}

func TestCreateEndpointInvalidBodyData(t *testing.T) {
	srv, repo, store := newTestServer(t)

	req := multipartRequest(t, http.MethodPost, "/case-study/create", map[string]string{
		"title":    "Broken",
		"bodyData": "not-json",
	}, []formFile{{field: "image", name: "cover.jpg"}})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["message"] != "Invalid bodyData JSON" {
		t.Fatalf("envelope = %v", body)
	}
	if len(repo.items) != 0 {
		t.Fatalf("record created despite malformed bodyData")
	}
	if store.saves != 0 {
		t.Fatalf("uploads ran before the payload check: %d", store.saves)
	}
}

func TestCreateEndpointInvalidStatus(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := multipartRequest(t, http.MethodPost, "/case-study/create", map[string]string{
		"title":  "Bad status",
		"status": "live",
	}, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeEnvelope(t, rec); body["message"] != "Invalid status value" {
		t.Fatalf("envelope = %v", body)
	}
}

func TestCreateEndpointDuplicate(t *testing.T) {
	srv, repo, _ := newTestServer(t)

	for i, wantStatus := range []int{http.StatusCreated, http.StatusConflict} {
		req := multipartRequest(t, http.MethodPost, "/case-study/create", map[string]string{"title": "Twice"}, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != wantStatus {
			t.Fatalf("attempt %d: status = %d, want %d", i, rec.Code, wantStatus)
		}
	}
	if len(repo.items) != 1 {
		t.Fatalf("store has %d records, want 1", len(repo.items))
	}
}

func TestListEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	for i := 0; i < 3; i++ {
		req := multipartRequest(t, http.MethodPost, "/case-study/create", map[string]string{
			"title": fmt.Sprintf("Entry %d", i),
		}, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed create %d failed: %d", i, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/case-study/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["count"] != float64(3) {
		t.Fatalf("count = %v", body["count"])
	}
	data := body["data"].([]interface{})
	first := data[0].(map[string]interface{})
	if first["title"] != "Entry 2" {
		t.Fatalf("expected newest first, got %v", first["title"])
	}
}

func TestGetEndpoints(t *testing.T) {
	srv, repo, _ := newTestServer(t)

	req := multipartRequest(t, http.MethodPost, "/case-study/create", map[string]string{
		"title": "Fetch me",
		"slug":  "fetch-me",
	}, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	id := repo.items[0].ID

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/case-study/id/"+id, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get by id: status = %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if data := body["data"].(map[string]interface{}); data["title"] != "Fetch me" {
		t.Fatalf("data = %v", data)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/case-study/slug/fetch-me", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get by slug: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/case-study/id/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get unknown id: status = %d", rec.Code)
	}
	if body := decodeEnvelope(t, rec); body["message"] != "Case study not found" {
		t.Fatalf("envelope = %v", body)
	}
}

func TestUpdateEndpointMainImageOnly(t *testing.T) {
	srv, repo, _ := newTestServer(t)

	req := multipartRequest(t, http.MethodPost, "/case-study/create", map[string]string{
		"title":    "Stable body",
		"bodyData": `[{"heading":"keep","hasImage":true}]`,
	}, []formFile{{field: "sectionImages", name: "keep.jpg"}})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	id := repo.items[0].ID

	req = multipartRequest(t, http.MethodPut, "/case-study/"+id, nil, []formFile{{field: "image", name: "new-cover.jpg"}})
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	if body["message"] != "Case study updated successfully" {
		t.Fatalf("envelope = %v", body)
	}

	stored := repo.items[0]
	if stored.Image == nil || *stored.Image != "/uploads/my_uploads/new-cover.jpg" {
		t.Fatalf("main image = %v", stored.Image)
	}
	if len(stored.BodyData) != 1 || *stored.BodyData[0].Image != "/uploads/my_uploads/keep.jpg" {
		t.Fatalf("bodyData changed: %#v", stored.BodyData)
	}
}

func TestUpdateEndpointNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := multipartRequest(t, http.MethodPut, "/case-study/missing", map[string]string{"title": "x"}, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDeleteEndpoint(t *testing.T) {
	srv, repo, _ := newTestServer(t)

	req := multipartRequest(t, http.MethodPost, "/case-study/create", map[string]string{"title": "Gone soon"}, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	id := repo.items[0].ID

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/case-study/"+id, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["message"] != "Case study deleted successfully" {
		t.Fatalf("envelope = %v", body)
	}
	if len(repo.items) != 0 {
		t.Fatalf("record not deleted")
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/case-study/"+id, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: status = %d", rec.Code)
	}
}
