package transport

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, 201, "Created", map[string]string{"id": "1"})

	if rec.Code != 201 {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type = %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{`"status":"success"`, `"message":"Created"`, `"id":"1"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("body %q missing %q", body, want)
		}
	}
}

func TestWriteSuccessOmitsEmpty(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, 200, "Deleted", nil)

	body := rec.Body.String()
	if strings.Contains(body, `"data"`) {
		t.Fatalf("nil data must be omitted: %q", body)
	}
}

func TestWriteListKeepsZeroCount(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteList(rec, 0, []string{})

	body := rec.Body.String()
	if !strings.Contains(body, `"count":0`) {
		t.Fatalf("zero count must be present: %q", body)
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 404, "Case study not found")

	if rec.Code != 404 {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"status":"error"`) || !strings.Contains(body, `"message":"Case study not found"`) {
		t.Fatalf("body = %q", body)
	}
}
