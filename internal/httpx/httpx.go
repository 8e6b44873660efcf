// Package httpx holds the request-parsing helpers shared by handlers:
// decoding JSON-encoded multipart form values and partitioning uploaded
// files into named slots.
package httpx

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
)

// DecodeJSONField parses a form value that carries JSON-encoded text (the
// section array, the SEO object). Unknown keys are tolerated; trailing
// garbage is not.
func DecodeJSONField(raw string, v interface{}) error {
	return json.Unmarshal([]byte(raw), v)
}

// FormFile returns the first uploaded file for the named field, or nil when
// the field is absent. ParseMultipartForm must have been called.
func FormFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

// FormFiles returns every uploaded file for the named field in submission
// order.
func FormFiles(r *http.Request, field string) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.File[field]
}
