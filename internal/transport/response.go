package transport

import (
	"encoding/json"
	"net/http"
)

type successResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type listResponse struct {
	Status string      `json:"status"`
	Count  int         `json:"count"`
	Data   interface{} `json:"data"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteSuccess emits the {status:"success", message, data} envelope. Either
// message or data may be empty and is then omitted.
func WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	WriteJSON(w, status, successResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// ListEnvelope builds the collection envelope; count is always present, even
// when zero.
func ListEnvelope(count int, data interface{}) interface{} {
	return listResponse{
		Status: "success",
		Count:  count,
		Data:   data,
	}
}

func WriteList(w http.ResponseWriter, count int, data interface{}) {
	WriteJSON(w, http.StatusOK, ListEnvelope(count, data))
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, errorResponse{
		Status:  "error",
		Message: message,
	})
}

// WriteCached replays a previously encoded JSON payload.
func WriteCached(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

func EncodeJSON(payload interface{}) ([]byte, error) {
	return json.Marshal(payload)
}
