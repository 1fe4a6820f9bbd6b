package httpx

import (
	"encoding/json"
	"net/http"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

type errorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {status, message}; status is "fail" for 4xx and "error"
// otherwise.
func Error(w http.ResponseWriter, status int, message string) {
	s := StatusError
	if status >= 400 && status < 500 {
		s = StatusFail
	}
	WriteJSON(w, status, errorEnvelope{Status: s, Message: message})
}

// Data writes {"status":"success","data":{key: v}}.
func Data(w http.ResponseWriter, status int, key string, v any) {
	WriteJSON(w, status, map[string]any{
		"status": StatusSuccess,
		"data":   map[string]any{key: v},
	})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// DecodeJSON decodes a single JSON object from r's body.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}
