package server

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Envelope is the body of every API response. Errors carry Message,
// successes carry Content.
type Envelope struct {
	Type    string          `json:"type"`
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
}

// Response types.
const (
	TypeSuccess       = "success"
	TypeBadRequest    = "badrequest"
	TypeUnauthorized  = "unauthorized"
	TypeNotFound      = "notfound"
	TypeConflict      = "conflict"
	TypeUnprocessable = "unprocessable"
	TypeError         = "internalerror"
)

// ReturnHTTPMessage writes a message envelope.
func ReturnHTTPMessage(w http.ResponseWriter, httpStatus int, messageType string, message string) {
	write(w, httpStatus, Envelope{
		Type:    messageType,
		Status:  strconv.Itoa(httpStatus),
		Message: message,
	})
}

// ReturnHTTPContent writes a content envelope.
func ReturnHTTPContent(w http.ResponseWriter, httpStatus int, messageType string, content []byte) {
	write(w, httpStatus, Envelope{
		Type:    messageType,
		Status:  strconv.Itoa(httpStatus),
		Content: content,
	})
}

func write(w http.ResponseWriter, httpStatus int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(env)
}
