package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dErrors "roster/pkg/domain-errors"
)

// Envelope is the JSON shape of every API response.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	Records any      `json:"records,omitempty"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes a success envelope with a message.
func WriteSuccess(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{Success: true, Message: message})
}

// WriteError translates a domain error into a failure envelope. Validation
// failures carry the field list, bad requests their bare message, everything
// else is prefixed with "Error: ".
func WriteError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	de, ok := dErrors.From(err)
	if !ok {
		WriteJSON(w, status, Envelope{Message: "Error: an unexpected error occurred"})
		return
	}
	switch de.Code {
	case dErrors.CodeValidation:
		WriteJSON(w, status, Envelope{Errors: de.Fields})
	case dErrors.CodeBadRequest:
		WriteJSON(w, status, Envelope{Message: de.Error()})
	default:
		WriteJSON(w, status, Envelope{Message: "Error: " + de.Error()})
	}
}

// StatusFor maps an error's code onto an HTTP status.
func StatusFor(err error) int {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeBadRequest, dErrors.CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON reads a JSON body into T. Decode failures become bad requests.
func DecodeJSON[T any](r *http.Request) (*T, error) {
	var v T
	if r.Body == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, dErrors.New(dErrors.CodeBadRequest, "Request body is required")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "Invalid request body")
	}
	return &v, nil
}
