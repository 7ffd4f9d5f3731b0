package backend

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is a non-2xx answer from the backend. Message is the server's own
// text and is shown to users unchanged.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: backend error %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: backend error %d: %s", e.Op, e.StatusCode, e.Message)
}

// NetworkError means the backend could not be reached or did not answer in time.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: backend unreachable: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// serverMessage extracts the human-readable part of an error body. JSON
// bodies with a "message" or "error" field yield that field; anything else
// is returned trimmed.
func serverMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return strings.TrimSpace(string(body))
}
