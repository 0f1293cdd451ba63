package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	svcErr "github.com/sumit00002/VidTube-Practice-Backend/internal/errors"
	"github.com/sumit00002/VidTube-Practice-Backend/internal/logger"
)

// envelope wraps every successful response.
type envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// errorBody is the shape of every failed response.
type errorBody struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
	Success    bool     `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func respond(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{StatusCode: status, Data: data, Message: message, Success: status < 400})
}

// fail is the only place that turns a service error into a response.
// Internal causes and authentication reasons are logged, never sent.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	err = svcErr.Map(err)
	status := svcErr.HTTPStatus(err)
	msg, details := svcErr.PublicMessage(err)

	log := logger.FromContext(r.Context())
	switch {
	case status >= http.StatusInternalServerError:
		log.Error("request failed", "status", status, "err", err)
	case status == http.StatusUnauthorized:
		log.Debug("request unauthenticated", "err", err)
	}

	if ra := svcErr.RetryAfter(err); ra > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(ra.Seconds()+0.5)))
	}
	if details == nil {
		details = []string{}
	}
	writeJSON(w, status, errorBody{StatusCode: status, Message: msg, Errors: details, Success: false})
}

// WriteError renders err in the API error shape. Middleware outside this
// package uses it.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	fail(w, r, err)
}

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	if r.Body == nil {
		return svcErr.Validation("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return svcErr.Validation("request body is required")
		}
		return svcErr.Validation("invalid JSON body", err.Error())
	}
	return nil
}
