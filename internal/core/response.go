// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/carterperez-dev/tourbook/internal/config"
)

// Envelope is the uniform success body: {status, results?, data}.
type Envelope struct {
	Status  string `json:"status"`
	Results *int   `json:"results,omitempty"`
	Data    any    `json:"data,omitempty"`
	Token   string `json:"token,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(body)
}

func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Envelope{Status: "success", Data: data})
}

func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Envelope{Status: "success", Data: data})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// List includes the result count alongside the data payload.
func List(w http.ResponseWriter, count int, data any) {
	writeJSON(w, http.StatusOK, Envelope{
		Status:  "success",
		Results: &count,
		Data:    data,
	})
}

// WithToken is the signup/login/reset shape: token at the top level,
// sanitized user (if any) under data.
func WithToken(w http.ResponseWriter, statusCode int, token string, data any) {
	writeJSON(w, statusCode, Envelope{
		Status: "success",
		Token:  token,
		Data:   data,
	})
}

type errorBody struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// JSONError is the terminal error writer. Every handler failure funnels
// here: development responses carry the raw error and stack, production
// responses carry only the message for operational errors and a generic
// message for everything else (with the detail logged server-side).
func JSONError(w http.ResponseWriter, err error) {
	appErr := Normalize(err)

	if config.Loaded() && config.Get().IsDevelopment() {
		writeJSON(w, appErr.StatusCode, errorBody{
			Status:  appErr.StatusLabel(),
			Error:   appErr.Error(),
			Message: appErr.Message,
			Stack:   string(debug.Stack()),
		})
		return
	}

	if appErr.Operational {
		writeJSON(w, appErr.StatusCode, errorBody{
			Status:  appErr.StatusLabel(),
			Message: appErr.Message,
		})
		return
	}

	slog.Error("unexpected error", "error", err, "code", appErr.Code)
	writeJSON(w, http.StatusInternalServerError, errorBody{
		Status:  "error",
		Message: "something went very wrong",
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	JSONError(w, BadRequestError(message))
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSONError(w, UnauthorizedError(message))
}

func Forbidden(w http.ResponseWriter, message string) {
	JSONError(w, ForbiddenError(message))
}

func NotFound(w http.ResponseWriter, resource string) {
	JSONError(w, NotFoundError(resource))
}

func InternalServerError(w http.ResponseWriter, err error) {
	JSONError(w, err)
}
