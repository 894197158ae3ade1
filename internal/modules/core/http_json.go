package core

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

func RequestBody[TRequest any](r *http.Request) (TRequest, error) {
	var request TRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	return request, err
}

type ResponseOption func(http.ResponseWriter, *http.Request)

func WithHeader(header, value string) ResponseOption {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add(header, value)
	}
}

func WriteOK(w http.ResponseWriter, r *http.Request, body interface{}) {
	WriteResponse(w, r, http.StatusOK, body)
}

func WriteCreated(w http.ResponseWriter, r *http.Request, location string, body interface{}) {
	WriteResponse(w, r, http.StatusCreated, body, WithHeader("Location", location))
}

func WriteBadRequest(w http.ResponseWriter, r *http.Request, body interface{}) {
	WriteResponse(w, r, http.StatusBadRequest, body)
}

func WriteUnauthorized(w http.ResponseWriter, r *http.Request, body interface{}) {
	WriteResponse(w, r, http.StatusUnauthorized, body)
}

func WriteInternalServerError(w http.ResponseWriter, r *http.Request, body interface{}) {
	WriteResponse(w, r, http.StatusInternalServerError, body)
}

func WriteBadGateway(w http.ResponseWriter, r *http.Request, body interface{}) {
	WriteResponse(w, r, http.StatusBadGateway, body)
}

// WriteCommandError maps a handler error to its HTTP response. Errors that
// are not CommandError are treated as internal and surfaced without detail.
func WriteCommandError(w http.ResponseWriter, r *http.Request, err error) {
	commandErr, ok := err.(CommandError)
	if !ok {
		WriteResponse(w, r, http.StatusInternalServerError, nil)
		return
	}

	WriteResponse(w, r, commandErr.StatusCode, commandErr)
}

func WriteResponse(
	w http.ResponseWriter,
	r *http.Request,
	statusCode int,
	body interface{},
	opts ...ResponseOption,
) {
	for _, opt := range opts {
		opt(w, r)
	}

	if body != nil {
		w.Header().Set("Content-Type", "application/json")
	}

	w.WriteHeader(statusCode)
	writeBodyIfPresent(r.Context(), w, body)
}

func writeBodyIfPresent(ctx context.Context, w http.ResponseWriter, body interface{}) {
	if body == nil {
		return
	}

	// CommandError marshals through its payload so the caller sees the
	// user-actionable message instead of an empty object.
	if commandErr, ok := body.(CommandError); ok {
		payload := struct {
			Error  string      `json:"error"`
			Detail interface{} `json:"detail,omitempty"`
		}{}

		if commandErr.Reason != nil {
			payload.Error = *commandErr.Reason
		}

		if err, ok := commandErr.Payload.(error); ok {
			if payload.Error == "" {
				payload.Error = err.Error()
			} else {
				payload.Detail = err.Error()
			}
		} else {
			payload.Detail = commandErr.Payload
		}

		body = payload
	} else if err, ok := body.(error); ok {
		// Errors marshal into an empty object otherwise.
		body = struct {
			Error string `json:"error"`
		}{Error: err.Error()}
	}

	responseBytes, err := json.Marshal(body)
	if err != nil {
		LogError(ctx, "failed to serialize response body", zap.Error(err))
		return
	}

	if _, err := w.Write(responseBytes); err != nil {
		LogError(ctx, "failed to write response", zap.Error(err))
	}
}
