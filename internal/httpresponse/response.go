package httpresponse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	errs "tsumego_lab/internal/errors"
)

type Response[T any] struct {
	Status int `json:"Status"`
	Body   any `json:"Body,omitempty"`
}

type ErrorResponse struct {
	ErrorDescription string `json:"ErrorDescription"`
}

const INTERNALERRORJSON = "{\"status\": 500,\"body\":{\"error\": \"Internal server error\"}}"

const MALFORMEDJSON_errorDesc = "json unmarshalling error"

func WriteResponseWithStatus(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	jsonByte, err := marshalStatusJson(status, body)
	if err != nil {
		WriteInternalErrorResponse(w)
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(jsonByte)
}

// WriteError answers with the status StatusFromError picks for err. Internal
// failures never leak their message.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusFromError(err)
	if status == http.StatusInternalServerError {
		WriteInternalErrorResponse(w)
		return
	}
	WriteResponseWithStatus(w, status, ErrorResponse{ErrorDescription: err.Error()})
}

// StatusFromError maps the domain sentinels to HTTP statuses.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, errs.ErrMalformedInput),
		errors.Is(err, errs.ErrIllegalMove),
		errors.Is(err, errs.ErrShapeMismatch):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrAnalysisFailed):
		return http.StatusBadGateway
	case errors.Is(err, errs.ErrEngineClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func marshalStatusJson(status int, body any) ([]byte, error) {
	response := Response[any]{
		Status: status,
		Body:   body,
	}
	marshal, err := json.Marshal(response)
	if err != nil {
		return nil, err
	}
	return marshal, nil
}

func WriteInternalErrorResponse(w http.ResponseWriter) {
	// implementation similar to http.Error, only difference is the Content-type
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(500)
	_, _ = fmt.Fprintln(w, INTERNALERRORJSON)
}
