package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	errs "tsumego_lab/internal/errors"
)

// MaxBodyBytes caps request bodies; a large SGF collection is well below it.
const MaxBodyBytes = 1 << 20

func DecodeJSONRequest(r *http.Request, dst interface{}) error {
	body, err := ReadRequestBody(r)
	if err != nil {
		return fmt.Errorf("%w: failed to read request body: %v", errs.ErrMalformedInput, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err = decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", errs.ErrMalformedInput, err)
	}
	return nil
}

func ReadRequestBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
}
