package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dimfeld/httptreemux/v5"
)

// maxBodySize limits how much of a request body is read.
const maxBodySize = 32 << 20

// Param returns the web call parameters from the request.
func Param(r *http.Request, key string) string {
	m := httptreemux.ContextParams(r.Context())
	return m[key]
}

// Decode reads the body of an HTTP request looking for a JSON document. The
// body is decoded into the provided value. Unknown fields are rejected.
func Decode(r *http.Request, val any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(val); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	return nil
}

// DecodeOptional behaves like Decode but an empty body leaves the value
// untouched.
func DecodeOptional(r *http.Request, val any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}

	err := Decode(r, val)
	if err != nil && errors.Is(err, io.EOF) {
		return nil
	}

	return err
}
