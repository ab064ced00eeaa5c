// Copyright (c) 2026 Songatlas. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/songatlas/internal/platform/ctxutil"
	"github.com/taibuivan/songatlas/internal/platform/sec"
	"github.com/taibuivan/songatlas/internal/platform/validate"
	"github.com/taibuivan/songatlas/pkg/query"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.
Unknown fields are rejected.

Parameters:
  - writer: http.ResponseWriter (used to cap the body size)
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(writer, request.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
IntParam retrieves a named URL parameter and parses it as a positive integer.

Returns:
  - int: The parsed identifier
  - error: VALIDATION_ERROR naming the parameter when it is not a positive integer
*/
func IntParam(request *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(chi.URLParam(request, name))

	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, validate.FieldError(name, "Must be a positive integer")
	}

	return value, nil
}

/*
IntList reads every occurrence of a query key as a list of integers.
Both repeated keys and comma-separated values are accepted.

Returns:
  - []int: Parsed identifiers in request order (nil when absent)
  - error: VALIDATION_ERROR naming the key when an entry is not an integer
*/
func IntList(request *http.Request, key string) ([]int, error) {
	values, err := query.IntList(request.URL.Query()[key])
	if err != nil {
		return nil, validate.FieldError(key, "Must be a list of integers")
	}
	return values, nil
}

/*
Claims extracts the verified admin token claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}
