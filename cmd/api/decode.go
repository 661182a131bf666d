package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
)

const (
	maxBytesBody = 1048576
	// The multipart limit leaves headroom above the upload ceiling so that
	// oversized images are rejected by the validator with a proper message
	// instead of a truncated read.
	maxBytesMultipart = 10 * 1024 * 1024
)

// The readJSON helper is used to decode the request body into the target
// destination, with some additional sanity checks on the body itself.
func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {

	// Limit the size of the request body to 1MB.
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytesBody))

	jsonBytes, err := io.ReadAll(r.Body)
	if err != nil {
		switch {
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesBody)
		default:
			return err
		}
	}

	if len(jsonBytes) == 0 {
		return errors.New("body must not be empty")
	}

	// Try to unmarshal the bytes into the destination, returning an
	// informative error when possible.
	err = json.Unmarshal(jsonBytes, dst)
	if err == nil {
		return nil
	}

	var invalidUnmarshalError *json.InvalidUnmarshalError
	var unmarshalTypeError *json.UnmarshalTypeError
	var syntaxError *json.SyntaxError

	switch {
	case errors.As(err, &syntaxError):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")

	case errors.As(err, &unmarshalTypeError):
		if unmarshalTypeError.Field != "" {
			return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
		}
		return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

	// A json.InvalidUnmarshalError is a developer error that must not
	// happen, so panic instead of returning it.
	case errors.As(err, &invalidUnmarshalError):
		panic(err)

	default:
		return err
	}
}

// Extract a numeric value from the URL params provided by the used router.
func readUrlIntParam(r *http.Request, param string) (int64, error) {
	params := mux.Vars(r)
	id, err := strconv.ParseInt(params[param], 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s parameter", param)
	}
	return id, nil
}

// Extract the value for a given key from the query string. If no key exists,
// or the value is not a numeric value, the function will default to the
// provided value.
func readInt(qs url.Values, key string, defaultValue int) int {
	s := qs.Get(key)
	if s == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return i
}
