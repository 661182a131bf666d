package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/seralvarez/picstash/pkg/tracing"
)

type env map[string]interface{}

func (app *application) sendJSON(w http.ResponseWriter, r *http.Request, status int, data env, headers http.Header) {

	trace := tracing.TraceFromRequestCtx(r)
	trace.HttpStatus = status
	trace.PrivateErr = nil

	err := writeJSON(w, status, data, headers)
	if err != nil {
		app.logger.Errorw("sending json", "id", trace.ID, "err", err)
		trace.HttpStatus = http.StatusInternalServerError
		trace.PrivateErr = err
	}
}

// The sendJSONError() method sends the uniform error envelope to the client:
// an error field, an optional human message and a timestamp. The private err
// is recorded on the request trace for logging, never in the response body.
func (app *application) sendJSONError(w http.ResponseWriter, r *http.Request, resp errResponse) {

	trace := tracing.TraceFromRequestCtx(r)
	trace.HttpStatus = resp.status
	trace.PubMessage = resp.errField
	trace.PrivateErr = resp.err

	body := env{
		"error":     resp.errField,
		"timestamp": time.Now().UTC(),
	}
	if resp.message != "" {
		body["message"] = resp.message
	}

	err := writeJSON(w, resp.status, body, nil)
	if err != nil {
		app.logger.Errorw("sending json", "id", trace.ID, "err", err)
		trace.HttpStatus = http.StatusInternalServerError
		trace.PrivateErr = err
	}
}

type errResponse struct {
	errField string
	message  string
	status   int
	err      error
}

// writeJSON is the helper for sending responses. This takes the destination
// http.ResponseWriter, the HTTP status code to send, the data to encode to
// JSON, and a header map containing any additional HTTP headers we want to
// include in the response.
func writeJSON(w http.ResponseWriter, status int, data env, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	// Append a newline to make it easier to view in terminal applications.
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

// sendNoContent writes an empty 204 response.
func (app *application) sendNoContent(w http.ResponseWriter, r *http.Request) {
	trace := tracing.TraceFromRequestCtx(r)
	trace.HttpStatus = http.StatusNoContent
	trace.PrivateErr = nil
	w.WriteHeader(http.StatusNoContent)
}

// sendBytes writes the raw image payload with the stored content type. Used
// by the raw image delivery endpoint only.
func (app *application) sendBytes(w http.ResponseWriter, r *http.Request, data []byte, headers http.Header) {

	trace := tracing.TraceFromRequestCtx(r)
	trace.HttpStatus = http.StatusOK
	trace.PrivateErr = nil

	for key, value := range headers {
		w.Header()[key] = value
	}

	_, err := w.Write(data)
	if err != nil {
		// Nothing can be done at this point, the status line already went
		// out. Record the failure for the request log.
		app.logger.Errorw("streaming image bytes", "id", trace.ID, "err", err)
		trace.PrivateErr = err
	}
}
