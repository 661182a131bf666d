package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/seralvarez/picstash/pkg/store"
	"github.com/seralvarez/picstash/pkg/validator"
)

// Translate the errors coming out of the services into the HTTP error
// taxonomy: validation failures are 400s, missing records 404s, ownership
// violations 403s and so on. Storage faults and anything unrecognized
// default to a generic 500, their detail is logged but never exposed.
func (app *application) encodeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		v          validator.Validator
		storageErr *store.StorageError
	)

	switch {
	case errors.As(err, &v):
		app.failedValidationResponse(w, r, v)

	case errors.Is(err, store.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, store.ErrForbidden):
		app.forbiddenResponse(w, r)
	case errors.Is(err, store.ErrUnauthenticated):
		app.unauthenticatedResponse(w, r)
	case errors.Is(err, store.ErrDuplicateUsername):
		app.usernameTakenResponse(w, r)
	case errors.Is(err, store.ErrEditConflict):
		app.editConflictResponse(w, r)

	case errors.As(err, &storageErr):
		app.serverErrorResponse(w, r, err)

	// default to 500 errors
	default:
		app.serverErrorResponse(w, r, err)
	}
}

// These are generic responses given back to the user. The private err is kept
// on the trace for the request log only.
func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.sendJSONError(w, r, errResponse{
		errField: "the server encountered a problem and could not process your request",
		message:  "please try again later",
		status:   http.StatusInternalServerError,
		err:      err,
	})
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	err := errors.New("the requested resource could not be found")
	app.sendJSONError(w, r, errResponse{
		errField: err.Error(),
		status:   http.StatusNotFound,
		err:      err,
	})
}

func (app *application) forbiddenResponse(w http.ResponseWriter, r *http.Request) {
	err := errors.New("you don't have rights to perform this action")
	app.sendJSONError(w, r, errResponse{
		errField: err.Error(),
		status:   http.StatusForbidden,
		err:      err,
	})
}

func (app *application) unauthenticatedResponse(w http.ResponseWriter, r *http.Request) {
	err := errors.New("invalid credentials")
	app.sendJSONError(w, r, errResponse{
		errField: err.Error(),
		message:  "you must be authenticated to access this resource",
		status:   http.StatusUnauthorized,
		err:      err,
	})
}

func (app *application) usernameTakenResponse(w http.ResponseWriter, r *http.Request) {
	err := store.ErrDuplicateUsername
	app.sendJSONError(w, r, errResponse{
		errField: "the username already exists",
		message:  "try with another username",
		status:   http.StatusConflict,
		err:      err,
	})
}

func (app *application) editConflictResponse(w http.ResponseWriter, r *http.Request) {
	err := errors.New("unable to complete the operation due to a conflict, please try again")
	app.sendJSONError(w, r, errResponse{
		errField: err.Error(),
		status:   http.StatusConflict,
		err:      err,
	})
}

func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request, v validator.Validator) {
	app.sendJSONError(w, r, errResponse{
		errField: v.Error(),
		status:   http.StatusBadRequest,
		err:      v,
	})
}

func (app *application) malformedJSONResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.sendJSONError(w, r, errResponse{
		errField: err.Error(),
		status:   http.StatusBadRequest,
		err:      err,
	})
}

func (app *application) invalidAuthenticationTokenResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	err := errors.New("the provided authentication token is invalid")
	app.sendJSONError(w, r, errResponse{
		errField: err.Error(),
		status:   http.StatusUnauthorized,
		err:      err,
	})
}

// Errors responses used by the router.
func (app *application) routeNotFoundHandler(w http.ResponseWriter, r *http.Request) {
	err := errors.New("the requested API endpoint doesn't exist")
	app.sendJSONError(w, r, errResponse{
		errField: err.Error(),
		status:   http.StatusNotFound,
		err:      err,
	})
}

func (app *application) methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	err := fmt.Errorf("the %s method is not supported for this endpoint", r.Method)
	app.sendJSONError(w, r, errResponse{
		errField: err.Error(),
		status:   http.StatusMethodNotAllowed,
		err:      err,
	})
}
