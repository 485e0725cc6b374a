package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when request input fails validation
// (e.g. a missing or malformed start date).
// Handlers should map this to HTTP 400 Bad Request.
var ErrValidation = errors.New("validation error")

// ErrUpstream is returned by flight sources when the remote provider could not
// be reached or answered with something other than flight data.
// The service layer never surfaces it to API callers; it falls back instead.
var ErrUpstream = errors.New("upstream error")
