// Package errors provides structured error handling with error codes for the
// lab, result and user services.
//
// Every error that leaves a service layer is an *Error carrying one of a small
// set of codes. Handlers turn the code into an HTTP status with
// MapErrorCodeToHTTPStatus and render only Code and Message; the wrapped Err is
// kept for errors.Is checks and logs.
//
//	err := errors.NotFound(lab.ErrLabNotFound, "lab not found: %d", id)
//	errors.Is(err, lab.ErrLabNotFound)          // true
//	errors.IsCode(err, errors.ErrCodeNotFound)  // true
//	err.HTTPStatusCode()                        // 404
//
// Status mapping:
//
//	NOT_FOUND                                  -> 404
//	CONFLICT, INVALID_INPUT, INVALID_CREDENTIALS -> 400
//	RATE_LIMIT_EXCEEDED                        -> 429
//	INTERNAL_ERROR and anything unstructured   -> 500
package errors
