package response

import "errors"

var errInternal = errors.New("internal server error")

// Request-shape failures detected at the HTTP edge.
const (
	CodeInvalidRequest = "invalid_request"
	CodeInvalidID      = "invalid_id"
)
