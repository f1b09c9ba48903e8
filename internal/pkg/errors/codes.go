package errors

import "net/http"

var (
	ErrMissingRouteID = New(
		"ROUTE_ID_MISSING",
		"Missing route id",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrNotFound = New(
		"NOT_FOUND",
		"Resource not found",
		http.StatusNotFound,
	)

	// ErrUpstreamUnavailable covers transport failures and non-200 upstream statuses.
	ErrUpstreamUnavailable = New(
		"UPSTREAM_UNAVAILABLE",
		"Transit service unavailable",
		http.StatusBadGateway,
	)

	// ErrMalformedRequest is the upstream 422 class.
	ErrMalformedRequest = New(
		"MALFORMED_REQUEST",
		"Transit service rejected the request",
		http.StatusUnprocessableEntity,
	)

	ErrMalformedPayload = New(
		"MALFORMED_PAYLOAD",
		"Transit service returned a malformed payload",
		http.StatusBadGateway,
	)

	ErrUnparseableTimestamp = New(
		"UNPARSEABLE_TIMESTAMP",
		"ETA timestamp could not be parsed",
		http.StatusBadGateway,
	)

	ErrStorage = New(
		"STORAGE_ERROR",
		"Favorites storage operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
