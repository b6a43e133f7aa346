package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/iho/walletledger/internal/adapter/http/dto"
	"github.com/iho/walletledger/internal/domain"
)

const dateOnlyLayout = "2006-01-02"

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeValidationError reports request shape problems field by field.
func writeValidationError(w http.ResponseWriter, err error) {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid request",
			Message: "request validation failed",
			Details: fieldErrs,
		})
		return
	}
	writeError(w, http.StatusBadRequest, "invalid request", err.Error())
}

// writeDomainError maps err to a status and writes it.
func writeDomainError(w http.ResponseWriter, err error) {
	status := mapDomainError(err)

	message := http.StatusText(status)
	details := err.Error()
	if status == http.StatusInternalServerError {
		details = ""
	}

	writeError(w, status, strings.ToLower(message), details)
}

// mapDomainError maps error kinds to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrConfiguration):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the body into v and runs its Validate method when present.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if vv, ok := v.(validation.Validatable); ok {
		return vv.Validate()
	}
	return nil
}

// parseIntQuery returns defaultValue when the parameter is absent. Anything
// other than a non-negative integer is an error.
func parseIntQuery(r *http.Request, key string, defaultValue int) (int, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return i, nil
}

// parseBoolQuery returns nil when the parameter is absent.
func parseBoolQuery(r *http.Request, key string) (*bool, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return nil, fmt.Errorf("%s must be a boolean", key)
	}
	return &b, nil
}

// parseDate accepts RFC3339 or YYYY-MM-DD. A date-only value is the start of
// that UTC day, or its last instant when endOfDay is set.
func parseDate(value string, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}

	d, err := time.Parse(dateOnlyLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not RFC3339 or YYYY-MM-DD", value)
	}
	if endOfDay {
		d = d.Add(24*time.Hour - time.Nanosecond)
	}
	return d, nil
}

// parseDateQuery reads a required date query parameter.
func parseDateQuery(r *http.Request, key string, endOfDay bool) (time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return time.Time{}, fmt.Errorf("%s is required", key)
	}
	t, err := parseDate(value, endOfDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", key, err)
	}
	return t, nil
}

// parseRangeQuery reads the from and to query parameters.
func parseRangeQuery(r *http.Request) (from, to time.Time, err error) {
	if from, err = parseDateQuery(r, "from", false); err != nil {
		return
	}
	to, err = parseDateQuery(r, "to", true)
	return
}
