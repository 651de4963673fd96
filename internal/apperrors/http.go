package apperrors

import (
	"errors"
	"net/http"
)

// Response is the JSON body of every API error.
type Response struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// Machine-readable error codes.
const (
	CodeValidation         = "validation"
	CodeDuplicateUsername  = "duplicate_username"
	CodeInvalidCredentials = "invalid_credentials"
	CodeAuthRequired       = "auth_required"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodePetNotAvailable    = "pet_not_available"
	CodePetHasAdoptions    = "pet_has_adoptions"
	CodeRateLimited        = "rate_limited"
	CodeInternal           = "internal"
)

// HTTPResponse maps err to a status code and response body. Store failures
// and unrecognised errors become a generic 500 so internals never leak.
func HTTPResponse(err error) (int, Response) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		resp := Response{Error: ve.Error(), Code: CodeValidation}
		if ve.Field != "" {
			resp.Details = map[string]string{"field": ve.Field}
		}
		return http.StatusBadRequest, resp
	}

	switch {
	case errors.Is(err, ErrDuplicateUsername):
		return http.StatusConflict, Response{Error: err.Error(), Code: CodeDuplicateUsername}
	case errors.Is(err, ErrPetNotAvailable):
		return http.StatusConflict, Response{Error: err.Error(), Code: CodePetNotAvailable}
	case errors.Is(err, ErrPetHasAdoptions):
		return http.StatusConflict, Response{Error: err.Error(), Code: CodePetHasAdoptions}
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, Response{Error: err.Error(), Code: CodeNotFound}
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, Response{Error: err.Error(), Code: CodeInvalidCredentials}
	case errors.Is(err, ErrAuthRequired):
		return http.StatusUnauthorized, Response{Error: err.Error(), Code: CodeAuthRequired}
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, Response{Error: err.Error(), Code: CodeForbidden}
	}

	return http.StatusInternalServerError, Response{Error: "internal server error", Code: CodeInternal}
}
