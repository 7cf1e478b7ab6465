// internal/api/response/response.go
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/srinivasa1225/Trading-Strategy-Dashboard/internal/core"
)

// Meta contains response metadata.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
}

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   string `json:"cause,omitempty"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// JSON writes data inside the success envelope.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, SuccessResponse{
		Data: data,
		Meta: Meta{Timestamp: time.Now().UTC()},
	})
}

// Raw writes v without the data/meta envelope. The endpoints carried
// over from the original strategy API keep its exact wire format, so
// they bypass the envelope.
func Raw(w http.ResponseWriter, status int, v any) {
	write(w, status, v)
}

// Error writes the error envelope. Wire codes come from core.Error;
// anything else is reported as a generic internal error so raw error
// text never reaches clients.
func Error(w http.ResponseWriter, status int, err error) {
	var coreErr *core.Error
	if !errors.As(err, &coreErr) {
		write(w, status, ErrorResponse{Error: ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: "an internal error occurred",
		}})
		return
	}

	detail := ErrorDetail{Code: coreErr.Code, Message: coreErr.Message}
	if coreErr.Cause != nil {
		detail.Cause = coreErr.Cause.Error()
	}
	write(w, status, ErrorResponse{Error: detail})
}

// MethodNotAllowed writes a 405 error response.
func MethodNotAllowed(w http.ResponseWriter) {
	write(w, http.StatusMethodNotAllowed, ErrorResponse{Error: ErrorDetail{
		Code:    "METHOD_NOT_ALLOWED",
		Message: "method not allowed",
	}})
}
