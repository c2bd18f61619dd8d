package handler

import (
	"net/http"

	"github.com/solesphere/storefront/internal/domain"
	"github.com/solesphere/storefront/internal/middleware"
)

// ErrorResponse writes a JSON error envelope for err, mapping its domain
// code to an HTTP status. Validation errors carry field-level messages.
// Internal errors are logged with their full chain; the client only sees
// a generic message.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if fields := domain.GetValidationFields(err); fields != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]any{
			"error": map[string]any{
				"code":    domain.EINVALID,
				"message": "Validation failed",
				"fields":  fields,
			},
		})
		return
	}

	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)

	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"status", status,
	}
	if op := domain.ErrorOp(err); op != "" {
		attrs = append(attrs, "op", op)
	}
	if status >= 500 {
		logger.Error("request failed", attrs...)
	} else {
		logger.Info("request rejected", attrs...)
	}

	RespondJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": domain.ErrorMessage(err),
		},
	})
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest // 400
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized // 401
	case domain.EPAYMENT:
		return http.StatusPaymentRequired // 402
	case domain.EFORBIDDEN:
		return http.StatusForbidden // 403
	case domain.ENOTFOUND:
		return http.StatusNotFound // 404
	case domain.ECONFLICT:
		return http.StatusConflict // 409
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests // 429
	case domain.EINTERNAL:
		return http.StatusInternalServerError // 500
	default:
		return http.StatusInternalServerError // 500
	}
}
