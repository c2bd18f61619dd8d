package handler

import (
	"encoding/json"
	"net/http"

	"github.com/solesphere/storefront/internal/domain"
)

const maxRequestBody = 1 << 20 // 1 MiB

// RespondJSON writes v as a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// DecodeJSON reads the request body into dst, rejecting unknown fields
// and bodies over 1 MiB.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.WrapError(err, domain.EINVALID, "handler.DecodeJSON", "Invalid request body")
	}
	return nil
}
