// Package bind decodes and validates JSON request bodies.
package bind

import (
	"encoding/json"
	"net/http"

	"github.com/roadassist/roadassist/pkg/apperr"
	"github.com/roadassist/roadassist/pkg/validate"
)

const maxBodySize = 1 << 20 // 1 MiB

// JSON decodes the request body into dest and runs struct validation.
// Returns an *apperr.Error ready for apperr.Respond on failure.
func JSON(r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dest); err != nil {
		return apperr.BadRequest("malformed request body")
	}
	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return apperr.Validation(errs)
	}
	return nil
}
