/*
Package req provides helper functions for HTTP request parsing and data binding.

It encapsulates JSON body binding with size and format checks, returning
application errors ready to be sent to the client.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strings"

	"quickchat/internal/pkg/errs"
)

// MaxJSONBodySize limits the request body to 8 MB. Image payloads arrive as
// base64 data URIs inside JSON bodies, so the ceiling is well above plain
// form data.
const MaxJSONBodySize int64 = 8 << 20

// BindJSON binds the JSON request body to the destination struct dst.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}
