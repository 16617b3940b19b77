/*
Package resp provides helper functions for constructing and sending standardized HTTP JSON responses.

Every response carries a boolean "success" flag; successful responses merge
their payload fields into the top-level object, error responses carry the
business code and a user-facing message.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"quickchat/internal/pkg/errs"
	"quickchat/internal/pkg/logx"
)

// RespondJSON sets the Content-Type and writes the JSON payload.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Error(
			err,
			"Error encoding JSON response",
			"http_status", httpStatus,
		)

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(response)
}

// RespondSuccess sends an HTTP 200 response with "success": true merged into
// the given payload fields.
func RespondSuccess(w http.ResponseWriter, r *http.Request, data map[string]any) {
	body := make(map[string]any, len(data)+1)
	for k, v := range data {
		body[k] = v
	}
	body["success"] = true

	RespondJSON(w, r, http.StatusOK, body)
}

// RespondError sends an HTTP response describing the given application error.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	body := map[string]any{
		"success": false,
		"code":    customErr.Code,
		"message": customErr.Message,
	}
	RespondJSON(w, r, customErr.Status, body)
}
