package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	errs "github.com/matzehuels/graphize/pkg/errors"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes v as the JSON response body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// WriteError answers with the status and body for err and returns the
// status written.
func WriteError(w http.ResponseWriter, err error) int {
	status := errs.HTTPStatus(err)
	body := ErrorBody{Code: string(errs.GetCode(err)), Message: errs.UserMessage(err)}
	if body.Code == "" || status == http.StatusInternalServerError {
		body = ErrorBody{Code: string(errs.ErrCodeInternal), Message: "internal error"}
	}
	WriteJSON(w, status, body)
	return status
}

// ReadBody reads the request body, failing with a TOO_LARGE error past
// limit bytes. limit <= 0 means [errs.MaxDocumentSize].
func ReadBody(w http.ResponseWriter, r *http.Request, limit int64) (string, error) {
	if limit <= 0 {
		limit = errs.MaxDocumentSize
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", errs.New(errs.ErrCodeTooLarge, "document too large (max %d bytes)", limit)
		}
		return "", errs.Wrap(errs.ErrCodeInvalidInput, err, "read request body")
	}
	return string(data), nil
}
