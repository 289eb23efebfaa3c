package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	apperrors "github.com/clientdesk/clientdesk/internal/errors"
)

// errorBody is the envelope for every error response.
type errorBody struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError maps service errors onto their HTTP status, preserving the
// code and field details; anything else becomes an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	if svcErr := apperrors.GetServiceError(err); svcErr != nil {
		writeJSON(w, svcErr.HTTPStatus, errorBody{
			Error:   svcErr.Message,
			Code:    string(svcErr.Code),
			Details: svcErr.Details,
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody{
		Error: message,
		Code:  string(apperrors.CodeInvalidInput),
	})
}
