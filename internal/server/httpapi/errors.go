package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/bookmarks/internal/common"
	"github.com/dmitrijs2005/bookmarks/internal/server/metrics"
	"github.com/dmitrijs2005/bookmarks/internal/server/services"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

func badRequest(msg string) error { return badRequestError{msg: msg} }

func classify(err error) (int, errorBody) {
	var br badRequestError
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest, errorBody{"bad_request", br.msg}
	case errors.Is(err, common.ErrorEmailTaken):
		return http.StatusForbidden, errorBody{"credentials_taken", "Credentials taken"}
	case errors.Is(err, common.ErrorInvalidCredentials):
		return http.StatusForbidden, errorBody{"credentials_incorrect", "Credentials incorrect"}
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, errorBody{"unauthorized", "Unauthorized"}
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, services.ErrExportDisabled):
		return http.StatusNotFound, errorBody{"not_found", "Not found"}
	case errors.Is(err, common.ErrorStoreUnavailable):
		return http.StatusServiceUnavailable, errorBody{"store_unavailable", "Service unavailable"}
	default:
		return http.StatusInternalServerError, errorBody{"internal", "Internal server error"}
	}
}

// result turns an operation outcome into a metrics label.
func result(err error) string {
	var br badRequestError
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.As(err, &br):
		return metrics.ResultInvalid
	case errors.Is(err, common.ErrorEmailTaken):
		return metrics.ResultEmailTaken
	case errors.Is(err, common.ErrorInvalidCredentials):
		return metrics.ResultInvalidCredentials
	case errors.Is(err, common.ErrorNotFound):
		return metrics.ResultNotFound
	default:
		return metrics.ResultError
	}
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a single JSON object from the request body. Unknown fields
// are rejected.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("malformed JSON body")
	}
	return nil
}
