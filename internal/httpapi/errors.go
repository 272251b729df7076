package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/codeops/registry/pkg/apperrors"
	"github.com/codeops/registry/pkg/log"
)

type errorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// writeError maps an apperrors.Error's Kind to a status code and writes
// the spec's {status, message} body. Errors that aren't *apperrors.Error
// are logged and reported as 500 without leaking their text.
func writeError(w http.ResponseWriter, err error) {
	ae, ok := apperrors.As(err)
	if !ok {
		log.Errorf("unclassified error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Status: http.StatusInternalServerError, Message: "internal error"})
		return
	}

	status := http.StatusInternalServerError
	switch ae.Kind {
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindValidation:
		status = http.StatusBadRequest
	case apperrors.KindAuthorization:
		status = http.StatusForbidden
	case apperrors.KindInternal:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, errorBody{Status: status, Message: ae.Message})
}

// writeUnauthenticated writes the spec's 401 response for a request that
// never produced a verified principal — missing, malformed, or rejected
// bearer token. This is distinct from authorize()'s role-denial path,
// which writeError maps to 403 via KindAuthorization; apperrors itself
// stays HTTP-agnostic and keeps its four kinds, so the 401/403 split is
// made here at the transport boundary rather than by adding a fifth kind.
func writeUnauthenticated(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, errorBody{Status: http.StatusUnauthorized, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Validationf("malformed request body: %s", err.Error())
	}
	return nil
}
