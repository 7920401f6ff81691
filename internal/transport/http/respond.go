package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"quizzes-service/internal/domain"
)

type errorBody struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

var statusByKind = map[domain.Kind]int{
	domain.KindValidation:      http.StatusBadRequest,
	domain.KindNotFound:        http.StatusNotFound,
	domain.KindForbidden:       http.StatusForbidden,
	domain.KindIntegrity:       http.StatusInternalServerError,
	domain.KindUnsupported:     http.StatusNotImplemented,
	domain.KindUnauthenticated: http.StatusUnauthorized,
	domain.KindInactive:        http.StatusBadRequest,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError translates err into a status code and an error body.
// Errors that are not domain errors are logged and hidden from the client.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		log.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Code: "INTERNAL_ERROR", Detail: "internal error"})
		return
	}
	status, ok := statusByKind[derr.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		log.Error("request failed", zap.String("code", string(derr.Kind)), zap.Error(err))
	}
	if derr.Kind == domain.KindUnauthenticated {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSON(w, status, errorBody{Code: string(derr.Kind), Detail: derr.Message})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Validationf("invalid request body")
	}
	return nil
}
