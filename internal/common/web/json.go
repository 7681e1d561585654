package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"restaurant-pos/internal/domain"
)

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps an error kind to a status code and renders a simplified
// problem+json body: {type, title, status, detail}.
func WriteError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	code := statusFor(kind)
	detail := err.Error()
	var de *domain.Error
	if errors.As(err, &de) {
		detail = de.Message
	}
	WriteJSON(w, code, map[string]any{
		"type":   string(kind),
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidState, domain.KindInvalidTransition:
		return http.StatusConflict
	case domain.KindAuthorization:
		return http.StatusForbidden
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Validationf("invalid json body")
	}
	return nil
}
