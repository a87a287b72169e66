package handler

import (
	"encoding/json"
	"net/http"

	"hospital-workflow-api/internal/apperr"
	"hospital-workflow-api/internal/store"
)

type envelope struct {
	OK      bool   `json:"ok"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{OK: true, Data: data})
}

// respondErr maps any error to the closed taxonomy exactly once, at the
// boundary.
func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	e := apperr.From(err)
	if store.IsDuplicateKey(err) {
		e = apperr.New(apperr.DuplicateKey)
	}
	if e.Kind == apperr.Internal {
		h.log.Error().Err(err).Msg("internal error")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperr.Status(e.Kind))
	_ = json.NewEncoder(w).Encode(envelope{OK: false, Error: string(e.Kind), Details: e.Details})
}

func failKind(w http.ResponseWriter, kind apperr.Kind) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperr.Status(kind))
	_ = json.NewEncoder(w).Encode(envelope{OK: false, Error: string(kind)})
}

// Unauthorized is handed to the auth middleware so 401s share the envelope.
func Unauthorized(w http.ResponseWriter, _ *http.Request) {
	failKind(w, apperr.Unauthorized)
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.New(apperr.InvalidInput)
	}
	return nil
}
