package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/lojf/inquisition/internal/ordering"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("encode response")
	}
}

// fail maps an engine error to a status. Unknown ids are 404, anything else
// is logged and reported as a 500 without detail.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ordering.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
