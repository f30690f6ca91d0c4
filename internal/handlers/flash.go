package handlers

import (
	"net/http"
	"strings"

	"github.com/lojf/inquisition/internal/services"
)

type Flash struct {
	Kind string `json:"kind"` // "ok" or "error"
	Text string `json:"text"`
}

var errText = map[string]string{
	"order_stale":    "The list changed while you were editing it. The current order is shown; please arrange it again.",
	"order_failed":   "The order could not be saved. Nothing was changed; please try again.",
	"bad_submission": "The submitted order could not be read.",
}

// MakeFlash builds a Flash from the ?error= or ?ok= key a redirect carried.
// An ok key of the form "<collection>_updated" shows that collection's
// updated message. Unknown keys are shown as they are.
func MakeFlash(r *http.Request, reg *services.Registry) *Flash {
	q := r.URL.Query()

	if errRaw := strings.TrimSpace(q.Get("error")); errRaw != "" {
		if t, ok := errText[strings.ToLower(errRaw)]; ok {
			return &Flash{Kind: "error", Text: t}
		}
		return &Flash{Kind: "error", Text: errRaw}
	}
	if okRaw := strings.TrimSpace(q.Get("ok")); okRaw != "" {
		if name, found := strings.CutSuffix(strings.ToLower(okRaw), "_updated"); found && reg != nil {
			if b, ok := reg.Get(name); ok {
				return &Flash{Kind: "ok", Text: b.UpdatedMessage}
			}
		}
		return &Flash{Kind: "ok", Text: okRaw}
	}
	return nil
}
