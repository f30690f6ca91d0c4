package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	svc "github.com/lojf/inquisition/internal/services"
)

type optionVM struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	DisplayOrder int    `json:"display_order"`
}

type imageVM struct {
	ID           uint   `json:"id"`
	Filename     string `json:"filename"`
	DisplayOrder int    `json:"display_order"`
}

type questionPageVM struct {
	ID          uint              `json:"id"`
	BodyText    string            `json:"body_text"`
	Enabled     bool              `json:"enabled"`
	Inquisition *parentVM         `json:"inquisition,omitempty"`
	Options     []optionVM        `json:"options"`
	Images      []imageVM         `json:"images"`
	Modes       map[string]string `json:"modes"`
	Links       map[string]string `json:"links"`
	Flash       *Flash            `json:"flash,omitempty"`
}

// QuestionDetail is where a successful order submission lands. It lists both
// collections in display order with the mode and order link of each enabled one.
func QuestionDetail(conn *gorm.DB, reg *svc.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		q, err := svc.LoadQuestion(r.Context(), conn, id)
		if err != nil {
			fail(w, r, err)
			return
		}

		vm := questionPageVM{
			ID:       q.ID,
			BodyText: q.BodyText,
			Enabled:  q.Enabled,
			Options:  make([]optionVM, 0, len(q.Options)),
			Images:   make([]imageVM, 0, len(q.Bindings)),
			Modes:    map[string]string{},
			Links:    map[string]string{},
			Flash:    MakeFlash(r, reg),
		}

		suffix := ""
		if raw := strings.TrimSpace(r.URL.Query().Get("inquisition")); raw != "" {
			inqID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				http.NotFound(w, r)
				return
			}
			inq, err := reg.Inquisitions.Resolve(r.Context(), inqID)
			if err != nil {
				fail(w, r, err)
				return
			}
			vm.Inquisition = parentView(&inq)
			suffix = fmt.Sprintf("?inquisition=%d", inq.ID)
		}

		for _, o := range q.Options {
			vm.Options = append(vm.Options, optionVM{ID: o.ID, Title: o.Title, DisplayOrder: o.DisplayOrder})
		}
		for _, b := range q.Bindings {
			vm.Images = append(vm.Images, imageVM{ID: b.ImageID, Filename: b.Image.Filename, DisplayOrder: b.DisplayOrder})
		}

		for _, name := range reg.Names() {
			b, _ := reg.Get(name)
			mode, err := b.Engine.DetectOrderMode(r.Context(), id)
			if err != nil {
				fail(w, r, err)
				return
			}
			vm.Modes[name] = mode.String()
			vm.Links[name] = fmt.Sprintf("/admin/questions/%d/%s/order%s", q.ID, name, suffix)
		}

		writeJSON(w, r, http.StatusOK, vm)
	}
}
