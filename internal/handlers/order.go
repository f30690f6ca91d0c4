package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/lojf/inquisition/internal/ordering"
	svc "github.com/lojf/inquisition/internal/services"
)

var errBadSubmission = errors.New("bad order submission")

// orderPage is one request against an order page: the collection being
// ordered, the question that owns it and the inquisition it was reached from.
type orderPage struct {
	binding     svc.Binding
	question    int64
	inquisition *ordering.Parent
}

type submission struct {
	mode ordering.OrderMode
	ids  []int64
}

type childVM struct {
	ID           int64  `json:"id"`
	DisplayOrder int    `json:"display_order"`
	Label        string `json:"label"`
}

type parentVM struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func parentView(p *ordering.Parent) *parentVM {
	if p == nil {
		return nil
	}
	return &parentVM{ID: p.ID, Title: p.Title}
}

type orderPageVM struct {
	Title       string    `json:"title"`
	Collection  string    `json:"collection"`
	Question    *parentVM `json:"question"`
	Inquisition *parentVM `json:"inquisition,omitempty"`
	Mode        string    `json:"mode"`
	Children    []childVM `json:"children"`
	Flash       *Flash    `json:"flash,omitempty"`
}

// initPage resolves the route parameters. A bad question id, an unknown
// collection or an unknown inquisition all resolve to ErrNotFound.
func initPage(r *http.Request, reg *svc.Registry) (*orderPage, error) {
	b, ok := reg.Get(chi.URLParam(r, "collection"))
	if !ok {
		return nil, fmt.Errorf("collection %q: %w", chi.URLParam(r, "collection"), ordering.ErrNotFound)
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("question %q: %w", chi.URLParam(r, "id"), ordering.ErrNotFound)
	}
	p := &orderPage{binding: b, question: id}

	if raw := strings.TrimSpace(r.FormValue("inquisition")); raw != "" {
		inqID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("inquisition %q: %w", raw, ordering.ErrNotFound)
		}
		inq, err := reg.Inquisitions.Resolve(r.Context(), inqID)
		if err != nil {
			return nil, err
		}
		p.inquisition = &inq
	}
	return p, nil
}

func (p *orderPage) loadCurrentState(ctx context.Context) (ordering.State, error) {
	return p.binding.Engine.Current(ctx, p.question)
}

// validateSubmission reads the form. The options radio defaults to custom;
// order[] carries the child ids in their new sequence.
func validateSubmission(r *http.Request) (submission, error) {
	if err := r.ParseForm(); err != nil {
		return submission{}, fmt.Errorf("%w: %v", errBadSubmission, err)
	}
	s := submission{mode: ordering.Custom}
	if raw := strings.TrimSpace(r.PostForm.Get("options")); raw != "" {
		m, ok := ordering.ParseOrderMode(strings.ToLower(raw))
		if !ok {
			return submission{}, fmt.Errorf("%w: options %q", errBadSubmission, raw)
		}
		s.mode = m
	}
	if s.mode == ordering.Auto {
		return s, nil
	}

	values := r.PostForm["order[]"]
	if len(values) == 0 {
		for _, v := range r.PostForm["order"] {
			values = append(values, strings.Split(v, ",")...)
		}
	}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return submission{}, fmt.Errorf("%w: id %q", errBadSubmission, v)
		}
		s.ids = append(s.ids, id)
	}
	return s, nil
}

func (p *orderPage) persist(ctx context.Context, s submission) (ordering.OrderMode, error) {
	if s.mode == ordering.Auto {
		return p.binding.Engine.Reset(ctx, p.question)
	}
	return p.binding.Engine.Reindex(ctx, p.question, s.ids)
}

// buildResponse returns the redirect target for a finished submission.
// Success goes to the question detail view; a rejected or failed
// submission goes back to the order page with the error key.
func (p *orderPage) buildResponse(err error) string {
	if err != nil {
		return fmt.Sprintf("/admin/questions/%d/%s/order?error=%s%s", p.question, p.binding.Name, errorKey(err), p.linkSuffix())
	}
	return fmt.Sprintf("/admin/questions/%d?ok=%s_updated%s", p.question, p.binding.Name, p.linkSuffix())
}

func (p *orderPage) linkSuffix() string {
	if p.inquisition == nil {
		return ""
	}
	return fmt.Sprintf("&inquisition=%d", p.inquisition.ID)
}

func (p *orderPage) view(st ordering.State, flash *Flash) orderPageVM {
	vm := orderPageVM{
		Title:       p.binding.Title,
		Collection:  p.binding.Name,
		Question:    parentView(&st.Parent),
		Inquisition: parentView(p.inquisition),
		Mode:        st.Mode.String(),
		Children:    make([]childVM, 0, len(st.Children)),
		Flash:       flash,
	}
	for _, c := range st.Children {
		vm.Children = append(vm.Children, childVM{ID: c.ID, DisplayOrder: c.DisplayOrder, Label: c.Label})
	}
	return vm
}

func errorKey(err error) string {
	switch {
	case errors.Is(err, ordering.ErrOrderMismatch):
		return "order_stale"
	case errors.Is(err, errBadSubmission):
		return "bad_submission"
	default:
		return "order_failed"
	}
}

// OrderForm shows the current order and mode of one collection.
func OrderForm(reg *svc.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := initPage(r, reg)
		if err != nil {
			fail(w, r, err)
			return
		}
		st, err := p.loadCurrentState(r.Context())
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, p.view(st, MakeFlash(r, reg)))
	}
}

// OrderSubmit applies a submitted order. Auto resets the collection, custom
// rewrites it from the submitted sequence.
func OrderSubmit(reg *svc.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := initPage(r, reg)
		if err != nil {
			fail(w, r, err)
			return
		}
		log := hlog.FromRequest(r).With().
			Str("collection", p.binding.Name).
			Int64("question_id", p.question).
			Logger()

		s, err := validateSubmission(r)
		if err == nil {
			var mode ordering.OrderMode
			mode, err = p.persist(r.Context(), s)
			if err == nil {
				log.Info().Str("mode", mode.String()).Int("children", len(s.ids)).Msg("order updated")
			}
		}
		if errors.Is(err, ordering.ErrNotFound) {
			fail(w, r, err)
			return
		}
		if err != nil {
			ev := log.Warn()
			if errors.Is(err, ordering.ErrPersistence) {
				ev = log.Error()
			}
			ev.Err(err).Str("error_key", errorKey(err)).Msg("order rejected")
		}
		http.Redirect(w, r, p.buildResponse(err), http.StatusSeeOther)
	}
}
