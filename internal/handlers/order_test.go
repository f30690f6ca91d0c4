package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lojf/inquisition/internal/ordering"
	svc "github.com/lojf/inquisition/internal/services"
)

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/admin/questions/7/options/order", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestValidateSubmission(t *testing.T) {
	cases := []struct {
		name    string
		form    url.Values
		mode    ordering.OrderMode
		ids     []int64
		wantErr bool
	}{
		{"order[] list", url.Values{"order[]": {"3", "1", "2"}}, ordering.Custom, []int64{3, 1, 2}, false},
		{"explicit custom", url.Values{"options": {"custom"}, "order[]": {"2"}}, ordering.Custom, []int64{2}, false},
		{"comma separated", url.Values{"order": {"5, 4,6"}}, ordering.Custom, []int64{5, 4, 6}, false},
		{"auto ignores ids", url.Values{"options": {"AUTO"}, "order[]": {"x"}}, ordering.Auto, nil, false},
		{"empty submission", url.Values{}, ordering.Custom, nil, false},
		{"bad id", url.Values{"order[]": {"1", "two"}}, "", nil, true},
		{"mixed case custom", url.Values{"options": {" Custom "}, "order[]": {"4"}}, ordering.Custom, []int64{4}, false},
		{"bad mode", url.Values{"options": {"random"}}, "", nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := validateSubmission(postForm(tc.form))
			if tc.wantErr {
				assert.ErrorIs(t, err, errBadSubmission)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.mode, s.mode)
			assert.Equal(t, tc.ids, s.ids)
		})
	}
}

func TestBuildResponse(t *testing.T) {
	p := &orderPage{binding: svc.Binding{Name: "images"}, question: 12}
	assert.Equal(t, "/admin/questions/12?ok=images_updated", p.buildResponse(nil))

	p.inquisition = &ordering.Parent{ID: 3}
	assert.Equal(t, "/admin/questions/12?ok=images_updated&inquisition=3", p.buildResponse(nil))

	mismatch := &ordering.MismatchError{ParentID: 12, Missing: []int64{4}}
	assert.Equal(t, "/admin/questions/12/images/order?error=order_stale&inquisition=3", p.buildResponse(mismatch))

	failed := &ordering.PersistenceError{Op: "reindex", ParentID: 12, Err: fmt.Errorf("disk full")}
	assert.Equal(t, "/admin/questions/12/images/order?error=order_failed&inquisition=3", p.buildResponse(failed))
}

func TestMakeFlash(t *testing.T) {
	get := func(target string) *http.Request { return httptest.NewRequest(http.MethodGet, target, nil) }
	reg := &svc.Registry{}

	assert.Nil(t, MakeFlash(get("/x"), nil))
	assert.Equal(t, &Flash{Kind: "error", Text: errText["order_stale"]}, MakeFlash(get("/x?error=ORDER_STALE"), nil))
	assert.Equal(t, &Flash{Kind: "error", Text: "boom"}, MakeFlash(get("/x?error=boom"), nil))
	assert.Equal(t, &Flash{Kind: "ok", Text: "images_updated"}, MakeFlash(get("/x?ok=images_updated"), nil))
	assert.Equal(t, &Flash{Kind: "ok", Text: "images_updated"}, MakeFlash(get("/x?ok=images_updated"), reg))
	// error wins over ok
	assert.Equal(t, "error", MakeFlash(get("/x?ok=images_updated&error=order_failed"), nil).Kind)
}

func TestErrorKey(t *testing.T) {
	assert.Equal(t, "order_stale", errorKey(fmt.Errorf("wrapped: %w", ordering.ErrOrderMismatch)))
	assert.Equal(t, "bad_submission", errorKey(fmt.Errorf("%w: id", errBadSubmission)))
	assert.Equal(t, "order_failed", errorKey(ordering.ErrPersistence))
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
