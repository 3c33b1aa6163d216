package sheetimport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	sum     Summary
	err     error
	running bool
}

func (s stubRunner) TryRun(ctx context.Context) (Summary, error) {
	return s.sum, s.err
}

func (s stubRunner) Running() bool { return s.running }

func doSync(t *testing.T, runner Runner) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	r := chi.NewRouter()
	RegisterRoutes(r, runner)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/pets/sync", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr, body
}

func TestSyncHandler_StatusMapping(t *testing.T) {
	partial := Summary{SkippedNoCode: 2, Errors: []string{"a", "b"}}

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"busy", ErrBusy, http.StatusTooManyRequests},
		{"no header", ErrNoHeader, http.StatusBadRequest},
		{"listing", errors.Join(ErrListing, errors.New("403")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr, body := doSync(t, stubRunner{sum: partial, err: tc.err})
			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.NotEmpty(t, body["message"])
			assert.EqualValues(t, 2, body["skippedNoCode"])
			assert.Len(t, body["errors"], 2)
		})
	}
}

func TestSyncHandler_SuccessShape(t *testing.T) {
	rr, body := doSync(t, stubRunner{sum: Summary{Inserted: 3, UploadedImages: 1, Errors: []string{}}})
	require.Equal(t, http.StatusOK, rr.Code)

	for _, k := range []string{"message", "inserted", "skippedExists", "skippedNoCode", "skippedBadDate", "uploadedImages", "errors"} {
		assert.Contains(t, body, k)
	}
	assert.EqualValues(t, 3, body["inserted"])
	assert.Equal(t, []any{}, body["errors"])
}

func TestStatusHandler(t *testing.T) {
	r := chi.NewRouter()
	RegisterRoutes(r, stubRunner{running: true})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/pets/sync/status", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"running":true}`, rr.Body.String())
}
