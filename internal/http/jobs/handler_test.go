package jobs_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	jobshttp "github.com/MrJamesThe3rd/backoffice/internal/http/jobs"
	"github.com/MrJamesThe3rd/backoffice/internal/jobs"
)

func setup(t *testing.T) (http.Handler, *jobs.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := jobs.NewMockRepository(ctrl)

	r := chi.NewRouter()
	r.Route("/jobs", jobshttp.NewHandler(jobs.NewService(repo, 5)).Routes)

	return r, repo
}

func TestHandler_ListFailed(t *testing.T) {
	h, repo := setup(t)

	repo.EXPECT().List(gomock.Any(), gomock.Cond(func(s *jobs.Status) bool {
		return s != nil && *s == jobs.StatusFailed
	}), 10).Return([]*jobs.Job{{
		ID:        uuid.New(),
		Kind:      "invoice.generate",
		Status:    jobs.StatusFailed,
		Attempts:  5,
		LastError: "ticket already invoiced",
		Payload:   json.RawMessage(`{"ticket_id":"x"}`),
	}}, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/jobs/?status=failed&limit=10", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "ticket already invoiced", resp[0]["last_error"])
	assert.Equal(t, map[string]any{"ticket_id": "x"}, resp[0]["payload"])
}

func TestHandler_ListBadLimit(t *testing.T) {
	h, _ := setup(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/jobs/?limit=0", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
