package importcsv_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/backoffice/internal/http/importcsv"
	"github.com/MrJamesThe3rd/backoffice/internal/importer"
	"github.com/MrJamesThe3rd/backoffice/internal/registry"
	"github.com/MrJamesThe3rd/backoffice/internal/transaction"
)

const csvBody = "date,type,amount,description\n2024-01-05,expense,12.30,Office supplies\n"

func upload(t *testing.T, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "ledger.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

func newRouter(t *testing.T) (http.Handler, *importer.MockLedger, *registry.MockRepository) {
	ctrl := gomock.NewController(t)
	ledger := importer.NewMockLedger(ctrl)
	reg := registry.NewMockRepository(ctrl)

	h := importcsv.NewHandler(importer.NewService(ledger, reg), transaction.NewService(transaction.NewMockRepository(ctrl)))

	r := chi.NewRouter()
	r.Route("/import", h.Routes)

	return r, ledger, reg
}

func TestHandler_Import(t *testing.T) {
	router, ledger, reg := newRouter(t)

	reg.EXPECT().FindRule(gomock.Any(), "Office supplies").Return(uuid.Nil, nil)
	ledger.EXPECT().ImportBatch(gomock.Any(), gomock.Len(1)).
		DoAndReturn(func(_ context.Context, params []transaction.CreateParams) (*transaction.ImportResult, error) {
			tx := &transaction.Transaction{ID: uuid.New(), Amount: params[0].Amount, Date: params[0].Date}
			return &transaction.ImportResult{Imported: []*transaction.Transaction{tx}}, nil
		})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, upload(t, csvBody))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ledger", resp["format"])
	assert.EqualValues(t, 1, resp["imported"])
}

func TestHandler_ImportConflict(t *testing.T) {
	router, ledger, reg := newRouter(t)

	reg.EXPECT().FindRule(gomock.Any(), gomock.Any()).Return(uuid.Nil, nil)
	ledger.EXPECT().ImportBatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params []transaction.CreateParams) (*transaction.ImportResult, error) {
			return &transaction.ImportResult{Conflicts: []transaction.Conflict{{
				Incoming: params[0],
				Existing: &transaction.Transaction{ID: uuid.New(), Amount: params[0].Amount},
			}}}, nil
		})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, upload(t, csvBody))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"amount":"12.30"`)
}

func TestHandler_ImportUnknownFormat(t *testing.T) {
	router, _, _ := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, upload(t, "foo;bar\n1;2\n"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
