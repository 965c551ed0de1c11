package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recordapi/internal/model"
	"recordapi/internal/store"
)

const personID = "0b6c7e0e-6a51-4b8f-9d0c-5f1b4a2e9c11"

func newTestServer(t *testing.T, svc Service) (sqlmock.Sqlmock, func(*http.Request) *http.Response) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	app, err := NewServer(svc, store.NewSQLClient(db, zap.NewNop()), prometheus.NewRegistry(), nil, zap.NewNop())
	require.NoError(t, err)

	do := func(req *http.Request) *http.Response {
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}
	return dbMock, do
}

func TestPersonRoutes(t *testing.T) {
	dbMock, do := newTestServer(t, Person)

	dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT id, doc FROM people ORDER BY created_at, id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}).
			AddRow(personID, []byte(`{"firstname":"Ada","lastname":"Lovelace"}`)))

	resp := do(httptest.NewRequest(http.MethodGet, "/people", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var people []model.Person
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&people))
	assert.Equal(t, []model.Person{{ID: personID, Firstname: "Ada", Lastname: "Lovelace"}}, people)

	dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT id, doc FROM people WHERE id = $1`)).
		WithArgs(personID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doc"}))

	resp = do(httptest.NewRequest(http.MethodGet, "/person/"+personID, nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(httptest.NewRequest(http.MethodGet, "/person/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/person", strings.NewReader(`{"firstname":"Ada"}`))
	req.Header.Set("Content-Type", "application/json")
	resp = do(req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestServerOps(t *testing.T) {
	_, do := newTestServer(t, Book)

	resp := do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp = do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), `http_requests_total{method="GET",path="/healthz",service="book-api",status="200"} 1`)

	resp = do(httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestByCollection(t *testing.T) {
	svc, ok := ByCollection("books")
	require.True(t, ok)
	assert.Equal(t, "book-api", svc.Name)
	assert.Equal(t, "dbooks", svc.Database)

	svc, ok = ByCollection("people")
	require.True(t, ok)
	assert.Equal(t, "polyglot", svc.Database)

	_, ok = ByCollection("authors")
	assert.False(t, ok)
}
