package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"teambook/internal/addressbook"
	"teambook/internal/handler"
	"teambook/internal/metrics"
	"teambook/internal/service"
)

func TestSetup_EndpunkteUndMetriken(t *testing.T) {
	logger := zap.NewNop()
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))

	svc := service.NewAddressBookService(addressbook.New(), nil, service.Config{}, logger)
	r := chi.NewRouter()
	Setup(r, handler.NewAddressBookHandler(svc, logger), logger, 0, reg)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/persons", strings.NewReader(`{"name":"Hans"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/persons", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `teambook_mutations_total{operation="add_person",result="ok"}`)
}
