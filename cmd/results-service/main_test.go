package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-lab/pkg/config"
	"github.com/tendant/simple-lab/pkg/router"
)

func TestBuildRoutes_MemoryServesLabs(t *testing.T) {
	cfg := config.ResultsConfig{
		Service: config.ServiceConfig{
			PersistenceType: config.PersistenceMemory,
			Prefix:          config.DefaultPrefixes(),
		},
	}

	routes, err := buildRoutes(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, routes.LabHandle)
	assert.Nil(t, routes.Metrics)

	h := router.NewRouter(routes)
	send := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := send(http.MethodPost, "/api/labs", `{"name":"Central"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = send(http.MethodPost, "/api/results",
		`{"userId":100,"labId":1,"testType":"Hemograma","valueJson":"{}","status":"COMPLETADO","resultDate":"2024-01-15"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"labName":"Central"`)
}

func TestBuildRoutes_PostgresNeedsPool(t *testing.T) {
	cfg := config.ResultsConfig{
		Service: config.ServiceConfig{
			PersistenceType: config.PersistencePostgres,
			Prefix:          config.DefaultPrefixes(),
		},
	}

	_, err := buildRoutes(cfg, nil)
	assert.Error(t, err)
}
