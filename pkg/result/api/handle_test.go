package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-lab/pkg/lab"
	"github.com/tendant/simple-lab/pkg/result"
)

func newTestServer(t *testing.T) (*httptest.Server, *lab.InMemoryLabRepository) {
	t.Helper()
	labs := lab.NewInMemoryLabRepository()
	service := result.NewResultService(result.NewInMemoryResultRepository(), labs)
	server := httptest.NewServer(Handler(NewHandle(service)))
	t.Cleanup(server.Close)
	return server, labs
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

const hemogramaBody = `{"userId":100,"labId":1,"testType":"Hemograma","valueJson":"{\"hb\":13.5}","status":"COMPLETADO","resultDate":"2024-01-15"}`

func TestHandler_CreateAndRead(t *testing.T) {
	server, labs := newTestServer(t)
	labs.SeedLab(lab.Lab{ID: 1, Name: "Central"})

	resp, body := do(t, http.MethodPost, server.URL+"/", hemogramaBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.JSONEq(t, `{
		"id": 1,
		"userId": 100,
		"labId": 1,
		"labName": "Central",
		"testType": "Hemograma",
		"valueJson": "{\"hb\":13.5}",
		"status": "COMPLETADO",
		"resultDate": "2024-01-15"
	}`, body)

	resp, body = do(t, http.MethodGet, server.URL+"/by-user/100", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var byUser []ResultResponse
	require.NoError(t, json.Unmarshal([]byte(body), &byUser))
	assert.Len(t, byUser, 1)

	resp, body = do(t, http.MethodGet, server.URL+"/by-user/101", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body)

	resp, body = do(t, http.MethodGet, server.URL+"/labs", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"id":1,"name":"Central"}]`, body)
}

func TestHandler_LabNameNullAfterLabDelete(t *testing.T) {
	server, labs := newTestServer(t)
	labs.SeedLab(lab.Lab{ID: 1, Name: "Central"})

	resp, _ := do(t, http.MethodPost, server.URL+"/", hemogramaBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, labs.DeleteLab(context.Background(), 1))

	resp, body := do(t, http.MethodGet, server.URL+"/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Contains(t, got, "labName")
	assert.Nil(t, got["labName"])
}

func TestHandler_Errors(t *testing.T) {
	server, labs := newTestServer(t)
	labs.SeedLab(lab.Lab{ID: 1, Name: "Central"})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"missing lab", http.MethodPost, "/", `{"userId":1,"labId":9}`, http.StatusNotFound, "NOT_FOUND"},
		{"missing user id", http.MethodPost, "/", `{"labId":1}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad date", http.MethodPost, "/", `{"userId":1,"labId":1,"resultDate":"15/01/2024"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing result", http.MethodGet, "/7", "", http.StatusNotFound, "NOT_FOUND"},
		{"update missing result", http.MethodPut, "/7", `{"userId":1,"labId":1}`, http.StatusNotFound, "NOT_FOUND"},
		{"delete missing result", http.MethodDelete, "/7", "", http.StatusNotFound, "NOT_FOUND"},
		{"bad user id", http.MethodGet, "/by-user/x", "", http.StatusBadRequest, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, tt.method, server.URL+tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			var errBody map[string]string
			require.NoError(t, json.Unmarshal([]byte(body), &errBody))
			assert.Equal(t, tt.code, errBody["code"])
		})
	}
}

func TestHandler_Delete(t *testing.T) {
	server, labs := newTestServer(t)
	labs.SeedLab(lab.Lab{ID: 1, Name: "Central"})

	resp, _ := do(t, http.MethodPost, server.URL+"/", hemogramaBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := do(t, http.MethodDelete, server.URL+"/1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"result deleted"}`, body)
}
