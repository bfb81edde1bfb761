package pipapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8000")
	assert.Equal(t, "http://localhost:8000", client.BaseURL)
	assert.NotNil(t, client.HTTPClient)
	assert.Equal(t, 30*time.Second, client.HTTPClient.Timeout)
	assert.NotNil(t, client.Logger)
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client := NewClient("http://localhost:8000/")
	assert.Equal(t, "http://localhost:8000", client.BaseURL)
}

func TestNewClient_Options(t *testing.T) {
	hc := &http.Client{}
	client := NewClient("http://x", WithHTTPClient(hc), WithTimeout(5*time.Second))
	assert.Same(t, hc, client.HTTPClient)
	assert.Equal(t, 5*time.Second, hc.Timeout)
}

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/test-path", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Get(context.Background(), "/test-path")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, `{"status":"ok"}`, string(body))
}

func TestClient_GetWithParams_SendsEmptyValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "all", q.Get("status_filter"))
		assert.True(t, q.Has("account_name"), "empty parameters must still be sent")
		assert.Equal(t, "", q.Get("account_name"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.GetWithParams(context.Background(), "/api/positions", map[string]string{
		"status_filter": "all",
		"account_name":  "",
	})
	require.NoError(t, err)
	_ = resp.Body.Close()
}

func TestClient_Fetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"CTO","description":"Compte titres"}]`))
	}))
	defer server.Close()

	var accounts []Account
	err := NewClient(server.URL).Fetch(context.Background(), PathAccounts, nil, &accounts)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "CTO", accounts[0].Name)
}

func TestClient_Fetch_HTTPStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Account not found"}`))
	}))
	defer server.Close()

	var out []Position
	err := NewClient(server.URL).Fetch(context.Background(), PathPositions, nil, &out)
	require.Error(t, err)
	assert.True(t, IsFetchFailed(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "Account not found", apiErr.Message)
	assert.Contains(t, err.Error(), PathPositions)
}

func TestClient_Fetch_NotFoundIsLogged(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusNotFound)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
		_, _ = w.Write([]byte(`{"detail":"Account not found"}`))
	}))
	defer server.Close()

	var logs bytes.Buffer
	client := NewClient(server.URL, WithLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))))

	_, err := client.Trades(context.Background(), "Ghost")
	require.Error(t, err)
	assert.Contains(t, logs.String(), "account=Ghost")
	assert.Contains(t, logs.String(), `detail="Account not found"`)

	logs.Reset()
	status.Store(http.StatusInternalServerError)
	_, err = client.Trades(context.Background(), "Ghost")
	require.Error(t, err)
	assert.Empty(t, logs.String(), "only a 404 points at an unknown account")
}

func TestClient_Fetch_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":`))
	}))
	defer server.Close()

	var out []Account
	err := NewClient(server.URL).Fetch(context.Background(), PathAccounts, nil, &out)
	require.Error(t, err)
	assert.True(t, IsFetchFailed(err))
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestClient_Fetch_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	var out []Account
	err := NewClient(url).Fetch(context.Background(), PathAccounts, nil, &out)
	require.Error(t, err)
	assert.True(t, IsFetchFailed(err))
}

func TestIsFetchFailed_Plain(t *testing.T) {
	assert.False(t, IsFetchFailed(errors.New("boom")))
	assert.False(t, IsFetchFailed(nil))
}

func TestCheckResponse(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"detail string", 404, `{"detail":"Account not found"}`, "Account not found"},
		{"message field", 500, `{"message":"boom"}`, "boom"},
		{"validation list", 422, `{"detail":[{"loc":["query"],"msg":"bad"}]}`, `[{"loc":["query"],"msg":"bad"}]`},
		{"not json", 502, `Bad Gateway`, ""},
		{"empty body", 503, ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			rec.WriteHeader(tt.status)
			_, _ = rec.WriteString(tt.body)

			err := CheckResponse(rec.Result())
			require.Error(t, err)
			apiErr, ok := err.(*APIError)
			require.True(t, ok)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "API error (404): Not Found", (&APIError{StatusCode: 404}).Error())
	assert.Equal(t, "API error (500): boom", (&APIError{StatusCode: 500, Message: "boom"}).Error())
}
