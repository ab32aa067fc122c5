package apigw_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theraflow/clientkit/pkg/apigw"
	"github.com/theraflow/clientkit/pkg/kvstore"
)

func seededStore(t *testing.T) *kvstore.MemoryStore {
	t.Helper()

	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, apigw.SessionKeyAccessToken, "stored-token"))
	require.NoError(t, store.Set(ctx, apigw.SessionKeyRefreshToken, "stored-refresh"))
	require.NoError(t, store.Set(ctx, apigw.SessionKeyUserBlob, `{"id":"1"}`))
	return store
}

func newClient(t *testing.T, baseURL string, store kvstore.Store) *apigw.Client {
	t.Helper()

	client, err := apigw.New(apigw.Config{BaseURL: baseURL, Timeout: 5 * time.Second}, store)
	require.NoError(t, err)
	return client
}

func requireAPIError(t *testing.T, err error) *apigw.Error {
	t.Helper()

	require.Error(t, err)
	apiErr, ok := apigw.AsError(err)
	require.True(t, ok, "expected *apigw.Error, got %T", err)
	return apiErr
}

func assertSessionPurged(t *testing.T, store kvstore.Store) {
	t.Helper()

	ctx := context.Background()
	for _, key := range apigw.SessionKeys {
		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, kvstore.ErrKeyNotFound, "key %s should be purged", key)
	}
}

func assertSessionIntact(t *testing.T, store kvstore.Store) {
	t.Helper()

	ctx := context.Background()
	token, err := store.Get(ctx, apigw.SessionKeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "stored-token", token)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := newClient(t, srv.URL, seededStore(t))
	require.NoError(t, client.Get(context.Background(), "/auth/profile", nil))

	assert.Equal(t, "Bearer stored-token", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClient_NoTokenMeansAnonymousRequest(t *testing.T) {
	var sawAuthHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuthHeader = r.Header["Authorization"]
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := newClient(t, srv.URL, kvstore.NewMemoryStore())
	require.NoError(t, client.Get(context.Background(), "/health", nil))

	assert.False(t, sawAuthHeader)
}

func TestClient_DecodesEnvelopeData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"42","name":"Dana"}}`))
	}))
	defer srv.Close()

	client := newClient(t, srv.URL, kvstore.NewMemoryStore())

	var out struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, client.Get(context.Background(), "/auth/profile", &out))

	assert.Equal(t, "42", out.ID)
	assert.Equal(t, "Dana", out.Name)
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse every connection

	store := seededStore(t)
	client := newClient(t, srv.URL, store)

	err := client.Get(context.Background(), "/anything", nil)

	apiErr := requireAPIError(t, err)
	assert.Equal(t, apigw.KindNetwork, apiErr.Kind)
	assert.False(t, apiErr.IsAuthError())
	assert.Zero(t, apiErr.Status)
	assertSessionIntact(t, store)
}

func TestClient_TimeoutClassifiedAsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	store := seededStore(t)
	client, err := apigw.New(apigw.Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, store)
	require.NoError(t, err)

	apiErr := requireAPIError(t, client.Get(context.Background(), "/slow", nil))
	assert.Equal(t, apigw.KindNetwork, apiErr.Kind)
	assertSessionIntact(t, store)
}

func TestClient_Unauthorized(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		wantCode apigw.AuthCode
		wantMsg  string
	}{
		{
			name:     "token expired",
			body:     `{"success":false,"code":"TOKEN_EXPIRED"}`,
			wantCode: apigw.AuthCodeExpired,
			wantMsg:  "Your session has expired. Please sign in again.",
		},
		{
			name:     "invalid token",
			body:     `{"success":false,"code":"INVALID_TOKEN"}`,
			wantCode: apigw.AuthCodeInvalid,
			wantMsg:  "Your session is no longer valid. Please sign in again.",
		},
		{
			name:     "user missing",
			body:     `{"success":false,"code":"USER_NOT_FOUND"}`,
			wantCode: apigw.AuthCodeUserMissing,
			wantMsg:  "This account no longer exists.",
		},
		{
			name:     "account deactivated",
			body:     `{"success":false,"code":"ACCOUNT_DEACTIVATED"}`,
			wantCode: apigw.AuthCodeDeactivated,
			wantMsg:  "This account has been deactivated.",
		},
		{
			name:     "no code",
			body:     `{"success":false}`,
			wantCode: apigw.AuthCodeUnknown,
			wantMsg:  "You are not authorized. Please sign in again.",
		},
		{
			name:     "unknown code",
			body:     `{"success":false,"code":"SOMETHING_NEW"}`,
			wantCode: apigw.AuthCodeUnknown,
			wantMsg:  "You are not authorized. Please sign in again.",
		},
		{
			name:     "backend message preferred",
			body:     `{"success":false,"code":"TOKEN_EXPIRED","message":"token no longer valid"}`,
			wantCode: apigw.AuthCodeExpired,
			wantMsg:  "token no longer valid",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			store := seededStore(t)
			client := newClient(t, srv.URL, store)

			apiErr := requireAPIError(t, client.Get(context.Background(), "/protected", nil))

			assert.Equal(t, apigw.KindAuth, apiErr.Kind)
			assert.Equal(t, tc.wantCode, apiErr.AuthCode)
			assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
			assert.Equal(t, tc.wantMsg, apiErr.Message)
			assert.True(t, apiErr.IsAuthError())
			assertSessionPurged(t, store)
		})
	}
}

func TestClient_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"no such child"}`))
	}))
	defer srv.Close()

	store := seededStore(t)
	client := newClient(t, srv.URL, store)

	apiErr := requireAPIError(t, client.Get(context.Background(), "/children/999", nil))
	assert.Equal(t, apigw.KindNotFound, apiErr.Kind)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "no such child", apiErr.Message)
	assert.False(t, apiErr.IsAuthError())
	assertSessionIntact(t, store)
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	store := seededStore(t)
	client := newClient(t, srv.URL, store)

	apiErr := requireAPIError(t, client.Get(context.Background(), "/sessions", nil))
	assert.Equal(t, apigw.KindServer, apiErr.Kind)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
	assertSessionIntact(t, store)
}

func TestClient_UnknownHTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"success":false,"message":"odd status"}`))
	}))
	defer srv.Close()

	store := seededStore(t)
	client := newClient(t, srv.URL, store)

	apiErr := requireAPIError(t, client.Get(context.Background(), "/teapot", nil))
	assert.Equal(t, apigw.KindUnknownHTTP, apiErr.Kind)
	assert.Equal(t, http.StatusTeapot, apiErr.Status)
	assert.Equal(t, "odd status", apiErr.Message)
	assertSessionIntact(t, store)
}

func TestClient_EnvelopeFailureOn2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"validation failed"}`))
	}))
	defer srv.Close()

	client := newClient(t, srv.URL, kvstore.NewMemoryStore())

	apiErr := requireAPIError(t, client.Post(context.Background(), "/auth/register", map[string]string{}, nil))
	assert.Equal(t, apigw.KindUnknownHTTP, apiErr.Kind)
	assert.Equal(t, "validation failed", apiErr.Message)
}

func TestClient_RequestSetupFailure(t *testing.T) {
	client := newClient(t, "http://localhost:1", kvstore.NewMemoryStore())

	// A channel cannot be JSON-encoded, so the request fails before transmission.
	apiErr := requireAPIError(t, client.Post(context.Background(), "/x", make(chan int), nil))
	assert.Equal(t, apigw.KindClient, apiErr.Kind)
	assert.Zero(t, apiErr.Status)
}

func TestClient_SendsJSONBody(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := newClient(t, srv.URL, kvstore.NewMemoryStore())
	require.NoError(t, client.Post(context.Background(), "/auth/login", map[string]string{"email": "a@b.com"}, nil))

	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{"email":"a@b.com"}`, string(gotBody))
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := apigw.New(apigw.Config{}, kvstore.NewMemoryStore())
	assert.ErrorIs(t, err, apigw.ErrMissingBaseURL)

	_, err = apigw.New(apigw.Config{BaseURL: "http://x"}, nil)
	assert.ErrorIs(t, err, apigw.ErrMissingStore)
}
