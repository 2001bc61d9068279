package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Options{Provider: "test-" + t.Name(), BaseURL: srv.URL, RatePerSecond: 1000}), srv
}

func TestGetJSONSendsBearerAndQuery(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		assert.Equal(t, "/athlete", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		_, _ = w.Write([]byte(`{"id": 7}`))
	})

	var out struct {
		ID int `json:"id"`
	}
	err := client.GetJSON(context.Background(), "/athlete", url.Values{"page": {"2"}}, "abc", &out)
	require.NoError(t, err)
	assert.Equal(t, 7, out.ID)
}

func TestStatusErrorIsReturned(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Authorization Error"}`))
	})

	var out map[string]any
	err := client.GetJSON(context.Background(), "/athlete", nil, "bad", &out)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
}

func TestBreakerOpensAfterServerErrors(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 5; i++ {
		_, err := client.Do(context.Background(), Request{Path: "/x"})
		require.Error(t, err)
	}

	_, err := client.Do(context.Background(), Request{Path: "/x"})
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, int32(5), calls.Load())
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 8; i++ {
		_, err := client.Do(context.Background(), Request{Path: "/missing"})
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusNotFound, se.StatusCode)
	}
}
