package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/deppfellow/gearguardian/internal/config"
	"github.com/deppfellow/gearguardian/internal/errs"
	"github.com/deppfellow/gearguardian/internal/server"
	"github.com/deppfellow/gearguardian/internal/validation"
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name  string `json:"name" validate:"required,max=10"`
	Count int    `json:"count" validate:"gte=0"`
}

func (r *echoRequest) Validate() error { return validation.Struct(r) }

type echoResponse struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	cfg := config.DefaultConfig()
	return &server.Server{Config: &cfg, Logger: &logger}
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if httpErr, ok := err.(*errs.HTTPError); ok {
			_ = c.JSON(httpErr.Status, httpErr)
			return
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
	return e
}

func post(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandleBindsFreshRequest(t *testing.T) {
	h := NewHandler(newTestServer())
	e := newTestEcho()
	e.POST("/echo", Handle(h, func(c echo.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{Name: req.Name, Count: req.Count}, nil
	}, http.StatusCreated, &echoRequest{}))

	rec := post(e, "/echo", `{"name":"first","count":3}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// A field missing from the second body must not leak from the first.
	rec = post(e, "/echo", `{"name":"second"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got echoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, echoResponse{Name: "second"}, got)
}

func TestHandleConcurrentRequests(t *testing.T) {
	h := NewHandler(newTestServer())
	e := newTestEcho()
	e.POST("/echo", Handle(h, func(c echo.Context, req *echoRequest) (*echoResponse, error) {
		time.Sleep(time.Millisecond)
		return &echoResponse{Name: req.Name}, nil
	}, http.StatusOK, &echoRequest{}))

	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			rec := post(e, "/echo", `{"name":"`+name+`"}`)
			var got echoResponse
			if assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got)) {
				assert.Equal(t, name, got.Name)
			}
		}(name)
	}
	wg.Wait()
}

func TestHandleValidationError(t *testing.T) {
	h := NewHandler(newTestServer())
	e := newTestEcho()
	called := false
	e.POST("/echo", Handle(h, func(c echo.Context, req *echoRequest) (*echoResponse, error) {
		called = true
		return nil, nil
	}, http.StatusOK, &echoRequest{}))

	rec := post(e, "/echo", `{"name":"much-too-long-name"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
}

func TestHandleNoContentAndFile(t *testing.T) {
	h := NewHandler(newTestServer())
	e := newTestEcho()
	e.POST("/none", HandleNoContent(h, func(c echo.Context, req *echoRequest) error {
		return nil
	}, http.StatusNoContent, &echoRequest{}))
	e.POST("/file", HandleFile(h, func(c echo.Context, req *echoRequest) ([]byte, error) {
		return []byte(`[]`), nil
	}, http.StatusOK, &echoRequest{}, "export.json", echo.MIMEApplicationJSON))

	rec := post(e, "/none", `{"name":"x"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = post(e, "/file", `{"name":"x"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=export.json", rec.Header().Get(echo.HeaderContentDisposition))
	assert.Equal(t, `[]`, rec.Body.String())
}

func TestCheckHealth(t *testing.T) {
	s := newTestServer()
	e := newTestEcho()
	e.GET("/status", NewHealthHandler(s).CheckHealth)

	s.Config.Observability.HealthChecks.Enabled = false
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	s.Config.Observability.HealthChecks.Enabled = true
	s.Config.Observability.HealthChecks.Checks = []string{"redis"}
	s.Config.Observability.HealthChecks.Timeout = time.Second
	s.Redis = redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer s.Redis.Close()

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body.Checks["redis"].Status)
}
