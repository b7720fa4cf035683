package app

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xenking/otamanga-storefront/internal/apiclient"
	"github.com/xenking/otamanga-storefront/internal/domain/product"
	"github.com/xenking/otamanga-storefront/internal/handler"
	"github.com/xenking/otamanga-storefront/pkg/health"
	"github.com/xenking/otamanga-storefront/pkg/httpmiddleware"
)

func TestNewSessions_FollowsCarts(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sessions, err := newSessions(zap.New(core), noop.NewMeterProvider(), CartConfig{})
	require.NoError(t, err)

	c := sessions.Get("s1")
	c.AddItem(product.Product{ID: "1", Price: decimal.NewFromInt(10)})
	c.Open()

	assert.Equal(t, 1, logs.FilterMessage("Cart created").Len())
	changed := logs.FilterMessage("Cart changed").All()
	require.Len(t, changed, 2)
	assert.Equal(t, "s1", changed[1].ContextMap()["session"])
	assert.Equal(t, true, changed[1].ContextMap()["open"])
	assert.Equal(t, "10", changed[1].ContextMap()["total"])
}

func TestStorefront_EndToEnd(t *testing.T) {
	var clicks atomic.Int32
	backend := http.NewServeMux()
	backend.HandleFunc("GET /api/Mangas", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"title":"One Piece","price":"29.90","categoryId":1},{"id":2,"title":"Berserk","price":45.5,"categoryId":2}]`)
	})
	backend.HandleFunc("GET /api/Mangas/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"Manga no encontrado"}`)
			return
		}
		_, _ = io.WriteString(w, `{"id":1,"title":"One Piece","price":"29.90"}`)
	})
	backend.HandleFunc("GET /api/Category", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"id":1,"name":"Shonen"},{"id":2,"name":"Seinen"}]`)
	})
	backend.HandleFunc("POST /api/Metrics/click", func(w http.ResponseWriter, _ *http.Request) {
		clicks.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	backendSrv := httptest.NewServer(backend)
	t.Cleanup(backendSrv.Close)

	client, err := apiclient.New(apiclient.WithBaseURL(backendSrv.URL + "/api"))
	require.NoError(t, err)
	sessions, err := newSessions(zap.NewNop(), noop.NewMeterProvider(), CartConfig{})
	require.NoError(t, err)
	healthSvc := health.New()
	healthSvc.Add(health.Readiness, "backend", time.Second, health.PingCheck(client))
	healthSvc.SetReady(true)

	srv := httptest.NewServer(newHandler(zap.NewNop(), client, sessions, healthSvc, CartConfig{}))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	browser := &http.Client{Jar: jar}

	do := func(method, path, body string) (*http.Response, string) {
		t.Helper()
		var r io.Reader
		if body != "" {
			r = strings.NewReader(body)
		}
		req, err := http.NewRequest(method, srv.URL+path, r)
		require.NoError(t, err)
		resp, err := browser.Do(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, string(data)
	}

	resp, body := do(http.MethodGet, "/livez", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(httpmiddleware.HeaderRequestID))
	assert.JSONEq(t, `{"status":"ok"}`, body)

	resp, _ = do(http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(http.MethodGet, "/api/catalog?category=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "One Piece")
	assert.NotContains(t, body, "Berserk")

	do(http.MethodPost, "/api/cart/items", `{"id":1}`)
	resp, body = do(http.MethodPost, "/api/cart/items", `{"id":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"total":"S/ 59.80"`)
	assert.Contains(t, body, `"quantity":2`)

	resp, body = do(http.MethodPost, "/api/cart/items", `{"id":9}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"code":404,"message":"Manga no encontrado"}`, body)

	resp, _ = do(http.MethodGet, "/api/catalog/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), clicks.Load())

	assert.Equal(t, 1, sessions.Len())
}

func TestNewHandler_CartCookie(t *testing.T) {
	client, err := apiclient.New()
	require.NoError(t, err)
	sessions, err := newSessions(zap.NewNop(), noop.NewMeterProvider(), CartConfig{})
	require.NoError(t, err)

	srv := httptest.NewServer(newHandler(zap.NewNop(), client, sessions, health.New(), CartConfig{
		SecureCookie: true,
		CookieTTL:    2 * time.Hour,
	}))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/cart")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, handler.CookieName, cookies[0].Name)
	assert.Equal(t, 7200, cookies[0].MaxAge)
	assert.True(t, cookies[0].Secure)
}
