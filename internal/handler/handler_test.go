package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xenking/otamanga-storefront/internal/apiclient"
	"github.com/xenking/otamanga-storefront/internal/domain/cart"
	"github.com/xenking/otamanga-storefront/internal/domain/metrics"
	"github.com/xenking/otamanga-storefront/internal/domain/product"
	"github.com/xenking/otamanga-storefront/pkg/httpmiddleware"
)

// --- Mock implementations ---

type mockMangas struct {
	products []product.Product
	listErr  error
	getErr   error
}

func (m *mockMangas) List(context.Context) ([]product.Product, error) {
	return m.products, m.listErr
}

func (m *mockMangas) Get(_ context.Context, id string) (*product.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, p := range m.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, product.ErrNotFound
}

func (m *mockMangas) Create(context.Context, product.Input) (*product.Product, error) {
	return nil, errors.New("not implemented")
}

func (m *mockMangas) Update(context.Context, string, product.Input) (*product.Product, error) {
	return nil, errors.New("not implemented")
}

func (m *mockMangas) ExportURL() string { return "" }

func (m *mockMangas) Export(context.Context, io.Writer) (int64, error) { return 0, nil }

type mockCategories struct {
	categories []product.Category
	err        error
}

func (m *mockCategories) List(context.Context) ([]product.Category, error) {
	return m.categories, m.err
}

func (m *mockCategories) Create(context.Context, product.CategoryInput) (*product.Category, error) {
	return nil, errors.New("not implemented")
}

func (m *mockCategories) Update(context.Context, string, product.CategoryInput) (*product.Category, error) {
	return nil, errors.New("not implemented")
}

func (m *mockCategories) Delete(context.Context, string) error { return nil }

type mockClicks struct {
	clicks []metrics.Click
	err    error
}

func (m *mockClicks) RegisterClick(_ context.Context, c metrics.Click) error {
	m.clicks = append(m.clicks, c)
	return m.err
}

type mockRecommendations struct {
	products []product.Product
}

func (m *mockRecommendations) List(context.Context) ([]product.Product, error) {
	return m.products, nil
}

// --- Helpers ---

type testEnv struct {
	srv      *httptest.Server
	client   *http.Client
	mangas   *mockMangas
	cats     *mockCategories
	clicks   *mockClicks
	sessions *cart.Sessions
	logs     *observer.ObservedLogs
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, Config{})
}

func newTestEnvWith(t *testing.T, cfg Config) *testEnv {
	t.Helper()
	env := &testEnv{
		mangas: &mockMangas{products: []product.Product{
			{ID: "1", Title: "One Piece", Price: decimal.RequireFromString("29.90"), CategoryID: "1"},
			{ID: "2", Title: "Berserk", Price: decimal.RequireFromString("45.50"), CategoryID: "2", ImageURL: "javascript:alert(1)"},
		}},
		cats:     &mockCategories{categories: []product.Category{{ID: "1", Name: "Shonen"}, {ID: "2", Name: "Seinen"}}},
		clicks:   &mockClicks{},
		sessions: cart.NewSessions(cart.SessionsConfig{}),
	}
	core, logs := observer.New(zapcore.DebugLevel)
	env.logs = logs

	h := New(cfg, env.mangas, env.cats, env.clicks,
		&mockRecommendations{products: env.mangas.products[:1]}, env.sessions)
	mux := http.NewServeMux()
	h.Register(mux)
	env.srv = httptest.NewServer(httpmiddleware.Wrap(mux,
		httpmiddleware.InjectLogger(zap.New(core)),
		httpmiddleware.Recovery(),
	))
	t.Cleanup(env.srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	env.client = &http.Client{Jar: jar}
	return env
}

func (env *testEnv) do(t *testing.T, method, path, body string) (int, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, env.srv.URL+path, r)
	require.NoError(t, err)
	resp, err := env.client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

// --- Tests ---

func TestCatalog(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodGet, "/api/catalog?category=2", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{
		"category": "2",
		"categories": [
			{"id":"1","name":"Shonen","description":""},
			{"id":"2","name":"Seinen","description":""}
		],
		"products": [{
			"id":"2","title":"Berserk","price":45.50,"priceLabel":"S/ 45.50","stock":0,
			"imageUrl":"https://placehold.co/70x100?text=No+Img",
			"categoryId":"2","categoryName":"","authorId":"","authorName":""
		}]
	}`, body)
}

func TestCatalog_BackendFailure(t *testing.T) {
	env := newTestEnv(t)
	env.cats.err = &apiclient.APIError{Endpoint: "/Category", StatusCode: 500, Message: "Error 500"}

	code, body := env.do(t, http.MethodGet, "/api/catalog", "")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.JSONEq(t, `{"code":502,"message":"Error 500"}`, body)
}

func TestGetProduct_RegistersClick(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodGet, "/api/catalog/1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"title":"One Piece"`)
	assert.Equal(t, []metrics.Click{{ProductID: "1"}}, env.clicks.clicks)

	env.clicks.err = errors.New("metrics down")
	code, _ = env.do(t, http.MethodGet, "/api/catalog/1", "")
	assert.Equal(t, http.StatusOK, code, "click failure does not fail the request")
	assert.Equal(t, 1, env.logs.FilterMessage("Failed to register click").Len())

	code, body = env.do(t, http.MethodGet, "/api/catalog/404", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"code":404,"message":"product not found"}`, body)
}

func TestRecommendations(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodGet, "/api/recommendations", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"id":"1"`)
	assert.NotContains(t, body, `"id":"2"`)
}

func TestCart_Flow(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"open":false,"empty":true,"count":0,"items":[],"total":"S/ 0.00"}`, body)
	assert.Equal(t, 1, env.sessions.Len())

	code, _ = env.do(t, http.MethodPost, "/api/cart/items", `{"id":1}`)
	require.Equal(t, http.StatusOK, code)
	code, body = env.do(t, http.MethodPost, "/api/cart/items", `{"id":"1"}`)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"open":false,"empty":false,"count":2,"items":[{
		"id":"1","title":"One Piece","image":"https://placehold.co/70x100?text=No+Img",
		"price":"S/ 29.90","quantity":2,"subtotal":"S/ 59.80"
	}],"total":"S/ 59.80"}`, body)

	code, body = env.do(t, http.MethodPost, "/api/cart/open", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"open":true`)

	code, body = env.do(t, http.MethodPost, "/api/cart/items/1/quantity", `{"delta":-1}`)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"quantity":1`)

	code, body = env.do(t, http.MethodPost, "/api/cart/items/1/quantity", `{"delta":-1}`)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"empty":true`)

	code, _ = env.do(t, http.MethodPost, "/api/cart/items", `{"id":"2"}`)
	require.Equal(t, http.StatusOK, code)
	code, body = env.do(t, http.MethodDelete, "/api/cart/items/2", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"empty":true`)

	code, body = env.do(t, http.MethodPost, "/api/cart/close", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"open":false`)

	assert.Equal(t, 1, env.sessions.Len(), "one browsing session")
}

func TestCart_SeparateSessions(t *testing.T) {
	env := newTestEnv(t)

	code, _ := env.do(t, http.MethodPost, "/api/cart/items", `{"id":"1"}`)
	require.Equal(t, http.StatusOK, code)

	// A second browser without the cookie gets its own empty cart.
	resp, err := http.Get(env.srv.URL + "/api/cart")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"empty":true`)
	assert.Equal(t, 2, env.sessions.Len())

	var found bool
	for _, ck := range resp.Cookies() {
		if ck.Name == CookieName {
			found = true
			assert.True(t, ck.HttpOnly)
			assert.Len(t, ck.Value, 36)
		}
	}
	assert.True(t, found)
}

func TestCart_BadRequests(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{name: "not an object", path: "/api/cart/items", body: `[1]`, code: http.StatusBadRequest},
		{name: "missing id", path: "/api/cart/items", body: `{"qty":1}`, code: http.StatusBadRequest},
		{name: "bad id", path: "/api/cart/items", body: `{"id":true}`, code: http.StatusBadRequest},
		{name: "unknown product", path: "/api/cart/items", body: `{"id":"404"}`, code: http.StatusNotFound},
		{name: "missing delta", path: "/api/cart/items/1/quantity", body: `{}`, code: http.StatusBadRequest},
		{name: "fractional delta", path: "/api/cart/items/1/quantity", body: `{"delta":1.5}`, code: http.StatusBadRequest},
		{name: "malformed", path: "/api/cart/items/1/quantity", body: `{"delta":`, code: http.StatusBadRequest},
		{name: "delta too large", path: "/api/cart/items/1/quantity", body: `{"delta":9223372036854775807}`, code: http.StatusBadRequest},
		{name: "delta overflows", path: "/api/cart/items/1/quantity", body: `{"delta":99999999999999999999}`, code: http.StatusBadRequest},
		{name: "delta too small", path: "/api/cart/items/1/quantity", body: `{"delta":-1001}`, code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := env.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.code, code)
			assert.Contains(t, body, `"message"`)
		})
	}
}

func TestCart_OutOfRangeDeltaKeepsItem(t *testing.T) {
	env := newTestEnv(t)

	code, _ := env.do(t, http.MethodPost, "/api/cart/items", `{"id":"1"}`)
	require.Equal(t, http.StatusOK, code)

	code, body := env.do(t, http.MethodPost, "/api/cart/items/1/quantity", `{"delta":9223372036854775807}`)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body, "delta must be between -1000 and 1000")

	code, body = env.do(t, http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"quantity":1`)

	code, body = env.do(t, http.MethodPost, "/api/cart/items/1/quantity", `{"delta":1000}`)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"quantity":1001`)
}

func TestCart_CookieLifetime(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		maxAge int
	}{
		{name: "browser session", cfg: Config{}, maxAge: 0},
		{name: "one day", cfg: Config{CookieTTL: 24 * time.Hour, SecureCookie: true}, maxAge: 86400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnvWith(t, tt.cfg)

			resp, err := http.Get(env.srv.URL + "/api/cart")
			require.NoError(t, err)
			_ = resp.Body.Close()

			cookies := resp.Cookies()
			require.Len(t, cookies, 1)
			assert.Equal(t, tt.maxAge, cookies[0].MaxAge)
			assert.Equal(t, tt.cfg.SecureCookie, cookies[0].Secure)
			assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
		})
	}
}

func TestCart_InvalidCookieReplaced(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodGet, env.srv.URL+"/api/cart", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-uuid"})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	require.NotEmpty(t, resp.Cookies())
	assert.NotEqual(t, "not-a-uuid", resp.Cookies()[0].Value)
}
