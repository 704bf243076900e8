// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Everything runs on the in-memory store and session backends, so these
// tests need no external services.
package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"storefront/internal/cache"
	"storefront/internal/kv"
	"storefront/internal/middleware"
	"storefront/internal/render"
	"storefront/internal/session"
	"storefront/internal/shop"
	"storefront/internal/store"
)

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	KV        *kv.Memory
	Sessions  *session.Store
	Catalog   *shop.Catalog
	Settings  *shop.Settings
	Orders    *store.OrderStore
	Fragments *cache.FragmentCache
	Admin     *Admin
	Public    *Public
	Handler   http.Handler
}

// newTestEnv creates a seeded shop with every handler mounted. When
// withCache is false the catalog grid is rendered on every request.
func newTestEnv(t *testing.T, withCache bool) *testEnv {
	t.Helper()
	return newTestEnvWithSessions(t, withCache, session.NewMemoryBackend())
}

// newTestEnvWithSessions is newTestEnv with a caller-supplied session
// backend.
func newTestEnvWithSessions(t *testing.T, withCache bool, backend session.Backend) *testEnv {
	t.Helper()

	mem := kv.NewMemory()
	if err := store.Seed(context.Background(), mem); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	renderer, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := session.NewStore(backend, false)
	catalogStore := store.NewCatalogStore(mem)
	orderStore := store.NewOrderStore(mem)
	settingsStore := store.NewSettingsStore(mem)

	catalog := shop.NewCatalog(catalogStore)
	settings := shop.NewSettings(settingsStore)
	viewer := shop.NewViewer(orderStore, settingsStore)
	placer := shop.NewOrderPlacer(orderStore, 0, nil, nil)

	var fragments *cache.FragmentCache
	if withCache {
		fragments = cache.NewFragmentCache(nil, time.Minute)
	}

	env := &testEnv{
		KV:        mem,
		Sessions:  sessions,
		Catalog:   catalog,
		Settings:  settings,
		Orders:    orderStore,
		Fragments: fragments,
		Admin:     NewAdmin(renderer, sessions, catalog, settings, viewer, orderStore, 4*time.Second),
		Public:    NewPublic(renderer, sessions, catalog, settings, placer, fragments),
	}
	env.Handler = env.routes()
	return env
}

// routes mounts the handlers the way the application router does, minus
// CSRF and rate limiting.
func (e *testEnv) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.LoadSession(e.Sessions))

	r.Get("/", e.Public.Home)
	r.Get("/banners/{index}", e.Public.Banner)
	r.Get("/cart", e.Public.Cart)
	r.Post("/cart/add/{id}", e.Public.CartAdd)
	r.Post("/cart/inc/{id}", e.Public.CartIncrement)
	r.Post("/cart/dec/{id}", e.Public.CartDecrement)
	r.Post("/cart/remove/{id}", e.Public.CartRemove)
	r.Post("/cart/continue", e.Public.ContinueShopping)
	r.Post("/checkout", e.Public.Checkout)
	r.Post("/checkout/pay", e.Public.Pay)
	r.Get("/checkout/done", e.Public.Done)
	r.Get("/checkout/whatsapp", e.Public.WhatsApp)
	r.Post("/checkout/new", e.Public.NewOrder)
	r.Get("/checkout/qrcode.png", e.Public.QRCode)

	r.Route("/lojista", func(r chi.Router) {
		r.Get("/", e.Admin.Panel)
		r.Get("/dashboard", e.Admin.Dashboard)
		r.Get("/pedidos", e.Admin.Orders)
		r.Get("/pedidos/list", e.Admin.OrdersList)
		r.Get("/pedidos/tone.wav", e.Admin.Tone)
		r.Post("/pedidos/{id}/toggle", e.Admin.OrderToggle)
		r.Post("/pedidos/{id}/status", e.Admin.OrderStatus)
		r.Get("/produtos", e.Admin.Products)
		r.Post("/produtos", e.Admin.ProductCreate)
		r.Post("/produtos/{id}", e.Admin.ProductUpdate)
		r.Post("/produtos/{id}/stock", e.Admin.ProductStock)
		r.Post("/produtos/{id}/delete", e.Admin.ProductDelete)
		r.Post("/categorias", e.Admin.CategoryAdd)
		r.Post("/categorias/remove", e.Admin.CategoryRemove)
		r.Get("/config", e.Admin.Settings)
		r.Post("/config", e.Admin.SettingsSave)
		r.Post("/config/status", e.Admin.StatusAdd)
		r.Post("/config/status/{index}/move", e.Admin.StatusMove)
		r.Post("/config/status/{index}/remove", e.Admin.StatusRemove)
	})
	return r
}

// testClient is a browser stand-in that keeps cookies between requests.
type testClient struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (e *testEnv) client(t *testing.T) *testClient {
	return &testClient{t: t, handler: e.Handler, cookies: make(map[string]*http.Cookie)}
}

// do sends a request. A non-nil form is sent url-encoded; htmx adds the
// HX-Request header.
func (c *testClient) do(method, target string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	c.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *testClient) get(target string) *httptest.ResponseRecorder {
	c.t.Helper()
	return c.do(http.MethodGet, target, nil, true)
}

func (c *testClient) post(target string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	return c.do(http.MethodPost, target, form, true)
}

// expect fails the test unless w has the given status and its body holds
// every string in want.
func expect(t *testing.T, w *httptest.ResponseRecorder, status int, want ...string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, status, w.Body.String())
	}
	body := w.Body.String()
	for _, s := range want {
		if !strings.Contains(body, s) {
			t.Errorf("body missing %q", s)
		}
	}
}

// expectNot fails the test if w's body holds any string in unwanted.
func expectNot(t *testing.T, w *httptest.ResponseRecorder, unwanted ...string) {
	t.Helper()
	body := w.Body.String()
	for _, s := range unwanted {
		if strings.Contains(body, s) {
			t.Errorf("body should not contain %q", s)
		}
	}
}
