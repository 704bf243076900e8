// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"storefront/internal/cache"
	"storefront/internal/handlers"
	"storefront/internal/kv"
	"storefront/internal/middleware"
	"storefront/internal/render"
	"storefront/internal/session"
	"storefront/internal/shop"
	"storefront/internal/store"
)

func newTestRouter(t *testing.T, limiter *middleware.RateLimiter) http.Handler {
	t.Helper()

	mem := kv.NewMemory()
	if err := store.Seed(context.Background(), mem); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	renderer, err := render.New(false)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := session.NewStore(session.NewMemoryBackend(), false)
	catalogStore := store.NewCatalogStore(mem)
	orderStore := store.NewOrderStore(mem)
	settingsStore := store.NewSettingsStore(mem)
	catalog := shop.NewCatalog(catalogStore)
	settings := shop.NewSettings(settingsStore)

	return New(Deps{
		Sessions: sessions,
		Admin: handlers.NewAdmin(renderer, sessions, catalog, settings,
			shop.NewViewer(orderStore, settingsStore), orderStore, 4*time.Second),
		Public: handlers.NewPublic(renderer, sessions, catalog, settings,
			shop.NewOrderPlacer(orderStore, 0, nil, nil), cache.NewFragmentCache(nil, time.Minute)),
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("# metrics"))
		}),
		CheckoutLimiter: limiter,
	})
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestRoutes(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		path string
		want int
	}{
		{"/health", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/static/css/app.css", http.StatusOK},
		{"/static/js/app.js", http.StatusOK},
		{"/", http.StatusOK},
		{"/banners/1", http.StatusOK},
		{"/cart", http.StatusOK},
		{"/lojista", http.StatusOK},
		{"/lojista/dashboard", http.StatusOK},
		{"/lojista/pedidos", http.StatusOK},
		{"/lojista/pedidos/list", http.StatusOK},
		{"/lojista/pedidos/tone.wav", http.StatusOK},
		{"/lojista/produtos", http.StatusOK},
		{"/lojista/config", http.StatusOK},
		{"/checkout/qrcode.png", http.StatusNotFound},
		{"/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("GET %s: got %d, want %d", tt.path, w.Code, tt.want)
			}
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := newTestRouter(t, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := w.Header().Get("Content-Security-Policy"); !strings.Contains(got, "https://unpkg.com") {
		t.Errorf("CSP should allow unpkg, got %q", got)
	}
}

// csrfClient fetches the home page and returns its CSRF and session
// cookies.
func csrfClient(t *testing.T, h http.Handler) []*http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := w.Result().Cookies()
	if len(cookies) < 2 {
		t.Fatalf("expected csrf and session cookies, got %d", len(cookies))
	}
	return cookies
}

func csrfToken(cookies []*http.Cookie) string {
	for _, c := range cookies {
		if c.Name == middleware.CSRFCookieName {
			return c.Value
		}
	}
	return ""
}

func TestPostRequiresCSRF(t *testing.T) {
	h := newTestRouter(t, nil)
	cookies := csrfClient(t, h)

	post := func(withToken bool) int {
		req := httptest.NewRequest(http.MethodPost, "/cart/add/1", nil)
		req.Header.Set("HX-Request", "true")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		if withToken {
			req.Header.Set(middleware.CSRFHeaderName, csrfToken(cookies))
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	if got := post(false); got != http.StatusForbidden {
		t.Errorf("without token: got %d, want 403", got)
	}
	if got := post(true); got != http.StatusOK {
		t.Errorf("with token: got %d, want 200", got)
	}
}

func TestCheckoutRateLimited(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, time.Minute)
	t.Cleanup(limiter.Stop)
	h := newTestRouter(t, limiter)
	cookies := csrfClient(t, h)

	form := url.Values{"nome": {"Ana"}, "endereco": {"Rua A"}}
	var last int
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("HX-Request", "true")
		req.Header.Set(middleware.CSRFHeaderName, csrfToken(cookies))
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		last = w.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third checkout: got %d, want 429", last)
	}
}
