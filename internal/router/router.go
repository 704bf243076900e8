// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// storefront. It organizes routes into storefront and shop-owner groups
// with appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/session"
	"storefront/internal/telemetry"
	"storefront/web"
)

// Deps are the handlers and services the router wires together.
type Deps struct {
	Sessions *session.Store
	Admin    *handlers.Admin
	Public   *handlers.Public

	// Metrics serves /metrics when set.
	Metrics http.Handler
	// CheckoutLimiter throttles the checkout POSTs when set.
	CheckoutLimiter *middleware.RateLimiter
	// SecureCookies marks the CSRF cookie as HTTPS-only.
	SecureCookies bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(telemetry.RouteTag)

	// Health, metrics and assets: no session, no CSRF.
	r.Get("/health", healthHandler)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics)
	}
	static, _ := fs.Sub(web.StaticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRF(d.SecureCookies))
		r.Use(middleware.LoadSession(d.Sessions))

		// Storefront
		r.Get("/", d.Public.Home)
		r.Get("/banners/{index}", d.Public.Banner)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", d.Public.Cart)
			r.Post("/add/{id}", d.Public.CartAdd)
			r.Post("/inc/{id}", d.Public.CartIncrement)
			r.Post("/dec/{id}", d.Public.CartDecrement)
			r.Post("/remove/{id}", d.Public.CartRemove)
			r.Post("/continue", d.Public.ContinueShopping)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/done", d.Public.Done)
			r.Get("/whatsapp", d.Public.WhatsApp)
			r.Get("/qrcode.png", d.Public.QRCode)
			r.Post("/new", d.Public.NewOrder)

			r.Group(func(r chi.Router) {
				if d.CheckoutLimiter != nil {
					r.Use(d.CheckoutLimiter.Middleware)
				}
				r.Post("/", d.Public.Checkout)
				r.Post("/pay", d.Public.Pay)
			})
		})

		// Shop owner's panel
		r.Route("/lojista", func(r chi.Router) {
			r.Get("/", d.Admin.Panel)
			r.Get("/dashboard", d.Admin.Dashboard)

			r.Route("/pedidos", func(r chi.Router) {
				r.Get("/", d.Admin.Orders)
				r.Get("/list", d.Admin.OrdersList)
				r.Get("/tone.wav", d.Admin.Tone)
				r.Post("/{id}/toggle", d.Admin.OrderToggle)
				r.Post("/{id}/status", d.Admin.OrderStatus)
			})

			r.Route("/produtos", func(r chi.Router) {
				r.Get("/", d.Admin.Products)
				r.Post("/", d.Admin.ProductCreate)
				r.Post("/{id}", d.Admin.ProductUpdate)
				r.Post("/{id}/stock", d.Admin.ProductStock)
				r.Post("/{id}/delete", d.Admin.ProductDelete)
			})

			r.Post("/categorias", d.Admin.CategoryAdd)
			r.Post("/categorias/remove", d.Admin.CategoryRemove)

			r.Route("/config", func(r chi.Router) {
				r.Get("/", d.Admin.Settings)
				r.Post("/", d.Admin.SettingsSave)
				r.Post("/status", d.Admin.StatusAdd)
				r.Post("/status/{index}/move", d.Admin.StatusMove)
				r.Post("/status/{index}/remove", d.Admin.StatusRemove)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
