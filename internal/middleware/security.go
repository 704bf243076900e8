// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"
)

// cspDirectives allow the bundled assets, HTMX from unpkg, the inline page
// scripts of both layouts, the order notification tone and images from
// anywhere (product and banner images are shop-owner supplied URLs).
var cspDirectives = []string{
	"default-src 'self'",
	"script-src 'self' 'unsafe-inline' https://unpkg.com",
	"style-src 'self' 'unsafe-inline'",
	"img-src * data: blob:",
	"media-src 'self'",
	"connect-src 'self'",
	"frame-ancestors 'self'",
	"form-action 'self' https://wa.me",
}

// securityHeaders are set on every response.
var securityHeaders = map[string]string{
	"X-Content-Type-Options": "nosniff",
	"X-Frame-Options":        "SAMEORIGIN",
	// Legacy XSS auditor off; the CSP covers it.
	"X-XSS-Protection":        "0",
	"Referrer-Policy":         "strict-origin-when-cross-origin",
	"Permissions-Policy":      "camera=(), microphone=(), geolocation=(), payment=()",
	"Content-Security-Policy": strings.Join(cspDirectives, "; "),
}

// SecureHeaders adds security-related HTTP headers to every response.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for k, v := range securityHeaders {
			h.Set(k, v)
		}
		next.ServeHTTP(w, r)
	})
}
