// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// rateLimitMessage is shown to shoppers who submit checkout too often.
const rateLimitMessage = "Muitas tentativas seguidas. Aguarde alguns segundos e tente novamente."

// RateLimiter is a per-client sliding window limiter. The storefront puts
// it in front of the checkout POSTs so one client cannot flood the order
// log.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time

	stopCh chan struct{}
	stop   sync.Once
}

// NewRateLimiter allows limit requests per window and client. A
// background sweep forgets idle clients until Stop is called.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
		stopCh: make(chan struct{}),
	}
	go rl.sweep(max(window, time.Minute))
	return rl
}

// Stop ends the background sweep. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stop.Do(func() { close(rl.stopCh) })
}

func (rl *RateLimiter) sweep(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// recent drops timestamps at or before cutoff. hits is sorted.
func recent(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}

// allow records a hit for key unless the window is full, in which case it
// reports how long until the oldest hit expires.
func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	now := rl.now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	hits := recent(rl.hits[key], cutoff)
	if len(hits) >= rl.limit {
		rl.hits[key] = hits
		return false, hits[0].Sub(cutoff)
	}
	rl.hits[key] = append(hits, now)
	return true, 0
}

// cleanup forgets clients without hits inside the window.
func (rl *RateLimiter) cleanup() {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, hits := range rl.hits {
		if len(recent(hits, cutoff)) == 0 {
			delete(rl.hits, key)
		}
	}
}

// Middleware rejects requests over the limit with 429 and a Retry-After
// header in whole seconds. HTMX requests keep the current page and get
// the message as an alert event.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		ok, wait := rl.allow(ip)
		if ok {
			next.ServeHTTP(w, r)
			return
		}

		slog.Warn("rate limited", "ip", ip, "path", r.URL.Path)
		w.Header().Set("Retry-After", strconv.Itoa(max(int(math.Ceil(wait.Seconds())), 1)))
		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Reswap", "none")
			w.Header().Set("HX-Trigger", `{"sf:alert":"`+rateLimitMessage+`"}`)
		}
		http.Error(w, rateLimitMessage, http.StatusTooManyRequests)
	})
}

// clientIP prefers the leftmost X-Forwarded-For entry, then X-Real-IP,
// then the connection's remote host.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
