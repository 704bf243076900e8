// Package session keeps per-browser state between requests: the
// customer's cart and checkout progress, and the admin's order-viewer
// state. Sessions are identified by a cookie and stored as JSON in a
// Backend (Valkey or process memory) with a TTL.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/shop"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "sf_session"

	// DefaultTTL is how long an idle session lives before expiry.
	DefaultTTL = 24 * time.Hour

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// Data is the session payload.
type Data struct {
	ID string `json:"-"`

	Checkout *shop.Checkout  `json:"checkout"`
	Viewer   shop.ViewerState `json:"viewer"`

	// StatusDraft buffers status-vocabulary edits on the settings page
	// until they are saved. Nil means no edit is in progress.
	StatusDraft []string `json:"status_draft"`

	CreatedAt time.Time `json:"created_at"`
}

func newData(id string) *Data {
	return &Data{ID: id, Checkout: shop.NewCheckout(), CreatedAt: time.Now()}
}

// Store manages session lifecycle.
type Store struct {
	backend Backend
	ttl     time.Duration
	secure  bool
}

// NewStore creates a session store over backend. secure marks the cookie
// as HTTPS-only.
func NewStore(backend Backend, secure bool) *Store {
	return &Store{
		backend: backend,
		ttl:     DefaultTTL,
		secure:  secure,
	}
}

// Create generates a new session id, stores data under it and sets the
// session cookie on the response. Returns the session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data.ID = id
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}
	if err := s.save(ctx, data); err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})

	return id, nil
}

// Get returns the session named by the request cookie, or nil if there is
// no cookie or the session has expired.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil // No cookie = no session (not an error)
	}

	payload, ok, err := s.backend.Load(ctx, cookie.Value)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		slog.Warn("discarding unreadable session", "error", err)
		return nil, nil
	}
	data.ID = cookie.Value
	if data.Checkout == nil {
		data.Checkout = shop.NewCheckout()
	}
	data.Checkout.Normalize()

	return &data, nil
}

// Load returns the request's session, creating a fresh one (and setting
// its cookie) when there is none.
func (s *Store) Load(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Data, error) {
	data, err := s.Get(ctx, r)
	if err != nil {
		return nil, err
	}
	if data != nil {
		return data, nil
	}

	data = newData("")
	if _, err := s.Create(ctx, w, data); err != nil {
		return nil, err
	}
	return data, nil
}

// Update writes data back under its id, resetting the TTL. The id comes
// from data.ID, or from the request cookie when data has none.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	if data.ID == "" {
		cookie, err := r.Cookie(CookieName)
		if err != nil {
			return fmt.Errorf("session update: no cookie")
		}
		data.ID = cookie.Value
	}
	return s.save(ctx, data)
}

// Destroy removes the session and clears the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil // No cookie, nothing to destroy
	}

	if err := s.backend.Delete(ctx, cookie.Value); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}

	// Expire the cookie immediately.
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		MaxAge:   -1,
	})

	return nil
}

func (s *Store) save(ctx context.Context, data *Data) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	return s.backend.Save(ctx, data.ID, payload, s.ttl)
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
