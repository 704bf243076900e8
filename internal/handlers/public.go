// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"storefront/internal/cache"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/render"
	"storefront/internal/session"
	"storefront/internal/shop"
)

// Public groups the storefront handlers: catalog, cart and checkout.
// Every customer action mutates the checkout kept in the session and then
// re-renders the step the checkout is on.
type Public struct {
	renderer  *render.Renderer
	sessions  *session.Store
	catalog   *shop.Catalog
	settings  *shop.Settings
	placer    *shop.OrderPlacer
	fragments *cache.FragmentCache
}

// NewPublic creates a new Public handler group.
func NewPublic(
	renderer *render.Renderer,
	sessions *session.Store,
	catalog *shop.Catalog,
	settings *shop.Settings,
	placer *shop.OrderPlacer,
	fragments *cache.FragmentCache,
) *Public {
	return &Public{
		renderer:  renderer,
		sessions:  sessions,
		catalog:   catalog,
		settings:  settings,
		placer:    placer,
		fragments: fragments,
	}
}

// Home renders whatever checkout step the session is on. A new visitor
// sees the catalog.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	p.show(w, r, nil)
}

// Banner renders the rotating banner at the index in the URL. It is
// polled by the banner itself every few seconds.
func (p *Public) Banner(w http.ResponseWriter, r *http.Request) {
	st, err := p.settings.Load(r.Context())
	if err != nil {
		slog.Error("load settings failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if len(st.Banners) == 0 {
		// Empty body: the outerHTML swap removes the banner.
		w.WriteHeader(http.StatusOK)
		return
	}

	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || i < 0 || i >= len(st.Banners) {
		i = 0
	}

	p.renderer.Partial(w, r, "shop/catalog", "banner", &render.PageData{
		Shop: st,
		Data: bannerData(i, len(st.Banners)),
	})
}

// CartAdd adds one unit of a product and swaps in the updated cart
// summary. Sold-out products leave the cart unchanged.
func (p *Public) CartAdd(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	sess := middleware.SessionFromCtx(r.Context())

	product, err := p.catalog.Product(r.Context(), id)
	if errors.Is(err, shop.ErrProductNotFound) {
		http.Error(w, "Produto não encontrado", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("load product failed", "error", err, "product_id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := sess.Checkout.AddToCart(product); err != nil && !errors.Is(err, shop.ErrOutOfStock) {
		p.respond(w, r)
		return
	}
	if !p.save(w, r, sess) {
		return
	}

	if !render.IsHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	st, err := p.settings.Load(r.Context())
	if err != nil {
		slog.Error("load settings failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	p.renderer.Partial(w, r, "shop/catalog", "cart_summary", &render.PageData{Session: sess, Shop: st})
}

// CartIncrement adds one unit to a cart line.
func (p *Public) CartIncrement(w http.ResponseWriter, r *http.Request) {
	p.cartLine(w, r, (*shop.Checkout).Increment)
}

// CartDecrement removes one unit from a cart line, dropping it at zero.
func (p *Public) CartDecrement(w http.ResponseWriter, r *http.Request) {
	p.cartLine(w, r, (*shop.Checkout).Decrement)
}

// CartRemove drops a cart line.
func (p *Public) CartRemove(w http.ResponseWriter, r *http.Request) {
	p.cartLine(w, r, (*shop.Checkout).Remove)
}

func (p *Public) cartLine(w http.ResponseWriter, r *http.Request, op func(*shop.Checkout, int64) error) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	sess := middleware.SessionFromCtx(r.Context())
	if err := op(sess.Checkout, id); err == nil && !p.save(w, r, sess) {
		return
	}
	p.respond(w, r)
}

// Cart opens the cart view.
func (p *Public) Cart(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if err := sess.Checkout.OpenCart(); err == nil && !p.save(w, r, sess) {
		return
	}
	p.show(w, r, nil)
}

// ContinueShopping goes back from the cart to the catalog.
func (p *Public) ContinueShopping(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if err := sess.Checkout.ContinueShopping(); err == nil && !p.save(w, r, sess) {
		return
	}
	p.respond(w, r)
}

// Checkout takes the customer's name and address and moves to payment.
// Invalid input keeps the cart on screen with a message and the typed
// values.
func (p *Public) Checkout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	name, address := r.FormValue("nome"), r.FormValue("endereco")

	if msg := validateCustomer(name, address); msg != "" {
		sess.Checkout.Name, sess.Checkout.Address = name, address
		p.show(w, r, []render.Flash{{Type: "error", Message: msg}})
		return
	}

	err := sess.Checkout.SubmitDetails(name, address)
	if !p.save(w, r, sess) {
		return
	}
	if err != nil {
		msg, ok := shop.UserMessage(err)
		if !ok {
			msg = "Não foi possível continuar."
		}
		p.show(w, r, []render.Flash{{Type: "error", Message: msg}})
		return
	}
	p.respond(w, r)
}

// Pay runs the simulated payment and records the order. The request
// blocks for the payment delay; the page shows a processing indicator
// meanwhile. The session is saved even if the client has gone away, so a
// retried payment finds the checkout done instead of placing it twice.
func (p *Public) Pay(w http.ResponseWriter, r *http.Request) {
	r = r.WithContext(context.WithoutCancel(r.Context()))
	sess := middleware.SessionFromCtx(r.Context())

	_, err := p.placer.Pay(r.Context(), sess.Checkout)
	if errors.Is(err, shop.ErrInvalidStep) {
		p.respond(w, r)
		return
	}
	if !p.save(w, r, sess) {
		return
	}
	if err != nil {
		slog.Error("place order failed", "error", err)
		p.show(w, r, []render.Flash{{Type: "error", Message: "Não foi possível registrar o pedido. Tente novamente."}})
		return
	}
	p.respond(w, r)
}

// Done shows the confirmation for the order just placed.
func (p *Public) Done(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess.Checkout.Step != shop.StepDone {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	p.show(w, r, nil)
}

// WhatsApp redirects to a chat with the shop, prefilled with the last
// order.
func (p *Public) WhatsApp(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess.Checkout.LastOrder == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	st, err := p.settings.Load(r.Context())
	if err != nil {
		slog.Error("load settings failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, shop.WhatsAppLink(st.WhatsApp, *sess.Checkout.LastOrder), http.StatusSeeOther)
}

// NewOrder leaves the confirmation and starts over with an empty cart.
func (p *Public) NewOrder(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if err := sess.Checkout.Restart(); err == nil && !p.save(w, r, sess) {
		return
	}
	p.respond(w, r)
}

// QRCode serves the PNG shown on the payment step. It encodes the
// customer and total; nothing is charged.
func (p *Public) QRCode(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	c := sess.Checkout
	if c.Step != shop.StepPayment {
		http.NotFound(w, r)
		return
	}

	content := fmt.Sprintf("Pagamento simulado: %s - Total R$ %s", c.Name, c.Cart.Total().StringFixed(2))
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// respond finishes a state-changing request: HTMX callers get the current
// step re-rendered, plain form posts are redirected home.
func (p *Public) respond(w http.ResponseWriter, r *http.Request) {
	if !render.IsHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	p.show(w, r, nil)
}

// show renders the page for the session's checkout step.
func (p *Public) show(w http.ResponseWriter, r *http.Request, flashes []render.Flash) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)

	st, err := p.settings.Load(ctx)
	if err != nil {
		slog.Error("load settings failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := &render.PageData{
		Title:   "Loja",
		Session: sess,
		Shop:    st,
		Flashes: flashes,
	}

	switch sess.Checkout.Step {
	case shop.StepCart:
		data.Title = "Carrinho"
		p.renderer.Page(w, r, "shop/cart", data)
	case shop.StepPayment:
		data.Title = "Pagamento"
		p.renderer.Page(w, r, "shop/payment", data)
	case shop.StepDone:
		data.Title = "Pedido confirmado"
		p.renderer.Page(w, r, "shop/done", data)
	default:
		grid, err := p.catalogGrid(ctx, st)
		if err != nil {
			slog.Error("render catalog failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		data.Data = bannerData(0, len(st.Banners))
		data.Data["Grid"] = grid
		p.renderer.Page(w, r, "shop/catalog", data)
	}
}

// catalogGrid returns the rendered product grid for the current display
// mode, from the fragment cache when possible. The grid holds nothing
// session specific, so one copy serves every visitor.
func (p *Public) catalogGrid(ctx context.Context, st models.ShopSettings) (template.HTML, error) {
	key := cache.CatalogKey(string(st.DisplayMode))
	if p.fragments != nil {
		if html, ok := p.fragments.Get(ctx, key); ok {
			return template.HTML(html), nil
		}
	}

	products, err := p.catalog.Products(ctx)
	if err != nil {
		return "", err
	}
	categories, err := p.catalog.Categories(ctx)
	if err != nil {
		return "", err
	}

	grid, err := p.renderer.Fragment("shop/catalog", "catalog_grid", &render.PageData{
		Shop: st,
		Data: map[string]any{
			"Mode":       string(st.DisplayMode),
			"Categories": categories,
			"Sections":   shop.Sections(st.DisplayMode, categories, products),
		},
	})
	if err != nil {
		return "", err
	}

	if p.fragments != nil {
		p.fragments.Set(ctx, key, []byte(grid))
	}
	return grid, nil
}

// save writes the session back. On failure it answers 500 and returns false.
func (p *Public) save(w http.ResponseWriter, r *http.Request, sess *session.Data) bool {
	if err := p.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session save failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return false
	}
	return true
}

func bannerData(i, n int) map[string]any {
	return map[string]any{
		"Banner":     i,
		"NextBanner": shop.NextBanner(i, n),
		"PrevBanner": shop.PrevBanner(i, n),
	}
}

// productID parses the {id} URL parameter, answering 400 when it is not
// a number.
func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
