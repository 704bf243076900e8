// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains HTTP handlers for the storefront and the shop
// owner's panel.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/render"
	"storefront/internal/session"
	"storefront/internal/shop"
	"storefront/internal/store"
)

// Admin groups the shop owner's panel handlers.
type Admin struct {
	renderer     *render.Renderer
	sessions     *session.Store
	catalog      *shop.Catalog
	settings     *shop.Settings
	viewer       *shop.Viewer
	orders       *store.OrderStore
	pollInterval time.Duration
}

// NewAdmin creates a new Admin handler group. pollInterval is how often
// the order screen refreshes itself.
func NewAdmin(
	renderer *render.Renderer,
	sessions *session.Store,
	catalog *shop.Catalog,
	settings *shop.Settings,
	viewer *shop.Viewer,
	orders *store.OrderStore,
	pollInterval time.Duration,
) *Admin {
	return &Admin{
		renderer:     renderer,
		sessions:     sessions,
		catalog:      catalog,
		settings:     settings,
		viewer:       viewer,
		orders:       orders,
		pollInterval: pollInterval,
	}
}

// Panel renders the landing page with links to each admin screen.
func (a *Admin) Panel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orders, err := a.orders.List(ctx)
	if err != nil {
		a.fail(w, "list orders", err)
		return
	}
	products, err := a.catalog.Products(ctx)
	if err != nil {
		a.fail(w, "list products", err)
		return
	}
	categories, err := a.catalog.Categories(ctx)
	if err != nil {
		a.fail(w, "list categories", err)
		return
	}

	a.page(w, r, "admin/panel", "Painel", "painel", map[string]any{
		"OrderCount":    len(orders),
		"Unread":        shop.CountUnread(orders),
		"ProductCount":  len(products),
		"CategoryCount": len(categories),
	}, nil)
}

// Dashboard renders revenue, per-product sales and stock.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orders, err := a.orders.List(ctx)
	if err != nil {
		a.fail(w, "list orders", err)
		return
	}
	products, err := a.catalog.Products(ctx)
	if err != nil {
		a.fail(w, "list products", err)
		return
	}

	a.page(w, r, "admin/dashboard", "Dashboard", "dashboard", map[string]any{
		"Summary": shop.Summarize(orders, products),
	}, nil)
}

// --- Orders ---

// Orders renders the order screen. The list inside it polls OrdersList.
func (a *Admin) Orders(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	page, ok := a.loadOrders(w, r, sess)
	if !ok {
		return
	}

	a.page(w, r, "admin/orders", "Pedidos", "pedidos", map[string]any{
		"Page":        page,
		"Query":       sess.Viewer.Query,
		"PollSeconds": max(1, int(a.pollInterval.Seconds())),
	}, nil)
}

// OrdersList renders only the order list. Requests from the filter form
// carry filtro=1 and replace the filters; the poll and the pagination
// buttons keep them and may change the page.
func (a *Admin) OrdersList(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	if r.FormValue("filtro") != "" {
		sess.Viewer.SetFilters(r.FormValue("nome"), r.FormValue("status"), r.FormValue("unread") != "")
	}
	if n, err := strconv.Atoi(r.FormValue("page")); err == nil {
		sess.Viewer.Query.Page = n
	}

	a.renderOrdersList(w, r, sess)
}

// OrderToggle expands or collapses an order, marking it read when opened.
func (a *Admin) OrderToggle(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	err := a.viewer.Toggle(r.Context(), &sess.Viewer, chi.URLParam(r, "id"))
	if errors.Is(err, shop.ErrOrderNotFound) {
		http.Error(w, "Pedido não encontrado", http.StatusNotFound)
		return
	}
	if err != nil {
		a.fail(w, "toggle order", err)
		return
	}
	a.renderOrdersList(w, r, sess)
}

// OrderStatus sets an order's status from the vocabulary.
func (a *Admin) OrderStatus(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	err := a.viewer.SetStatus(r.Context(), chi.URLParam(r, "id"), r.FormValue("status"))
	switch {
	case errors.Is(err, shop.ErrUnknownStatus):
		http.Error(w, "Status desconhecido", http.StatusBadRequest)
		return
	case errors.Is(err, shop.ErrOrderNotFound):
		http.Error(w, "Pedido não encontrado", http.StatusNotFound)
		return
	case err != nil:
		a.fail(w, "set order status", err)
		return
	}
	a.renderOrdersList(w, r, sess)
}

// Tone serves the new-order notification sound.
func (a *Admin) Tone(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(shop.ToneWAV())
}

func (a *Admin) renderOrdersList(w http.ResponseWriter, r *http.Request, sess *session.Data) {
	page, ok := a.loadOrders(w, r, sess)
	if !ok {
		return
	}
	a.renderer.Partial(w, r, "admin/orders", "orders_list", &render.PageData{
		Data: map[string]any{"Page": page},
	})
}

// loadOrders reads the current page of orders and saves the viewer state
// (page clamp, unread baseline) back to the session.
func (a *Admin) loadOrders(w http.ResponseWriter, r *http.Request, sess *session.Data) (shop.ViewerPage, bool) {
	page, err := a.viewer.Load(r.Context(), &sess.Viewer)
	if err != nil {
		a.fail(w, "load orders", err)
		return shop.ViewerPage{}, false
	}
	if !a.save(w, r, sess) {
		return shop.ViewerPage{}, false
	}
	return page, true
}

// --- Products and categories ---

// Products renders the product and category editor.
func (a *Admin) Products(w http.ResponseWriter, r *http.Request) {
	a.productsPage(w, r, shop.ProductInput{}, "", nil)
}

// ProductCreate adds a product with stock 1.
func (a *Admin) ProductCreate(w http.ResponseWriter, r *http.Request) {
	in := productForm(r)
	if msg := validateProduct(in); msg != "" {
		a.productsPage(w, r, in, msg, nil)
		return
	}

	p, err := a.catalog.AddProduct(r.Context(), in)
	if err != nil {
		a.productError(w, r, in, "add product", err)
		return
	}
	slog.Info("product created", "product_id", p.ID, "name", p.Name)
	a.productsDone(w, r, "Produto adicionado.")
}

// ProductUpdate edits a product's name, price, image and category.
func (a *Admin) ProductUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	in := productForm(r)
	if msg := validateProduct(in); msg != "" {
		a.productsPage(w, r, shop.ProductInput{}, msg, nil)
		return
	}

	if err := a.catalog.UpdateProduct(r.Context(), id, in); err != nil {
		a.productError(w, r, shop.ProductInput{}, "update product", err)
		return
	}
	a.productsDone(w, r, "Produto atualizado.")
}

// ProductStock moves a product's stock one unit up or down.
func (a *Admin) ProductStock(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	delta, err := strconv.Atoi(r.FormValue("delta"))
	if err != nil || (delta != 1 && delta != -1) {
		http.Error(w, "Invalid stock delta", http.StatusBadRequest)
		return
	}

	if _, err := a.catalog.AdjustStock(r.Context(), id, delta); err != nil {
		a.productError(w, r, shop.ProductInput{}, "adjust stock", err)
		return
	}
	a.productsDone(w, r, "")
}

// ProductDelete removes a product from the catalog.
func (a *Admin) ProductDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}
	if err := a.catalog.DeleteProduct(r.Context(), id); err != nil {
		a.fail(w, "delete product", err)
		return
	}
	slog.Info("product deleted", "product_id", id)
	a.productsDone(w, r, "Produto excluído.")
}

// CategoryAdd appends a category.
func (a *Admin) CategoryAdd(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("nome")
	if msg := validateCategory(name); msg != "" {
		a.productsPage(w, r, shop.ProductInput{}, msg, nil)
		return
	}
	if err := a.catalog.AddCategory(r.Context(), name); err != nil {
		a.productError(w, r, shop.ProductInput{}, "add category", err)
		return
	}
	a.productsDone(w, r, "Categoria adicionada.")
}

// CategoryRemove drops a category. Its products keep the old tag and stop
// showing on the storefront.
func (a *Admin) CategoryRemove(w http.ResponseWriter, r *http.Request) {
	if err := a.catalog.RemoveCategory(r.Context(), r.FormValue("nome")); err != nil {
		a.fail(w, "remove category", err)
		return
	}
	a.productsDone(w, r, "Categoria removida.")
}

func (a *Admin) productsPage(w http.ResponseWriter, r *http.Request, form shop.ProductInput, errMsg string, flashes []render.Flash) {
	ctx := r.Context()
	products, err := a.catalog.Products(ctx)
	if err != nil {
		a.fail(w, "list products", err)
		return
	}
	categories, err := a.catalog.Categories(ctx)
	if err != nil {
		a.fail(w, "list categories", err)
		return
	}

	data := map[string]any{
		"Form":       form,
		"Products":   products,
		"Categories": categories,
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	a.page(w, r, "admin/products", "Produtos", "produtos", data, flashes)
}

// productError shows a domain error on the products page, keeping the
// submitted form. Anything else is a 500.
func (a *Admin) productError(w http.ResponseWriter, r *http.Request, form shop.ProductInput, op string, err error) {
	if errors.Is(err, shop.ErrProductNotFound) {
		http.Error(w, "Produto não encontrado", http.StatusNotFound)
		return
	}
	if msg, ok := shop.UserMessage(err); ok {
		a.productsPage(w, r, form, msg, nil)
		return
	}
	a.fail(w, op, err)
}

// productsDone re-renders the editor for HTMX or redirects back to it.
func (a *Admin) productsDone(w http.ResponseWriter, r *http.Request, msg string) {
	if !render.IsHTMX(r) {
		http.Redirect(w, r, "/lojista/produtos", http.StatusSeeOther)
		return
	}
	var flashes []render.Flash
	if msg != "" {
		flashes = []render.Flash{{Type: "success", Message: msg}}
	}
	a.productsPage(w, r, shop.ProductInput{}, "", flashes)
}

func productForm(r *http.Request) shop.ProductInput {
	return shop.ProductInput{
		Name:     r.FormValue("name"),
		Price:    r.FormValue("price"),
		Image:    r.FormValue("image"),
		Category: r.FormValue("categoria"),
	}
}

// --- Settings ---

// Settings renders the settings form. Opening it discards any unsaved
// status edits.
func (a *Admin) Settings(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	st, err := a.settings.Load(r.Context())
	if err != nil {
		a.fail(w, "load settings", err)
		return
	}
	sess.StatusDraft = slices.Clone(st.Statuses)
	if !a.save(w, r, sess) {
		return
	}
	a.settingsPage(w, r, st, sess.StatusDraft, "", nil)
}

// SettingsSave stores the form together with the drafted status list.
func (a *Admin) SettingsSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	statuses, ok := a.statusDraft(w, r, sess)
	if !ok {
		return
	}
	in := models.ShopSettings{
		Logo:           r.FormValue("logo"),
		Banners:        r.Form["banner"],
		PrimaryColor:   r.FormValue("cor_primaria"),
		SecondaryColor: r.FormValue("cor_secundaria"),
		WhatsApp:       r.FormValue("whatsapp"),
		DisplayMode:    models.ParseDisplayMode(r.FormValue("modo")),
		Statuses:       statuses,
	}
	if msg := validateSettings(in); msg != "" {
		a.settingsPage(w, r, in, statuses, msg, nil)
		return
	}

	saved, err := a.settings.Save(ctx, in)
	if err != nil {
		a.fail(w, "save settings", err)
		return
	}
	sess.StatusDraft = slices.Clone(saved.Statuses)
	if !a.save(w, r, sess) {
		return
	}
	slog.Info("settings saved", "display_mode", saved.DisplayMode, "statuses", len(saved.Statuses))

	if !render.IsHTMX(r) {
		http.Redirect(w, r, "/lojista/config", http.StatusSeeOther)
		return
	}
	a.settingsPage(w, r, saved, sess.StatusDraft, "", []render.Flash{{Type: "success", Message: "Configurações salvas."}})
}

// StatusAdd appends a status to the draft list.
func (a *Admin) StatusAdd(w http.ResponseWriter, r *http.Request) {
	a.editStatuses(w, r, func(list []string) ([]string, error) {
		status := r.FormValue("status")
		if msg := validateStatus(status); msg != "" {
			return list, errors.New(msg)
		}
		return shop.AddStatus(list, status)
	})
}

// StatusMove swaps a drafted status with its neighbour.
func (a *Admin) StatusMove(w http.ResponseWriter, r *http.Request) {
	i, ok := statusIndex(w, r)
	if !ok {
		return
	}
	dir, err := strconv.Atoi(r.FormValue("dir"))
	if err != nil || (dir != 1 && dir != -1) {
		http.Error(w, "Invalid direction", http.StatusBadRequest)
		return
	}
	a.editStatuses(w, r, func(list []string) ([]string, error) {
		return shop.MoveStatus(list, i, dir), nil
	})
}

// StatusRemove drops a drafted status.
func (a *Admin) StatusRemove(w http.ResponseWriter, r *http.Request) {
	i, ok := statusIndex(w, r)
	if !ok {
		return
	}
	a.editStatuses(w, r, func(list []string) ([]string, error) {
		return shop.RemoveStatus(list, i), nil
	})
}

// editStatuses applies edit to the session's status draft and re-renders
// the status editor. An error keeps the draft and is shown in the editor.
func (a *Admin) editStatuses(w http.ResponseWriter, r *http.Request, edit func([]string) ([]string, error)) {
	sess := middleware.SessionFromCtx(r.Context())
	draft, ok := a.statusDraft(w, r, sess)
	if !ok {
		return
	}

	var statusErr string
	next, err := edit(slices.Clone(draft))
	if err != nil {
		if msg, ok := shop.UserMessage(err); ok {
			statusErr = msg
		} else {
			statusErr = err.Error()
		}
		next = draft
	}
	sess.StatusDraft = next
	if !a.save(w, r, sess) {
		return
	}

	if !render.IsHTMX(r) {
		http.Redirect(w, r, "/lojista/config", http.StatusSeeOther)
		return
	}
	data := map[string]any{"Statuses": next}
	if statusErr != "" {
		data["StatusError"] = statusErr
	}
	a.renderer.Partial(w, r, "admin/settings", "status_editor", &render.PageData{Data: data})
}

// statusDraft returns the session's draft, starting one from the saved
// list when none is in progress.
func (a *Admin) statusDraft(w http.ResponseWriter, r *http.Request, sess *session.Data) ([]string, bool) {
	if sess.StatusDraft != nil {
		return sess.StatusDraft, true
	}
	st, err := a.settings.Load(r.Context())
	if err != nil {
		a.fail(w, "load settings", err)
		return nil, false
	}
	return slices.Clone(st.Statuses), true
}

func (a *Admin) settingsPage(w http.ResponseWriter, r *http.Request, st models.ShopSettings, statuses []string, errMsg string, flashes []render.Flash) {
	slots := make([]string, models.MaxBanners)
	copy(slots, st.Banners)

	data := map[string]any{
		"Settings":    st,
		"BannerSlots": slots,
		"Modes":       models.DisplayModes,
		"Statuses":    statuses,
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	a.page(w, r, "admin/settings", "Configurações", "config", data, flashes)
}

func statusIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || i < 0 {
		http.Error(w, "Invalid status index", http.StatusBadRequest)
		return 0, false
	}
	return i, true
}

// --- Shared ---

// page renders an admin page with the shop's colors in the layout.
func (a *Admin) page(w http.ResponseWriter, r *http.Request, name, title, section string, data map[string]any, flashes []render.Flash) {
	st, err := a.settings.Load(r.Context())
	if err != nil {
		a.fail(w, "load settings", err)
		return
	}
	a.renderer.Page(w, r, name, &render.PageData{
		Title:   title,
		Section: section,
		Shop:    st,
		Data:    data,
		Flashes: flashes,
	})
}

func (a *Admin) save(w http.ResponseWriter, r *http.Request, sess *session.Data) bool {
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		a.fail(w, "save session", err)
		return false
	}
	return true
}

func (a *Admin) fail(w http.ResponseWriter, op string, err error) {
	slog.Error(op+" failed", "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
