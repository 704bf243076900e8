// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package shop

import (
	"context"
	"slices"
	"strings"

	"storefront/internal/models"
	"storefront/internal/store"
)

// PageSize is the number of orders per viewer page.
const PageSize = 10

// Query is the viewer's filter and page selection.
type Query struct {
	Page       int    `json:"page"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	UnreadOnly bool   `json:"unreadOnly"`
}

// ViewerState is what one admin session remembers between requests.
type ViewerState struct {
	Query Query `json:"query"`
	// Open holds the ids of orders whose detail panel is expanded.
	Open map[string]bool `json:"open,omitempty"`
	// PrevUnread is the unread count seen on the last load; a rise above
	// it triggers the notification tone.
	PrevUnread int `json:"prevUnread"`
}

// SetFilters replaces the filters and goes back to page 1 if any changed.
func (s *ViewerState) SetFilters(name, status string, unreadOnly bool) {
	q := &s.Query
	if q.Name != name || q.Status != status || q.UnreadOnly != unreadOnly {
		q.Page = 1
	}
	q.Name, q.Status, q.UnreadOnly = name, status, unreadOnly
}

// ViewerPage is one rendered page of the order log.
type ViewerPage struct {
	Orders     []models.Order
	Page       int
	TotalPages int
	Matched    int
	Unread     int
	Notify     bool
	Statuses   []string
	Open       map[string]bool
}

// StatusOf is the status shown for o: its own, or the first entry of the
// vocabulary for orders saved without one.
func (p ViewerPage) StatusOf(o models.Order) string {
	if len(p.Statuses) == 0 {
		return o.StatusOr(models.DefaultOrderStatus)
	}
	return o.StatusOr(p.Statuses[0])
}

func (p ViewerPage) HasPrev() bool { return p.Page > 1 }
func (p ViewerPage) HasNext() bool { return p.Page < p.TotalPages }

// SortOrders returns a copy of orders, newest first. Orders with equal or
// missing timestamps keep their relative order.
func SortOrders(orders []models.Order) []models.Order {
	sorted := slices.Clone(orders)
	slices.SortStableFunc(sorted, func(a, b models.Order) int {
		return b.SortTime().Compare(a.SortTime())
	})
	return sorted
}

// FilterOrders applies the name, status and unread filters in that order.
// Unset filters pass everything through.
func FilterOrders(orders []models.Order, q Query) []models.Order {
	out := orders
	if strings.TrimSpace(q.Name) != "" {
		needle := strings.ToLower(q.Name)
		out = slices.DeleteFunc(slices.Clone(out), func(o models.Order) bool {
			return !strings.Contains(strings.ToLower(o.Customer), needle)
		})
	}
	if q.Status != "" {
		out = slices.DeleteFunc(slices.Clone(out), func(o models.Order) bool {
			return o.Status != q.Status
		})
	}
	if q.UnreadOnly {
		out = slices.DeleteFunc(slices.Clone(out), func(o models.Order) bool {
			return !o.Unread
		})
	}
	return out
}

// TotalPages returns max(1, ceil(n / PageSize)).
func TotalPages(n int) int {
	return max(1, (n+PageSize-1)/PageSize)
}

// Paginate clamps page to the valid range and returns that page's slice.
func Paginate(orders []models.Order, page int) ([]models.Order, int) {
	total := TotalPages(len(orders))
	page = min(max(page, 1), total)
	start := (page - 1) * PageSize
	end := min(start+PageSize, len(orders))
	return orders[start:end], page
}

// CountUnread returns how many orders are unread.
func CountUnread(orders []models.Order) int {
	n := 0
	for _, o := range orders {
		if o.Unread {
			n++
		}
	}
	return n
}

// Viewer reads and updates the order log for the admin order screen.
type Viewer struct {
	orders   *store.OrderStore
	settings *store.SettingsStore
}

// NewViewer creates a Viewer.
func NewViewer(orders *store.OrderStore, settings *store.SettingsStore) *Viewer {
	return &Viewer{orders: orders, settings: settings}
}

// Load re-reads the log and renders the page selected by st. It sets
// Notify when the unread count rose since the previous load, then moves
// the baseline to the current count.
func (v *Viewer) Load(ctx context.Context, st *ViewerState) (ViewerPage, error) {
	all, err := v.orders.List(ctx)
	if err != nil {
		return ViewerPage{}, err
	}
	statuses, err := v.settings.Statuses(ctx)
	if err != nil {
		return ViewerPage{}, err
	}

	all = SortOrders(all)
	unread := CountUnread(all)
	notify := unread > st.PrevUnread
	st.PrevUnread = unread

	matched := FilterOrders(all, st.Query)
	items, page := Paginate(matched, st.Query.Page)
	st.Query.Page = page

	return ViewerPage{
		Orders:     items,
		Page:       page,
		TotalPages: TotalPages(len(matched)),
		Matched:    len(matched),
		Unread:     unread,
		Notify:     notify,
		Statuses:   statuses,
		Open:       st.Open,
	}, nil
}

// Toggle flips the detail panel of order id. Opening an unread order marks
// it read and persists the log; the baseline follows so the change does
// not count as a new arrival.
func (v *Viewer) Toggle(ctx context.Context, st *ViewerState, id string) error {
	all, err := v.orders.List(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(all, func(o models.Order) bool { return o.ID == id })
	if i < 0 {
		return ErrOrderNotFound
	}

	if st.Open == nil {
		st.Open = make(map[string]bool)
	}
	if st.Open[id] {
		delete(st.Open, id)
	} else {
		st.Open[id] = true
	}

	if !all[i].Unread {
		return nil
	}
	all[i].Unread = false
	if err := v.orders.Save(ctx, all); err != nil {
		return err
	}
	st.PrevUnread = CountUnread(all)
	return nil
}

// SetStatus stores status on order id. The status must be in the current
// vocabulary.
func (v *Viewer) SetStatus(ctx context.Context, id, status string) error {
	statuses, err := v.settings.Statuses(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(statuses, status) {
		return ErrUnknownStatus
	}

	all, err := v.orders.List(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(all, func(o models.Order) bool { return o.ID == id })
	if i < 0 {
		return ErrOrderNotFound
	}
	all[i].Status = status
	return v.orders.Save(ctx, all)
}
