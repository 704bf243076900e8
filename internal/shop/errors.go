// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package shop holds the storefront's domain logic: catalog management,
// the checkout flow, the order viewer, settings editing and the dashboard
// summary. Handlers call into it; it persists through the store package.
package shop

import "errors"

var (
	ErrOutOfStock        = errors.New("product out of stock")
	ErrMissingCustomer   = errors.New("customer name and address are required")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidStep       = errors.New("invalid checkout step")
	ErrDuplicateStatus   = errors.New("status already exists")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrMissingFields     = errors.New("required fields missing")
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrInvalidPrice      = errors.New("invalid price")
)

var userMessages = map[error]string{
	ErrOutOfStock:        "Produto esgotado.",
	ErrMissingCustomer:   "Preencha nome e endereço.",
	ErrEmptyCart:         "Seu carrinho está vazio.",
	ErrInvalidStep:       "Etapa inválida.",
	ErrDuplicateStatus:   "Esse status já existe.",
	ErrDuplicateCategory: "Categoria já existe.",
	ErrMissingFields:     "Preencha todos os campos.",
	ErrProductNotFound:   "Produto não encontrado.",
	ErrOrderNotFound:     "Pedido não encontrado.",
	ErrUnknownStatus:     "Status desconhecido.",
	ErrInvalidPrice:      "Preço inválido.",
}

// UserMessage returns the pt-BR text shown for a domain error, and false
// when err is not one of this package's sentinels.
func UserMessage(err error) (string, bool) {
	for sentinel, msg := range userMessages {
		if errors.Is(err, sentinel) {
			return msg, true
		}
	}
	return "", false
}
