// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package shop

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"storefront/internal/models"
)

// countryCode is prepended to the shop's number in hand-off links.
const countryCode = "55"

// NormalizePhone keeps only the ASCII digits of s.
// Example: "(11) 99982-5998" → "11999825998"
func NormalizePhone(s string) string {
	return strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// OrderMessage builds the chat text a customer sends for order o.
func OrderMessage(o models.Order) string {
	lines := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, fmt.Sprintf("%dx %s", it.Quantity, it.Name))
	}
	return fmt.Sprintf("Olá, meu nome é %s!\n\nGostaria de pedir:\n%s\n\nTotal: R$ %s\n\nEndereço: %s",
		o.Customer, strings.Join(lines, "\n"), o.Total.StringFixed(2), o.Address)
}

// WhatsAppLink returns the wa.me link that opens a chat with the shop's
// number, prefilled with the order message.
func WhatsAppLink(shopPhone string, o models.Order) string {
	text := strings.ReplaceAll(url.QueryEscape(OrderMessage(o)), "+", "%20")
	return "https://wa.me/" + countryCode + NormalizePhone(shopPhone) + "?text=" + text
}
