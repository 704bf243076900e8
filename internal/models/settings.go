// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// DisplayMode selects how the storefront lays out the catalog.
type DisplayMode string

const (
	DisplayCards DisplayMode = "cards" // grouped cards per category
	DisplayTabs  DisplayMode = "abas"  // one tab per category
	DisplayList  DisplayMode = "lista" // compact list per category
)

// DisplayModes lists the valid modes in the order the settings form shows them.
var DisplayModes = []DisplayMode{DisplayCards, DisplayTabs, DisplayList}

// ParseDisplayMode returns the mode named by s, falling back to cards.
func ParseDisplayMode(s string) DisplayMode {
	for _, m := range DisplayModes {
		if string(m) == s {
			return m
		}
	}
	return DisplayCards
}

// Label returns the pt-BR label used by the settings form.
func (m DisplayMode) Label() string {
	switch m {
	case DisplayTabs:
		return "Abas por categoria"
	case DisplayList:
		return "Lista com título"
	default:
		return "Cards por categoria"
	}
}

// Defaults applied when a setting is missing or blank.
const (
	DefaultLogo           = "/images/logocliente.jpg"
	DefaultPrimaryColor   = "#2563eb"
	DefaultSecondaryColor = "#22c55e"

	// MaxBanners is how many banner slots the settings form offers.
	MaxBanners = 3
)

// ShopSettings is the shop-wide presentation configuration.
type ShopSettings struct {
	Logo           string
	Banners        []string
	PrimaryColor   string
	SecondaryColor string
	WhatsApp       string // digits only, without country code
	DisplayMode    DisplayMode
	Statuses       []string
}

// DefaultSettings returns the settings used before anything is saved.
func DefaultSettings() ShopSettings {
	return ShopSettings{
		Logo:           DefaultLogo,
		PrimaryColor:   DefaultPrimaryColor,
		SecondaryColor: DefaultSecondaryColor,
		DisplayMode:    DisplayCards,
		Statuses:       StatusesOrDefault(nil),
	}
}
