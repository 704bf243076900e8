package handlers

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"storefront/internal/models"
	"storefront/internal/shop"
)

// Validation limits for customer, catalog and settings fields.
const (
	maxCustomerNameLen = 120
	maxAddressLen      = 500
	maxProductNameLen  = 120
	maxPriceLen        = 20
	maxImageLen        = 500
	maxCategoryLen     = 60
	maxStatusLen       = 40
	maxURLLen          = 500
	maxPhoneLen        = 30
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// validateCustomer checks the checkout form. Blank fields are left to the
// checkout itself so the message matches the domain error.
func validateCustomer(name, address string) string {
	if utf8.RuneCountInString(strings.TrimSpace(name)) > maxCustomerNameLen {
		return "Nome muito longo (máximo 120 caracteres)."
	}
	if utf8.RuneCountInString(strings.TrimSpace(address)) > maxAddressLen {
		return "Endereço muito longo (máximo 500 caracteres)."
	}
	return ""
}

// validateProduct checks product form inputs and returns the first error found.
func validateProduct(in shop.ProductInput) string {
	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) > maxProductNameLen {
		return "Nome do produto muito longo (máximo 120 caracteres)."
	}
	if utf8.RuneCountInString(in.Price) > maxPriceLen {
		return "Preço inválido."
	}
	if utf8.RuneCountInString(in.Image) > maxImageLen {
		return "Nome da imagem muito longo (máximo 500 caracteres)."
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Category)) > maxCategoryLen {
		return "Categoria muito longa (máximo 60 caracteres)."
	}
	return ""
}

func validateCategory(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Informe o nome da categoria."
	}
	if utf8.RuneCountInString(name) > maxCategoryLen {
		return "Categoria muito longa (máximo 60 caracteres)."
	}
	return ""
}

func validateStatus(status string) string {
	if utf8.RuneCountInString(strings.TrimSpace(status)) > maxStatusLen {
		return "Status muito longo (máximo 40 caracteres)."
	}
	return ""
}

// validateSettings checks the settings form. Blank values are allowed;
// saving replaces them with defaults.
func validateSettings(st models.ShopSettings) string {
	if utf8.RuneCountInString(st.Logo) > maxURLLen {
		return "Endereço do logo muito longo (máximo 500 caracteres)."
	}
	for _, b := range st.Banners {
		if utf8.RuneCountInString(b) > maxURLLen {
			return "Endereço do banner muito longo (máximo 500 caracteres)."
		}
	}
	for _, c := range []string{st.PrimaryColor, st.SecondaryColor} {
		if c != "" && !hexColor.MatchString(c) {
			return "Cor inválida (use o formato #rrggbb)."
		}
	}
	if utf8.RuneCountInString(st.WhatsApp) > maxPhoneLen {
		return "Número de WhatsApp muito longo."
	}
	return ""
}
