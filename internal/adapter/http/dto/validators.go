package dto

import (
	"net/url"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Ledger account and contract addresses are base32 strkeys: an uppercase
// type prefix followed by alphanumerics, 56 characters total.
var ledgerAddressRe = regexp.MustCompile(`^[A-Z][A-Z2-7]{55}$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("ledger_address", validateLedgerAddress)
		_ = v.RegisterValidation("safe_url", validateSafeURL)
	}
}

func validateLedgerAddress(fl validator.FieldLevel) bool {
	return ledgerAddressRe.MatchString(fl.Field().String())
}

// validateSafeURL accepts only http/https URLs.
func validateSafeURL(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true // optional field; use "required" tag to enforce presence
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
