package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns the configured validator. The builtin eth_addr rule covers
// the wallet-address format; nothing custom is registered beyond it.
func New() *validatorv10.Validate {
	return validatorv10.New()
}
