package provider

import "pay-gateway-api/internal/config"

// RegisterDefaults wires the built-in adapters. Called once from main
// after config is loaded; base URLs are overridable for staging.
func RegisterDefaults() {
	Register(NewPaystack(config.C.Provider.PaystackBaseURL))
	Register(NewFlutterwave(config.C.Provider.FlutterwaveBaseURL))
	Register(NewSandbox())
}
