package registry

import (
	"sort"
	"strings"

	"pay-gateway-api/internal/constant"
)

// Descriptor describes one supported provider: which config fields a
// channel must carry, which are optional, and which are safe to expose
// to unauthenticated checkout clients.
type Descriptor struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	Required    []string `json:"required"`
	Optional    []string `json:"optional,omitempty"`
	Public      []string `json:"public,omitempty"`
}

// catalog is the static capability catalog. Adding a provider means
// one entry here plus one adapter registration; the orchestrator is
// never touched.
var catalog = map[string]Descriptor{
	"paystack": {
		ID:          "paystack",
		DisplayName: "Paystack",
		Required:    []string{"public_key", "secret_key"},
		Public:      []string{"public_key"},
	},
	"flutterwave": {
		ID:          "flutterwave",
		DisplayName: "Flutterwave",
		Required:    []string{"public_key", "secret_key"},
		Optional:    []string{"encryption_key"},
		Public:      []string{"public_key"},
	},
	"test": {
		ID:          "test",
		DisplayName: "Test Provider",
		Required:    []string{"api_key"},
	},
}

// ListProviders returns all descriptors sorted by id.
func ListProviders() []Descriptor {
	out := make([]Descriptor, 0, len(catalog))
	for _, d := range catalog {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Requirements returns the descriptor for a provider id.
func Requirements(providerID string) (Descriptor, bool) {
	d, ok := catalog[providerID]
	return d, ok
}

// Validate checks cfg against the provider's required field list.
// Every required field must be present and non-empty. Unknown fields
// are permitted and ignored. All missing fields are reported at once.
func Validate(providerID string, cfg map[string]string) error {
	d, ok := catalog[providerID]
	if !ok {
		return constant.NewError(constant.CodeUnsupportedProvider)
	}
	var missing []string
	for _, field := range d.Required {
		if strings.TrimSpace(cfg[field]) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return constant.NewError(constant.CodeMissingConfigFields).WithData(missing)
	}
	return nil
}

// PublicFields returns the provider's public-safe config field names.
// The public set is registry metadata, never inferred from key names.
func PublicFields(providerID string) []string {
	d, ok := catalog[providerID]
	if !ok {
		return nil
	}
	return d.Public
}
