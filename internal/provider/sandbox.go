package provider

import (
	"context"
	"fmt"

	"pay-gateway-api/internal/model"
)

// Sandbox backs the "test" provider. No network calls; every
// initialized transaction verifies as completed. Useful for merchant
// integration testing before real credentials exist.
type Sandbox struct{}

func NewSandbox() *Sandbox { return &Sandbox{} }

func (s *Sandbox) ID() string { return "test" }

func (s *Sandbox) Initialize(ctx context.Context, cfg map[string]string, req InitializeRequest) (*InitializeResult, error) {
	if cfg["api_key"] == "" {
		return nil, &Error{Provider: s.ID(), Op: "initialize", Message: "missing api_key"}
	}
	if err := ctx.Err(); err != nil {
		return nil, &Error{Provider: s.ID(), Op: "initialize", Message: err.Error()}
	}
	return &InitializeResult{
		AuthorizationURL: "https://checkout.test.local/pay/" + req.Reference,
		AccessCode:       "test_" + req.Reference,
		Raw:              fmt.Sprintf(`{"reference":%q,"amount":%q}`, req.Reference, req.Amount.String()),
	}, nil
}

func (s *Sandbox) Verify(ctx context.Context, cfg map[string]string, reference string) (*VerifyResult, error) {
	if cfg["api_key"] == "" {
		return nil, &Error{Provider: s.ID(), Op: "verify", Message: "missing api_key"}
	}
	if err := ctx.Err(); err != nil {
		return nil, &Error{Provider: s.ID(), Op: "verify", Message: err.Error()}
	}
	return &VerifyResult{
		Status:       model.StatusCompleted,
		ProviderTxID: "test_" + reference,
		PayMethod:    "test",
		Raw:          fmt.Sprintf(`{"reference":%q,"status":"success"}`, reference),
	}, nil
}
