package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"pay-gateway-api/internal/model"
)

// InitializeRequest is the orchestrator's provider-neutral request.
// Amount is in merchant-currency major units; any minor-unit
// conversion a provider documents happens inside its adapter.
type InitializeRequest struct {
	Amount        decimal.Decimal
	Currency      string
	CustomerEmail string
	Reference     string
	CallbackURL   string
	Metadata      map[string]interface{}
}

type InitializeResult struct {
	AuthorizationURL string
	AccessCode       string
	Raw              string
}

// VerifyResult carries the provider's answer normalized to the three
// statuses the orchestrator understands. The vendor status vocabulary
// never leaves the adapter.
type VerifyResult struct {
	Status       model.Status // completed, pending or failed
	ProviderTxID string
	PayMethod    string
	Raw          string
}

// Adapter translates orchestrator requests into one provider's wire
// calls and normalizes its responses.
type Adapter interface {
	ID() string
	Initialize(ctx context.Context, cfg map[string]string, req InitializeRequest) (*InitializeResult, error)
	Verify(ctx context.Context, cfg map[string]string, reference string) (*VerifyResult, error)
}

// Error is a failed provider call. StatusCode is 0 when the call never
// reached the remote end.
type Error struct {
	Provider   string
	Op         string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s %s failed (status=%d): %s", e.Provider, e.Op, e.StatusCode, e.Message)
}

var (
	adapters = make(map[string]Adapter)
	mu       sync.RWMutex
)

// Register adds an adapter to the dispatch table, keyed by its id.
func Register(a Adapter) {
	mu.Lock()
	defer mu.Unlock()
	adapters[a.ID()] = a
}

// ForProvider resolves the adapter for a provider id.
func ForProvider(id string) (Adapter, bool) {
	mu.RLock()
	defer mu.RUnlock()
	a, ok := adapters[id]
	return a, ok
}
