package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"pay-gateway-api/internal/model"
)

var minorUnitFactor = decimal.NewFromInt(100)

// Paystack adapter. Paystack takes amounts in the currency's minor
// unit (kobo for NGN), so the major-unit amount is scaled here and
// nowhere else.
type Paystack struct {
	BaseURL string
}

func NewPaystack(baseURL string) *Paystack {
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	return &Paystack{BaseURL: baseURL}
}

func (p *Paystack) ID() string { return "paystack" }

func (p *Paystack) headers(cfg map[string]string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + cfg["secret_key"]}
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (p *Paystack) Initialize(ctx context.Context, cfg map[string]string, req InitializeRequest) (*InitializeResult, error) {
	body := map[string]interface{}{
		"email":     req.CustomerEmail,
		"amount":    req.Amount.Mul(minorUnitFactor).IntPart(),
		"currency":  req.Currency,
		"reference": req.Reference,
	}
	if req.CallbackURL != "" {
		body["callback_url"] = req.CallbackURL
	}
	if len(req.Metadata) > 0 {
		body["metadata"] = req.Metadata
	}

	resp, err := doJSON(ctx, p.ID(), http.MethodPost, p.BaseURL+"/transaction/initialize", p.headers(cfg), body)
	if err != nil {
		return nil, p.wireError("initialize", err)
	}

	var env paystackEnvelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, &Error{Provider: p.ID(), Op: "initialize", StatusCode: resp.StatusCode, Message: "response decode failed"}
	}
	if resp.StatusCode != http.StatusOK || !env.Status {
		return nil, &Error{Provider: p.ID(), Op: "initialize", StatusCode: resp.StatusCode, Message: env.Message}
	}
	var data struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.AuthorizationURL == "" {
		return nil, &Error{Provider: p.ID(), Op: "initialize", StatusCode: resp.StatusCode, Message: "missing authorization url"}
	}
	return &InitializeResult{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Raw:              string(resp.Body),
	}, nil
}

func (p *Paystack) Verify(ctx context.Context, cfg map[string]string, reference string) (*VerifyResult, error) {
	resp, err := doJSON(ctx, p.ID(), http.MethodGet, p.BaseURL+"/transaction/verify/"+reference, p.headers(cfg), nil)
	if err != nil {
		return nil, p.wireError("verify", err)
	}

	var env paystackEnvelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, &Error{Provider: p.ID(), Op: "verify", StatusCode: resp.StatusCode, Message: "response decode failed"}
	}
	if resp.StatusCode != http.StatusOK || !env.Status {
		return nil, &Error{Provider: p.ID(), Op: "verify", StatusCode: resp.StatusCode, Message: env.Message}
	}
	var data struct {
		ID      int64  `json:"id"`
		Status  string `json:"status"`
		Channel string `json:"channel"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, &Error{Provider: p.ID(), Op: "verify", StatusCode: resp.StatusCode, Message: "response decode failed"}
	}
	return &VerifyResult{
		Status:       mapPaystackStatus(data.Status),
		ProviderTxID: strconv.FormatInt(data.ID, 10),
		PayMethod:    data.Channel,
		Raw:          string(resp.Body),
	}, nil
}

// mapPaystackStatus owns the Paystack status vocabulary. Anything not
// explicitly terminal stays pending.
func mapPaystackStatus(s string) model.Status {
	switch s {
	case "success":
		return model.StatusCompleted
	case "failed", "reversed":
		return model.StatusFailed
	default: // abandoned, ongoing, queued, pending...
		return model.StatusPending
	}
}

func (p *Paystack) wireError(op string, err error) error {
	if errors.Is(err, ErrBreakerOpen) {
		return ErrBreakerOpen
	}
	return &Error{Provider: p.ID(), Op: op, Message: err.Error()}
}
