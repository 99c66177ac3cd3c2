package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"pay-gateway-api/internal/model"
)

// Flutterwave adapter. Flutterwave takes major-unit amounts, so no
// scaling happens here.
type Flutterwave struct {
	BaseURL string
}

func NewFlutterwave(baseURL string) *Flutterwave {
	if baseURL == "" {
		baseURL = "https://api.flutterwave.com"
	}
	return &Flutterwave{BaseURL: baseURL}
}

func (f *Flutterwave) ID() string { return "flutterwave" }

func (f *Flutterwave) headers(cfg map[string]string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + cfg["secret_key"]}
}

type flutterwaveEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (f *Flutterwave) Initialize(ctx context.Context, cfg map[string]string, req InitializeRequest) (*InitializeResult, error) {
	body := map[string]interface{}{
		"tx_ref":   req.Reference,
		"amount":   req.Amount.String(),
		"currency": req.Currency,
		"customer": map[string]string{"email": req.CustomerEmail},
	}
	if req.CallbackURL != "" {
		body["redirect_url"] = req.CallbackURL
	}
	if len(req.Metadata) > 0 {
		body["meta"] = req.Metadata
	}

	resp, err := doJSON(ctx, f.ID(), http.MethodPost, f.BaseURL+"/v3/payments", f.headers(cfg), body)
	if err != nil {
		return nil, f.wireError("initialize", err)
	}

	var env flutterwaveEnvelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, &Error{Provider: f.ID(), Op: "initialize", StatusCode: resp.StatusCode, Message: "response decode failed"}
	}
	if resp.StatusCode != http.StatusOK || env.Status != "success" {
		return nil, &Error{Provider: f.ID(), Op: "initialize", StatusCode: resp.StatusCode, Message: env.Message}
	}
	var data struct {
		Link string `json:"link"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Link == "" {
		return nil, &Error{Provider: f.ID(), Op: "initialize", StatusCode: resp.StatusCode, Message: "missing payment link"}
	}
	return &InitializeResult{AuthorizationURL: data.Link, Raw: string(resp.Body)}, nil
}

func (f *Flutterwave) Verify(ctx context.Context, cfg map[string]string, reference string) (*VerifyResult, error) {
	endpoint := f.BaseURL + "/v3/transactions/verify_by_reference?tx_ref=" + url.QueryEscape(reference)
	resp, err := doJSON(ctx, f.ID(), http.MethodGet, endpoint, f.headers(cfg), nil)
	if err != nil {
		return nil, f.wireError("verify", err)
	}

	var env flutterwaveEnvelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, &Error{Provider: f.ID(), Op: "verify", StatusCode: resp.StatusCode, Message: "response decode failed"}
	}
	if resp.StatusCode != http.StatusOK || env.Status != "success" {
		return nil, &Error{Provider: f.ID(), Op: "verify", StatusCode: resp.StatusCode, Message: env.Message}
	}
	var data struct {
		ID          int64  `json:"id"`
		Status      string `json:"status"`
		PaymentType string `json:"payment_type"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, &Error{Provider: f.ID(), Op: "verify", StatusCode: resp.StatusCode, Message: "response decode failed"}
	}
	return &VerifyResult{
		Status:       mapFlutterwaveStatus(data.Status),
		ProviderTxID: strconv.FormatInt(data.ID, 10),
		PayMethod:    data.PaymentType,
		Raw:          string(resp.Body),
	}, nil
}

func mapFlutterwaveStatus(s string) model.Status {
	switch s {
	case "successful":
		return model.StatusCompleted
	case "failed":
		return model.StatusFailed
	default:
		return model.StatusPending
	}
}

func (f *Flutterwave) wireError(op string, err error) error {
	if errors.Is(err, ErrBreakerOpen) {
		return ErrBreakerOpen
	}
	return &Error{Provider: f.ID(), Op: op, Message: err.Error()}
}
