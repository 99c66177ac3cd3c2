package dto

import "time"

// InitializeReq is a merchant's request to start a payment. Amount is
// a decimal string in major currency units.
type InitializeReq struct {
	ChannelID     uint64                 `json:"channelId" binding:"required"`
	Amount        string                 `json:"amount" binding:"required"`
	Currency      string                 `json:"currency" binding:"required,len=3"`
	CustomerEmail string                 `json:"customerEmail" binding:"required,email"`
	CallbackURL   string                 `json:"callbackUrl" binding:"omitempty,url"`
	NotifyURL     string                 `json:"notifyUrl" binding:"omitempty,url"`
	Description   string                 `json:"description"`
	Metadata      map[string]interface{} `json:"metadata"`

	// OwnerID comes from the auth middleware, never from the body.
	OwnerID uint64 `json:"-"`
}

type InitializeResp struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorizationUrl"`
	AccessCode       string `json:"accessCode,omitempty"`
	Status           string `json:"status"`
	Amount           string `json:"amount"`
	Fee              string `json:"fee"`
	Currency         string `json:"currency"`
	TraceID          string `json:"traceId,omitempty"`
}

type TransactionResp struct {
	Reference     string    `json:"reference"`
	ChannelID     uint64    `json:"channelId"`
	CustomerEmail string    `json:"customerEmail"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	Fee           string    `json:"fee"`
	Status        string    `json:"status"`
	PayMethod     string    `json:"payMethod,omitempty"`
	ProviderRef   string    `json:"providerRef,omitempty"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type TransactionLogResp struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type FeePreviewReq struct {
	ChannelID uint64 `json:"channelId" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
}

type FeePreviewResp struct {
	Amount string `json:"amount"`
	Fee    string `json:"fee"`
	Total  string `json:"total"`
}

// TransactionEvent is the MQ payload for created/verified events.
type TransactionEvent struct {
	TxID      uint64 `json:"txId"`
	Reference string `json:"reference"`
	OwnerID   uint64 `json:"ownerId"`
	ChannelID uint64 `json:"channelId"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	NotifyURL string `json:"notifyUrl,omitempty"`
	Ts        int64  `json:"ts"`
	// RetryCount tracks notify republish attempts, not provider calls.
	RetryCount int `json:"retryCount,omitempty"`
}
