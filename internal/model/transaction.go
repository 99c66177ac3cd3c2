package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the local transaction lifecycle. pending is initial; the
// other four are terminal. refunded and cancelled are reachable only
// through external operator events, never by Verify.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further Verify driven transition applies.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusRefunded, StatusCancelled:
		return true
	}
	return false
}

// Transaction is the locally authoritative record of one payment.
// Amount and Fee are merchant-currency major units; minor-unit
// conversion never leaves the provider adapters. Rows are never
// deleted.
type Transaction struct {
	TxID          uint64          `gorm:"column:tx_id;primaryKey" json:"txId"`
	Reference     string          `gorm:"column:reference;size:64;uniqueIndex;not null" json:"reference"`
	OwnerID       uint64          `gorm:"column:owner_id;not null;index" json:"ownerId"`
	ChannelID     uint64          `gorm:"column:channel_id;not null;index" json:"channelId"`
	CustomerEmail string          `gorm:"column:customer_email;size:255" json:"customerEmail"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Currency      string          `gorm:"column:currency;size:8;not null" json:"currency"`
	Fee           decimal.Decimal `gorm:"column:fee;type:decimal(18,2);default:0.00" json:"fee"`
	Status        Status          `gorm:"column:status;size:16;not null;index" json:"status"`
	PayMethod     *string         `gorm:"column:pay_method;size:32" json:"payMethod,omitempty"`
	ProviderRef   *string         `gorm:"column:provider_ref;size:128" json:"providerRef,omitempty"`
	Description   string          `gorm:"column:description;size:255" json:"description"`
	NotifyURL     string          `gorm:"column:notify_url;size:512" json:"notifyUrl"`
	MetadataJSON  string          `gorm:"column:metadata_json;type:json" json:"-"`
	RawResponse   string          `gorm:"column:raw_response;type:text" json:"-"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"column:updated_at" json:"updatedAt"`
}

func (Transaction) TableName() string { return "p_transaction" }
