package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ChannelStatusDisabled int8 = 0
	ChannelStatusActive   int8 = 1
)

// Channel binds an owner (merchant) to one payment provider, holding
// its credentials and fee schedule. Per owner at most one channel is
// default, and exactly one when any channel exists.
type Channel struct {
	ChannelID  uint64           `gorm:"column:channel_id;primaryKey;autoIncrement" json:"channelId"`
	OwnerID    uint64           `gorm:"column:owner_id;not null;index" json:"ownerId"`
	Name       string           `gorm:"column:name;size:128;not null" json:"name"`
	Provider   string           `gorm:"column:provider;size:32;not null" json:"provider"`
	ConfigJSON string           `gorm:"column:config_json;type:json" json:"-"`
	FeeFixed   decimal.Decimal  `gorm:"column:fee_fixed;type:decimal(18,2);default:0.00" json:"feeFixed"`
	FeePercent decimal.Decimal  `gorm:"column:fee_percent;type:decimal(6,2);default:0.00" json:"feePercent"`
	FeeCap     *decimal.Decimal `gorm:"column:fee_cap;type:decimal(18,2)" json:"feeCap,omitempty"`
	Status     int8             `gorm:"column:status;type:tinyint(1);default:1" json:"status"`
	IsDefault  bool             `gorm:"column:is_default;default:false" json:"isDefault"`
	CreatedAt  time.Time        `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt  time.Time        `gorm:"column:updated_at" json:"updatedAt"`
}

func (Channel) TableName() string { return "w_payment_channel" }

func (c *Channel) Active() bool { return c.Status == ChannelStatusActive }

// Config decodes the provider config blob. A missing blob yields an
// empty map so callers can treat it uniformly.
func (c *Channel) Config() (map[string]string, error) {
	cfg := map[string]string{}
	if c.ConfigJSON == "" {
		return cfg, nil
	}
	if err := json.Unmarshal([]byte(c.ConfigJSON), &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Channel) SetConfig(cfg map[string]string) error {
	b, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	c.ConfigJSON = string(b)
	return nil
}
