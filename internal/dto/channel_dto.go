package dto

import "time"

type CreateChannelReq struct {
	Name       string            `json:"name" binding:"required,max=128"`
	Provider   string            `json:"provider" binding:"required"`
	Config     map[string]string `json:"config" binding:"required"`
	FeeFixed   string            `json:"feeFixed"`
	FeePercent string            `json:"feePercent"`
	FeeCap     *string           `json:"feeCap"`

	OwnerID uint64 `json:"-"`
}

// UpdateChannelReq is a patch: nil fields are left untouched. Config
// keys merge into the existing config unless the provider changes, in
// which case the supplied config replaces it wholesale and is fully
// re-validated.
type UpdateChannelReq struct {
	Name       *string           `json:"name"`
	Provider   *string           `json:"provider"`
	Config     map[string]string `json:"config"`
	FeeFixed   *string           `json:"feeFixed"`
	FeePercent *string           `json:"feePercent"`
	FeeCap     *string           `json:"feeCap"`
	IsActive   *bool             `json:"isActive"`
	IsDefault  *bool             `json:"isDefault"`

	OwnerID uint64 `json:"-"`
}

type ChannelResp struct {
	ChannelID  uint64            `json:"channelId"`
	Name       string            `json:"name"`
	Provider   string            `json:"provider"`
	Config     map[string]string `json:"config,omitempty"`
	FeeFixed   string            `json:"feeFixed"`
	FeePercent string            `json:"feePercent"`
	FeeCap     *string           `json:"feeCap,omitempty"`
	IsActive   bool              `json:"isActive"`
	IsDefault  bool              `json:"isDefault"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// PublicChannelResp is safe for unauthenticated checkout clients:
// only the registry's public fields ever appear in Config.
type PublicChannelResp struct {
	ChannelID uint64            `json:"channelId"`
	Name      string            `json:"name"`
	Provider  string            `json:"provider"`
	Config    map[string]string `json:"config,omitempty"`
}
