package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"pay-gateway-api/internal/cache"
	"pay-gateway-api/internal/constant"
	"pay-gateway-api/internal/dao"
	"pay-gateway-api/internal/dto"
	"pay-gateway-api/internal/logger"
	"pay-gateway-api/internal/model"
	"pay-gateway-api/internal/registry"
	"pay-gateway-api/internal/store"
)

// ChannelService owns channel CRUD and the default-channel and
// in-use-protection invariants.
type ChannelService struct {
	channels store.ChannelRepository
	log      *logrus.Logger
}

func NewChannelService() *ChannelService {
	return &ChannelService{
		channels: dao.NewChannelDao(),
		log:      logger.NewLogger("channel"),
	}
}

func (s *ChannelService) Create(ctx context.Context, req dto.CreateChannelReq) (*dto.ChannelResp, error) {
	providerID := strings.TrimSpace(req.Provider)
	if err := registry.Validate(providerID, req.Config); err != nil {
		return nil, err
	}
	fixed, percent, feeCap, err := parseFees(req.FeeFixed, req.FeePercent, req.FeeCap)
	if err != nil {
		return nil, err
	}

	ch := &model.Channel{
		OwnerID:    req.OwnerID,
		Name:       req.Name,
		Provider:   providerID,
		FeeFixed:   fixed,
		FeePercent: percent,
		FeeCap:     feeCap,
		Status:     model.ChannelStatusActive,
	}
	if err := ch.SetConfig(req.Config); err != nil {
		return nil, constant.NewErrorMsg(constant.CodeSystemError, "encode channel config failed")
	}
	if err := s.channels.Create(ctx, ch); err != nil {
		s.log.WithError(err).WithField("owner", req.OwnerID).Error("create channel failed")
		return nil, constant.NewError(constant.CodeDatabaseError)
	}
	return toChannelResp(ch), nil
}

func (s *ChannelService) Update(ctx context.Context, channelID uint64, req dto.UpdateChannelReq) (*dto.ChannelResp, error) {
	ch, err := s.channels.GetByID(ctx, channelID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, constant.NewError(constant.CodeChannelNotFound)
	}
	if err != nil {
		return nil, constant.NewError(constant.CodeDatabaseError)
	}
	if ch.OwnerID != req.OwnerID {
		return nil, constant.NewError(constant.CodeOwnershipMismatch)
	}

	switch {
	case req.Provider != nil && *req.Provider != ch.Provider:
		// provider change: the supplied config replaces the old one
		// wholesale, no cross-provider merge
		if err := registry.Validate(*req.Provider, req.Config); err != nil {
			return nil, err
		}
		ch.Provider = *req.Provider
		if err := ch.SetConfig(req.Config); err != nil {
			return nil, constant.NewErrorMsg(constant.CodeSystemError, "encode channel config failed")
		}
	case req.Config != nil:
		// same provider: partial update, new keys overwrite
		existing, err := ch.Config()
		if err != nil {
			return nil, constant.NewErrorMsg(constant.CodeSystemError, "decode channel config failed")
		}
		for k, v := range req.Config {
			existing[k] = v
		}
		if err := registry.Validate(ch.Provider, existing); err != nil {
			return nil, err
		}
		if err := ch.SetConfig(existing); err != nil {
			return nil, constant.NewErrorMsg(constant.CodeSystemError, "encode channel config failed")
		}
	}

	if req.Name != nil {
		ch.Name = *req.Name
	}
	if req.FeeFixed != nil || req.FeePercent != nil || req.FeeCap != nil {
		fixedStr, percentStr := ch.FeeFixed.String(), ch.FeePercent.String()
		capStr := req.FeeCap
		if req.FeeFixed != nil {
			fixedStr = *req.FeeFixed
		}
		if req.FeePercent != nil {
			percentStr = *req.FeePercent
		}
		if capStr == nil && ch.FeeCap != nil {
			v := ch.FeeCap.String()
			capStr = &v
		}
		fixed, percent, feeCap, err := parseFees(fixedStr, percentStr, capStr)
		if err != nil {
			return nil, err
		}
		ch.FeeFixed, ch.FeePercent, ch.FeeCap = fixed, percent, feeCap
	}
	if req.IsActive != nil {
		if *req.IsActive {
			ch.Status = model.ChannelStatusActive
		} else {
			ch.Status = model.ChannelStatusDisabled
		}
	}
	if req.IsDefault != nil && !*req.IsDefault && ch.IsDefault {
		// the default flag moves by promoting another channel, it is
		// never simply dropped
		return nil, constant.NewError(constant.CodeDefaultRequired)
	}

	if err := s.channels.Save(ctx, ch); err != nil {
		s.log.WithError(err).WithField("channel", channelID).Error("update channel failed")
		return nil, constant.NewError(constant.CodeDatabaseError)
	}
	if req.IsDefault != nil && *req.IsDefault && !ch.IsDefault {
		if err := s.channels.SwapDefault(ctx, ch.OwnerID, ch.ChannelID); err != nil {
			return nil, constant.NewError(constant.CodeDatabaseError)
		}
		ch.IsDefault = true
	}
	cache.DropPublicConfig(ctx, ch.ChannelID)
	return toChannelResp(ch), nil
}

func (s *ChannelService) Delete(ctx context.Context, channelID, ownerID uint64) error {
	ch, err := s.channels.GetByID(ctx, channelID)
	if errors.Is(err, store.ErrNotFound) {
		return constant.NewError(constant.CodeChannelNotFound)
	}
	if err != nil {
		return constant.NewError(constant.CodeDatabaseError)
	}
	if ch.OwnerID != ownerID {
		return constant.NewError(constant.CodeOwnershipMismatch)
	}
	if err := s.channels.Delete(ctx, ch); err != nil {
		if errors.Is(err, store.ErrChannelInUse) {
			return constant.NewError(constant.CodeChannelInUse)
		}
		s.log.WithError(err).WithField("channel", channelID).Error("delete channel failed")
		return constant.NewError(constant.CodeDatabaseError)
	}
	cache.DropPublicConfig(ctx, channelID)
	return nil
}

func (s *ChannelService) Get(ctx context.Context, channelID, ownerID uint64) (*dto.ChannelResp, error) {
	ch, err := s.channels.GetByID(ctx, channelID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, constant.NewError(constant.CodeChannelNotFound)
	}
	if err != nil {
		return nil, constant.NewError(constant.CodeDatabaseError)
	}
	if ch.OwnerID != ownerID {
		return nil, constant.NewError(constant.CodeOwnershipMismatch)
	}
	resp := toChannelResp(ch)
	if cfg, err := ch.Config(); err == nil {
		resp.Config = cfg
	}
	return resp, nil
}

func (s *ChannelService) List(ctx context.Context, ownerID uint64) ([]dto.ChannelResp, error) {
	chs, err := s.channels.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, constant.NewError(constant.CodeDatabaseError)
	}
	out := make([]dto.ChannelResp, 0, len(chs))
	for i := range chs {
		out = append(out, *toChannelResp(&chs[i]))
	}
	return out, nil
}

// GetPublicConfig returns only registry-listed public fields. Missing
// and inactive channels are both NotFound to checkout clients.
func (s *ChannelService) GetPublicConfig(ctx context.Context, channelID uint64) (*dto.PublicChannelResp, error) {
	var cached dto.PublicChannelResp
	if cache.GetPublicConfig(ctx, channelID, &cached) {
		return &cached, nil
	}

	ch, err := s.channels.GetByID(ctx, channelID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, constant.NewError(constant.CodeChannelNotFound)
	}
	if err != nil {
		return nil, constant.NewError(constant.CodeDatabaseError)
	}
	if !ch.Active() {
		return nil, constant.NewError(constant.CodeChannelNotFound)
	}

	cfg, err := ch.Config()
	if err != nil {
		return nil, constant.NewErrorMsg(constant.CodeSystemError, "decode channel config failed")
	}
	public := map[string]string{}
	for _, field := range registry.PublicFields(ch.Provider) {
		if v, ok := cfg[field]; ok {
			public[field] = v
		}
	}
	resp := &dto.PublicChannelResp{
		ChannelID: ch.ChannelID,
		Name:      ch.Name,
		Provider:  ch.Provider,
		Config:    public,
	}
	cache.SetPublicConfig(ctx, channelID, resp)
	return resp, nil
}

func parseFees(fixedStr, percentStr string, capStr *string) (decimal.Decimal, decimal.Decimal, *decimal.Decimal, error) {
	fixed, percent := decimal.Zero, decimal.Zero
	var err error
	if strings.TrimSpace(fixedStr) != "" {
		if fixed, err = decimal.NewFromString(fixedStr); err != nil {
			return fixed, percent, nil, constant.NewError(constant.CodeFeeConfigInvalid)
		}
	}
	if strings.TrimSpace(percentStr) != "" {
		if percent, err = decimal.NewFromString(percentStr); err != nil {
			return fixed, percent, nil, constant.NewError(constant.CodeFeeConfigInvalid)
		}
	}
	var feeCap *decimal.Decimal
	if capStr != nil && strings.TrimSpace(*capStr) != "" {
		v, err := decimal.NewFromString(*capStr)
		if err != nil {
			return fixed, percent, nil, constant.NewError(constant.CodeFeeConfigInvalid)
		}
		feeCap = &v
	}
	if fixed.IsNegative() || percent.IsNegative() || (feeCap != nil && feeCap.IsNegative()) {
		return fixed, percent, nil, constant.NewError(constant.CodeFeeConfigInvalid)
	}
	return fixed, percent, feeCap, nil
}

func toChannelResp(ch *model.Channel) *dto.ChannelResp {
	resp := &dto.ChannelResp{
		ChannelID:  ch.ChannelID,
		Name:       ch.Name,
		Provider:   ch.Provider,
		FeeFixed:   ch.FeeFixed.String(),
		FeePercent: ch.FeePercent.String(),
		IsActive:   ch.Active(),
		IsDefault:  ch.IsDefault,
		CreatedAt:  ch.CreatedAt,
		UpdatedAt:  ch.UpdatedAt,
	}
	if ch.FeeCap != nil {
		v := ch.FeeCap.String()
		resp.FeeCap = &v
	}
	return resp
}
