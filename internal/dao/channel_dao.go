package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pay-gateway-api/internal/dal"
	"pay-gateway-api/internal/model"
	"pay-gateway-api/internal/store"
)

// ChannelDao implements store.ChannelRepository on the main DB.
type ChannelDao struct{}

func NewChannelDao() *ChannelDao { return &ChannelDao{} }

func (d *ChannelDao) Create(ctx context.Context, ch *model.Channel) error {
	return dal.MainDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// locking count: two concurrent first-channel creates must not
		// both observe zero and both become default
		var count int64
		if err := tx.Model(&model.Channel{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("owner_id = ?", ch.OwnerID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			ch.IsDefault = true
		}
		return tx.Create(ch).Error
	})
}

func (d *ChannelDao) Save(ctx context.Context, ch *model.Channel) error {
	return dal.MainDB.WithContext(ctx).Save(ch).Error
}

func (d *ChannelDao) GetByID(ctx context.Context, id uint64) (*model.Channel, error) {
	var ch model.Channel
	err := dal.MainDB.WithContext(ctx).Where("channel_id = ?", id).First(&ch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

func (d *ChannelDao) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Channel, error) {
	var out []model.Channel
	err := dal.MainDB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("channel_id asc").
		Find(&out).Error
	return out, err
}

// SwapDefault clears the previous default and sets the new one inside
// one DB transaction, so no reader sees the owner without a default.
func (d *ChannelDao) SwapDefault(ctx context.Context, ownerID, channelID uint64) error {
	return dal.MainDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Channel{}).
			Where("owner_id = ? AND is_default = ?", ownerID, true).
			Update("is_default", false).Error; err != nil {
			return err
		}
		res := tx.Model(&model.Channel{}).
			Where("channel_id = ? AND owner_id = ?", channelID, ownerID).
			Update("is_default", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (d *ChannelDao) Delete(ctx context.Context, ch *model.Channel) error {
	return dal.MainDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the in-use check lives inside the delete transaction; a
		// concurrent Initialize cannot slip a transaction in between
		var inUse int64
		if err := tx.Model(&model.Transaction{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("channel_id = ?", ch.ChannelID).
			Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return store.ErrChannelInUse
		}
		if err := tx.Where("channel_id = ?", ch.ChannelID).
			Delete(&model.Channel{}).Error; err != nil {
			return err
		}
		if !ch.IsDefault {
			return nil
		}
		// promote the lowest remaining channel id, if any
		var next model.Channel
		err := tx.Where("owner_id = ?", ch.OwnerID).
			Order("channel_id asc").
			First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&model.Channel{}).
			Where("channel_id = ?", next.ChannelID).
			Update("is_default", true).Error
	})
}
