package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"pay-gateway-api/internal/dal"
	"pay-gateway-api/internal/model"
	"pay-gateway-api/internal/store"
)

// TransactionDao implements store.TransactionRepository on the main DB.
type TransactionDao struct{}

func NewTransactionDao() *TransactionDao { return &TransactionDao{} }

func (d *TransactionDao) Create(ctx context.Context, tx *model.Transaction) error {
	err := dal.MainDB.WithContext(ctx).Create(tx).Error
	if err != nil && isDuplicateKey(err) {
		return store.ErrDuplicateReference
	}
	return err
}

func (d *TransactionDao) GetByID(ctx context.Context, id uint64) (*model.Transaction, error) {
	var m model.Transaction
	err := dal.MainDB.WithContext(ctx).Where("tx_id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (d *TransactionDao) GetByReference(ctx context.Context, reference string) (*model.Transaction, error) {
	var m model.Transaction
	err := dal.MainDB.WithContext(ctx).Where("reference = ?", reference).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (d *TransactionDao) HasReference(ctx context.Context, reference string) (bool, error) {
	var count int64
	err := dal.MainDB.WithContext(ctx).Model(&model.Transaction{}).
		Where("reference = ?", reference).
		Count(&count).Error
	return count > 0, err
}

func (d *TransactionDao) ListByOwner(ctx context.Context, ownerID uint64, limit, offset int) ([]model.Transaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []model.Transaction
	err := dal.MainDB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("tx_id desc").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

// UpdateStatusCAS is the conditional write that keeps concurrent
// Verify calls from interleaving a stale status over a newer one.
func (d *TransactionDao) UpdateStatusCAS(ctx context.Context, reference string, from model.Status, patch store.TransactionPatch) (bool, error) {
	updates := map[string]interface{}{
		"status":     patch.Status,
		"updated_at": time.Now(),
	}
	if patch.ProviderRef != nil {
		updates["provider_ref"] = *patch.ProviderRef
	}
	if patch.PayMethod != nil {
		updates["pay_method"] = *patch.PayMethod
	}
	if patch.RawResponse != "" {
		updates["raw_response"] = patch.RawResponse
	}
	res := dal.MainDB.WithContext(ctx).Model(&model.Transaction{}).
		Where("reference = ? AND status = ?", reference, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (d *TransactionDao) AppendLog(ctx context.Context, entry *model.TransactionLog) error {
	return dal.MainDB.WithContext(ctx).Create(entry).Error
}

func (d *TransactionDao) ListLogs(ctx context.Context, txID uint64) ([]model.TransactionLog, error) {
	var out []model.TransactionLog
	err := dal.MainDB.WithContext(ctx).
		Where("tx_id = ?", txID).
		Order("id asc").
		Find(&out).Error
	return out, err
}

// isDuplicateKey matches the mysql 1062 duplicate entry error without
// importing the driver error type here.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "Duplicate entry") ||
		strings.Contains(err.Error(), "Error 1062")
}
