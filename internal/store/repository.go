package store

import (
	"context"
	"errors"

	"pay-gateway-api/internal/model"
)

// Sentinel errors shared by all repository implementations.
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateReference = errors.New("duplicate transaction reference")
	ErrChannelInUse       = errors.New("channel has transactions")
)

// TransactionPatch carries the fields Verify is allowed to change.
type TransactionPatch struct {
	Status      model.Status
	ProviderRef *string
	PayMethod   *string
	RawResponse string
}

// ChannelRepository is the persistence contract for channels. The
// default-channel invariants (first channel becomes default, clear+set
// swap, promotion on delete) are atomic inside the implementation so
// concurrent readers never observe an owner without a default.
type ChannelRepository interface {
	// Create inserts the channel, atomically marking it default when
	// it is the owner's first.
	Create(ctx context.Context, ch *model.Channel) error
	Save(ctx context.Context, ch *model.Channel) error
	GetByID(ctx context.Context, id uint64) (*model.Channel, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]model.Channel, error)
	// SwapDefault clears the owner's previous default and sets the
	// given channel as default in one atomic unit.
	SwapDefault(ctx context.Context, ownerID, channelID uint64) error
	// Delete removes the channel and, when it was the default and
	// siblings remain, promotes the lowest channel id in the same
	// atomic unit. A channel with transactions is never deleted;
	// the in-use check runs in the same unit and such a call returns
	// ErrChannelInUse.
	Delete(ctx context.Context, ch *model.Channel) error
}

// TransactionRepository is the persistence contract for transactions
// and their audit log. Reference carries a unique constraint; Create
// reports violations as ErrDuplicateReference.
type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	GetByID(ctx context.Context, id uint64) (*model.Transaction, error)
	GetByReference(ctx context.Context, reference string) (*model.Transaction, error)
	HasReference(ctx context.Context, reference string) (bool, error)
	ListByOwner(ctx context.Context, ownerID uint64, limit, offset int) ([]model.Transaction, error)
	// UpdateStatusCAS applies patch only while the stored status still
	// equals from; it reports whether the write took effect.
	UpdateStatusCAS(ctx context.Context, reference string, from model.Status, patch TransactionPatch) (bool, error)
	AppendLog(ctx context.Context, entry *model.TransactionLog) error
	ListLogs(ctx context.Context, txID uint64) ([]model.TransactionLog, error)
}
