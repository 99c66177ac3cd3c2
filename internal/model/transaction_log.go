package model

import "time"

// TransactionLog is the append-only audit trail, one row per
// state-affecting operation. Rows are never updated or deleted.
type TransactionLog struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TxID      uint64    `gorm:"column:tx_id;not null;index" json:"txId"`
	Status    Status    `gorm:"column:status;size:16;not null" json:"status"`
	Message   string    `gorm:"column:message;size:255" json:"message"`
	DataJSON  string    `gorm:"column:data_json;type:text" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (TransactionLog) TableName() string { return "p_transaction_log" }
