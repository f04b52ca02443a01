package models

import (
	"time"
)

// CallbackLog keeps the raw gateway payload for every callback or poll
// result, for audit. Rows are written best-effort and never read by the
// reconciliation path itself.
type CallbackLog struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID string    `gorm:"column:transaction_id;size:255;index" json:"transaction_id"`
	RequestType   string    `gorm:"column:request_type;size:50" json:"request_type"` // callback or poll
	Request       string    `gorm:"column:request;type:longtext" json:"request"`
	Status        string    `gorm:"column:status;size:20" json:"status"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (CallbackLog) TableName() string {
	return "callback_logs"
}
