package models

import (
	"time"
)

// Transaction statuses. Input is accepted case-insensitively but rows
// always store the upper-case form.
const (
	StatusInitiated = "INITIATED"
	StatusPending   = "PENDING"
	StatusSuccess   = "SUCCESS"
	StatusFailed    = "FAILED"
)

type InsuranceTransaction struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint   `gorm:"column:user_id;not null;index" json:"user_id"`
	PlanType      string `gorm:"column:plan_type;size:100;not null" json:"plan_type"`
	TransactionID string `gorm:"column:transaction_id;size:255;not null;uniqueIndex" json:"transaction_id"`
	Amount        string `gorm:"column:amount;size:50" json:"amount"`
	Currency      string `gorm:"column:currency;size:10" json:"currency"`
	Email         string `gorm:"column:email;size:255" json:"email"`
	Udf5          string `gorm:"column:udf5;size:255" json:"udf5"`
	Status        string `gorm:"column:status;size:20;not null" json:"status"`

	// Gateway-reported reconciliation fields. All nullable; populated
	// only by the status-reconciliation path.
	PaymentMode     *string `gorm:"column:payment_mode;size:50" json:"payment_mode"`
	BankRefNum      *string `gorm:"column:bank_ref_num;size:255" json:"bank_ref_num"`
	PgTransactionID *string `gorm:"column:pg_transaction_id;size:255" json:"pg_transaction_id"`
	Addedon         *string `gorm:"column:addedon;size:50" json:"addedon"`
	ErrorMessage    *string `gorm:"column:error_message;type:text" json:"error_message"`
	Field9          *string `gorm:"column:field9;type:text" json:"field9"`
	Mihpayid        *string `gorm:"column:mihpayid;size:255" json:"mihpayid"`
	NetAmountDebit  *string `gorm:"column:net_amount_debit;size:50" json:"net_amount_debit"`
	PaymentSource   *string `gorm:"column:payment_source;size:50" json:"payment_source"`
	PgType          *string `gorm:"column:pg_type;size:50" json:"pg_type"`
	Bankcode        *string `gorm:"column:bankcode;size:50" json:"bankcode"`
	HashValue       *string `gorm:"column:hash_value;size:255" json:"hash_value"`
	ErrorCode       *string `gorm:"column:error_code;size:50" json:"error_code"`
	Phone           *string `gorm:"column:phone;size:20" json:"phone"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (InsuranceTransaction) TableName() string {
	return "insurance_transactions"
}
