package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"insurance-service/internal/models"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidStatus       = errors.New("invalid status value")
	ErrInvalidSubmission   = errors.New("invalid submission")
)

// CanonicalStatus validates a status value case-insensitively and
// returns its stored upper-case form.
func CanonicalStatus(status string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case models.StatusInitiated:
		return models.StatusInitiated, nil
	case models.StatusPending:
		return models.StatusPending, nil
	case models.StatusSuccess:
		return models.StatusSuccess, nil
	case models.StatusFailed:
		return models.StatusFailed, nil
	}
	return "", ErrInvalidStatus
}

// ReconciliationFields is the bag of gateway-reported attributes stored
// alongside a transaction's status. A nil pointer means the field was
// not present in the request and the stored column is left untouched.
type ReconciliationFields struct {
	PaymentMode     *string `json:"payment_mode"`
	BankRefNum      *string `json:"bank_ref_num"`
	PgTransactionID *string `json:"pg_transaction_id"`
	Addedon         *string `json:"addedon"`
	ErrorMessage    *string `json:"error_message"`
	Field9          *string `json:"field9"`
	Mihpayid        *string `json:"mihpayid"`
	NetAmountDebit  *string `json:"net_amount_debit"`
	PaymentSource   *string `json:"payment_source"`
	PgType          *string `json:"pg_type"`
	Bankcode        *string `json:"bankcode"`
	HashValue       *string `json:"hash_value"`
	ErrorCode       *string `json:"error_code"`
	Phone           *string `json:"phone"`
}

func (f ReconciliationFields) toUpdateMap() map[string]interface{} {
	updates := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	set("payment_mode", f.PaymentMode)
	set("bank_ref_num", f.BankRefNum)
	set("pg_transaction_id", f.PgTransactionID)
	set("addedon", f.Addedon)
	set("error_message", f.ErrorMessage)
	set("field9", f.Field9)
	set("mihpayid", f.Mihpayid)
	set("net_amount_debit", f.NetAmountDebit)
	set("payment_source", f.PaymentSource)
	set("pg_type", f.PgType)
	set("bankcode", f.Bankcode)
	set("hash_value", f.HashValue)
	set("error_code", f.ErrorCode)
	set("phone", f.Phone)
	return updates
}

type MemberInput struct {
	Role   string `json:"role"`
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Dob    string `json:"dob"`
}

type SubmitRequest struct {
	PlanType      string        `json:"planType"`
	Members       []MemberInput `json:"members"`
	MobileNumber  string        `json:"mobileNumber"`
	TransactionID string        `json:"transactionId"`
	Amount        string        `json:"amount"`
	Currency      string        `json:"currency"`
	Email         string        `json:"email"`
	Udf5          string        `json:"udf5"`
	Status        string        `json:"status"`
	ReconciliationFields
}

type SubmitResult struct {
	models.InsuranceTransaction
	MobileNumber string          `json:"mobile_number"`
	Members      []models.Member `json:"members"`
}

// TransactionDetail is a transaction row joined with its owner's mobile
// number and member rows.
type TransactionDetail struct {
	models.InsuranceTransaction
	MobileNumber string          `json:"mobile_number"`
	Members      []models.Member `json:"members"`
}

type UserPlans struct {
	MobileNumber   string              `json:"mobileNumber"`
	UserID         uint                `json:"userId,omitempty"`
	InsurancePlans []TransactionDetail `json:"insurancePlans"`
}

type InsuranceService struct {
	DB *gorm.DB
}

func NewInsuranceService(db *gorm.DB) *InsuranceService {
	return &InsuranceService{DB: db}
}

// Submit persists a plan submission: the owning user (created on first
// sight of the mobile number), the transaction row and its member rows.
// All writes run in a single database transaction; a failure partway
// rolls everything back.
func (s *InsuranceService) Submit(req SubmitRequest) (*SubmitResult, error) {
	if req.PlanType == "" || req.MobileNumber == "" || len(req.Members) == 0 {
		return nil, fmt.Errorf("%w: planType, members and mobileNumber are required", ErrInvalidSubmission)
	}

	status := models.StatusInitiated
	if req.Status != "" {
		var err error
		status, err = CanonicalStatus(req.Status)
		if err != nil {
			return nil, err
		}
	}

	txnID := req.TransactionID
	if txnID == "" {
		txnID = uuid.NewString()
	}

	var result SubmitResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Where("mobile_number = ?", req.MobileNumber).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = models.User{MobileNumber: req.MobileNumber}
			err = tx.Create(&user).Error
		}
		if err != nil {
			return err
		}

		transaction := models.InsuranceTransaction{
			UserID:          user.ID,
			PlanType:        req.PlanType,
			TransactionID:   txnID,
			Amount:          req.Amount,
			Currency:        req.Currency,
			Email:           req.Email,
			Udf5:            req.Udf5,
			Status:          status,
			PaymentMode:     req.PaymentMode,
			BankRefNum:      req.BankRefNum,
			PgTransactionID: req.PgTransactionID,
			Addedon:         req.Addedon,
			ErrorMessage:    req.ErrorMessage,
			Field9:          req.Field9,
			Mihpayid:        req.Mihpayid,
			NetAmountDebit:  req.NetAmountDebit,
			PaymentSource:   req.PaymentSource,
			PgType:          req.PgType,
			Bankcode:        req.Bankcode,
			HashValue:       req.HashValue,
			ErrorCode:       req.ErrorCode,
			Phone:           req.Phone,
		}
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}

		members := make([]models.Member, 0, len(req.Members))
		for _, m := range req.Members {
			members = append(members, models.Member{
				InsuranceID: transaction.ID,
				Role:        m.Role,
				Name:        m.Name,
				Gender:      m.Gender,
				DateOfBirth: m.Dob,
			})
		}
		if err := tx.Create(&members).Error; err != nil {
			return err
		}

		result = SubmitResult{
			InsuranceTransaction: transaction,
			MobileNumber:         req.MobileNumber,
			Members:              members,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// UpdateStatusByTransactionID applies a conditional status update: the
// row is touched only when the new status differs from the stored one.
// The predicate runs inside the UPDATE itself so concurrent callbacks
// cannot race a read-then-write.
//
// Returns the updated row when a row changed, (nil, nil) when the
// transaction exists but already holds the status (a repeated callback),
// and ErrTransactionNotFound when the id is unknown.
func (s *InsuranceService) UpdateStatusByTransactionID(txnID, newStatus string, fields ReconciliationFields) (*models.InsuranceTransaction, error) {
	status, err := CanonicalStatus(newStatus)
	if err != nil {
		return nil, err
	}

	updates := fields.toUpdateMap()
	updates["status"] = status

	res := s.DB.Model(&models.InsuranceTransaction{}).
		Where("transaction_id = ? AND status <> ?", txnID, status).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		// Disambiguate: never existed vs already in that exact state.
		var count int64
		if err := s.DB.Model(&models.InsuranceTransaction{}).
			Where("transaction_id = ?", txnID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrTransactionNotFound
		}
		return nil, nil
	}

	var row models.InsuranceTransaction
	if err := s.DB.Where("transaction_id = ?", txnID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListAll returns every transaction with its owner's mobile number and
// member rows, newest first.
func (s *InsuranceService) ListAll() ([]TransactionDetail, error) {
	var transactions []models.InsuranceTransaction
	if err := s.DB.Order("id DESC").Find(&transactions).Error; err != nil {
		return nil, err
	}

	var users []models.User
	if err := s.DB.Find(&users).Error; err != nil {
		return nil, err
	}
	mobiles := make(map[uint]string, len(users))
	for _, u := range users {
		mobiles[u.ID] = u.MobileNumber
	}

	details := make([]TransactionDetail, 0, len(transactions))
	for _, t := range transactions {
		members, err := s.membersFor(t.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, TransactionDetail{
			InsuranceTransaction: t,
			MobileNumber:         mobiles[t.UserID],
			Members:              members,
		})
	}
	return details, nil
}

// FindByMobile returns a user's transaction history. An unknown mobile
// number yields an empty-plans shape rather than an error.
func (s *InsuranceService) FindByMobile(mobileNumber string) (*UserPlans, error) {
	var user models.User
	err := s.DB.Where("mobile_number = ?", mobileNumber).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &UserPlans{MobileNumber: mobileNumber, InsurancePlans: []TransactionDetail{}}, nil
	}
	if err != nil {
		return nil, err
	}

	var transactions []models.InsuranceTransaction
	if err := s.DB.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&transactions).Error; err != nil {
		return nil, err
	}

	plans := make([]TransactionDetail, 0, len(transactions))
	for _, t := range transactions {
		members, err := s.membersFor(t.ID)
		if err != nil {
			return nil, err
		}
		plans = append(plans, TransactionDetail{
			InsuranceTransaction: t,
			MobileNumber:         mobileNumber,
			Members:              members,
		})
	}

	return &UserPlans{MobileNumber: mobileNumber, UserID: user.ID, InsurancePlans: plans}, nil
}

func (s *InsuranceService) membersFor(insuranceID uint) ([]models.Member, error) {
	var members []models.Member
	if err := s.DB.Where("insurance_id = ?", insuranceID).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
