package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"insurance-service/internal/models"
)

const TypeReconcileRetry = "reconcile:retry"

// ReconcileRetryJob is the payload of a reconcile:retry task, enqueued
// when the status update fails after the gateway reported a final
// outcome.
type ReconcileRetryJob struct {
	TransactionID string               `json:"transaction_id"`
	Status        string               `json:"status"`
	Fields        ReconciliationFields `json:"fields"`
}

// Outcome is the typed result of one reconciliation attempt. The
// handler turns it into a client redirect; Err being set never stops
// that redirect.
type Outcome struct {
	Status    string // normalized domain status
	RawStatus string // gateway vocabulary, used in failure redirects
	Cancelled bool
	Applied   bool // a row actually changed
	NotFound  bool // gateway or store has no record of the id
	Err       error
}

type ReconcileService struct {
	DB        *gorm.DB
	Insurance *InsuranceService
	PayU      *PayUService
	Client    *asynq.Client
}

func NewReconcileService(db *gorm.DB, insurance *InsuranceService, payu *PayUService, client *asynq.Client) *ReconcileService {
	return &ReconcileService{
		DB:        db,
		Insurance: insurance,
		PayU:      payu,
		Client:    client,
	}
}

// pendingStatuses are gateway states that are intermediate rather than
// terminal; they map to PENDING instead of collapsing to FAILED.
var pendingStatuses = map[string]bool{
	"pending":     true,
	"in progress": true,
	"auth":        true,
	"awaited":     true,
}

// NormalizeCallback maps a raw gateway payload onto the domain status
// set and the stored reconciliation fields. Pure; no side effects.
func NormalizeCallback(params map[string]string) (status string, fields ReconciliationFields, cancelled bool) {
	raw := strings.ToLower(params["status"])

	errMsg := params["error_Message"]
	if errMsg == "" {
		errMsg = params["error_message"]
	}
	cancelled = strings.ToLower(params["unmappedstatus"]) == "usercancelled" ||
		strings.Contains(strings.ToLower(errMsg), "cancel") ||
		strings.Contains(strings.ToLower(params["field9"]), "cancel")

	switch {
	case raw == "success":
		status = models.StatusSuccess
		cancelled = false
	case cancelled:
		status = models.StatusFailed
	case pendingStatuses[raw]:
		status = models.StatusPending
	default:
		status = models.StatusFailed
	}

	pick := func(keys ...string) *string {
		for _, k := range keys {
			if v, ok := params[k]; ok && v != "" {
				return &v
			}
		}
		return nil
	}
	fields = ReconciliationFields{
		PaymentMode:     pick("mode", "payment_mode"),
		BankRefNum:      pick("bank_ref_num"),
		PgTransactionID: pick("pg_transaction_id"),
		Addedon:         pick("addedon"),
		ErrorMessage:    pick("error_Message", "error_message"),
		Field9:          pick("field9"),
		Mihpayid:        pick("mihpayid"),
		NetAmountDebit:  pick("net_amount_debit"),
		PaymentSource:   pick("payment_source"),
		PgType:          pick("PG_TYPE", "pg_type"),
		Bankcode:        pick("bankcode"),
		HashValue:       pick("hash", "hash_value"),
		ErrorCode:       pick("error", "error_code"),
		Phone:           pick("phone"),
	}
	return status, fields, cancelled
}

// ReconcileCallback handles a gateway push: normalize the payload and
// apply the conditional status update. Safe to invoke repeatedly for
// the same transaction; a repeated terminal status is a no-op.
func (s *ReconcileService) ReconcileCallback(txnID string, params map[string]string) Outcome {
	status, fields, cancelled := NormalizeCallback(params)
	s.logCallback(txnID, "callback", params, status)

	outcome := Outcome{
		Status:    status,
		RawStatus: params["status"],
		Cancelled: cancelled,
	}
	s.applyUpdate(txnID, status, fields, &outcome)
	return outcome
}

// ReconcilePoll handles the pull path: ask the gateway for the
// transaction's current status, then reuse the callback normalization.
func (s *ReconcileService) ReconcilePoll(txnID string) Outcome {
	statusObj, err := s.PayU.Verify(txnID)
	if err != nil {
		log.Printf("Reconcile poll for %s failed: %v", txnID, err)
		return Outcome{Status: models.StatusFailed, RawStatus: "verification_failed", Err: err}
	}
	if statusObj == nil {
		return Outcome{Status: models.StatusFailed, RawStatus: "not_found", NotFound: true}
	}

	params := make(map[string]string, len(statusObj))
	for k, v := range statusObj {
		params[k] = fmt.Sprintf("%v", v)
	}

	status, fields, cancelled := NormalizeCallback(params)
	s.logCallback(txnID, "poll", params, status)

	outcome := Outcome{
		Status:    status,
		RawStatus: params["status"],
		Cancelled: cancelled,
	}
	s.applyUpdate(txnID, status, fields, &outcome)
	return outcome
}

func (s *ReconcileService) applyUpdate(txnID, status string, fields ReconciliationFields, outcome *Outcome) {
	row, err := s.Insurance.UpdateStatusByTransactionID(txnID, status, fields)
	switch {
	case err == nil:
		outcome.Applied = row != nil
	case errors.Is(err, ErrTransactionNotFound):
		// The gateway referenced an id we never issued; nothing to
		// retry.
		outcome.NotFound = true
	default:
		log.Printf("Reconcile update for %s failed: %v", txnID, err)
		outcome.Err = err
		s.enqueueRetry(txnID, status, fields)
	}
}

func (s *ReconcileService) enqueueRetry(txnID, status string, fields ReconciliationFields) {
	if s.Client == nil {
		return
	}
	data, err := json.Marshal(ReconcileRetryJob{
		TransactionID: txnID,
		Status:        status,
		Fields:        fields,
	})
	if err != nil {
		log.Printf("Failed to marshal retry job for %s: %v", txnID, err)
		return
	}
	task := asynq.NewTask(TypeReconcileRetry, data)
	if _, err := s.Client.Enqueue(task, asynq.TaskID(fmt.Sprintf("reconcile:%s:%s", txnID, status)), asynq.ProcessIn(30*time.Second)); err != nil {
		log.Printf("Failed to enqueue retry for %s: %v", txnID, err)
	}
}

func (s *ReconcileService) logCallback(txnID, requestType string, params map[string]string, status string) {
	raw, err := json.Marshal(params)
	if err != nil {
		return
	}
	entry := models.CallbackLog{
		TransactionID: txnID,
		RequestType:   requestType,
		Request:       string(raw),
		Status:        status,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		log.Printf("Failed to log %s for %s: %v", requestType, txnID, err)
	}
}

// SweepStale re-polls the gateway for transactions stuck in INITIATED
// or PENDING longer than the cutoff, converging rows whose callback
// never arrived or whose update failed.
func (s *ReconcileService) SweepStale(olderThan time.Duration) {
	cutoff := time.Now().Add(-olderThan)

	var stale []models.InsuranceTransaction
	err := s.DB.Where("status IN ? AND created_at < ?",
		[]string{models.StatusInitiated, models.StatusPending}, cutoff).
		Find(&stale).Error
	if err != nil {
		log.Printf("Error finding stale transactions: %v", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	log.Printf("Reconciling %d stale transactions", len(stale))
	for _, t := range stale {
		outcome := s.ReconcilePoll(t.TransactionID)
		if outcome.Applied {
			log.Printf("Stale transaction %s reconciled to %s", t.TransactionID, outcome.Status)
		}
	}
}

// StartScheduler initializes the cron job for the stale-transaction
// sweep.
func (s *ReconcileService) StartScheduler() {
	c := cron.New()
	_, err := c.AddFunc("*/10 * * * *", func() {
		log.Println("Running scheduled reconciliation sweep...")
		s.SweepStale(15 * time.Minute)
	})
	if err != nil {
		log.Printf("Error scheduling reconciliation sweep: %v", err)
		return
	}
	c.Start()
	log.Println("Reconciliation scheduler started (Every 10 minutes)")
}
