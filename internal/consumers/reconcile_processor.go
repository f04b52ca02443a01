package consumers

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"insurance-service/internal/services"
)

// ReconcileRetryDTO mirrors services.ReconcileRetryJob; the worker
// decodes task payloads into it.
type ReconcileRetryDTO struct {
	TransactionID string                        `json:"transaction_id"`
	Status        string                        `json:"status"`
	Fields        services.ReconciliationFields `json:"fields"`
}

type ReconcileProcessor struct {
	DB        *gorm.DB
	Insurance *services.InsuranceService
}

func NewReconcileProcessor(db *gorm.DB, insurance *services.InsuranceService) *ReconcileProcessor {
	return &ReconcileProcessor{
		DB:        db,
		Insurance: insurance,
	}
}

// ProcessReconcileRetry re-applies a status update that failed on the
// request path. Returning an error lets asynq retry with backoff; a
// no-op (the callback was re-delivered and already applied) and an
// unknown transaction id both end the task.
func (p *ReconcileProcessor) ProcessReconcileRetry(job ReconcileRetryDTO) error {
	row, err := p.Insurance.UpdateStatusByTransactionID(job.TransactionID, job.Status, job.Fields)
	if errors.Is(err, services.ErrTransactionNotFound) {
		log.Printf("Retry for unknown transaction %s dropped", job.TransactionID)
		return nil
	}
	if err != nil {
		return err
	}
	if row == nil {
		log.Printf("Retry for %s was a no-op, status already %s", job.TransactionID, job.Status)
		return nil
	}
	log.Printf("Retry applied: transaction %s now %s", job.TransactionID, job.Status)
	return nil
}
