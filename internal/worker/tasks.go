package worker

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"insurance-service/internal/consumers"
)

// Task Types
const (
	TypeReconcileRetry = "reconcile:retry"
)

func NewReconcileRetryTask(payload consumers.ReconcileRetryDTO) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReconcileRetry, data), nil
}
