package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"insurance-service/internal/consumers"
)

type Worker struct {
	Processor *consumers.ReconcileProcessor
}

func NewWorker(processor *consumers.ReconcileProcessor) *Worker {
	return &Worker{Processor: processor}
}

func (w *Worker) HandleReconcileRetry(ctx context.Context, t *asynq.Task) error {
	var p consumers.ReconcileRetryDTO
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	return w.Processor.ProcessReconcileRetry(p)
}

func StartWorker(redisOpt asynq.RedisClientOpt, processor *consumers.ReconcileProcessor) {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	worker := NewWorker(processor)
	mux := asynq.NewServeMux()

	mux.HandleFunc(TypeReconcileRetry, worker.HandleReconcileRetry)

	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
