// Package queue executa tarefas assíncronas fora do ciclo da requisição HTTP.
package queue

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/cognitive-engine/pkg/utils"
)

//go:generate mockgen -source=queue.go -destination=mocks/mock_queue.go -package=mocks

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrQueueFull   = errors.New("fila cheia")
	ErrQueueClosed = errors.New("fila encerrada")
)

const (
	statusEnqueued = "enqueued"
	statusDone     = "done"
	statusFailed   = "failed"
	statusDropped  = "dropped"
)

type Task struct {
	ID         string              `json:"id"`
	Type       string              `json:"type"`
	TenantID   string              `json:"tenantId"`
	Payload    jsoniter.RawMessage `json:"payload"`
	EnqueuedAt time.Time           `json:"enqueuedAt"`
}

// Handler processa uma tarefa consumida da fila
type Handler func(ctx context.Context, task Task) error

type TaskQueue interface {
	Enqueue(ctx context.Context, taskType, tenantID string, payload interface{}) (string, error)
	Close() error
}

// NewTask serializa o payload e gera o identificador da tarefa
func NewTask(taskType, tenantID string, payload interface{}) (Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Task{}, errors.Wrap(err, "erro ao serializar payload da tarefa")
	}

	id, err := utils.GenerateID()
	if err != nil {
		return Task{}, errors.Wrap(err, "erro ao gerar id da tarefa")
	}

	return Task{
		ID:         id,
		Type:       taskType,
		TenantID:   tenantID,
		Payload:    raw,
		EnqueuedAt: time.Now().UTC(),
	}, nil
}

func runHandler(ctx context.Context, handler Handler, task Task, timeout time.Duration) (err error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic ao processar tarefa %s: %v", task.ID, r)
		}
	}()

	return handler(ctx, task)
}
