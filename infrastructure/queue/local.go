package queue

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/cognitive-engine/internal/telemetry"
	"github.com/vfg2006/cognitive-engine/pkg/log"
)

// LocalQueue é um pool de workers em memória. Tarefas pendentes são processadas no Close.
type LocalQueue struct {
	handler Handler
	timeout time.Duration
	tasks   chan Task

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewLocalQueue(workers, bufferSize int, timeout time.Duration, handler Handler) *LocalQueue {
	if workers <= 0 {
		workers = 1
	}
	if bufferSize <= 0 {
		bufferSize = 100
	}

	q := &LocalQueue{
		handler: handler,
		timeout: timeout,
		tasks:   make(chan Task, bufferSize),
	}

	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}

	log.L.WithFields(log.Fields{
		"workers": workers,
		"buffer":  bufferSize,
	}).Info("Fila local iniciada")

	return q
}

func (q *LocalQueue) Enqueue(_ context.Context, taskType, tenantID string, payload interface{}) (string, error) {
	task, err := NewTask(taskType, tenantID, payload)
	if err != nil {
		return "", err
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return "", ErrQueueClosed
	}

	select {
	case q.tasks <- task:
		telemetry.QueueTasksTotal.WithLabelValues(taskType, statusEnqueued).Inc()
		return task.ID, nil
	default:
		telemetry.QueueTasksTotal.WithLabelValues(taskType, statusDropped).Inc()
		return "", ErrQueueFull
	}
}

func (q *LocalQueue) worker(id int) {
	defer q.wg.Done()

	for task := range q.tasks {
		logger := log.L.WithFields(log.Fields{
			"task_id":   task.ID,
			"task_type": task.Type,
			"tenant_id": task.TenantID,
			"worker":    id,
		})

		if err := runHandler(context.Background(), q.handler, task, q.timeout); err != nil {
			telemetry.QueueTasksTotal.WithLabelValues(task.Type, statusFailed).Inc()
			logger.WithError(err).Error("Erro ao processar tarefa")
			continue
		}

		telemetry.QueueTasksTotal.WithLabelValues(task.Type, statusDone).Inc()
		logger.Debug("Tarefa processada")
	}
}

// Close recusa novas tarefas e aguarda os workers esvaziarem a fila
func (q *LocalQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}
