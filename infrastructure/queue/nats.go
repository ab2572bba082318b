package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/vfg2006/cognitive-engine/internal/telemetry"
	"github.com/vfg2006/cognitive-engine/pkg/log"
)

const natsQueueGroup = "cognitive-workers"

// NATSQueue publica tarefas em um subject e as consome em um queue group,
// distribuindo o processamento entre as instâncias da API
type NATSQueue struct {
	conn    *nats.Conn
	sub     *nats.Subscription
	subject string
	timeout time.Duration
	handler Handler
}

func NewNATSQueue(url, subject string, timeout time.Duration, handler Handler) (*NATSQueue, error) {
	nc, err := nats.Connect(url,
		nats.Name("cognitive-engine"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao conectar no NATS: %w", err)
	}

	q := &NATSQueue{
		conn:    nc,
		subject: subject,
		timeout: timeout,
		handler: handler,
	}

	if handler != nil {
		sub, err := nc.QueueSubscribe(subject, natsQueueGroup, q.consume)
		if err != nil {
			nc.Close()
			return nil, fmt.Errorf("erro ao assinar o subject %s: %w", subject, err)
		}
		q.sub = sub
	}

	log.L.WithFields(log.Fields{
		"url":     url,
		"subject": subject,
	}).Info("Conectado ao NATS")

	return q, nil
}

func (q *NATSQueue) Enqueue(_ context.Context, taskType, tenantID string, payload interface{}) (string, error) {
	task, err := NewTask(taskType, tenantID, payload)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(task)
	if err != nil {
		return "", errors.Wrap(err, "erro ao serializar tarefa")
	}

	if err := q.conn.Publish(q.subject, data); err != nil {
		telemetry.QueueTasksTotal.WithLabelValues(taskType, statusDropped).Inc()
		return "", errors.Wrap(err, "erro ao publicar tarefa no NATS")
	}

	telemetry.QueueTasksTotal.WithLabelValues(taskType, statusEnqueued).Inc()
	return task.ID, nil
}

func (q *NATSQueue) consume(msg *nats.Msg) {
	task, err := decodeTask(msg.Data)
	if err != nil {
		telemetry.QueueTasksTotal.WithLabelValues("unknown", statusFailed).Inc()
		log.L.WithError(err).WithField("subject", msg.Subject).Error("Mensagem inválida recebida do NATS")
		return
	}

	logger := log.L.WithFields(log.Fields{
		"task_id":   task.ID,
		"task_type": task.Type,
		"tenant_id": task.TenantID,
	})

	if err := runHandler(context.Background(), q.handler, task, q.timeout); err != nil {
		telemetry.QueueTasksTotal.WithLabelValues(task.Type, statusFailed).Inc()
		logger.WithError(err).Error("Erro ao processar tarefa")
		return
	}

	telemetry.QueueTasksTotal.WithLabelValues(task.Type, statusDone).Inc()
	logger.Debug("Tarefa processada")
}

func decodeTask(data []byte) (Task, error) {
	var task Task
	if err := json.Unmarshal(data, &task); err != nil {
		return Task{}, errors.Wrap(err, "erro ao decodificar tarefa")
	}
	if task.ID == "" || task.Type == "" {
		return Task{}, errors.New("tarefa sem id ou tipo")
	}
	return task, nil
}

// Close drena as mensagens em andamento antes de fechar a conexão
func (q *NATSQueue) Close() error {
	if q.conn == nil || q.conn.IsClosed() {
		return nil
	}
	return q.conn.Drain()
}

// Ping verifica se a conexão com o servidor NATS está ativa
func (q *NATSQueue) Ping(_ context.Context) error {
	if q.conn == nil || !q.conn.IsConnected() {
		return errors.New("conexão com NATS indisponível")
	}
	return nil
}
