package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Date string `json:"date"`
}

func TestNewTask(t *testing.T) {
	task, err := NewTask("snapshot.persist", "t1", payload{Date: "2025-03-10"})
	require.NoError(t, err)

	assert.Len(t, task.ID, 12)
	assert.Equal(t, "snapshot.persist", task.Type)
	assert.Equal(t, "t1", task.TenantID)
	assert.JSONEq(t, `{"date":"2025-03-10"}`, string(task.Payload))
	assert.False(t, task.EnqueuedAt.IsZero())
}

func TestDecodeTask(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "Tarefa válida", data: `{"id":"abc","type":"snapshot.persist","tenantId":"t1","payload":{}}`},
		{name: "JSON inválido", data: `{`, wantErr: true},
		{name: "Sem tipo", data: `{"id":"abc"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := decodeTask([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "abc", task.ID)
		})
	}
}

func TestLocalQueue(t *testing.T) {
	t.Run("Processa todas as tarefas antes de encerrar", func(t *testing.T) {
		var (
			mu        sync.Mutex
			processed []string
		)

		q := NewLocalQueue(2, 10, time.Second, func(ctx context.Context, task Task) error {
			mu.Lock()
			processed = append(processed, task.ID)
			mu.Unlock()
			return nil
		})

		ids := make([]string, 0, 5)
		for i := 0; i < 5; i++ {
			id, err := q.Enqueue(context.Background(), "snapshot.persist", "t1", payload{})
			require.NoError(t, err)
			ids = append(ids, id)
		}

		require.NoError(t, q.Close())
		assert.ElementsMatch(t, ids, processed)
	})

	t.Run("Erro e panic no handler não derrubam o worker", func(t *testing.T) {
		var (
			mu    sync.Mutex
			calls int
		)

		q := NewLocalQueue(1, 10, time.Second, func(ctx context.Context, task Task) error {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()

			switch n {
			case 1:
				return errors.New("falhou")
			case 2:
				panic("inesperado")
			}
			return nil
		})

		for i := 0; i < 3; i++ {
			_, err := q.Enqueue(context.Background(), "snapshot.persist", "t1", payload{})
			require.NoError(t, err)
		}

		require.NoError(t, q.Close())
		assert.Equal(t, 3, calls)
	})

	t.Run("Fila cheia recusa a tarefa", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{}, 1)

		q := NewLocalQueue(1, 1, 0, func(ctx context.Context, task Task) error {
			select {
			case started <- struct{}{}:
			default:
			}
			<-release
			return nil
		})

		_, err := q.Enqueue(context.Background(), "snapshot.persist", "t1", payload{})
		require.NoError(t, err)
		<-started

		_, err = q.Enqueue(context.Background(), "snapshot.persist", "t1", payload{})
		require.NoError(t, err)

		_, err = q.Enqueue(context.Background(), "snapshot.persist", "t1", payload{})
		assert.ErrorIs(t, err, ErrQueueFull)

		close(release)
		require.NoError(t, q.Close())
	})

	t.Run("Fila encerrada recusa novas tarefas", func(t *testing.T) {
		q := NewLocalQueue(1, 1, 0, func(ctx context.Context, task Task) error { return nil })
		require.NoError(t, q.Close())
		require.NoError(t, q.Close())

		_, err := q.Enqueue(context.Background(), "snapshot.persist", "t1", payload{})
		assert.ErrorIs(t, err, ErrQueueClosed)
	})
}
