package snapshotting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/cognitive-engine/infrastructure/queue"
	queuemocks "github.com/vfg2006/cognitive-engine/infrastructure/queue/mocks"
	"github.com/vfg2006/cognitive-engine/infrastructure/repository/mocks"
	"github.com/vfg2006/cognitive-engine/internal/domain"
	snapshotmocks "github.com/vfg2006/cognitive-engine/internal/usecases/snapshotting/mocks"
	"go.uber.org/mock/gomock"
)

func sampleRecord() domain.SnapshotRecord {
	return domain.SnapshotRecord{
		TenantID: "t1",
		Date:     time.Date(2025, 3, 10, 18, 45, 0, 0, time.UTC),
		Account:  map[string]float64{"revenue": 1000, "spend": 250},
		Skus: map[string]map[string]float64{
			"B2": {"revenue": 300, "spend": 100},
			"A1": {"revenue": 700, "spend": 150},
			"":   {"revenue": 1},
		},
	}
}

func TestEntries(t *testing.T) {
	entries := Entries(sampleRecord())

	require.Len(t, entries, 3)
	assert.Equal(t, "account", entries[0].Scope)
	assert.Equal(t, "sku:A1", entries[1].Scope)
	assert.Equal(t, "sku:B2", entries[2].Scope)

	for _, entry := range entries {
		assert.Equal(t, "t1", entry.TenantID)
		assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), entry.Date)
	}
}

func TestService_Persist(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		record  domain.SnapshotRecord
		setup   func(repo *mocks.MockSnapshotRepository)
		wantErr error
	}{
		{
			name:   "Grava conta e SKUs em lote",
			record: sampleRecord(),
			setup: func(repo *mocks.MockSnapshotRepository) {
				repo.EXPECT().SaveBatch(ctx, gomock.Len(3)).Return(nil)
			},
		},
		{
			name:    "Sem tenant é inválido",
			record:  domain.SnapshotRecord{Date: time.Now(), Account: map[string]float64{"revenue": 1}},
			wantErr: ErrInvalidSnapshot,
		},
		{
			name:    "Sem métricas é inválido",
			record:  domain.SnapshotRecord{TenantID: "t1", Date: time.Now()},
			wantErr: ErrInvalidSnapshot,
		},
		{
			name:   "Erro do banco é propagado",
			record: sampleRecord(),
			setup: func(repo *mocks.MockSnapshotRepository) {
				repo.EXPECT().SaveBatch(ctx, gomock.Any()).Return(errors.New("conexão perdida"))
			},
			wantErr: errors.New("erro ao gravar snapshots: conexão perdida"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockSnapshotRepository(ctrl)
			if tt.setup != nil {
				tt.setup(repo)
			}

			err := NewService(repo).Persist(ctx, tt.record)

			switch {
			case tt.wantErr == nil:
				assert.NoError(t, err)
			case errors.Is(tt.wantErr, ErrInvalidSnapshot):
				assert.ErrorIs(t, err, ErrInvalidSnapshot)
			default:
				assert.EqualError(t, err, tt.wantErr.Error())
			}
		})
	}
}

func TestService_Persist_SingleScopeAndCache(t *testing.T) {
	ctx := context.Background()
	accountOnly := domain.SnapshotRecord{
		TenantID: "t1",
		Date:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Account:  map[string]float64{"revenue": 1000},
	}

	t.Run("Registro só da conta grava um único escopo", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockSnapshotRepository(ctrl)

		repo.EXPECT().SaveOrUpdate(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, entry *domain.SnapshotEntry) error {
				assert.Equal(t, "account", entry.Scope)
				assert.Equal(t, 1000.0, entry.Metrics["revenue"])
				return nil
			})

		require.NoError(t, NewService(repo).Persist(ctx, accountOnly))
	})

	t.Run("Gravação invalida o cache dos escopos do dia", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockSnapshotRepository(ctrl)
		cache := snapshotmocks.NewMockSnapshotCache(ctrl)

		gomock.InOrder(
			repo.EXPECT().SaveBatch(ctx, gomock.Len(3)).Return(nil),
			cache.EXPECT().Invalidate(ctx, "t1", "account", "sku:A1", "sku:B2").Return(nil),
		)

		require.NoError(t, NewService(repo).WithCache(cache).Persist(ctx, sampleRecord()))
	})

	t.Run("Falha na invalidação não desfaz a gravação", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockSnapshotRepository(ctrl)
		cache := snapshotmocks.NewMockSnapshotCache(ctrl)

		repo.EXPECT().SaveOrUpdate(ctx, gomock.Any()).Return(nil)
		cache.EXPECT().Invalidate(ctx, "t1", "account").Return(errors.New("redis fora"))

		assert.NoError(t, NewService(repo).WithCache(cache).Persist(ctx, accountOnly))
	})

	t.Run("Erro do banco não invalida o cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockSnapshotRepository(ctrl)
		cache := snapshotmocks.NewMockSnapshotCache(ctrl)

		repo.EXPECT().SaveOrUpdate(ctx, gomock.Any()).Return(errors.New("conexão perdida"))

		assert.Error(t, NewService(repo).WithCache(cache).Persist(ctx, accountOnly))
	})
}

func TestService_Enqueue(t *testing.T) {
	ctx := context.Background()

	t.Run("Entrega o registro à fila", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := queuemocks.NewMockTaskQueue(ctrl)
		record := sampleRecord()

		q.EXPECT().Enqueue(ctx, TaskTypePersistSnapshot, "t1", record).Return("task-1", nil)

		id, err := NewService(nil).WithQueue(q).Enqueue(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, "task-1", id)
	})

	t.Run("Sem fila configurada", func(t *testing.T) {
		_, err := NewService(nil).Enqueue(ctx, sampleRecord())
		assert.ErrorIs(t, err, ErrQueueUnavailable)
	})

	t.Run("Registro inválido não chega à fila", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := queuemocks.NewMockTaskQueue(ctrl)

		_, err := NewService(nil).WithQueue(q).Enqueue(ctx, domain.SnapshotRecord{TenantID: "t1"})
		assert.ErrorIs(t, err, ErrInvalidSnapshot)
	})
}

func TestService_HandleTask(t *testing.T) {
	ctx := context.Background()

	t.Run("Tarefa da fila local é gravada", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockSnapshotRepository(ctrl)

		done := make(chan []*domain.SnapshotEntry, 1)
		repo.EXPECT().SaveBatch(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, entries []*domain.SnapshotEntry) error {
				done <- entries
				return nil
			})

		svc := NewService(repo)
		q := queue.NewLocalQueue(1, 1, time.Second, svc.HandleTask)
		svc.WithQueue(q)

		_, err := svc.Enqueue(ctx, sampleRecord())
		require.NoError(t, err)
		require.NoError(t, q.Close())

		entries := <-done
		require.Len(t, entries, 3)
		assert.Equal(t, 250.0, entries[0].Metrics["spend"])
	})

	t.Run("Tipo desconhecido", func(t *testing.T) {
		err := NewService(nil).HandleTask(ctx, queue.Task{ID: "x", Type: "outro"})
		assert.ErrorIs(t, err, ErrUnknownTask)
	})

	t.Run("Payload inválido", func(t *testing.T) {
		err := NewService(nil).HandleTask(ctx, queue.Task{ID: "x", Type: TaskTypePersistSnapshot, Payload: []byte("{")})
		assert.Error(t, err)
	})
}

func TestRecordFromContext(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		actx     domain.AnalysisContext
		wantOK   bool
		validate func(t *testing.T, record domain.SnapshotRecord)
	}{
		{
			name: "Contexto diário gera snapshot de conta e SKUs",
			actx: domain.AnalysisContext{
				TenantID:    "t1",
				PeriodStart: day,
				PeriodEnd:   day,
				Metrics: domain.RawMetrics{
					Account: &domain.AccountSlice{Spend: 200, Revenue: 900, Conversions: 9},
					GA4:     &domain.GA4Slice{Sessions: 1500, Purchases: 12, Revenue: 950},
					Skus: []domain.SkuSlice{
						{SKU: "A1", Spend: 100, Revenue: 500},
						{SKU: "", Spend: 10},
						{SKU: "B2", Spend: 0, Revenue: 40},
					},
				},
			},
			wantOK: true,
			validate: func(t *testing.T, record domain.SnapshotRecord) {
				assert.Equal(t, 900.0, record.Account["revenue"])
				assert.Equal(t, 4.5, record.Account["roas"])
				assert.Equal(t, 1500.0, record.Account["sessions"])
				assert.Len(t, record.Skus, 2)
				assert.Equal(t, 5.0, record.Skus["A1"]["roas"])
				assert.Equal(t, 0.0, record.Skus["B2"]["roas"])
			},
		},
		{
			name: "Apenas GA4 usa a receita do GA4",
			actx: domain.AnalysisContext{
				TenantID:    "t1",
				PeriodStart: day,
				PeriodEnd:   day,
				Metrics:     domain.RawMetrics{GA4: &domain.GA4Slice{Revenue: 950}},
			},
			wantOK: true,
			validate: func(t *testing.T, record domain.SnapshotRecord) {
				assert.Equal(t, 950.0, record.Account["revenue"])
				assert.Nil(t, record.Skus)
			},
		},
		{
			name: "Período de vários dias não gera snapshot",
			actx: domain.AnalysisContext{
				TenantID:    "t1",
				PeriodStart: day.AddDate(0, 0, -6),
				PeriodEnd:   day,
				Metrics:     domain.RawMetrics{Account: &domain.AccountSlice{Revenue: 1}},
			},
		},
		{
			name: "Contexto diário sem métricas",
			actx: domain.AnalysisContext{TenantID: "t1", PeriodStart: day, PeriodEnd: day},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, ok := RecordFromContext(tt.actx)
			assert.Equal(t, tt.wantOK, ok)
			if tt.validate != nil {
				tt.validate(t, record)
			}
		})
	}
}
