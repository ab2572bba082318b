package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/cognitive-engine/infrastructure/repository/mocks"
	"github.com/vfg2006/cognitive-engine/internal/config"
	"go.uber.org/mock/gomock"
)

func newRetentionConfig(days, lookback int) *config.Config {
	return &config.Config{
		SnapshotRetention: config.SnapshotRetention{
			CronSchedule: "0 2 * * *",
			Days:         days,
			Enabled:      true,
		},
		Cognitive: config.Cognitive{LookbackDays: lookback},
	}
}

func TestNewSnapshotRetentionService_RetentionDays(t *testing.T) {
	tests := []struct {
		name     string
		days     int
		lookback int
		want     int
	}{
		{name: "Valor configurado é mantido", days: 120, lookback: 30, want: 120},
		{name: "Abaixo do mínimo sobe para o mínimo", days: 7, lookback: 30, want: minRetentionDays},
		{name: "Janela de tendência maior que a retenção", days: 60, lookback: 90, want: 91},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSnapshotRetentionService(nil, newRetentionConfig(tt.days, tt.lookback))
			assert.Equal(t, tt.want, s.config.RetentionDays)
		})
	}
}

func TestSnapshotRetentionService_run(t *testing.T) {
	ctx := context.Background()

	t.Run("Remove snapshots fora da janela e registra o status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockSnapshotRepository(ctrl)
		repo.EXPECT().DeleteOlderThan(ctx, 120).Return(int64(42), nil)

		s := NewSnapshotRetentionService(repo, newRetentionConfig(120, 30))

		assert.True(t, s.run(ctx))

		status := s.GetStatus()
		assert.Equal(t, int64(42), status["last_run_deleted_count"])
		assert.Equal(t, "", status["last_run_error"])
		assert.Equal(t, false, status["running"])
	})

	t.Run("Erro do banco fica no status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockSnapshotRepository(ctrl)
		repo.EXPECT().DeleteOlderThan(ctx, 120).Return(int64(0), errors.New("timeout"))

		s := NewSnapshotRetentionService(repo, newRetentionConfig(120, 30))

		assert.True(t, s.run(ctx))
		assert.Equal(t, "timeout", s.GetStatus()["last_run_error"])
	})

	t.Run("Execução concorrente é ignorada", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockSnapshotRepository(ctrl)

		s := NewSnapshotRetentionService(repo, newRetentionConfig(120, 30))
		s.runRunning = true

		assert.False(t, s.run(ctx))
	})

	t.Run("Desabilitado não agenda nada", func(t *testing.T) {
		cfg := newRetentionConfig(120, 30)
		cfg.SnapshotRetention.Enabled = false

		s := NewSnapshotRetentionService(nil, cfg)
		assert.NoError(t, s.Start(ctx))
		assert.Empty(t, s.scheduler.Jobs())
	})
}
