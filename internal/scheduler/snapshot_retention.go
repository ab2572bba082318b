package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/cognitive-engine/infrastructure/repository"
	"github.com/vfg2006/cognitive-engine/internal/config"
	"github.com/vfg2006/cognitive-engine/internal/telemetry"
)

const minRetentionDays = 35

// SnapshotRetentionConfig representa a configuração da limpeza de snapshots antigos
type SnapshotRetentionConfig struct {
	CronSchedule  string
	RetentionDays int
	Enabled       bool
}

// SnapshotRetentionService remove periodicamente os snapshots fora da janela de retenção
type SnapshotRetentionService struct {
	scheduler           *gocron.Scheduler
	config              SnapshotRetentionConfig
	snapshotRepo        repository.SnapshotRepository
	runRunning          bool
	runMutex            sync.Mutex
	lastRunStartedAt    time.Time
	lastRunCompletedAt  time.Time
	lastRunDeletedCount int64
	lastRunError        string
}

func NewSnapshotRetentionService(
	snapshotRepo repository.SnapshotRepository,
	appConfig *config.Config,
) *SnapshotRetentionService {
	retentionConfig := SnapshotRetentionConfig{
		CronSchedule:  appConfig.SnapshotRetention.CronSchedule,
		RetentionDays: appConfig.SnapshotRetention.Days,
		Enabled:       appConfig.SnapshotRetention.Enabled,
	}

	// A janela de tendência não pode ficar sem histórico
	if retentionConfig.RetentionDays < minRetentionDays {
		retentionConfig.RetentionDays = minRetentionDays
	}
	if lookback := appConfig.Cognitive.LookbackDays; retentionConfig.RetentionDays <= lookback {
		retentionConfig.RetentionDays = lookback + 1
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":  retentionConfig.CronSchedule,
		"retention_days": retentionConfig.RetentionDays,
		"enabled":        retentionConfig.Enabled,
	}).Info("Configuração da retenção de snapshots carregada")

	return &SnapshotRetentionService{
		scheduler:    gocron.NewScheduler(time.UTC),
		config:       retentionConfig,
		snapshotRepo: snapshotRepo,
	}
}

// Start inicia o agendador
func (s *SnapshotRetentionService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Retenção de snapshots desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de retenção de snapshots")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.run(context.Background())
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar retenção de snapshots: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de retenção de snapshots")
		s.scheduler.Stop()
	}()

	return nil
}

// run executa a limpeza; devolve false quando outra execução já está em andamento
func (s *SnapshotRetentionService) run(ctx context.Context) bool {
	s.runMutex.Lock()
	if s.runRunning {
		s.runMutex.Unlock()
		logrus.Info("Retenção de snapshots já em andamento, ignorando")
		return false
	}
	s.runRunning = true
	s.lastRunStartedAt = time.Now()
	s.runMutex.Unlock()

	startTime := time.Now()
	deleted, err := s.snapshotRepo.DeleteOlderThan(ctx, s.config.RetentionDays)

	s.runMutex.Lock()
	defer s.runMutex.Unlock()
	s.runRunning = false

	if err != nil {
		s.lastRunError = err.Error()
		logrus.WithError(err).Error("Erro ao remover snapshots antigos")
		return true
	}

	telemetry.SnapshotsDeleted.Add(float64(deleted))
	s.lastRunError = ""
	s.lastRunDeletedCount = deleted
	s.lastRunCompletedAt = time.Now()

	logrus.WithFields(logrus.Fields{
		"deleted":        deleted,
		"retention_days": s.config.RetentionDays,
		"duration":       time.Since(startTime).String(),
	}).Info("Retenção de snapshots concluída")

	return true
}

// TriggerManualSync inicia manualmente a limpeza de snapshots
func (s *SnapshotRetentionService) TriggerManualSync() {
	s.runMutex.Lock()
	if s.runRunning {
		s.runMutex.Unlock()
		logrus.Info("Retenção de snapshots já em andamento, ignorando solicitação manual")
		return
	}
	s.runMutex.Unlock()

	logrus.Info("Iniciando retenção manual de snapshots")
	go s.run(context.Background())
}

// GetStatus retorna o status atual do agendador
func (s *SnapshotRetentionService) GetStatus() map[string]any {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()

	return map[string]any{
		"enabled":                s.config.Enabled,
		"cron":                   s.config.CronSchedule,
		"retention_days":         s.config.RetentionDays,
		"running":                s.runRunning,
		"last_run_started_at":    s.lastRunStartedAt,
		"last_run_completed_at":  s.lastRunCompletedAt,
		"last_run_deleted_count": s.lastRunDeletedCount,
		"last_run_error":         s.lastRunError,
	}
}
