// Package snapshotting grava o histórico diário consumido pelo enriquecedor de tendências.
package snapshotting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"
	pkgerrors "github.com/pkg/errors"
	"github.com/vfg2006/cognitive-engine/infrastructure/queue"
	"github.com/vfg2006/cognitive-engine/infrastructure/repository"
	"github.com/vfg2006/cognitive-engine/internal/cognitive/trend"
	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/pkg/log"
	"github.com/vfg2006/cognitive-engine/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const TaskTypePersistSnapshot = "snapshot.persist"

var (
	ErrInvalidSnapshot  = errors.New("snapshot inválido")
	ErrQueueUnavailable = errors.New("fila de tarefas não configurada")
	ErrUnknownTask      = errors.New("tipo de tarefa desconhecido")
)

type Service struct {
	repo  repository.SnapshotRepository
	queue queue.TaskQueue
	cache SnapshotCache
}

func NewService(repo repository.SnapshotRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) WithQueue(q queue.TaskQueue) *Service {
	s.queue = q
	return s
}

// WithCache liga a invalidação do histórico em cache após cada gravação
func (s *Service) WithCache(c SnapshotCache) *Service {
	s.cache = c
	return s
}

func validate(record domain.SnapshotRecord) error {
	switch {
	case record.TenantID == "":
		return fmt.Errorf("%w: tenant obrigatório", ErrInvalidSnapshot)
	case record.Date.IsZero():
		return fmt.Errorf("%w: data obrigatória", ErrInvalidSnapshot)
	case record.IsEmpty():
		return fmt.Errorf("%w: nenhuma métrica informada", ErrInvalidSnapshot)
	}
	return nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Entries converte o registro em uma linha por escopo, conta primeiro e SKUs em ordem alfabética
func Entries(record domain.SnapshotRecord) []*domain.SnapshotEntry {
	date := dayOf(record.Date)
	entries := make([]*domain.SnapshotEntry, 0, len(record.Skus)+1)

	if len(record.Account) > 0 {
		entries = append(entries, &domain.SnapshotEntry{
			TenantID: record.TenantID,
			Date:     date,
			Scope:    domain.SnapshotScopeAccount,
			Metrics:  record.Account,
		})
	}

	skus := make([]string, 0, len(record.Skus))
	for sku, metrics := range record.Skus {
		if sku == "" || len(metrics) == 0 {
			continue
		}
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	for _, sku := range skus {
		entries = append(entries, &domain.SnapshotEntry{
			TenantID: record.TenantID,
			Date:     date,
			Scope:    domain.SkuScope(sku),
			Metrics:  record.Skus[sku],
		})
	}

	return entries
}

// Persist grava conta e SKUs do dia. Repetir o mesmo registro sobrescreve as mesmas linhas.
func (s *Service) Persist(ctx context.Context, record domain.SnapshotRecord) error {
	if err := validate(record); err != nil {
		return err
	}

	entries := Entries(record)

	var err error
	if len(entries) == 1 {
		err = s.repo.SaveOrUpdate(ctx, entries[0])
	} else {
		err = s.repo.SaveBatch(ctx, entries)
	}
	if err != nil {
		return fmt.Errorf("erro ao gravar snapshots: %w", err)
	}

	logger := log.ForTenant(ctx, record.TenantID)
	logger.WithFields(log.Fields{
		"date":   record.Date.Format("2006-01-02"),
		"scopes": len(entries),
	}).Info("Snapshots diários gravados")

	if s.cache != nil && len(entries) > 0 {
		scopes := make([]string, 0, len(entries))
		for _, entry := range entries {
			scopes = append(scopes, entry.Scope)
		}
		// o snapshot já está gravado; o cache expira pelo TTL se a invalidação falhar
		if err := s.cache.Invalidate(ctx, record.TenantID, scopes...); err != nil {
			logger.WithError(err).Warn("Falha ao invalidar snapshots em cache")
		}
	}

	return nil
}

// Enqueue entrega a gravação à fila de tarefas e devolve o id da tarefa
func (s *Service) Enqueue(ctx context.Context, record domain.SnapshotRecord) (string, error) {
	if err := validate(record); err != nil {
		return "", err
	}
	if s.queue == nil {
		return "", ErrQueueUnavailable
	}

	taskID, err := s.queue.Enqueue(ctx, TaskTypePersistSnapshot, record.TenantID, record)
	if err != nil {
		return "", fmt.Errorf("erro ao enfileirar snapshot: %w", err)
	}

	log.ForTenant(ctx, record.TenantID).WithField("task_id", taskID).Debug("Snapshot enfileirado")

	return taskID, nil
}

// HandleTask é o consumidor das tarefas de snapshot
func (s *Service) HandleTask(ctx context.Context, task queue.Task) error {
	if task.Type != TaskTypePersistSnapshot {
		return fmt.Errorf("%w: %s", ErrUnknownTask, task.Type)
	}

	var record domain.SnapshotRecord
	if err := json.Unmarshal(task.Payload, &record); err != nil {
		return pkgerrors.Wrapf(err, "erro ao decodificar snapshot da tarefa %s", task.ID)
	}

	return s.Persist(ctx, record)
}

// RecordFromContext extrai o snapshot de um contexto diário. Contextos de mais de um dia não geram histórico.
func RecordFromContext(actx domain.AnalysisContext) (domain.SnapshotRecord, bool) {
	if !actx.IsSingleDay() || actx.TenantID == "" {
		return domain.SnapshotRecord{}, false
	}

	record := domain.SnapshotRecord{
		TenantID: actx.TenantID,
		Date:     dayOf(actx.PeriodStart),
	}

	raw := actx.Metrics
	account := map[string]float64{}
	if raw.Account != nil {
		account[trend.MetricSpend] = raw.Account.Spend
		account[trend.MetricRevenue] = raw.Account.Revenue
		account[trend.MetricROAS] = utils.RoundWithTwoDecimalPlace(utils.SafeDivide(raw.Account.Revenue, raw.Account.Spend))
		account["conversions"] = raw.Account.Conversions
		account["clicks"] = raw.Account.Clicks
		account["impressions"] = raw.Account.Impressions
	}
	if raw.GA4 != nil {
		if _, ok := account[trend.MetricRevenue]; !ok {
			account[trend.MetricRevenue] = raw.GA4.Revenue
		}
		account["sessions"] = raw.GA4.Sessions
		account["purchases"] = raw.GA4.Purchases
	}
	if len(account) > 0 {
		record.Account = account
	}

	for _, sku := range raw.Skus {
		if sku.SKU == "" {
			continue
		}
		if record.Skus == nil {
			record.Skus = make(map[string]map[string]float64)
		}
		record.Skus[sku.SKU] = map[string]float64{
			trend.MetricSpend:   sku.Spend,
			trend.MetricRevenue: sku.Revenue,
			trend.MetricROAS:    utils.RoundWithTwoDecimalPlace(utils.SafeDivide(sku.Revenue, sku.Spend)),
			"conversions":       sku.Conversions,
		}
	}

	return record, !record.IsEmpty()
}
