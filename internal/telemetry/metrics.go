// Package telemetry concentra as métricas Prometheus do motor cognitivo.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Métricas do pipeline
	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cognitive_pipeline_duration_seconds",
		Help:    "Duração da análise cognitiva completa",
		Buckets: prometheus.DefBuckets,
	})

	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cognitive_analyses_total",
		Help: "Total de análises executadas",
	}, []string{"status"})

	FindingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cognitive_findings_total",
		Help: "Total de achados emitidos",
	}, []string{"category", "severity"})

	ModesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cognitive_modes_total",
		Help: "Modos estratégicos atribuídos",
	}, []string{"mode"})

	BudgetPlansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cognitive_budget_plans_total",
		Help: "Planos de orçamento propostos ou abstidos",
	}, []string{"outcome"})

	HealthScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cognitive_health_score",
		Help:    "Distribuição do score de saúde",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	// Métricas de infraestrutura
	SnapshotFetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cognitive_snapshot_fetch_failures_total",
		Help: "Falhas ao buscar snapshots históricos",
	}, []string{"scope"})

	SnapshotCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cognitive_snapshot_cache_requests_total",
		Help: "Consultas ao cache de snapshots",
	}, []string{"result"})

	QueueTasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cognitive_queue_tasks_total",
		Help: "Tarefas assíncronas processadas",
	}, []string{"type", "status"})

	SnapshotsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cognitive_snapshots_deleted_total",
		Help: "Snapshots removidos pela retenção",
	})
)
