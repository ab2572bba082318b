package trend

import (
	"context"
	"sort"
	"sync"

	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/internal/telemetry"
	"github.com/vfg2006/cognitive-engine/pkg/log"
)

//go:generate mockgen -source=enricher.go -destination=mocks/mock_enricher.go -package=mocks

// SnapshotFetcher busca os snapshots diários de um escopo, ordenados por data
type SnapshotFetcher interface {
	Fetch(ctx context.Context, tenantID, scope string, days int) ([]domain.HistoricalSnapshot, error)
}

type Config struct {
	TopSkus      int
	LookbackDays int
	Concurrency  int
}

type Enricher struct {
	fetcher SnapshotFetcher
	config  Config
}

func NewEnricher(fetcher SnapshotFetcher, cfg Config) *Enricher {
	if cfg.TopSkus <= 0 {
		cfg.TopSkus = 10
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 30
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}

	return &Enricher{fetcher: fetcher, config: cfg}
}

type scopeRequest struct {
	scope  string
	sku    string
	metric string
}

// Enrich preenche cube.Trends uma única vez. Falhas de busca em um escopo são registradas
// e tratadas como ausência de tendência, sem interromper os demais escopos.
func (e *Enricher) Enrich(ctx context.Context, cube *domain.DataCube) {
	if e == nil || e.fetcher == nil || cube == nil {
		return
	}

	logger := log.ForTenant(ctx, cube.Meta.TenantID)
	requests := e.scopes(cube)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[string]domain.TrendData, len(requests))
		sem     = make(chan struct{}, e.config.Concurrency)
	)

	for _, req := range requests {
		wg.Add(1)
		go func(req scopeRequest) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			snapshots, err := e.fetcher.Fetch(ctx, cube.Meta.TenantID, req.scope, e.config.LookbackDays)
			if err != nil {
				telemetry.SnapshotFetchFailures.WithLabelValues(scopeKind(req)).Inc()
				logger.WithError(err).WithField("scope", req.scope).Warn("Falha ao buscar snapshots, seguindo sem tendência para o escopo")
				return
			}

			trend := Analyze(Series(snapshots, req.metric))
			if trend == nil {
				return
			}

			mu.Lock()
			results[req.scope] = *trend
			mu.Unlock()
		}(req)
	}

	wg.Wait()

	if len(results) == 0 {
		return
	}

	trends := &domain.CubeTrends{Skus: make(map[string]domain.TrendData)}
	if account, ok := results[domain.SnapshotScopeAccount]; ok {
		trends.Account = &account
	}

	for i := range cube.Skus {
		trend, ok := results[domain.SkuScope(cube.Skus[i].SKU)]
		if !ok {
			continue
		}
		trends.Skus[cube.Skus[i].SKU] = trend
		t := trend
		cube.Skus[i].Trend = &t
	}

	cube.Trends = trends

	logger.WithField("scopes", len(results)).Debug("Tendências calculadas")
}

// scopes devolve a conta e os N SKUs de maior investimento
func (e *Enricher) scopes(cube *domain.DataCube) []scopeRequest {
	requests := []scopeRequest{{scope: domain.SnapshotScopeAccount, metric: MetricRevenue}}

	skus := make([]domain.SkuSlice, 0, len(cube.Skus))
	for _, sku := range cube.Skus {
		if sku.SKU != "" && sku.Spend > 0 {
			skus = append(skus, sku)
		}
	}
	sort.SliceStable(skus, func(i, j int) bool {
		return skus[i].Spend > skus[j].Spend
	})

	for i, sku := range skus {
		if i >= e.config.TopSkus {
			break
		}
		requests = append(requests, scopeRequest{scope: domain.SkuScope(sku.SKU), sku: sku.SKU, metric: MetricROAS})
	}

	return requests
}

func scopeKind(req scopeRequest) string {
	if req.sku != "" {
		return "sku"
	}
	return domain.SnapshotScopeAccount
}
