// Package snapshots entrega o histórico diário dos escopos ao enriquecedor de tendências,
// memoizado em cache e protegido por circuit breaker.
package snapshots

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/vfg2006/cognitive-engine/infrastructure/cache"
	"github.com/vfg2006/cognitive-engine/infrastructure/repository"
	"github.com/vfg2006/cognitive-engine/internal/config"
	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/internal/telemetry"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultTTL = 10 * time.Minute

type Fetcher struct {
	repo    repository.SnapshotRepository
	cache   cache.Cache
	breaker *gobreaker.CircuitBreaker
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	windows map[int]struct{} // janelas (em dias) já memoizadas, usadas na invalidação
}

func NewFetcher(repo repository.SnapshotRepository, c cache.Cache, breaker *gobreaker.CircuitBreaker, ttl time.Duration) *Fetcher {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &Fetcher{
		repo:    repo,
		cache:   c,
		breaker: breaker,
		ttl:     ttl,
		now:     time.Now,
		windows: make(map[int]struct{}),
	}
}

// WithWindows registra janelas conhecidas de antemão, para que a invalidação alcance chaves gravadas
// por outras instâncias que compartilham o Redis
func (f *Fetcher) WithWindows(days ...int) *Fetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range days {
		if d > 0 {
			f.windows[d] = struct{}{}
		}
	}
	return f
}

func (f *Fetcher) rememberWindow(days int) {
	f.mu.Lock()
	f.windows[days] = struct{}{}
	f.mu.Unlock()
}

func (f *Fetcher) knownWindows() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, 0, len(f.windows))
	for d := range f.windows {
		out = append(out, d)
	}
	return out
}

// Invalidate descarta o histórico em cache dos escopos em todas as janelas conhecidas
func (f *Fetcher) Invalidate(ctx context.Context, tenantID string, scopes ...string) error {
	if f.cache == nil {
		return nil
	}

	var errs []error
	for _, scope := range scopes {
		for _, days := range f.knownWindows() {
			if err := f.cache.Delete(ctx, cacheKey(tenantID, scope, days)); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

// NewBreaker cria o circuit breaker das leituras de snapshot
func NewBreaker(name string, cfg config.Breaker) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logrus.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker mudou de estado")
		},
	})
}

func cacheKey(tenantID, scope string, days int) string {
	return fmt.Sprintf("snapshots:%s:%s:%d", tenantID, scope, days)
}

// Fetch devolve os snapshots dos últimos days dias do escopo, em ordem crescente de data
func (f *Fetcher) Fetch(ctx context.Context, tenantID, scope string, days int) ([]domain.HistoricalSnapshot, error) {
	key := cacheKey(tenantID, scope, days)
	f.rememberWindow(days)

	if cached, ok := f.fromCache(ctx, key); ok {
		return cached, nil
	}

	since := f.now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -days)

	result, err := f.breaker.Execute(func() (interface{}, error) {
		return f.repo.GetByScope(ctx, tenantID, scope, since)
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar snapshots do escopo %s: %w", scope, err)
	}

	entries, _ := result.([]*domain.SnapshotEntry)
	snapshots := make([]domain.HistoricalSnapshot, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		snapshots = append(snapshots, entry.ToHistorical())
	}

	f.toCache(ctx, key, snapshots)

	return snapshots, nil
}

func (f *Fetcher) fromCache(ctx context.Context, key string) ([]domain.HistoricalSnapshot, bool) {
	if f.cache == nil {
		return nil, false
	}

	raw, err := f.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			telemetry.SnapshotCacheRequests.WithLabelValues("miss").Inc()
		} else {
			telemetry.SnapshotCacheRequests.WithLabelValues("error").Inc()
			logrus.WithError(err).WithField("key", key).Warn("Falha ao ler snapshots do cache")
		}
		return nil, false
	}

	var snapshots []domain.HistoricalSnapshot
	if err := json.Unmarshal(raw, &snapshots); err != nil {
		telemetry.SnapshotCacheRequests.WithLabelValues("error").Inc()
		logrus.WithError(err).WithField("key", key).Warn("Snapshots em cache inválidos, consultando o banco")
		return nil, false
	}

	telemetry.SnapshotCacheRequests.WithLabelValues("hit").Inc()
	return snapshots, true
}

func (f *Fetcher) toCache(ctx context.Context, key string, snapshots []domain.HistoricalSnapshot) {
	if f.cache == nil {
		return
	}

	raw, err := json.Marshal(snapshots)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Falha ao serializar snapshots para o cache")
		return
	}

	if err := f.cache.Set(ctx, key, raw, f.ttl); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Falha ao gravar snapshots no cache")
	}
}
