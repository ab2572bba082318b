// Package trend transforma snapshots diários em classificações de tendência.
package trend

import (
	"sort"

	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/pkg/utils"
	"gonum.org/v1/gonum/stat"
)

const (
	minDataPoints   = 3
	movingAvgWindow = 7
	slopeThreshold  = 1.5

	MetricRevenue = "revenue"
	MetricSpend   = "spend"
	MetricROAS    = "roas"
)

// Analyze calcula a inclinação por mínimos quadrados sobre a sequência de índices e compara
// a média móvel de 7 pontos com a da janela anterior. Devolve nil com menos de 3 pontos.
func Analyze(values []float64) *domain.TrendData {
	n := len(values)
	if n < minDataPoints {
		return nil
	}

	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}

	_, slope := stat.LinearRegression(xs, values, nil, false)
	mean := stat.Mean(values, nil)
	slopePct := utils.SafeDivide(slope, mean) * 100

	current := stat.Mean(values[n-min(movingAvgWindow, n):], nil)
	previous := current
	if n > movingAvgWindow {
		previous = stat.Mean(values[max(0, n-2*movingAvgWindow):n-movingAvgWindow], nil)
	}

	return &domain.TrendData{
		Classification:      classify(slopePct, current, previous),
		SlopePct:            utils.RoundWithTwoDecimalPlace(slopePct),
		MovingAvg7d:         utils.RoundWithTwoDecimalPlace(current),
		PreviousMovingAvg7d: utils.RoundWithTwoDecimalPlace(previous),
		DataPoints:          n,
	}
}

func classify(slopePct, current, previous float64) domain.TrendClassification {
	switch {
	case slopePct > slopeThreshold && current >= 0.95*previous:
		return domain.TrendImproving
	case slopePct < -slopeThreshold && current <= 1.05*previous:
		return domain.TrendDeclining
	default:
		return domain.TrendStable
	}
}

// Series extrai a série de uma métrica em ordem cronológica. ROAS ausente é derivado de receita/investimento;
// dias sem a métrica são ignorados.
func Series(snapshots []domain.HistoricalSnapshot, metric string) []float64 {
	ordered := make([]domain.HistoricalSnapshot, len(snapshots))
	copy(ordered, snapshots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	values := make([]float64, 0, len(ordered))
	for _, snapshot := range ordered {
		value, ok := snapshot.Metrics[metric]
		if !ok && metric == MetricROAS {
			spend, hasSpend := snapshot.Metrics[MetricSpend]
			revenue, hasRevenue := snapshot.Metrics[MetricRevenue]
			if !hasSpend || !hasRevenue {
				continue
			}
			value, ok = utils.SafeDivide(revenue, spend), true
		}
		if !ok {
			continue
		}
		values = append(values, value)
	}

	return values
}
