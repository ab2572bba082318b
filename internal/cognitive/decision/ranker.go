// Package decision ordena os achados por alavancagem e projeta o ritmo das metas do mês.
package decision

import (
	"math"
	"sort"

	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/pkg/utils"
)

const defaultEffort = 2.0

var effortScores = map[domain.Level]float64{
	domain.LevelLow:    1,
	domain.LevelMedium: 2,
	domain.LevelHigh:   3,
}

// Urgency é o peso da severidade no score
func Urgency(severity domain.Severity) float64 {
	return float64(severity.Weight())
}

// MeanEffort usa esforço médio 2 quando não há recomendações
func MeanEffort(recommendations []domain.Recommendation) float64 {
	if len(recommendations) == 0 {
		return defaultEffort
	}

	var sum float64
	for _, r := range recommendations {
		effort, ok := effortScores[r.Effort]
		if !ok {
			effort = defaultEffort
		}
		sum += effort
	}
	return sum / float64(len(recommendations))
}

// Rank pontua |impacto| × confiança × urgência ÷ esforço; empates mantêm a ordem de entrada
func Rank(findings []domain.CognitiveFinding) []domain.RankedDecision {
	type scored struct {
		decision domain.RankedDecision
		raw      float64
	}

	items := make([]scored, 0, len(findings))
	for _, f := range findings {
		components := domain.ScoreComponents{
			Impact:     math.Abs(f.FinancialImpact.NetImpact),
			Confidence: f.FinancialImpact.Confidence,
			Urgency:    Urgency(f.Severity),
			Effort:     MeanEffort(f.Recommendations),
		}
		raw := components.Impact * components.Confidence * components.Urgency / components.Effort

		items = append(items, scored{
			decision: domain.RankedDecision{
				Score:      utils.RoundWithTwoDecimalPlace(raw),
				Components: components,
				Finding:    f,
			},
			raw: raw,
		})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].raw > items[j].raw })

	out := make([]domain.RankedDecision, 0, len(items))
	for i, item := range items {
		item.decision.Rank = i + 1
		out = append(out, item.decision)
	}
	return out
}
