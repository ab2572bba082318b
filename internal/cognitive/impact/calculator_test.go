package impact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/cognitive-engine/internal/domain"
)

func TestFormulas(t *testing.T) {
	tests := []struct {
		name       string
		impact     domain.FinancialImpact
		gain       float64
		saving     float64
		confidence float64
		timeframe  domain.Timeframe
	}{
		{
			name:       "lacuna de receita projeta o fim do mês",
			impact:     RevenueGap(45000, 100000, 15, 30),
			gain:       10000,
			confidence: 0.65,
			timeframe:  domain.TimeframeShort,
		},
		{
			name:       "lacuna de receita nunca é negativa",
			impact:     RevenueGap(60000, 100000, 15, 30),
			gain:       0,
			confidence: 0.65,
			timeframe:  domain.TimeframeShort,
		},
		{
			name:       "investimento desperdiçado",
			impact:     WastedSpend(60),
			saving:     60,
			confidence: 0.9,
			timeframe:  domain.TimeframeImmediate,
		},
		{
			name:       "realocação de orçamento",
			impact:     BudgetReallocation(1000, 2, 9),
			gain:       4200,
			confidence: 0.6,
			timeframe:  domain.TimeframeShort,
		},
		{
			name:       "realocação para ROAS menor não gera ganho",
			impact:     BudgetReallocation(1000, 9, 2),
			confidence: 0.6,
			timeframe:  domain.TimeframeShort,
		},
		{
			name:       "subinvestimento limitado a 2x o atual",
			impact:     Underinvestment(1000, 100, 10),
			gain:       1000,
			confidence: 0.6,
			timeframe:  domain.TimeframeShort,
		},
		{
			name:       "subinvestimento pela distância até a média",
			impact:     Underinvestment(500, 400, 10),
			gain:       500,
			confidence: 0.6,
			timeframe:  domain.TimeframeShort,
		},
		{
			name:       "risco de concentração",
			impact:     ConcentrationRisk(10000),
			gain:       3000,
			confidence: 0.5,
			timeframe:  domain.TimeframeMedium,
		},
		{
			name:       "placeholder",
			impact:     Placeholder(),
			confidence: 0.3,
			timeframe:  domain.TimeframeMedium,
		},
		{
			name:       "excesso de investimento",
			impact:     Overspend(6000, 10000, 15, 30),
			saving:     2000,
			confidence: 0.65,
			timeframe:  domain.TimeframeImmediate,
		},
		{
			name:       "redução de investimento",
			impact:     SpendReduction(200, 0.3),
			saving:     60,
			confidence: 0.7,
			timeframe:  domain.TimeframeImmediate,
		},
		{
			name:       "lacuna de ROAS",
			impact:     RoasGap(1000, 3, 5),
			gain:       1000,
			confidence: 0.5,
			timeframe:  domain.TimeframeShort,
		},
		{
			name:       "lacuna de CPA",
			impact:     CpaGap(100, 60, 50),
			saving:     500,
			confidence: 0.5,
			timeframe:  domain.TimeframeShort,
		},
		{
			name:       "recuperação de carrinho",
			impact:     CartRecovery(1000, 80, 200),
			gain:       16000,
			confidence: 0.5,
			timeframe:  domain.TimeframeShort,
		},
		{
			name:       "recuperação de tendência limitada a 100%",
			impact:     TrendRecovery(1000, -20),
			gain:       500,
			confidence: 0.4,
			timeframe:  domain.TimeframeShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.gain, tt.impact.EstimatedRevenueGain)
			assert.Equal(t, tt.saving, tt.impact.EstimatedCostSaving)
			assert.Equal(t, tt.confidence, tt.impact.Confidence)
			assert.Equal(t, tt.timeframe, tt.impact.Timeframe)
			assert.Equal(t, tt.impact.EstimatedRevenueGain+tt.impact.EstimatedCostSaving, tt.impact.NetImpact)
			assert.NoError(t, tt.impact.Validate())
		})
	}
}

func TestProject_ZeroDay(t *testing.T) {
	assert.Equal(t, 500.0, Project(500, 0, 30))
}
