package bottleneck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/cognitive-engine/internal/domain"
)

func baseCube() *domain.DataCube {
	return &domain.DataCube{
		Meta:    domain.CubeMeta{TenantID: "loja-1", DayOfMonth: 15, DaysInMonth: 30},
		Account: &domain.AccountSlice{Spend: 6000, Revenue: 30000, Conversions: 150, ROAS: 5},
		GA4:     &domain.GA4Slice{Sessions: 10000, Purchases: 150, Revenue: 30000, ConversionRate: 1.5, AOV: 200},
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		cube     func() *domain.DataCube
		validate func(t *testing.T, got domain.Bottleneck)
	}{
		{
			name: "sem GA4 devolve tráfego como padrão de dados insuficientes",
			cube: func() *domain.DataCube {
				c := baseCube()
				c.GA4 = nil
				return c
			},
			validate: func(t *testing.T, got domain.Bottleneck) {
				assert.Equal(t, domain.ConstraintTraffic, got.Constraint)
				assert.True(t, got.InsufficientData)
				assert.Equal(t, 0.0, got.Severity)
				assert.Equal(t, 0.3, got.FinancialImpact.Confidence)
				assert.Empty(t, got.Candidates)
			},
		},
		{
			name: "conversão abaixo da referência de 2% vence os demais fatores",
			cube: baseCube,
			validate: func(t *testing.T, got domain.Bottleneck) {
				assert.Equal(t, domain.ConstraintConversion, got.Constraint)
				assert.False(t, got.InsufficientData)
				assert.Equal(t, 3000.0, got.FinancialImpact.EstimatedRevenueGain)
				assert.Len(t, got.Candidates, 3)
				assert.Equal(t, 3750.0, got.Candidates[1].Score)
			},
		},
		{
			name: "sem desvio de referência o empate fica com tráfego",
			cube: func() *domain.DataCube {
				c := baseCube()
				c.Planning.ConversionRate = domain.Float(1.5)
				return c
			},
			validate: func(t *testing.T, got domain.Bottleneck) {
				assert.Equal(t, domain.ConstraintTraffic, got.Constraint)
			},
		},
		{
			name: "margem abaixo de 25% entra como candidata",
			cube: func() *domain.DataCube {
				c := baseCube()
				c.Skus = []domain.SkuSlice{{SKU: "A1", Revenue: 10000, GrossProfit: 1000, HasCostData: true}}
				return c
			},
			validate: func(t *testing.T, got domain.Bottleneck) {
				assert.Equal(t, domain.ConstraintMargin, got.Constraint)
				assert.Equal(t, 4500.0, got.FinancialImpact.EstimatedRevenueGain)
			},
		},
		{
			name: "investimento 20% abaixo do ritmo planejado vira gargalo de verba",
			cube: func() *domain.DataCube {
				c := baseCube()
				c.Planning.Investment = domain.Float(20000)
				return c
			},
			validate: func(t *testing.T, got domain.Bottleneck) {
				assert.Equal(t, domain.ConstraintBudget, got.Constraint)
				assert.Equal(t, 14000.0, got.FinancialImpact.EstimatedRevenueGain)
			},
		},
		{
			name: "severidade é o gap de receita projetada sobre a meta",
			cube: func() *domain.DataCube {
				c := baseCube()
				c.Planning.Revenue = domain.Float(100000)
				return c
			},
			validate: func(t *testing.T, got domain.Bottleneck) {
				assert.Equal(t, 0.4, got.Severity)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, Detect(tt.cube()))
		})
	}
}
