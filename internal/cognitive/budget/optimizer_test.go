package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/cognitive-engine/internal/domain"
)

func sku(id string, spend, roas, conversions float64) domain.SkuSlice {
	return domain.SkuSlice{SKU: id, Spend: spend, Revenue: spend * roas, ROAS: roas, Conversions: conversions}
}

func TestOptimize_ScenarioC(t *testing.T) {
	cube := &domain.DataCube{
		Skus: []domain.SkuSlice{
			sku("S1", 1000, 2, 20),
			sku("S2", 800, 2, 16),
			sku("S3", 600, 9, 30),
			sku("S4", 400, 9, 20),
			sku("S5", 200, 9, 10),
		},
	}

	plan := Optimize(cube)
	require.NotNil(t, plan)

	assert.Equal(t, domain.BudgetScopeSku, plan.Scope)
	assert.Equal(t, 3000.0, plan.TotalBudget)
	assert.Equal(t, 14400.0, plan.CurrentRevenue)

	entities := make([]string, 0, len(plan.Allocations))
	for _, a := range plan.Allocations {
		entities = append(entities, a.Entity)
	}
	assert.Equal(t, []string{"S3", "S4", "S5", "S2", "S1"}, entities)

	byEntity := map[string]domain.BudgetAllocation{}
	for _, a := range plan.Allocations {
		byEntity[a.Entity] = a
	}
	assert.Equal(t, -500.0, byEntity["S1"].Delta)
	assert.Equal(t, -400.0, byEntity["S2"].Delta)
	for _, id := range []string{"S3", "S4", "S5"} {
		assert.Equal(t, 300.0, byEntity[id].Delta, id)
		assert.Equal(t, 1890.0, byEntity[id].ExpectedRevenue, id)
	}

	assert.Equal(t, 18270.0, plan.ExpectedRevenue)
	assert.Equal(t, 3870.0, plan.ImprovementBRL)
}

func TestOptimize_NeverCutsMoreThanHalf(t *testing.T) {
	cube := &domain.DataCube{
		Skus: []domain.SkuSlice{
			sku("S1", 3000, 0.5, 3),
			sku("S2", 900, 4, 9),
			sku("S3", 500, 12, 20),
			sku("S4", 400, 15, 12),
		},
	}

	plan := Optimize(cube)
	require.NotNil(t, plan)

	for _, a := range plan.Allocations {
		if a.Delta < 0 {
			assert.LessOrEqual(t, -a.Delta, a.CurrentBudget*0.5, a.Entity)
		}
	}
}

func TestOptimize_Abstains(t *testing.T) {
	tests := []struct {
		name string
		cube *domain.DataCube
	}{
		{
			name: "menos de três entidades ativas",
			cube: &domain.DataCube{Skus: []domain.SkuSlice{sku("S1", 1000, 2, 10), sku("S2", 1000, 9, 10), sku("S3", 40, 9, 2)}},
		},
		{
			name: "investimento total abaixo de 500",
			cube: &domain.DataCube{Skus: []domain.SkuSlice{sku("S1", 150, 2, 3), sku("S2", 150, 9, 10), sku("S3", 100, 9, 2)}},
		},
		{
			name: "verba realocável abaixo de 100",
			cube: &domain.DataCube{Skus: []domain.SkuSlice{
				sku("S1", 150, 4, 3),
				sku("S2", 300, 20, 5),
				sku("S3", 300, 5, 5),
				sku("S4", 200, 5, 4),
			}},
		},
		{
			name: "sem destinos acima de 1,3× a média",
			cube: &domain.DataCube{Skus: []domain.SkuSlice{sku("S1", 1000, 4, 10), sku("S2", 1000, 5, 10), sku("S3", 1000, 6, 10)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, Optimize(tt.cube))
		})
	}
}

func TestOptimize_FallsBackToCampaigns(t *testing.T) {
	cube := &domain.DataCube{
		Skus: []domain.SkuSlice{sku("S1", 1000, 2, 10)},
		Campaigns: []domain.CampaignSlice{
			{ID: "c1", Name: "Prospecção", Spend: 2000, Revenue: 4000, ROAS: 2, Conversions: 20},
			{ID: "c2", Name: "Remarketing", Spend: 500, Revenue: 6000, ROAS: 12, Conversions: 40},
			{ID: "c3", Name: "Catálogo", Spend: 500, Revenue: 2500, ROAS: 5, Conversions: 10},
		},
	}

	plan := Optimize(cube)
	require.NotNil(t, plan)
	assert.Equal(t, domain.BudgetScopeCampaign, plan.Scope)
	require.Len(t, plan.Allocations, 2)
	assert.Equal(t, "Remarketing", plan.Allocations[0].Entity)
	assert.Equal(t, 1000.0, plan.Allocations[0].Delta)
	assert.Equal(t, "Prospecção", plan.Allocations[1].Entity)
	assert.Equal(t, -1000.0, plan.Allocations[1].Delta)
}

func TestReductionRate(t *testing.T) {
	assert.Equal(t, 0.5, ReductionRate(2.99))
	assert.Equal(t, 0.3, ReductionRate(3))
	assert.Equal(t, 0.3, ReductionRate(4.99))
	assert.Equal(t, 0.2, ReductionRate(5))
}
