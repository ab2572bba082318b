// Package budget propõe a realocação gulosa de verba entre entidades de baixo e alto retorno.
package budget

import (
	"fmt"
	"math"
	"sort"

	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/pkg/utils"
)

const (
	activeSpendFloor     = 50.0
	minimumActive        = 3
	minimumTotalSpend    = 500.0
	minimumReallocatable = 100.0
	minimumROAS          = 5.0
	sourceSpendFloor     = 100.0
	criticalROAS         = 3.0
	destinationLift      = 1.3
	destinationMinConv   = 2.0
	scaleDiscount        = 0.7
	minimumDelta         = 50.0
)

type entity struct {
	name        string
	spend       float64
	revenue     float64
	conversions float64
	roas        float64
}

// ReductionRate devolve o corte aplicado a uma fonte; a ordem das faixas importa
func ReductionRate(roas float64) float64 {
	switch {
	case roas < criticalROAS:
		return 0.5
	case roas < minimumROAS:
		return 0.3
	}
	return 0.2
}

// Optimize devolve nil quando as salvaguardas não são atendidas
func Optimize(cube *domain.DataCube) *domain.BudgetPlan {
	scope, entities := activeEntities(cube)
	if len(entities) < minimumActive {
		return nil
	}

	var totalSpend, totalRevenue float64
	for _, e := range entities {
		totalSpend += e.spend
		totalRevenue += e.revenue
	}
	if totalSpend < minimumTotalSpend {
		return nil
	}
	avgROAS := utils.SafeDivide(totalRevenue, totalSpend)

	var sources, destinations []entity
	for _, e := range entities {
		switch {
		case e.roas < minimumROAS && e.spend > sourceSpendFloor:
			sources = append(sources, e)
		case e.roas > avgROAS*destinationLift && e.conversions >= destinationMinConv:
			destinations = append(destinations, e)
		}
	}
	if len(sources) == 0 || len(destinations) == 0 {
		return nil
	}

	var freed float64
	allocations := make([]domain.BudgetAllocation, 0, len(sources)+len(destinations))
	for _, s := range sources {
		rate := ReductionRate(s.roas)
		cut := s.spend * rate
		freed += cut
		allocations = append(allocations, allocation(s, -cut, s.roas,
			fmt.Sprintf("ROAS %.2f abaixo de %.0f: reduzir %.0f%%", s.roas, minimumROAS, rate*100)))
	}
	if freed < minimumReallocatable {
		return nil
	}

	var roasSum float64
	for _, d := range destinations {
		roasSum += d.roas
	}
	for _, d := range destinations {
		added := freed * d.roas / roasSum
		allocations = append(allocations, allocation(d, added, d.roas*scaleDiscount,
			fmt.Sprintf("ROAS %.2f acima de %.2f (1,3× a média): receber %.0f%% da verba liberada", d.roas, avgROAS*destinationLift, d.roas/roasSum*100)))
	}

	expectedRevenue := totalRevenue
	for _, a := range allocations {
		expectedRevenue += a.ExpectedRevenue
	}

	kept := allocations[:0]
	for _, a := range allocations {
		if math.Abs(a.Delta) > minimumDelta {
			kept = append(kept, a)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Delta > kept[j].Delta })

	return &domain.BudgetPlan{
		Scope:           scope,
		TotalBudget:     utils.RoundWithTwoDecimalPlace(totalSpend),
		Allocations:     kept,
		CurrentRevenue:  utils.RoundWithTwoDecimalPlace(totalRevenue),
		ExpectedRevenue: utils.RoundWithTwoDecimalPlace(expectedRevenue),
		ExpectedROAS:    utils.RoundWithTwoDecimalPlace(utils.SafeDivide(expectedRevenue, totalSpend)),
		ImprovementBRL:  utils.RoundWithTwoDecimalPlace(expectedRevenue - totalRevenue),
	}
}

// allocation registra a variação de receita esperada do delta, positiva ou negativa
func allocation(e entity, delta, marginalROAS float64, rationale string) domain.BudgetAllocation {
	return domain.BudgetAllocation{
		Entity:            e.name,
		CurrentBudget:     utils.RoundWithTwoDecimalPlace(e.spend),
		RecommendedBudget: utils.RoundWithTwoDecimalPlace(e.spend + delta),
		Delta:             utils.RoundWithTwoDecimalPlace(delta),
		ExpectedROAS:      utils.RoundWithTwoDecimalPlace(marginalROAS),
		ExpectedRevenue:   utils.RoundWithTwoDecimalPlace(delta * marginalROAS),
		Rationale:         rationale,
	}
}

// activeEntities usa SKUs e recorre às campanhas quando há menos de três SKUs ativos
func activeEntities(cube *domain.DataCube) (domain.BudgetScope, []entity) {
	var skus []entity
	for _, s := range cube.Skus {
		if s.Spend > activeSpendFloor {
			skus = append(skus, entity{name: s.DisplayName(), spend: s.Spend, revenue: s.Revenue, conversions: s.Conversions, roas: s.ROAS})
		}
	}
	if len(skus) >= minimumActive {
		return domain.BudgetScopeSku, skus
	}

	var campaigns []entity
	for _, c := range cube.Campaigns {
		if c.Spend > activeSpendFloor {
			campaigns = append(campaigns, entity{name: c.DisplayName(), spend: c.Spend, revenue: c.Revenue, conversions: c.Conversions, roas: c.ROAS})
		}
	}
	if len(campaigns) >= minimumActive {
		return domain.BudgetScopeCampaign, campaigns
	}

	return domain.BudgetScopeSku, skus
}
