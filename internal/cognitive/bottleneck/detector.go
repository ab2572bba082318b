// Package bottleneck decompõe a receita em sessões × conversão × ticket e aponta a restrição de maior alavancagem.
package bottleneck

import (
	"fmt"

	"github.com/vfg2006/cognitive-engine/internal/cognitive/impact"
	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/pkg/utils"
)

const (
	simulatedLift            = 0.10
	defaultConversionBench   = 2.0
	healthyMarginPct         = 25.0
	budgetTrailingRatio      = 0.8
	budgetDeploymentDiscount = 0.7
)

var unlockActions = map[domain.ConstraintType]string{
	domain.ConstraintTraffic:    "Ampliar alcance com campanhas de aquisição e novos públicos",
	domain.ConstraintConversion: "Otimizar páginas de produto, checkout e prova social",
	domain.ConstraintAOV:        "Criar kits, upsell e frete grátis acima de um valor mínimo",
	domain.ConstraintMargin:     "Revisar preços e custo dos produtos de menor margem",
	domain.ConstraintBudget:     "Liberar o investimento planejado nas campanhas eficientes",
}

var explanations = map[domain.ConstraintType]string{
	domain.ConstraintTraffic:    "Volume de sessões é o fator que mais limita a receita",
	domain.ConstraintConversion: "Taxa de conversão abaixo do potencial limita a receita",
	domain.ConstraintAOV:        "Ticket médio baixo limita a receita por pedido",
	domain.ConstraintMargin:     "Margem bruta abaixo de 25% limita o lucro gerado pela receita",
	domain.ConstraintBudget:     "Investimento abaixo do ritmo planejado limita o alcance",
}

type candidate struct {
	constraint domain.ConstraintType
	delta      float64
	score      float64
	impact     domain.FinancialImpact
	detail     string
}

// Detect devolve o gargalo; sem conta ou sem dados de funil devolve um padrão marcado como insuficiente
func Detect(cube *domain.DataCube) domain.Bottleneck {
	ga4 := cube.GA4
	if cube.Account == nil || ga4 == nil || ga4.Sessions <= 0 || ga4.Purchases <= 0 {
		return domain.Bottleneck{
			Constraint:       domain.ConstraintTraffic,
			Explanation:      "Dados insuficientes: é preciso conta de mídia e dados de sessões e conversões do GA4",
			FinancialImpact:  impact.Placeholder(),
			UnlockAction:     "Conectar as fontes de dados faltantes",
			InsufficientData: true,
		}
	}

	candidates := funnelCandidates(cube)
	if c, ok := marginCandidate(cube); ok {
		candidates = append(candidates, c)
	}
	if c, ok := budgetCandidate(cube); ok {
		candidates = append(candidates, c)
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.score > best.score {
			best = c
		}
	}

	out := domain.Bottleneck{
		Constraint:      best.constraint,
		Severity:        severity(cube),
		Explanation:     fmt.Sprintf("%s (%s)", explanations[best.constraint], best.detail),
		FinancialImpact: best.impact,
		UnlockAction:    unlockActions[best.constraint],
		Candidates:      make([]domain.BottleneckCandidate, 0, len(candidates)),
	}
	for _, c := range candidates {
		out.Candidates = append(out.Candidates, domain.BottleneckCandidate{
			Constraint:   c.constraint,
			RevenueDelta: utils.RoundWithTwoDecimalPlace(c.delta),
			Score:        utils.RoundWithTwoDecimalPlace(c.score),
		})
	}

	return out
}

func funnelCandidates(cube *domain.DataCube) []candidate {
	ga4 := cube.GA4
	sessions, rate, aov := ga4.Sessions, ga4.ConversionRate, ga4.AOV
	revenue := sessions * rate / 100 * aov

	conversionBench := defaultConversionBench
	if target, ok := cube.Planning.Target(domain.PlanConversionRate); ok {
		conversionBench = target
	}

	var sessionsBench, ticketBench float64
	if target, ok := cube.Planning.Target(domain.PlanSessions); ok {
		sessionsBench = cube.Meta.Prorate(target)
	}
	if target, ok := cube.Planning.Target(domain.PlanTicket); ok {
		ticketBench = target
	}

	// receita é produto dos três fatores, então +10% em qualquer um rende o mesmo delta
	delta := revenue * simulatedLift

	simulate := func(constraint domain.ConstraintType, current, bench float64, detail string) candidate {
		score := delta * (1 + shortfall(current, bench))
		return candidate{
			constraint: constraint,
			delta:      delta,
			score:      score,
			impact: domain.NewFinancialImpact(delta, 0, 0.5, domain.TimeframeMedium,
				fmt.Sprintf("%.2f × 10%% em %s", revenue, constraint)),
			detail: detail,
		}
	}

	return []candidate{
		simulate(domain.ConstraintTraffic, sessions, sessionsBench,
			fmt.Sprintf("%.0f sessões", sessions)),
		simulate(domain.ConstraintConversion, rate, conversionBench,
			fmt.Sprintf("conversão de %.2f%% contra referência de %.2f%%", rate, conversionBench)),
		simulate(domain.ConstraintAOV, aov, ticketBench,
			fmt.Sprintf("ticket médio de R$ %.2f", aov)),
	}
}

// shortfall é quanto o valor atual fica abaixo da referência, em fração; 0 sem referência
func shortfall(current, bench float64) float64 {
	if bench <= 0 || current >= bench {
		return 0
	}
	return (bench - current) / bench
}

func marginCandidate(cube *domain.DataCube) (candidate, bool) {
	var profit, revenue float64
	for _, sku := range cube.Skus {
		if sku.HasCostData {
			profit += sku.GrossProfit
			revenue += sku.Revenue
		}
	}
	if revenue <= 0 {
		return candidate{}, false
	}

	margin := utils.Percent(profit, revenue)
	if margin >= healthyMarginPct {
		return candidate{}, false
	}

	delta := cube.Account.Revenue * (healthyMarginPct - margin) / 100
	return candidate{
		constraint: domain.ConstraintMargin,
		delta:      delta,
		score:      delta,
		impact: domain.NewFinancialImpact(delta, 0, 0.4, domain.TimeframeMedium,
			fmt.Sprintf("%.2f × (25%% - %.2f%%)", cube.Account.Revenue, margin)),
		detail: fmt.Sprintf("margem bruta de %.1f%%", margin),
	}, true
}

func budgetCandidate(cube *domain.DataCube) (candidate, bool) {
	target, ok := cube.Planning.Target(domain.PlanInvestment)
	if !ok {
		return candidate{}, false
	}

	planned := cube.Meta.Prorate(target)
	spend := cube.Account.Spend
	if spend >= planned*budgetTrailingRatio {
		return candidate{}, false
	}

	missing := planned - spend
	delta := missing * cube.Account.ROAS * budgetDeploymentDiscount
	return candidate{
		constraint: domain.ConstraintBudget,
		delta:      delta,
		score:      delta,
		impact:     impact.ScaleOpportunity(missing, cube.Account.ROAS, 1),
		detail:     fmt.Sprintf("investido R$ %.2f de R$ %.2f previstos até hoje", spend, planned),
	}, true
}

func severity(cube *domain.DataCube) float64 {
	target, ok := cube.Planning.Target(domain.PlanRevenue)
	if !ok {
		return 0
	}

	projected := impact.Project(cube.Account.Revenue, cube.Meta.DayOfMonth, cube.Meta.DaysInMonth)
	return utils.RoundWithTwoDecimalPlace(utils.Clamp((target-projected)/target, 0, 1))
}
