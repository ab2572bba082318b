package analyzers

import (
	"fmt"
	"math"

	"github.com/vfg2006/cognitive-engine/internal/cognitive/impact"
	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/pkg/utils"
)

var (
	off    = math.Inf(1)
	offLow = math.Inf(-1)
)

// planRule define as faixas de gap (%) de uma meta. Gap <= *Low ou >= *High dispara a severidade.
type planRule struct {
	metric      domain.PlanMetric
	kind        domain.FindingKind
	unit        string
	dangerLow   float64
	warnLow     float64
	warnHigh    float64
	dangerHigh  float64
	successLow  float64
	successHigh float64
}

var planRules = []planRule{
	{metric: domain.PlanRevenue, kind: domain.KindRevenuePlanGap, unit: "BRL",
		dangerLow: -20, warnLow: -10, warnHigh: off, dangerHigh: off, successLow: offLow, successHigh: 10},
	{metric: domain.PlanInvestment, kind: domain.KindInvestmentPlanGap, unit: "BRL",
		dangerLow: offLow, warnLow: -20, warnHigh: 15, dangerHigh: 25, successLow: offLow, successHigh: off},
	{metric: domain.PlanOrders, kind: domain.KindOrdersPlanGap, unit: "pedidos",
		dangerLow: -25, warnLow: -15, warnHigh: off, dangerHigh: off, successLow: offLow, successHigh: 15},
	{metric: domain.PlanSessions, kind: domain.KindSessionsPlanGap, unit: "sessões",
		dangerLow: -25, warnLow: -15, warnHigh: off, dangerHigh: off, successLow: offLow, successHigh: 15},
	{metric: domain.PlanROAS, kind: domain.KindRoasPlanGap, unit: "x",
		dangerLow: -25, warnLow: -15, warnHigh: off, dangerHigh: off, successLow: offLow, successHigh: 15},
	{metric: domain.PlanCPA, kind: domain.KindCpaPlanGap, unit: "BRL",
		dangerLow: offLow, warnLow: offLow, warnHigh: 15, dangerHigh: 25, successLow: -15, successHigh: off},
	{metric: domain.PlanTicket, kind: domain.KindTicketPlanGap, unit: "BRL",
		dangerLow: -20, warnLow: -10, warnHigh: off, dangerHigh: off, successLow: offLow, successHigh: off},
}

func (r planRule) severity(gapPct float64) (domain.Severity, bool) {
	switch {
	case gapPct <= r.dangerLow || gapPct >= r.dangerHigh:
		return domain.SeverityDanger, true
	case gapPct <= r.warnLow || gapPct >= r.warnHigh:
		return domain.SeverityWarning, true
	case gapPct <= r.successLow || gapPct >= r.successHigh:
		return domain.SeveritySuccess, true
	}
	return "", false
}

// Planning compara o realizado com a meta do plano, proporcional ao dia para métricas acumuladas
type Planning struct{}

func (Planning) Name() string { return "planning" }

func (p Planning) Analyze(cube *domain.DataCube) ([]domain.CognitiveFinding, error) {
	c := &collector{}

	for _, rule := range planRules {
		target, ok := cube.Planning.Target(rule.metric)
		if !ok {
			continue
		}

		actual, ok := actualFor(cube, rule.metric)
		if !ok {
			continue
		}

		comparable := target
		if rule.metric.IsCumulative() {
			comparable = cube.Meta.Prorate(target)
		}
		if comparable <= 0 {
			continue
		}

		gapPct := utils.RoundWithTwoDecimalPlace(utils.Percent(actual-comparable, comparable))
		severity, ok := rule.severity(gapPct)
		if !ok {
			continue
		}

		direction := "acima"
		if gapPct < 0 {
			direction = "abaixo"
		}

		c.add(domain.CognitiveFinding{
			ID:       fmt.Sprintf("planning-%s-gap", rule.metric),
			Kind:     rule.kind,
			Severity: severity,
			Title:    fmt.Sprintf("%s %.1f%% %s da meta", rule.metric.Label(), math.Abs(gapPct), direction),
			Description: fmt.Sprintf("Realizado %.2f contra meta %.2f no dia %d de %d.",
				actual, comparable, cube.Meta.DayOfMonth, cube.Meta.DaysInMonth),
			Metrics: domain.FindingMetrics{
				Current: utils.RoundWithTwoDecimalPlace(actual),
				Target:  domain.Float(utils.RoundWithTwoDecimalPlace(comparable)),
				Gap:     domain.Float(gapPct),
				Unit:    rule.unit,
			},
			Recommendations: planRecommendations(rule.metric, severity, gapPct),
			Source:          domain.SourcePlanning,
			FinancialImpact: planImpact(cube, rule.metric, severity, actual, target),
		})
	}

	return c.result()
}

func actualFor(cube *domain.DataCube, metric domain.PlanMetric) (float64, bool) {
	account, ga4 := cube.Account, cube.GA4

	switch metric {
	case domain.PlanRevenue:
		if account != nil {
			return account.Revenue, true
		}
		if ga4 != nil {
			return ga4.Revenue, true
		}
	case domain.PlanInvestment:
		if account != nil {
			return account.Spend, true
		}
	case domain.PlanOrders:
		if ga4 != nil {
			return ga4.Purchases, true
		}
		if account != nil {
			return account.Conversions, true
		}
	case domain.PlanSessions:
		if ga4 != nil {
			return ga4.Sessions, true
		}
	case domain.PlanROAS:
		if account != nil && account.Spend > 0 {
			return account.ROAS, true
		}
	case domain.PlanCPA:
		if account != nil && account.Conversions > 0 {
			return account.CPA, true
		}
	case domain.PlanTicket:
		if ga4 != nil && ga4.Purchases > 0 {
			return ga4.AOV, true
		}
	}

	return 0, false
}

func averageOrderValue(cube *domain.DataCube) float64 {
	if cube.GA4 != nil && cube.GA4.AOV > 0 {
		return cube.GA4.AOV
	}
	if cube.Account != nil {
		return utils.SafeDivide(cube.Account.Revenue, cube.Account.Conversions)
	}
	return 0
}

func planImpact(cube *domain.DataCube, metric domain.PlanMetric, severity domain.Severity, actual, target float64) domain.FinancialImpact {
	if severity == domain.SeveritySuccess {
		return impact.Placeholder()
	}

	day, days := cube.Meta.DayOfMonth, cube.Meta.DaysInMonth

	switch metric {
	case domain.PlanRevenue:
		return impact.RevenueGap(actual, target, day, days)
	case domain.PlanInvestment:
		if actual > cube.Meta.Prorate(target) {
			return impact.Overspend(actual, target, day, days)
		}
		if cube.Account != nil {
			return impact.ScaleOpportunity(cube.Meta.Prorate(target)-actual, cube.Account.ROAS, 1)
		}
	case domain.PlanOrders:
		if aov := averageOrderValue(cube); aov > 0 {
			return impact.RevenueGap(actual*aov, target*aov, day, days)
		}
	case domain.PlanSessions:
		if cube.GA4 != nil {
			perSession := utils.SafeDivide(cube.GA4.Revenue, cube.GA4.Sessions)
			if perSession > 0 {
				return impact.RevenueGap(actual*perSession, target*perSession, day, days)
			}
		}
	case domain.PlanROAS:
		return impact.RoasGap(cube.Account.Spend, actual, target)
	case domain.PlanCPA:
		return impact.CpaGap(cube.Account.Conversions, actual, target)
	case domain.PlanTicket:
		return impact.TicketGap(cube.GA4.Purchases, actual, target)
	}

	return impact.Placeholder()
}

func planRecommendations(metric domain.PlanMetric, severity domain.Severity, gapPct float64) []domain.Recommendation {
	if severity == domain.SeveritySuccess {
		return []domain.Recommendation{
			rec(fmt.Sprintf("Manter a estratégia atual de %s e revisar a meta do próximo mês", metric.Label()), domain.LevelLow, domain.LevelLow),
		}
	}

	impactLevel := domain.LevelMedium
	if severity == domain.SeverityDanger {
		impactLevel = domain.LevelHigh
	}

	switch metric {
	case domain.PlanRevenue:
		return []domain.Recommendation{
			rec("Concentrar verba nos SKUs e campanhas de maior ROAS até o fim do mês", impactLevel, domain.LevelMedium,
				"Identificar os 3 SKUs com maior ROAS", "Aumentar o orçamento diário deles em 20%", "Acompanhar o ritmo diariamente"),
		}
	case domain.PlanInvestment:
		if gapPct > 0 {
			return []domain.Recommendation{
				rec("Reduzir o orçamento diário para voltar ao ritmo planejado", impactLevel, domain.LevelLow,
					"Pausar campanhas sem conversão", "Recalcular o orçamento diário restante"),
			}
		}
		return []domain.Recommendation{
			rec("Liberar o investimento planejado nas campanhas eficientes", impactLevel, domain.LevelLow),
		}
	case domain.PlanOrders, domain.PlanSessions:
		return []domain.Recommendation{
			rec("Ampliar alcance das campanhas de aquisição com melhor custo por sessão", impactLevel, domain.LevelMedium),
		}
	case domain.PlanROAS, domain.PlanCPA:
		return []domain.Recommendation{
			rec("Realocar verba de campanhas de baixo retorno para as de melhor eficiência", impactLevel, domain.LevelMedium,
				"Listar campanhas com ROAS abaixo de 3", "Reduzir orçamento delas em 30%"),
		}
	case domain.PlanTicket:
		return []domain.Recommendation{
			rec("Testar kits, frete grátis acima de um valor mínimo e upsell no checkout", impactLevel, domain.LevelMedium),
		}
	}

	return nil
}
