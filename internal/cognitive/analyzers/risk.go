package analyzers

import (
	"fmt"

	"github.com/vfg2006/cognitive-engine/internal/cognitive/impact"
	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/pkg/utils"
)

const (
	accountRoasFloor        = 5.0
	accountRoasMinimumSpend = 500.0
	pausedSpendLimit        = 500.0
	bounceWarning           = 55.0
	bounceDanger            = 65.0
	abandonmentWarning      = 75.0
	abandonmentDanger       = 85.0
	revenueConcentrationCap = 50.0
	roasDropMinimumSpend    = 100.0
)

type Risk struct{}

func (Risk) Name() string { return "risk" }

func (r Risk) Analyze(cube *domain.DataCube) ([]domain.CognitiveFinding, error) {
	c := &collector{}

	if account := cube.Account; account != nil && account.Spend > accountRoasMinimumSpend && account.ROAS < accountRoasFloor {
		c.add(domain.CognitiveFinding{
			ID:          "account-low-roas",
			Kind:        domain.KindAccountLowRoas,
			Severity:    domain.SeverityDanger,
			Title:       fmt.Sprintf("ROAS da conta em %.2f", account.ROAS),
			Description: fmt.Sprintf("A conta investiu %s com retorno abaixo do piso de %.0f.", money(account.Spend), accountRoasFloor),
			Metrics: domain.FindingMetrics{
				Current: account.ROAS,
				Target:  domain.Float(accountRoasFloor),
				Gap:     domain.Float(utils.RoundWithTwoDecimalPlace(account.ROAS - accountRoasFloor)),
				Unit:    "x",
			},
			Recommendations: []domain.Recommendation{
				rec("Cortar campanhas e SKUs de baixo retorno antes de ampliar o investimento", domain.LevelHigh, domain.LevelMedium,
					"Listar entidades com ROAS abaixo de 3", "Reduzir ou pausar as piores", "Revisar lances e públicos"),
			},
			Source:          domain.SourceAlert,
			FinancialImpact: impact.RoasGap(account.Spend, account.ROAS, accountRoasFloor),
		})
	}

	var pausedSpend float64
	var paused int
	for _, sku := range cube.Skus {
		if sku.Status == domain.SkuStatusPause && sku.Spend > 0 {
			pausedSpend += sku.Spend
			paused++
		}
	}
	if pausedSpend > pausedSpendLimit {
		c.add(domain.CognitiveFinding{
			ID:          "sku-paused-spend",
			Kind:        domain.KindPausedSkuSpend,
			Severity:    domain.SeverityWarning,
			Title:       fmt.Sprintf("%d SKUs marcados para pausar ainda recebem verba", paused),
			Description: fmt.Sprintf("%s investidos em SKUs com status pausar.", money(pausedSpend)),
			Metrics: domain.FindingMetrics{
				Current: utils.RoundWithTwoDecimalPlace(pausedSpend),
				Unit:    "BRL",
			},
			Recommendations: []domain.Recommendation{
				rec("Pausar os anúncios dos SKUs marcados para pausar", domain.LevelMedium, domain.LevelLow),
			},
			Source:          domain.SourceAlert,
			FinancialImpact: impact.WastedSpend(pausedSpend),
		})
	}

	if ga4 := cube.GA4; ga4 != nil {
		if severity, ok := thresholdSeverity(ga4.BounceRate, bounceWarning, bounceDanger); ok {
			c.add(domain.CognitiveFinding{
				ID:          "ga4-high-bounce-rate",
				Kind:        domain.KindHighBounceRate,
				Severity:    severity,
				Title:       fmt.Sprintf("Taxa de rejeição em %.1f%%", ga4.BounceRate),
				Description: fmt.Sprintf("%.0f sessões com rejeição acima do limite de %.0f%%.", ga4.Sessions, bounceWarning),
				Metrics: domain.FindingMetrics{
					Current: ga4.BounceRate,
					Target:  domain.Float(bounceWarning),
					Gap:     domain.Float(utils.RoundWithTwoDecimalPlace(ga4.BounceRate - bounceWarning)),
					Unit:    "%",
				},
				Recommendations: []domain.Recommendation{
					rec("Revisar páginas de entrada e a aderência entre anúncio e landing page", domain.LevelMedium, domain.LevelMedium,
						"Comparar rejeição por página de entrada", "Melhorar tempo de carregamento no mobile"),
				},
				Source:          domain.SourceAlert,
				FinancialImpact: impact.BounceRecovery(ga4.Sessions, ga4.BounceRate, bounceWarning, ga4.ConversionRate, ga4.AOV),
			})
		}

		if ga4.AddToCarts > 0 {
			if severity, ok := thresholdSeverity(ga4.CartAbandonmentRate, abandonmentWarning, abandonmentDanger); ok {
				c.add(domain.CognitiveFinding{
					ID:          "ga4-cart-abandonment",
					Kind:        domain.KindCartAbandonment,
					Severity:    severity,
					Title:       fmt.Sprintf("Abandono de carrinho em %.1f%%", ga4.CartAbandonmentRate),
					Description: fmt.Sprintf("%.0f carrinhos criados e %.0f compras no período.", ga4.AddToCarts, ga4.Purchases),
					Metrics: domain.FindingMetrics{
						Current: ga4.CartAbandonmentRate,
						Target:  domain.Float(abandonmentWarning),
						Gap:     domain.Float(utils.RoundWithTwoDecimalPlace(ga4.CartAbandonmentRate - abandonmentWarning)),
						Unit:    "%",
					},
					Recommendations: []domain.Recommendation{
						rec("Ativar recuperação de carrinho e revisar frete no checkout", domain.LevelHigh, domain.LevelMedium,
							"Configurar e-mail de carrinho abandonado", "Exibir frete antes do checkout"),
					},
					Source:          domain.SourceAlert,
					FinancialImpact: impact.CartRecovery(ga4.AddToCarts, ga4.CartAbandonmentRate, ga4.AOV),
				})
			}
		}
	}

	if len(cube.Skus) >= 2 {
		for _, sku := range cube.Skus {
			if sku.RevenueShare <= revenueConcentrationCap || sku.DisplayName() == "" {
				continue
			}
			name := sku.DisplayName()
			c.add(domain.CognitiveFinding{
				ID:          fmt.Sprintf("sku-%s-revenue-concentration", slug(sku.SKU)),
				Kind:        domain.KindRevenueConcentration,
				Severity:    domain.SeverityWarning,
				Title:       fmt.Sprintf("%.1f%% da receita concentrada em %s", sku.RevenueShare, name),
				Description: "Uma queda de 30% neste SKU afetaria diretamente o resultado da conta.",
				Metrics: domain.FindingMetrics{
					Current:    sku.RevenueShare,
					Unit:       "%",
					EntityName: name,
				},
				Recommendations: []domain.Recommendation{
					rec("Diversificar o investimento em outros SKUs com bom retorno", domain.LevelMedium, domain.LevelHigh),
				},
				Source:          domain.SourceAlert,
				FinancialImpact: impact.ConcentrationRisk(sku.Revenue),
			})
		}
	}

	for _, sku := range cube.Skus {
		trend, ok := cube.Trends.SkuTrend(sku.SKU)
		if !ok || trend.Classification != domain.TrendDeclining || sku.Spend <= roasDropMinimumSpend || sku.DisplayName() == "" {
			continue
		}
		name := sku.DisplayName()
		c.add(domain.CognitiveFinding{
			ID:          fmt.Sprintf("sku-%s-roas-drop", slug(sku.SKU)),
			Kind:        domain.KindSkuRoasDrop,
			Severity:    domain.SeverityWarning,
			Title:       fmt.Sprintf("ROAS de %s em queda", name),
			Description: fmt.Sprintf("Inclinação de %.2f%% ao dia nos últimos %d dias.", trend.SlopePct, trend.DataPoints),
			Metrics: domain.FindingMetrics{
				Current:    trend.SlopePct,
				Unit:       "%/dia",
				EntityName: name,
			},
			Recommendations: []domain.Recommendation{
				rec(fmt.Sprintf("Revisar criativos e preço de %s", name), domain.LevelMedium, domain.LevelMedium),
			},
			Source:          domain.SourceAlert,
			FinancialImpact: impact.TrendRecovery(sku.Revenue, trend.SlopePct),
		})
	}

	if cube.Trends != nil && cube.Trends.Account != nil && cube.Trends.Account.Classification == domain.TrendDeclining {
		trend := cube.Trends.Account
		var revenue float64
		if cube.Account != nil {
			revenue = cube.Account.Revenue
		}
		c.add(domain.CognitiveFinding{
			ID:          "account-revenue-decline",
			Kind:        domain.KindAccountRevenueDecline,
			Severity:    domain.SeverityWarning,
			Title:       "Receita da conta em tendência de queda",
			Description: fmt.Sprintf("Média móvel de 7 dias em %s contra %s na semana anterior.", money(trend.MovingAvg7d), money(trend.PreviousMovingAvg7d)),
			Metrics: domain.FindingMetrics{
				Current: trend.SlopePct,
				Unit:    "%/dia",
			},
			Recommendations: []domain.Recommendation{
				rec("Investigar as campanhas e SKUs que puxaram a queda", domain.LevelHigh, domain.LevelMedium),
			},
			Source:          domain.SourceAlert,
			FinancialImpact: impact.TrendRecovery(revenue, trend.SlopePct),
		})
	}

	return c.result()
}

// thresholdSeverity classifica valores em que maior é pior
func thresholdSeverity(value, warning, danger float64) (domain.Severity, bool) {
	switch {
	case value > danger:
		return domain.SeverityDanger, true
	case value > warning:
		return domain.SeverityWarning, true
	}
	return "", false
}
