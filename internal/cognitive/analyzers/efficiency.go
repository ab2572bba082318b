package analyzers

import (
	"fmt"

	"github.com/vfg2006/cognitive-engine/internal/cognitive/impact"
	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/pkg/utils"
)

const (
	campaignZeroConversionFloor = 50.0
	skuZeroConversionFloor      = 30.0
	lowRoasFloor                = 3.0
	lowRoasMaterialSpend        = 100.0
	pauseRoasThreshold          = 5.0
	lowRoasSpendShareLimit      = 40.0
	lowRoasReallocationShare    = 0.3
	lowRoasSpendReduction       = 0.3
)

// Efficiency aponta investimento sem conversão e entidades com ROAS abaixo do piso
type Efficiency struct{}

func (Efficiency) Name() string { return "efficiency" }

func (e Efficiency) Analyze(cube *domain.DataCube) ([]domain.CognitiveFinding, error) {
	c := &collector{}

	for _, campaign := range cube.Campaigns {
		name := campaign.DisplayName()
		switch {
		case name == "":
		case campaign.Conversions == 0 && campaign.Spend > campaignZeroConversionFloor:
			c.add(zeroConversionFinding(
				fmt.Sprintf("campaign-%s-zero-conversions", slug(campaign.ID)),
				domain.KindCampaignZeroConversions, "Campanha", name, campaign.Spend))
		case campaign.Conversions > 0 && campaign.ROAS < lowRoasFloor && campaign.Spend > lowRoasMaterialSpend:
			c.add(lowRoasFinding(
				fmt.Sprintf("campaign-%s-low-roas", slug(campaign.ID)),
				domain.KindCampaignLowRoas, "Campanha", name, campaign.ROAS, campaign.Spend))
		}
	}

	var totalSpend, lowSpend, lowRevenue, restSpend, restRevenue float64
	for _, sku := range cube.Skus {
		name := sku.DisplayName()
		switch {
		case name == "":
		case sku.Conversions == 0 && sku.Spend > skuZeroConversionFloor:
			c.add(zeroConversionFinding(
				fmt.Sprintf("sku-%s-zero-conversions", slug(sku.SKU)),
				domain.KindSkuZeroConversions, "SKU", name, sku.Spend))
		case sku.Conversions > 0 && sku.ROAS < lowRoasFloor && sku.Spend > lowRoasMaterialSpend:
			c.add(lowRoasFinding(
				fmt.Sprintf("sku-%s-low-roas", slug(sku.SKU)),
				domain.KindSkuLowRoas, "SKU", name, sku.ROAS, sku.Spend))
		}

		if sku.Spend <= 0 {
			continue
		}
		totalSpend += sku.Spend
		if sku.ROAS < pauseRoasThreshold {
			lowSpend += sku.Spend
			lowRevenue += sku.Revenue
		} else {
			restSpend += sku.Spend
			restRevenue += sku.Revenue
		}
	}

	share := utils.RoundWithTwoDecimalPlace(utils.Percent(lowSpend, totalSpend))
	if share > lowRoasSpendShareLimit {
		amount := lowSpend * lowRoasReallocationShare
		lowROAS := utils.SafeDivide(lowRevenue, lowSpend)
		restROAS := utils.SafeDivide(restRevenue, restSpend)

		c.add(domain.CognitiveFinding{
			ID:       "sku-low-roas-spend-share",
			Kind:     domain.KindLowRoasSpendShare,
			Severity: domain.SeverityWarning,
			Title:    fmt.Sprintf("%.1f%% do investimento em SKUs com ROAS abaixo de %.0f", share, pauseRoasThreshold),
			Description: fmt.Sprintf("%s investidos em SKUs de ROAS médio %.2f, contra %.2f no restante do portfólio.",
				money(lowSpend), lowROAS, restROAS),
			Metrics: domain.FindingMetrics{
				Current: share,
				Target:  domain.Float(lowRoasSpendShareLimit),
				Gap:     domain.Float(utils.RoundWithTwoDecimalPlace(share - lowRoasSpendShareLimit)),
				Unit:    "%",
			},
			Recommendations: []domain.Recommendation{
				rec(fmt.Sprintf("Mover %s dos SKUs de baixo ROAS para os de melhor retorno", money(amount)),
					domain.LevelHigh, domain.LevelMedium),
			},
			Source:          domain.SourceAlert,
			FinancialImpact: impact.BudgetReallocation(amount, lowROAS, restROAS),
		})
	}

	return c.result()
}

func zeroConversionFinding(id string, kind domain.FindingKind, entityType, name string, spend float64) domain.CognitiveFinding {
	return domain.CognitiveFinding{
		ID:          id,
		Kind:        kind,
		Severity:    domain.SeverityDanger,
		Title:       fmt.Sprintf("%s %s sem conversões", entityType, name),
		Description: fmt.Sprintf("%s investidos sem nenhuma conversão no período.", money(spend)),
		Metrics: domain.FindingMetrics{
			Current:    utils.RoundWithTwoDecimalPlace(spend),
			Unit:       "BRL",
			EntityName: name,
		},
		Recommendations: []domain.Recommendation{
			rec(fmt.Sprintf("Pausar %s %s e revisar segmentação e criativos", entityType, name), domain.LevelHigh, domain.LevelLow,
				"Pausar a veiculação", "Conferir rastreamento de conversões", "Revisar público e criativo antes de reativar"),
		},
		Source:          domain.SourceAlert,
		FinancialImpact: impact.WastedSpend(spend),
	}
}

func lowRoasFinding(id string, kind domain.FindingKind, entityType, name string, roas, spend float64) domain.CognitiveFinding {
	return domain.CognitiveFinding{
		ID:          id,
		Kind:        kind,
		Severity:    domain.SeverityWarning,
		Title:       fmt.Sprintf("%s %s com ROAS %.2f", entityType, name, roas),
		Description: fmt.Sprintf("ROAS abaixo de %.0f com %s investidos.", lowRoasFloor, money(spend)),
		Metrics: domain.FindingMetrics{
			Current:    roas,
			Target:     domain.Float(lowRoasFloor),
			Gap:        domain.Float(utils.RoundWithTwoDecimalPlace(roas - lowRoasFloor)),
			Unit:       "x",
			EntityName: name,
		},
		Recommendations: []domain.Recommendation{
			rec(fmt.Sprintf("Reduzir em %.0f%% o orçamento de %s", lowRoasSpendReduction*100, name), domain.LevelMedium, domain.LevelLow),
		},
		Source:          domain.SourceAlert,
		FinancialImpact: impact.SpendReduction(spend, lowRoasSpendReduction),
	}
}
