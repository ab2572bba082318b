package analyzers

import (
	"fmt"

	"github.com/vfg2006/cognitive-engine/internal/cognitive/impact"
	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/pkg/utils"
)

const (
	starRoas             = 8.0
	starSpendRatio       = 0.5
	minConversions       = 2.0
	scaleIncrease        = 0.2
	headroomRoas         = 8.0
	headroomMinimumSpend = 1000.0
)

type Opportunity struct{}

func (Opportunity) Name() string { return "opportunity" }

func (o Opportunity) Analyze(cube *domain.DataCube) ([]domain.CognitiveFinding, error) {
	c := &collector{}

	var spendSum float64
	var spending int
	for _, sku := range cube.Skus {
		if sku.Spend > 0 {
			spendSum += sku.Spend
			spending++
		}
	}
	avgSpend := utils.SafeDivide(spendSum, float64(spending))

	for _, sku := range cube.Skus {
		name := sku.DisplayName()
		if name == "" {
			continue
		}

		if sku.ROAS > starRoas && sku.Spend > 0 && sku.Spend < avgSpend*starSpendRatio && sku.Conversions >= minConversions {
			c.add(domain.CognitiveFinding{
				ID:       fmt.Sprintf("sku-%s-star", slug(sku.SKU)),
				Kind:     domain.KindStarSku,
				Severity: domain.SeveritySuccess,
				Title:    fmt.Sprintf("SKU %s é estrela subinvestida", name),
				Description: fmt.Sprintf("ROAS %.2f com %s investidos, menos da metade da média de %s por SKU.",
					sku.ROAS, money(sku.Spend), money(avgSpend)),
				Metrics: domain.FindingMetrics{
					Current:    sku.ROAS,
					Unit:       "x",
					EntityName: name,
				},
				Recommendations: []domain.Recommendation{
					rec(fmt.Sprintf("Aumentar gradualmente o orçamento de %s até a média do portfólio", name), domain.LevelHigh, domain.LevelLow,
						"Subir 20% a cada 3 dias", "Interromper se o ROAS cair abaixo de 5"),
				},
				Source:          domain.SourcePattern,
				FinancialImpact: impact.Underinvestment(avgSpend, sku.Spend, sku.ROAS),
			})
		}

		if sku.Status == domain.SkuStatusScale && sku.ROAS > 0 {
			c.add(domain.CognitiveFinding{
				ID:          fmt.Sprintf("sku-%s-scale", slug(sku.SKU)),
				Kind:        domain.KindScaleSku,
				Severity:    domain.SeveritySuccess,
				Title:       fmt.Sprintf("SKU %s marcado para escalar", name),
				Description: fmt.Sprintf("ROAS atual %.2f com %s investidos.", sku.ROAS, money(sku.Spend)),
				Metrics: domain.FindingMetrics{
					Current:    sku.ROAS,
					Unit:       "x",
					EntityName: name,
				},
				Recommendations: []domain.Recommendation{
					rec(fmt.Sprintf("Aumentar o orçamento de %s em %.0f%%", name, scaleIncrease*100), domain.LevelMedium, domain.LevelLow),
				},
				Source:          domain.SourcePattern,
				FinancialImpact: impact.ScaleOpportunity(sku.Spend, sku.ROAS, scaleIncrease),
			})
		}
	}

	if account := cube.Account; account != nil && account.ROAS > headroomRoas && account.Spend > headroomMinimumSpend {
		c.add(domain.CognitiveFinding{
			ID:          "account-budget-headroom",
			Kind:        domain.KindAccountHeadroom,
			Severity:    domain.SeveritySuccess,
			Title:       "Conta com espaço para crescer o investimento",
			Description: fmt.Sprintf("ROAS da conta em %.2f com %s investidos.", account.ROAS, money(account.Spend)),
			Metrics: domain.FindingMetrics{
				Current: account.ROAS,
				Unit:    "x",
			},
			Recommendations: []domain.Recommendation{
				rec(fmt.Sprintf("Aumentar o orçamento total em %.0f%% mantendo o mix atual", scaleIncrease*100), domain.LevelHigh, domain.LevelLow),
			},
			Source:          domain.SourcePattern,
			FinancialImpact: impact.ScaleOpportunity(account.Spend, account.ROAS, scaleIncrease),
		})
	}

	return c.result()
}
