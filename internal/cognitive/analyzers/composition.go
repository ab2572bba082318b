package analyzers

import (
	"fmt"

	"github.com/vfg2006/cognitive-engine/internal/cognitive/impact"
	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/pkg/utils"
)

const (
	paidDependencyShare   = 70.0
	healthyOrganicShare   = 40.0
	healthyPaidCeiling    = 30.0
	channelLiftMultiplier = 1.5
)

// Composition avalia o mix de canais de aquisição
type Composition struct{}

func (Composition) Name() string { return "composition" }

func (a Composition) Analyze(cube *domain.DataCube) ([]domain.CognitiveFinding, error) {
	if len(cube.Channels) == 0 {
		return nil, nil
	}
	c := &collector{}

	var paidShare, organicShare, sessions, conversions, revenue float64
	for _, channel := range cube.Channels {
		switch channel.Kind {
		case domain.ChannelKindPaid:
			paidShare += channel.SessionShare
		case domain.ChannelKindOrganic:
			organicShare += channel.SessionShare
		}
		sessions += channel.Sessions
		conversions += channel.Conversions
		revenue += channel.Revenue
	}
	paidShare = utils.RoundWithTwoDecimalPlace(paidShare)
	organicShare = utils.RoundWithTwoDecimalPlace(organicShare)

	if paidShare > paidDependencyShare {
		c.add(domain.CognitiveFinding{
			ID:          "channels-paid-dependency",
			Kind:        domain.KindPaidTrafficDependency,
			Severity:    domain.SeverityWarning,
			Title:       fmt.Sprintf("%.1f%% das sessões vêm de mídia paga", paidShare),
			Description: "O tráfego depende de mídia paga; qualquer corte de verba reduz as vendas na mesma proporção.",
			Metrics: domain.FindingMetrics{
				Current: paidShare,
				Unit:    "%",
			},
			Recommendations: []domain.Recommendation{
				rec("Investir em SEO, CRM e redes sociais orgânicas", domain.LevelMedium, domain.LevelHigh,
					"Mapear palavras-chave com potencial orgânico", "Ativar réguas de e-mail para a base atual"),
			},
			Source:          domain.SourcePattern,
			FinancialImpact: impact.Placeholder(),
		})
	}

	if organicShare > healthyOrganicShare && paidShare < healthyPaidCeiling {
		c.add(domain.CognitiveFinding{
			ID:          "channels-organic-mix",
			Kind:        domain.KindHealthyOrganicMix,
			Severity:    domain.SeveritySuccess,
			Title:       fmt.Sprintf("Mix saudável com %.1f%% de tráfego orgânico", organicShare),
			Description: fmt.Sprintf("Mídia paga responde por apenas %.1f%% das sessões.", paidShare),
			Metrics: domain.FindingMetrics{
				Current: organicShare,
				Unit:    "%",
			},
			Recommendations: []domain.Recommendation{
				rec("Manter o investimento em canais orgânicos", domain.LevelLow, domain.LevelLow),
			},
			Source:          domain.SourcePattern,
			FinancialImpact: impact.Placeholder(),
		})
	}

	blended := utils.Percent(conversions, sessions)
	aov := utils.SafeDivide(revenue, conversions)
	if blended <= 0 {
		return c.result()
	}

	for _, channel := range cube.Channels {
		if channel.Channel == "" || channel.Conversions < minConversions {
			continue
		}
		if channel.ConversionRate < blended*channelLiftMultiplier {
			continue
		}

		c.add(domain.CognitiveFinding{
			ID:       fmt.Sprintf("channel-%s-high-conversion", slug(channel.Channel)),
			Kind:     domain.KindHighConvertingChannel,
			Severity: domain.SeveritySuccess,
			Title:    fmt.Sprintf("Canal %s converte acima da média", channel.Channel),
			Description: fmt.Sprintf("Taxa de conversão de %.2f%% contra %.2f%% na média dos canais.",
				channel.ConversionRate, blended),
			Metrics: domain.FindingMetrics{
				Current:    channel.ConversionRate,
				Unit:       "%",
				EntityName: channel.Channel,
			},
			Recommendations: []domain.Recommendation{
				rec(fmt.Sprintf("Direcionar mais tráfego para %s", channel.Channel), domain.LevelMedium, domain.LevelMedium),
			},
			Source:          domain.SourcePattern,
			FinancialImpact: impact.ChannelShift(sessions, channel.ConversionRate, blended, aov),
		})
	}

	return c.result()
}
