// Package impact reúne as fórmulas de estimativa financeira compartilhadas pelos analisadores.
// Toda saída passa por domain.NewFinancialImpact, que arredonda em duas casas e deriva o impacto líquido.
package impact

import (
	"fmt"
	"math"

	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/pkg/utils"
)

const (
	reallocationDiscount    = 0.6
	underinvestmentDiscount = 0.5
	concentrationShock      = 0.3
	placeholderConfidence   = 0.3
	scaleDiscount           = 0.7
	gapRecoveryShare        = 0.5
	cartRecoveryRate        = 0.1
	channelShiftRate        = 0.1
)

// pacingConfidence cresce de 0.4 a 0.9 conforme o mês avança
func pacingConfidence(day, days int) float64 {
	return 0.4 + 0.5*utils.SafeDivide(float64(day), float64(days))
}

// Project projeta o valor de fim de mês pela taxa diária atual
func Project(actual float64, day, days int) float64 {
	daily := utils.SafeDivide(actual, float64(day))
	remaining := math.Max(float64(days-day), 0)
	return actual + daily*remaining
}

func RevenueGap(actual, target float64, day, days int) domain.FinancialImpact {
	projection := Project(actual, day, days)
	gain := math.Max(target-projection, 0)

	return domain.NewFinancialImpact(gain, 0, pacingConfidence(day, days), domain.TimeframeShort,
		fmt.Sprintf("max(meta %.2f - projeção %.2f, 0)", target, projection))
}

func WastedSpend(spend float64) domain.FinancialImpact {
	return domain.NewFinancialImpact(0, spend, 0.9, domain.TimeframeImmediate,
		fmt.Sprintf("investimento sem retorno = %.2f", spend))
}

func BudgetReallocation(amount, sourceROAS, destinationROAS float64) domain.FinancialImpact {
	gain := math.Max(amount*(destinationROAS-sourceROAS)*reallocationDiscount, 0)

	return domain.NewFinancialImpact(gain, 0, 0.6, domain.TimeframeShort,
		fmt.Sprintf("%.2f × (%.2f - %.2f) × %.1f", amount, destinationROAS, sourceROAS, reallocationDiscount))
}

func Underinvestment(avgSpend, currentSpend, roas float64) domain.FinancialImpact {
	increase := math.Max(math.Min(avgSpend-currentSpend, currentSpend*2), 0)
	gain := increase * roas * underinvestmentDiscount

	return domain.NewFinancialImpact(gain, 0, 0.6, domain.TimeframeShort,
		fmt.Sprintf("min(%.2f - %.2f, %.2f × 2) × ROAS %.2f × %.1f", avgSpend, currentSpend, currentSpend, roas, underinvestmentDiscount))
}

// ConcentrationRisk estima a perda caso a entidade concentrada caia 30%
func ConcentrationRisk(revenue float64) domain.FinancialImpact {
	return domain.NewFinancialImpact(revenue*concentrationShock, 0, 0.5, domain.TimeframeMedium,
		fmt.Sprintf("%.2f × %.1f", revenue, concentrationShock))
}

func Placeholder() domain.FinancialImpact {
	return domain.NewFinancialImpact(0, 0, placeholderConfidence, domain.TimeframeMedium, "impacto não quantificável")
}

func SpendReduction(spend, rate float64) domain.FinancialImpact {
	return domain.NewFinancialImpact(0, spend*rate, 0.7, domain.TimeframeImmediate,
		fmt.Sprintf("%.2f × %.0f%%", spend, rate*100))
}

func Overspend(actual, target float64, day, days int) domain.FinancialImpact {
	projection := Project(actual, day, days)
	saving := math.Max(projection-target, 0)

	return domain.NewFinancialImpact(0, saving, pacingConfidence(day, days), domain.TimeframeImmediate,
		fmt.Sprintf("max(projeção %.2f - meta %.2f, 0)", projection, target))
}

func RoasGap(spend, roas, target float64) domain.FinancialImpact {
	gain := math.Max(spend*(target-roas)*gapRecoveryShare, 0)

	return domain.NewFinancialImpact(gain, 0, 0.5, domain.TimeframeShort,
		fmt.Sprintf("%.2f × (%.2f - %.2f) × %.1f", spend, target, roas, gapRecoveryShare))
}

func CpaGap(conversions, cpa, target float64) domain.FinancialImpact {
	saving := math.Max(conversions*(cpa-target)*gapRecoveryShare, 0)

	return domain.NewFinancialImpact(0, saving, 0.5, domain.TimeframeShort,
		fmt.Sprintf("%.0f × (%.2f - %.2f) × %.1f", conversions, cpa, target, gapRecoveryShare))
}

func ScaleOpportunity(spend, roas, increase float64) domain.FinancialImpact {
	gain := math.Max(spend*increase*roas*scaleDiscount, 0)

	return domain.NewFinancialImpact(gain, 0, 0.6, domain.TimeframeShort,
		fmt.Sprintf("%.2f × %.0f%% × ROAS %.2f × %.1f", spend, increase*100, roas, scaleDiscount))
}

func BounceRecovery(sessions, bounceRate, threshold, conversionRate, aov float64) domain.FinancialImpact {
	recovered := sessions * math.Max(bounceRate-threshold, 0) / 100
	gain := recovered * conversionRate / 100 * aov * gapRecoveryShare

	return domain.NewFinancialImpact(gain, 0, 0.4, domain.TimeframeShort,
		fmt.Sprintf("%.0f sessões recuperáveis × %.2f%% × %.2f × %.1f", recovered, conversionRate, aov, gapRecoveryShare))
}

func CartRecovery(addToCarts, abandonmentRate, aov float64) domain.FinancialImpact {
	abandoned := addToCarts * abandonmentRate / 100
	gain := abandoned * cartRecoveryRate * aov

	return domain.NewFinancialImpact(gain, 0, 0.5, domain.TimeframeShort,
		fmt.Sprintf("%.0f carrinhos × %.0f%% × %.2f", abandoned, cartRecoveryRate*100, aov))
}

func ChannelShift(sessions, channelRate, blendedRate, aov float64) domain.FinancialImpact {
	gain := math.Max(sessions*channelShiftRate*(channelRate-blendedRate)/100*aov*gapRecoveryShare, 0)

	return domain.NewFinancialImpact(gain, 0, 0.5, domain.TimeframeMedium,
		fmt.Sprintf("%.0f × %.0f%% × (%.2f%% - %.2f%%) × %.2f × %.1f", sessions, channelShiftRate*100, channelRate, blendedRate, aov, gapRecoveryShare))
}

// TrendRecovery estima a receita recuperável de uma semana de queda
func TrendRecovery(value, slopePct float64) domain.FinancialImpact {
	weekly := math.Min(math.Abs(slopePct)*7/100, 1)
	gain := value * weekly * gapRecoveryShare

	return domain.NewFinancialImpact(gain, 0, 0.4, domain.TimeframeShort,
		fmt.Sprintf("%.2f × min(|%.2f%%| × 7, 100%%) × %.1f", value, slopePct, gapRecoveryShare))
}

func TicketGap(orders, aov, target float64) domain.FinancialImpact {
	gain := math.Max(orders*(target-aov)*gapRecoveryShare, 0)

	return domain.NewFinancialImpact(gain, 0, 0.5, domain.TimeframeShort,
		fmt.Sprintf("%.0f pedidos × (%.2f - %.2f) × %.1f", orders, target, aov, gapRecoveryShare))
}
