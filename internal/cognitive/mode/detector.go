// Package mode classifica a saúde geral da conta em um modo estratégico.
package mode

import (
	"fmt"

	"github.com/vfg2006/cognitive-engine/internal/cognitive/impact"
	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/pkg/utils"
)

const (
	weightROAS   = 0.25
	weightPacing = 0.25
	weightCPA    = 0.15
	weightMargin = 0.12
	weightStatus = 0.10
	weightTrend  = 0.13

	scaleThreshold    = 75.0
	optimizeThreshold = 50.0
	protectThreshold  = 25.0

	neutralScore      = 50.0
	minimumConfidence = 0.3
)

var statusScores = map[domain.SkuStatus]float64{
	domain.SkuStatusScale: 100,
	domain.SkuStatusKeep:  60,
	domain.SkuStatusPause: 0,
}

var trendScores = map[domain.TrendClassification]float64{
	domain.TrendImproving: 85,
	domain.TrendStable:    55,
	domain.TrendDeclining: 20,
}

var descriptions = map[domain.StrategicMode]string{
	domain.ModeScale:       "Conta saudável e acima do plano: momento de ampliar investimento nos vetores que já performam.",
	domain.ModeOptimize:    "Conta estável com ineficiências pontuais: priorizar ajustes de alocação antes de crescer.",
	domain.ModeProtect:     "Indicadores pressionados: proteger margem e cortar desperdícios antes de novos testes.",
	domain.ModeRestructure: "Desempenho crítico: revisar estrutura de campanhas, mix de produtos e metas.",
}

// ModeForScore aplica as faixas fixas, todas inclusivas no limite inferior
func ModeForScore(score float64) domain.StrategicMode {
	switch {
	case score >= scaleThreshold:
		return domain.ModeScale
	case score >= optimizeThreshold:
		return domain.ModeOptimize
	case score >= protectThreshold:
		return domain.ModeProtect
	}
	return domain.ModeRestructure
}

func Detect(cube *domain.DataCube) domain.ModeAssessment {
	signals := collectSignals(cube)
	if len(signals) == 0 {
		return domain.ModeAssessment{
			Mode:        domain.ModeOptimize,
			Score:       neutralScore,
			Confidence:  minimumConfidence,
			Signals:     []string{"Dados insuficientes para avaliar a conta"},
			Description: descriptions[domain.ModeOptimize],
		}
	}

	var weighted, weights float64
	details := make([]string, 0, len(signals))
	for _, s := range signals {
		weighted += s.Score * s.Weight
		weights += s.Weight
		details = append(details, s.Detail)
	}

	rawScore := utils.SafeDivide(weighted, weights)
	mode := ModeForScore(rawScore)

	return domain.ModeAssessment{
		Mode:        mode,
		Score:       utils.RoundWithTwoDecimalPlace(rawScore),
		Confidence:  utils.RoundWithTwoDecimalPlace(minimumConfidence + 0.7*weights),
		Signals:     details,
		Components:  signals,
		Description: descriptions[mode],
	}
}

func signal(name string, score, weight float64, detail string) domain.ModeSignal {
	return domain.ModeSignal{
		Name:   name,
		Score:  utils.RoundWithTwoDecimalPlace(utils.Clamp(score, 0, 100)),
		Weight: weight,
		Detail: detail,
	}
}

func collectSignals(cube *domain.DataCube) []domain.ModeSignal {
	var signals []domain.ModeSignal
	account := cube.Account

	if account != nil && account.Spend > 0 {
		if target, ok := cube.Planning.Target(domain.PlanROAS); ok {
			signals = append(signals, signal("roas", account.ROAS/target*75, weightROAS,
				fmt.Sprintf("ROAS %.2f contra meta %.2f", account.ROAS, target)))
		} else {
			signals = append(signals, signal("roas", account.ROAS*10, weightROAS,
				fmt.Sprintf("ROAS %.2f sem meta definida", account.ROAS)))
		}
	}

	if target, ok := cube.Planning.Target(domain.PlanRevenue); ok {
		if revenue, ok := revenueOf(cube); ok {
			projection := impact.Project(revenue, cube.Meta.DayOfMonth, cube.Meta.DaysInMonth)
			signals = append(signals, signal("pacing", projection/target*75, weightPacing,
				fmt.Sprintf("Receita projetada em %.0f%% da meta", utils.Percent(projection, target))))
		}
	}

	if target, ok := cube.Planning.Target(domain.PlanCPA); ok && account != nil && account.Conversions > 0 && account.CPA > 0 {
		signals = append(signals, signal("cpa", target/account.CPA*75, weightCPA,
			fmt.Sprintf("CPA %.2f contra meta %.2f", account.CPA, target)))
	}

	var profit, costRevenue float64
	var statusSum float64
	var tagged int
	for _, sku := range cube.Skus {
		if sku.HasCostData {
			profit += sku.GrossProfit
			costRevenue += sku.Revenue
		}
		if score, ok := statusScores[sku.Status]; ok {
			statusSum += score
			tagged++
		}
	}

	if costRevenue > 0 {
		margin := utils.Percent(profit, costRevenue)
		signals = append(signals, signal("margin", margin*2, weightMargin,
			fmt.Sprintf("Margem bruta de %.1f%%", margin)))
	}

	if tagged > 0 {
		signals = append(signals, signal("status_mix", statusSum/float64(tagged), weightStatus,
			fmt.Sprintf("%d SKUs com status definido", tagged)))
	}

	if cube.Trends != nil && cube.Trends.Account != nil {
		classification := cube.Trends.Account.Classification
		signals = append(signals, signal("trend", trendScores[classification], weightTrend,
			fmt.Sprintf("Tendência de receita %s", classification)))
	}

	return signals
}

func revenueOf(cube *domain.DataCube) (float64, bool) {
	if cube.Account != nil {
		return cube.Account.Revenue, true
	}
	if cube.GA4 != nil {
		return cube.GA4.Revenue, true
	}
	return 0, false
}
