package decision

import (
	"github.com/vfg2006/cognitive-engine/internal/cognitive/impact"
	"github.com/vfg2006/cognitive-engine/internal/domain"
	"github.com/vfg2006/cognitive-engine/pkg/utils"
)

const atRiskGapRatio = 0.15

var pacedMetrics = []domain.PlanMetric{
	domain.PlanRevenue,
	domain.PlanInvestment,
	domain.PlanOrders,
	domain.PlanSessions,
}

// Project projeta para o fim do mês cada meta acumulada que tenha valor atual e alvo
func Project(cube *domain.DataCube) []domain.PacingProjection {
	meta := cube.Meta
	confidence := utils.RoundWithTwoDecimalPlace(0.4 + 0.5*meta.Progress())

	var out []domain.PacingProjection
	for _, metric := range pacedMetrics {
		target, ok := cube.Planning.Target(metric)
		if !ok {
			continue
		}
		current, ok := currentValue(cube, metric)
		if !ok {
			continue
		}

		projected := impact.Project(current, meta.DayOfMonth, meta.DaysInMonth)
		gap := target - projected

		required := 0.0
		if remaining := meta.DaysRemaining(); remaining > 0 {
			required = utils.SafeDivide(target-current, float64(remaining))
		}

		out = append(out, domain.PacingProjection{
			Metric:            metric,
			Label:             metric.Label(),
			Current:           utils.RoundWithTwoDecimalPlace(current),
			Target:            utils.RoundWithTwoDecimalPlace(target),
			DailyRate:         utils.RoundWithTwoDecimalPlace(utils.SafeDivide(current, float64(meta.DayOfMonth))),
			Projected:         utils.RoundWithTwoDecimalPlace(projected),
			Gap:               utils.RoundWithTwoDecimalPlace(gap),
			GapPct:            utils.RoundWithTwoDecimalPlace(utils.Percent(gap, target)),
			RequiredDailyRate: utils.RoundWithTwoDecimalPlace(required),
			Status:            status(gap, target),
			Confidence:        confidence,
		})
	}

	return out
}

func status(gap, target float64) domain.PacingStatus {
	switch {
	case gap <= 0:
		return domain.PacingOnTrack
	case gap <= target*atRiskGapRatio:
		return domain.PacingAtRisk
	}
	return domain.PacingOffTrack
}

func currentValue(cube *domain.DataCube, metric domain.PlanMetric) (float64, bool) {
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
	}

	return 0, false
}
