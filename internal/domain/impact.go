package domain

import (
	"fmt"

	"github.com/vfg2006/cognitive-engine/pkg/utils"
)

type Timeframe string

const (
	TimeframeImmediate Timeframe = "immediate"
	TimeframeShort     Timeframe = "short"
	TimeframeMedium    Timeframe = "medium"
)

type FinancialImpact struct {
	EstimatedRevenueGain float64   `json:"estimatedRevenueGain"`
	EstimatedCostSaving  float64   `json:"estimatedCostSaving"`
	NetImpact            float64   `json:"netImpact"`
	Confidence           float64   `json:"confidence"`
	Timeframe            Timeframe `json:"timeframe"`
	Calculation          string    `json:"calculation"`
}

// NewFinancialImpact arredonda ganho e economia e deriva o impacto líquido da soma deles
func NewFinancialImpact(gain, saving, confidence float64, timeframe Timeframe, calculation string) FinancialImpact {
	gain = utils.RoundWithTwoDecimalPlace(gain)
	saving = utils.RoundWithTwoDecimalPlace(saving)

	return FinancialImpact{
		EstimatedRevenueGain: gain,
		EstimatedCostSaving:  saving,
		NetImpact:            gain + saving,
		Confidence:           utils.RoundWithTwoDecimalPlace(utils.Clamp(confidence, 0, 1)),
		Timeframe:            timeframe,
		Calculation:          calculation,
	}
}

func (i FinancialImpact) Validate() error {
	if i.NetImpact != i.EstimatedRevenueGain+i.EstimatedCostSaving {
		return fmt.Errorf("impacto líquido %.2f difere de ganho %.2f + economia %.2f",
			i.NetImpact, i.EstimatedRevenueGain, i.EstimatedCostSaving)
	}

	if i.Confidence < 0 || i.Confidence > 1 {
		return fmt.Errorf("confiança fora do intervalo: %.2f", i.Confidence)
	}

	switch i.Timeframe {
	case TimeframeImmediate, TimeframeShort, TimeframeMedium:
	default:
		return fmt.Errorf("horizonte inválido: %q", i.Timeframe)
	}

	return nil
}
